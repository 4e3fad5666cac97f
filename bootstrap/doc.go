// Package bootstrap orchestrates application lifecycle for onionkit services.
//
// It provides typed configuration loading, component registration, pipeline
// composition from definitions, and startup/shutdown hooks for rapid service
// initialization.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app.Stages.MustRegister("edge", ginadapter.RequestID(), ginadapter.AccessLog(app.Logger))
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App) error {
//	    checkout, err := a.Pipeline("checkout")
//	    if err != nil {
//	        return err
//	    }
//	    router.POST("/checkout", ginadapter.Wrap(checkout.Then(handleCheckout)))
//	    return nil
//	})
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// The bootstrap package handles configuration validation, component
// initialization in registration order, graceful shutdown on OS signals, and
// health aggregation.
package bootstrap
