package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/onionkit/component"
	"github.com/kbukum/onionkit/logger"
	"github.com/kbukum/onionkit/observability"
	"github.com/kbukum/onionkit/pipeline"
	"github.com/kbukum/onionkit/version"
)

// App wires configuration, logging, observability components, and the
// pipeline stage registry into one lifecycle-managed application.
//
// Example:
//
//	app, err := bootstrap.NewApp(&myConfig)
//	app.Stages.MustRegister("edge", ginadapter.RequestID(), ginadapter.AccessLog(app.Logger))
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App) error {
//	    checkout, err := a.Pipeline("checkout")
//	    ...
//	})
//	app.Run(context.Background())
type App struct {
	Name       string
	Version    string
	Cfg        Config
	Components *component.Registry
	Stages     *pipeline.Registry
	Loader     pipeline.DefinitionLoader
	Logger     *logger.Logger
	Summary    *Summary

	metrics         *observability.Metrics
	gracefulTimeout time.Duration
	onConfigure     []func(ctx context.Context, app *App) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, initializes the logger, and
// registers tracer/meter components when the config enables them.
func NewApp(cfg Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	ver := base.Version
	if ver == "" {
		ver = version.GetShortVersion()
	}

	app := &App{
		Name:            base.Name,
		Version:         ver,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Stages:          pipeline.NewRegistry(),
		Loader:          pipeline.NewFileLoader(base.Pipelines.Dirs...),
		gracefulTimeout: 15 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.loader != nil {
		app.Loader = o.loader
	}

	// Logger: use custom if provided, otherwise init from config.
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		app.Logger = logger.New(&base.Logging, base.Name)
		logger.SetGlobalLogger(app.Logger)
	}

	if base.Tracing.Enabled {
		if err := app.Components.Register(tracerComponent(base)); err != nil {
			return nil, err
		}
	}
	if base.Metrics.Enabled {
		if err := app.Components.Register(meterComponent(base, app)); err != nil {
			return nil, err
		}
	}

	app.Summary = NewSummary(base.Name, ver)
	return app, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback to run during the configure phase.
// Use this to compose pipelines after infrastructure is started.
func (a *App) OnConfigure(fn func(ctx context.Context, app *App) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// Pipeline loads a named definition through the app's loader and composes
// it against the app's stage registry. In debug mode the chain carries the
// app logger for per-stage diagnostics.
func (a *App) Pipeline(name string) (*pipeline.Chain, error) {
	def, err := a.Loader.Load(name)
	if err != nil {
		return nil, err
	}
	chain, err := pipeline.Resolve(def, a.Stages, a.Loader)
	if err != nil {
		return nil, err
	}
	if a.Cfg.GetServiceConfig().Debug {
		chain.Log = a.Logger
	}
	a.Summary.TrackPipeline(def.Name, chain.Len())
	return chain, nil
}

// Runner composes the named pipeline against the terminal handler and
// wraps it with run-level tracing and metrics. Metric instruments attach
// once the meter component has started; before that the runner records
// spans only.
func (a *App) Runner(name string, h pipeline.Handler) (pipeline.Runner, error) {
	chain, err := a.Pipeline(name)
	if err != nil {
		return nil, err
	}
	return pipeline.Observe(name, a.metrics)(chain.Then(h)), nil
}

// Metrics returns the pipeline metric instruments, or nil when metrics are
// disabled or not started yet.
func (a *App) Metrics() *observability.Metrics {
	return a.metrics
}

// Health assembles the service readiness snapshot from the component
// registry, suitable for serving on a health endpoint.
func (a *App) Health(ctx context.Context) *observability.ServiceHealth {
	sh := observability.NewServiceHealth(a.Name, a.Version)
	for _, h := range a.Components.HealthAll(ctx) {
		sh.AddComponent(observability.Health{
			Name:    h.Name,
			Status:  healthStatus(h.Status),
			Message: h.Message,
		})
	}
	return sh
}

// healthStatus maps a component status onto the service snapshot scale.
func healthStatus(s component.HealthStatus) observability.HealthStatus {
	switch s {
	case component.StatusHealthy:
		return observability.HealthStatusUp
	case component.StatusDegraded:
		return observability.HealthStatusDegraded
	default:
		return observability.HealthStatusDown
	}
}

// ReadyCheck verifies that every registered component reports up.
func (a *App) ReadyCheck(ctx context.Context) error {
	sh := a.Health(ctx)
	if sh.Status == observability.HealthStatusUp {
		return nil
	}

	var unhealthy []string
	for _, h := range sh.Components {
		if h.Status != observability.HealthStatusUp {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	return fmt.Errorf("unhealthy components: %v", unhealthy)
}

// Run executes the full application lifecycle for long-running services:
// Initialize → OnStart hooks → Configure → ReadyCheck → OnReady hooks →
// Block on signal → OnStop hooks → Graceful Shutdown.
func (a *App) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask executes a finite task with the full bootstrap lifecycle.
// Unlike Run(), it does not block on shutdown signals; it runs the task
// function and gracefully shuts down when the task completes or the
// context is canceled.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}

	return taskErr
}

// startup performs the common initialization sequence shared by Run and RunTask.
func (a *App) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	// Phase 1: start all registered components
	if err := a.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	if err := runHooks(ctx, "start", a.onStart); err != nil {
		return err
	}

	// Phase 2: compose pipelines and business setup
	if err := a.configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := runHooks(ctx, "ready", a.onReady); err != nil {
		return err
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.DisplaySummary()

	return nil
}

// initialize starts all registered components (Phase 1).
func (a *App) initialize(ctx context.Context) error {
	a.Logger.Info("Phase 1: Starting components")

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}

	a.Logger.Info("Phase 1: All components started")
	return nil
}

// DisplaySummary prints the startup summary. It auto-collects component
// descriptions and health from the registry.
func (a *App) DisplaySummary() {
	a.Summary.DisplaySummary(a.Components, a.Logger)
}

// configure runs registered configuration callbacks (Phase 2).
func (a *App) configure(ctx context.Context) error {
	if len(a.onConfigure) == 0 {
		return nil
	}

	a.Logger.Info("Phase 2: Running configuration callbacks", map[string]interface{}{
		"count": len(a.onConfigure),
	})

	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}

	a.Logger.Info("Phase 2: Configuration complete")
	return nil
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App) Shutdown(ctx context.Context) error {
	return a.stop()
}

// stop gracefully shuts down all components within the graceful timeout.
func (a *App) stop() error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error

	if err := runHooks(ctx, "stop", a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", map[string]interface{}{
			"error": err.Error(),
		})
		shutdownErr = err
	}

	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", map[string]interface{}{
			"error": err.Error(),
		})
		shutdownErr = err
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
