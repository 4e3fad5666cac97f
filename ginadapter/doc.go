// Package ginadapter bridges onionkit pipelines and Gin HTTP handlers.
//
// Wrap turns a composed pipeline runner into a gin.HandlerFunc; the run's
// request and response contexts carry the Gin context and the payload the
// handler wants to send. Failed runs are rendered as RFC 7807 style JSON
// using the AppError's HTTP status.
//
//	chain := pipeline.MustCompose(
//	    ginadapter.RequestID(),
//	    ginadapter.AccessLog(log),
//	    ginadapter.Auth(ginadapter.AuthConfig{Secret: secret}),
//	)
//	router.POST("/checkout", ginadapter.Wrap(chain.Then(handleCheckout)))
package ginadapter
