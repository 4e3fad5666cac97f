// Package logger provides structured logging for onionkit built on zerolog.
//
// Loggers are cheap to derive: WithComponent, WithRun, and WithFields return
// enriched copies without touching the parent. The pipeline engine accepts a
// *Logger for debug-level run diagnostics; everything else in the library
// logs through the same type.
//
//	log := logger.NewDefault("gateway")
//	log.Info("pipeline composed", logger.Fields(
//	    logger.FieldPipeline, "api",
//	    "stages", 4,
//	))
package logger
