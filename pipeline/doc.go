// Package pipeline provides composable onion-model request pipelines.
//
// A pipeline is an ordered list of stages wrapped around a terminal
// handler. Each stage runs setup logic, hands control to the rest of the
// chain through its continuation, and may run teardown logic once the
// remainder (every later stage plus the handler) has fully finished.
// Setup runs in pipeline order, teardown unwinds in reverse, mirroring
// call-stack nesting.
//
// # Stage styles
//
// Two invocation conventions share one engine:
//
//   - Callback-style: the stage signals completion only by invoking its
//     continuation, optionally with an error, and returns nil. It has no
//     teardown phase and cannot observe failures of deeper stages.
//   - Awaiting-style: the stage returns a *future.Future that it drives to
//     completion itself, typically after awaiting the continuation's
//     remainder future. Code after the await is true teardown and may
//     recover failures produced deeper in the chain.
//
// The engine infers the style at run time from the stage's return value;
// stages never declare it.
//
//	loggingStage := func(req, res any, next pipeline.Next) *future.Future {
//	    start := time.Now()                 // setup
//	    err := next(nil).Await()            // run the rest of the chain
//	    log.Println("took", time.Since(start), "err:", err) // teardown
//	    if err != nil {
//	        return future.Rejected(err)
//	    }
//	    return future.Resolved()
//	}
//
//	chain := pipeline.MustCompose(loggingStage, authStage)
//	run := chain.Then(handler)
//	err := run(req, res) // one independent run per call
//
// # Composition
//
// Compose accepts stages, stage slices, and nested []any, flattening them
// in order and validating every element against the stage contract before
// any request is processed. A Registry adds named stages and groups
// resolvable by string label, and a Loader builds chains from YAML
// definitions.
//
// # Failure semantics
//
// Failures propagate strictly outward toward the run's caller. A stage
// that invokes next(err) skips the remainder and fails the run with err.
// An awaiting-style stage whose future rejects before it started the
// remainder aborts the run without ever starting later stages. After the
// remainder has run, the stage's own settlement decides the run: awaiting
// the remainder future inside stage-local error handling and resolving
// anyway contains the failure. The engine never retries, logs, or
// suppresses errors; optional debug diagnostics go through Chain.Log.
//
// A run is exclusively owned by its caller; the Chain itself is immutable
// after composition and may back unlimited concurrent runs.
package pipeline
