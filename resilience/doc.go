// Package resilience guards pipeline runs against failing dependencies
// and overload.
//
//   - RetryFunc reattempts a failed run with exponential backoff
//   - CircuitBreaker cuts runs off while a dependency stays down
//   - Bulkhead caps how many runs are in flight at once
//   - RateLimiter caps how often runs may start
//
// Runner middlewares apply these patterns to a whole pipeline run:
//
//	run := chain.Then(handler)
//	run = resilience.Chain(run,
//	    resilience.WithTimeout("checkout", 5*time.Second),
//	    resilience.WithCircuitBreaker(cb),
//	    resilience.WithBulkhead(bh),
//	)
//	err := run(req, res)
//
// Failures surface as retryable AppErrors (RUN_TIMEOUT, CIRCUIT_OPEN,
// TOO_MANY_RUNS) so callers can distinguish them from stage failures.
package resilience
