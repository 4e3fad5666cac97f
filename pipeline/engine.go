package pipeline

import (
	"sync"

	"github.com/kbukum/onionkit/errors"
	"github.com/kbukum/onionkit/future"
	"github.com/kbukum/onionkit/logger"
)

// stageStyle is the invocation convention of a stage, inferred at run time
// from the stage's own return value.
type stageStyle int

const (
	styleUnknown stageStyle = iota
	// styleCallback signals completion only through the continuation.
	styleCallback
	// styleAwaiting drives its own returned future to completion.
	styleAwaiting
)

func (s stageStyle) String() string {
	switch s {
	case styleCallback:
		return "callback"
	case styleAwaiting:
		return "awaiting"
	default:
		return "unknown"
	}
}

// runState tracks a single stage's progress through one run.
type runState int

const (
	// stateRunning: the stage's synchronous phase is executing.
	stateRunning runState = iota
	// stateAwaitingRemainder: the rest of the chain is executing.
	stateAwaitingRemainder
	// stateFinishing: the remainder settled, stage outcome still pending.
	stateFinishing
	// stateSettled: the stage's sub-run resolved or rejected, exactly once.
	stateSettled
)

// run owns one pipeline execution: the immutable chain, the terminal
// handler, the request/response contexts, and optional debug diagnostics.
// Nothing in a run is shared with any other run.
type run struct {
	chain   *Chain
	handler Handler
	req     any
	res     any
	log     *logger.Logger // nil disables diagnostics
}

// exec runs the chain from stage index i and blocks until that sub-run
// settles. Index len(stages) is the terminal handler.
func (r *run) exec(i int) error {
	if i >= len(r.chain.stages) {
		if r.log != nil {
			r.log.Debug("handler enter")
		}
		return r.handler(r.req, r.res)
	}
	s := &stageRun{run: r, index: i, done: future.New()}
	return s.invoke()
}

// stageRun is the per-stage state machine. One instance exists per stage
// per run, chained through run.exec; its done future is the sub-run's
// externally observable outcome.
type stageRun struct {
	run   *run
	index int

	mu               sync.Mutex
	state            runState
	style            stageStyle
	nextUsed         bool
	remainderStarted bool
	remainderDone    bool
	remainderErr     error
	stageDone        bool
	stageErr         error
	done             *future.Future
}

// invoke drives the stage to settlement:
//
//  1. Call the stage with the contexts and a fresh continuation.
//  2. Infer the style from the return value.
//  3. Callback-style sub-runs settle from the remainder outcome once the
//     continuation fires; awaiting-style sub-runs settle from the stage's
//     own future.
func (s *stageRun) invoke() error {
	if s.run.log != nil {
		s.run.log.Debug("stage enter", logger.Fields(logger.FieldStage, s.index))
	}

	out := s.run.chain.stages[s.index](s.run.req, s.run.res, s.next)

	s.mu.Lock()
	if out != nil {
		s.style = styleAwaiting
	} else {
		s.style = styleCallback
	}
	s.settleLocked()
	s.mu.Unlock()

	if out != nil {
		if out.Settled() {
			s.stageSettled(out.Err())
		} else {
			go func() {
				s.stageSettled(out.Await())
			}()
		}
	}

	return s.done.Await()
}

// next is the continuation closure handed to the stage. It may be invoked
// from any goroutine, at most once per run.
func (s *stageRun) next(err error) *future.Future {
	s.mu.Lock()
	if s.state == stateSettled {
		s.mu.Unlock()
		return future.Rejected(errors.RunSettled(s.index))
	}
	if s.nextUsed {
		s.mu.Unlock()
		return future.Rejected(errors.ContinuationReused(s.index))
	}
	s.nextUsed = true

	if err != nil {
		// Callback-signaled failure: the remainder is skipped, err becomes
		// its terminal outcome, and the stage observes the failure
		// synchronously through the rejected future.
		s.remainderDone = true
		s.remainderErr = err
		s.settleLocked()
		s.mu.Unlock()
		return future.Rejected(err)
	}

	s.remainderStarted = true
	s.state = stateAwaitingRemainder
	s.mu.Unlock()

	// The remainder future settles only once every later stage and the
	// handler have fully finished, so code awaiting it is true teardown.
	remainder := future.New()
	rerr := s.run.exec(s.index + 1)

	s.mu.Lock()
	if s.state == stateAwaitingRemainder {
		s.state = stateFinishing
	}
	s.remainderDone = true
	s.remainderErr = rerr
	s.settleLocked()
	s.mu.Unlock()

	if rerr != nil {
		remainder.Reject(rerr)
	} else {
		remainder.Resolve()
	}
	return remainder
}

// stageSettled records the outcome of an awaiting-style stage's own future.
func (s *stageRun) stageSettled(err error) {
	s.mu.Lock()
	s.stageDone = true
	s.stageErr = err
	s.settleLocked()
	s.mu.Unlock()
}

// settleLocked applies the settlement rules and is the only place the
// sub-run outcome is decided. Callers hold s.mu.
func (s *stageRun) settleLocked() {
	if s.state == stateSettled {
		return
	}
	switch s.style {
	case styleCallback:
		// Completion is detected purely through the continuation; the
		// sub-run inherits the remainder's outcome and deeper failures
		// pass through uncaught.
		if s.remainderDone {
			s.finishLocked(s.remainderErr)
		}
	case styleAwaiting:
		// The stage's own future decides the sub-run. Rejection before the
		// remainder started is a synchronous-phase failure (remainder
		// never runs); resolution before it started is a short-circuit
		// success; after resuming, the teardown outcome rules, including
		// a contained remainder failure.
		if s.stageDone {
			s.finishLocked(s.stageErr)
		}
	}
}

func (s *stageRun) finishLocked(err error) {
	s.state = stateSettled
	if s.run.log != nil {
		fields := logger.Fields(
			logger.FieldStage, s.index,
			logger.FieldStyle, s.style.String(),
		)
		if err != nil {
			fields = logger.MergeWithError(fields, err)
		}
		s.run.log.Debug("stage settled", fields)
	}
	if err != nil {
		s.done.Reject(err)
		return
	}
	s.done.Resolve()
}
