package pipeline

import (
	"fmt"
	"reflect"

	"github.com/kbukum/onionkit/errors"
	"github.com/kbukum/onionkit/future"
)

// Next is the single-use continuation handed to a stage. It reifies "run
// everything after me": invoking it with a nil error executes the
// remaining stages and the terminal handler in the calling goroutine and
// returns a future settled with the remainder's outcome. Invoking it with
// a non-nil error skips the remainder, fails the run with that error, and
// returns a future already rejected with it.
//
// A continuation may be invoked at most once per run; later invocations
// do not re-run the remainder and return a future rejected with a
// CONTINUATION_REUSED error.
type Next func(err error) *future.Future

// Stage is the canonical stage shape: (request context, response context,
// continuation). Both contexts are opaque, externally supplied values the
// engine passes through unchanged.
//
// Returning nil marks the stage callback-style; returning a future marks
// it awaiting-style. See the package documentation for the two styles.
type Stage func(req, res any, next Next) *future.Future

// Handler is the terminal function wrapped by a pipeline. It runs at most
// once per run, only if every stage lets the chain proceed.
type Handler func(req, res any) error

// Runner starts exactly one pipeline run per call and returns its settled
// outcome. Runs are fully independent; a Runner is safe for concurrent use.
type Runner func(req, res any) error

// IsStage reports whether v satisfies the stage contract.
func IsStage(v any) bool {
	return AssertStage(v) == nil
}

// AssertStage validates v against the stage contract, returning an
// "invalid stage" error describing the mismatch. Accepted shapes:
//
//	func(req, res any, next Next) *future.Future
//	func(req, res any, next Next)
//
// The second shape is callback-style only and is normalized during
// composition.
func AssertStage(v any) error {
	_, err := asStage(v)
	return err
}

// asStage normalizes an accepted value into the canonical Stage shape.
func asStage(v any) (Stage, error) {
	switch fn := v.(type) {
	case Stage:
		if fn == nil {
			return nil, errors.InvalidStageValue("stage function is nil")
		}
		return fn, nil
	case func(req, res any, next Next) *future.Future:
		if fn == nil {
			return nil, errors.InvalidStageValue("stage function is nil")
		}
		return Stage(fn), nil
	case func(req, res any, next Next):
		if fn == nil {
			return nil, errors.InvalidStageValue("stage function is nil")
		}
		return func(req, res any, next Next) *future.Future {
			fn(req, res, next)
			return nil
		}, nil
	}
	return nil, errors.InvalidStageValue(describeStageMismatch(v))
}

// describeStageMismatch explains why v fails the contract, using
// reflection only to produce a useful message.
func describeStageMismatch(v any) string {
	if v == nil {
		return "stage is nil"
	}
	t := reflect.TypeOf(v)
	if t.Kind() != reflect.Func {
		return fmt.Sprintf("stage must be a function, got %s", t.String())
	}
	if t.NumIn() != 3 {
		return fmt.Sprintf("stage must take exactly 3 parameters (req, res, next), got %d", t.NumIn())
	}
	return fmt.Sprintf("stage has unsupported signature %s", t.String())
}
