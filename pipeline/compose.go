package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kbukum/onionkit/errors"
	"github.com/kbukum/onionkit/logger"
)

// Chain is an immutable, validated, ordered stage list. It carries no run
// state: every Runner invocation creates an independent run, so a single
// Chain may back unlimited concurrent runs.
type Chain struct {
	stages []Stage

	// Name tags runs in diagnostics and definitions. Optional.
	Name string
	// Log, when non-nil, emits debug-level run diagnostics (run id, stage
	// transitions). Failures are never logged here; they propagate to the
	// caller untouched.
	Log *logger.Logger
}

// Compose flattens heterogeneous input into one validated Chain. Accepted
// elements: Stage values, either accepted func shape (see AssertStage),
// []Stage, and nested []any. Composition is pure and fails fast: the first
// element failing the stage contract aborts with an "invalid stage" error
// naming its position.
func Compose(items ...any) (*Chain, error) {
	return compose(nil, items)
}

// MustCompose is Compose, panicking on composition errors. Intended for
// pipelines assembled from literals at program start.
func MustCompose(items ...any) *Chain {
	c, err := Compose(items...)
	if err != nil {
		panic(err)
	}
	return c
}

func compose(reg *Registry, items []any) (*Chain, error) {
	fl := &flattener{reg: reg}
	for _, item := range items {
		if err := fl.add(item); err != nil {
			return nil, err
		}
	}
	return &Chain{stages: fl.stages}, nil
}

// Len returns the number of stages in the chain.
func (c *Chain) Len() int {
	return len(c.stages)
}

// Append returns a new Chain with extra elements composed after the
// receiver's stages. The receiver is not modified.
func (c *Chain) Append(items ...any) (*Chain, error) {
	tail, err := Compose(items...)
	if err != nil {
		return nil, err
	}
	stages := make([]Stage, 0, len(c.stages)+len(tail.stages))
	stages = append(stages, c.stages...)
	stages = append(stages, tail.stages...)
	return &Chain{stages: stages, Name: c.Name, Log: c.Log}, nil
}

// Then terminates the chain with handler h and returns the Runner that
// starts one pipeline run per call. A nil handler is replaced with a
// no-op, letting stages alone produce the response.
func (c *Chain) Then(h Handler) Runner {
	if h == nil {
		h = func(req, res any) error { return nil }
	}
	return func(req, res any) error {
		r := &run{chain: c, handler: h, req: req, res: res}
		if c.Log != nil {
			r.log = c.Log.WithRun(c.Name, uuid.NewString())
			r.log.Debug("run start", logger.Fields("stages", len(c.stages)))
		}
		err := r.exec(0)
		if r.log != nil {
			if err != nil {
				r.log.Debug("run rejected", logger.ErrorFields("run", err))
			} else {
				r.log.Debug("run resolved")
			}
		}
		return err
	}
}

// flattener accumulates stages while tracking the flattened position for
// error reporting.
type flattener struct {
	reg    *Registry
	stages []Stage
}

func (f *flattener) add(v any) error {
	switch item := v.(type) {
	case []Stage:
		for _, st := range item {
			if err := f.add(st); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for _, it := range item {
			if err := f.add(it); err != nil {
				return err
			}
		}
		return nil
	case string:
		if f.reg == nil {
			return errors.InvalidStage(len(f.stages),
				fmt.Sprintf("label %q requires a registry-bound composer", item))
		}
		group, ok := f.reg.Get(item)
		if !ok {
			return errors.LabelNotAvailable(item)
		}
		f.stages = append(f.stages, group...)
		return nil
	}

	st, err := asStage(v)
	if err != nil {
		appErr, _ := errors.AsAppError(err)
		reason := "does not satisfy the stage contract"
		if appErr != nil {
			if r, ok := appErr.Details["reason"].(string); ok {
				reason = r
			}
		}
		return errors.InvalidStage(len(f.stages), reason)
	}
	f.stages = append(f.stages, st)
	return nil
}
