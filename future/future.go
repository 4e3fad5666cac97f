package future

import "sync"

// Future is a single-settlement asynchronous outcome. The zero value is not
// usable; create instances with New, Resolved, or Rejected.
type Future struct {
	once sync.Once
	done chan struct{}
	err  error
}

// New creates a pending Future.
func New() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved creates a Future already settled as a success.
func Resolved() *Future {
	f := New()
	f.Resolve()
	return f
}

// Rejected creates a Future already settled with err. A nil err settles
// the future as a success.
func Rejected(err error) *Future {
	f := New()
	f.Reject(err)
	return f
}

// Resolve settles the future as a success. Only the first settlement takes
// effect; subsequent Resolve or Reject calls are no-ops.
func (f *Future) Resolve() {
	f.once.Do(func() {
		close(f.done)
	})
}

// Reject settles the future with err. Only the first settlement takes
// effect; subsequent Resolve or Reject calls are no-ops.
func (f *Future) Reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Await blocks until the future settles and returns its outcome.
// It may be called repeatedly and from multiple goroutines; every call
// observes the same outcome.
func (f *Future) Await() error {
	<-f.done
	return f.err
}

// Done returns a channel closed when the future settles. Useful for select
// loops that must not block.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the future has been resolved or rejected.
func (f *Future) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Err returns the settlement error: nil while pending or after a
// successful settlement, the rejection error otherwise.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}
