// Package future provides a controlled future: a value whose completion
// (success or failure) is driven by code outside the frame that created it.
//
// A Future starts pending. Any goroutine may settle it exactly once via
// Resolve or Reject; later settlement attempts are no-ops. Await may be
// called any number of times, from any goroutine, and always yields the
// same outcome.
//
//	f := future.New()
//	go func() {
//	    if err := work(); err != nil {
//	        f.Reject(err)
//	        return
//	    }
//	    f.Resolve()
//	}()
//	err := f.Await()
//
// The pipeline engine uses futures to let a stage pause until the rest of
// the chain has finished, with settlement triggered from outside the
// stage's own call frame.
package future
