package pool

import (
	"context"
	"sync"

	"github.com/zeptools/pgq/result"
)

// Future delivers the outcome of one submitted job. It is fulfilled exactly
// once, by the worker that ran the job or by the pool when the job is
// discarded during shutdown.
type Future struct {
	ch   chan struct{}
	once sync.Once
	res  *result.Result
	err  error
}

func newFuture() *Future {
	return &Future{ch: make(chan struct{})}
}

func (f *Future) fulfill(res *result.Result, err error) {
	f.once.Do(func() {
		f.res = res
		f.err = err
		close(f.ch)
	})
}

// Done is closed once the outcome is available. Useful in select loops.
func (f *Future) Done() <-chan struct{} {
	return f.ch
}

// Get blocks until the job's outcome is available or ctx is canceled.
// Cancellation abandons the wait, not the job: the job still runs and the
// outcome stays retrievable by a later Get.
func (f *Future) Get(ctx context.Context) (*result.Result, error) {
	select {
	case <-f.ch:
		return f.res, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
