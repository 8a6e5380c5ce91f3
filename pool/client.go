package pool

import "sync"

// Client is the pool's public face. Submissions reuse a parked worker when
// one exists, spawn a new worker while below the concurrency limit, and
// queue otherwise. Safe for concurrent use by multiple producers.
type Client[C Conn] struct {
	ch        *channel[C]
	closeOnce sync.Once
}

func NewClient[C Conn](ctx *Context[C]) *Client[C] {
	return &Client[C]{ch: newChannel(ctx)}
}

// Submit schedules fn and returns the Future for its outcome. Fails fast
// with ErrQueueFull on a saturated bounded backlog and with ErrShuttingDown
// after Close; job-level failures are delivered through the Future instead.
func (c *Client[C]) Submit(fn Job[C]) (*Future, error) {
	j := &job[C]{fn: fn, fut: newFuture()}
	w, err := c.ch.admit(j)
	if err != nil {
		return nil, err
	}
	c.ch.ctx.metrics.submitted()
	if w != nil {
		go w.run(j)
	}
	return j.fut, nil
}

// Close shuts the pool down under the configured policy (see
// ShutdownPolicy). Idempotent; submissions after the first call fail with
// ErrShuttingDown.
func (c *Client[C]) Close() {
	c.closeOnce.Do(c.ch.shutdown)
}
