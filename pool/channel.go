package pool

import (
	"sync"
	"time"
)

// job pairs the caller's function with the Future that delivers its outcome.
// It is owned by the channel while queued, by one worker while running, and
// fulfilled exactly once.
type job[C Conn] struct {
	fn  Job[C]
	fut *Future
}

const (
	chanRunning = iota
	// chanDraining: no new submissions, workers still consume the backlog.
	chanDraining
	// chanClosed: no new submissions and no backlog consumption.
	chanClosed
)

// channel is the rendezvous between producers and workers. One mutex guards
// the FIFO backlog and the idle-worker registry; handoff to a parked worker
// happens through the worker's one-slot channel, so nobody spins.
//
// Two invariants keep the bookkeeping simple: the backlog is non-empty only
// while no worker is parked (producers hand off before they enqueue, workers
// drain the backlog before they park), and a parked worker's slot is always
// empty (it parks only after emptying it).
type channel[C Conn] struct {
	ctx *Context[C]

	mu      sync.Mutex
	backlog []*job[C]
	idle    []*worker[C]
	live    int
	state   int

	wg sync.WaitGroup
}

func newChannel[C Conn](ctx *Context[C]) *channel[C] {
	return &channel[C]{ctx: ctx}
}

// admit places j with a parked worker, reserves a slot for a new worker, or
// queues it. A non-nil spawn return means the caller must start that worker
// with j as its first job.
func (ch *channel[C]) admit(j *job[C]) (spawn *worker[C], err error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.state != chanRunning {
		return nil, ErrShuttingDown
	}
	if n := len(ch.idle); n > 0 {
		w := ch.idle[n-1]
		ch.idle = ch.idle[:n-1]
		ch.ctx.metrics.idle(-1)
		w.slot <- j // parked worker, slot empty: cannot block
		return nil, nil
	}
	if ch.live < ch.ctx.maxConcurrency {
		ch.live++
		ch.wg.Add(1)
		return newWorker(ch), nil
	}
	if ch.ctx.queueBounded && len(ch.backlog) >= ch.ctx.queueLimit {
		return nil, ErrQueueFull
	}
	ch.backlog = append(ch.backlog, j)
	ch.ctx.metrics.queued(len(ch.backlog))
	return nil, nil
}

// acquire returns the worker's next job. ok == false tells the worker to
// retire. Blocks until a job arrives, the idle timeout fires, or shutdown.
func (ch *channel[C]) acquire(w *worker[C]) (j *job[C], ok bool) {
	ch.mu.Lock()
	if len(ch.backlog) > 0 && ch.state != chanClosed {
		j = ch.backlog[0]
		ch.backlog = ch.backlog[1:]
		ch.ctx.metrics.queued(len(ch.backlog))
		ch.mu.Unlock()
		return j, true
	}
	if ch.state != chanRunning {
		ch.mu.Unlock()
		return nil, false
	}
	ch.idle = append(ch.idle, w)
	ch.ctx.metrics.idle(1)
	ch.mu.Unlock()

	if ch.ctx.idleTimeout <= 0 {
		j = <-w.slot
		return j, j != nil
	}

	timer := time.NewTimer(ch.ctx.idleTimeout)
	defer timer.Stop()
	select {
	case j = <-w.slot:
		return j, j != nil
	case <-timer.C:
		if ch.unpark(w) {
			// removed from the idle registry before any handoff: retire.
			return nil, false
		}
		// A handoff won the race against the timer; the job (or the stop
		// signal) is in the slot already or about to land there.
		j = <-w.slot
		return j, j != nil
	}
}

// unpark removes w from the idle registry. false means someone already took
// it out and owns the slot handoff.
func (ch *channel[C]) unpark(w *worker[C]) bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for i := range ch.idle {
		if ch.idle[i] == w {
			ch.idle = append(ch.idle[:i], ch.idle[i+1:]...)
			ch.ctx.metrics.idle(-1)
			return true
		}
	}
	return false
}

// release takes a retiring worker off the books. Its slot, if any, was
// already handled; a retiring worker is never in the idle registry.
//
// A retiring worker must not strand the backlog: if jobs are still queued and
// capacity remains, the head job seeds a replacement worker. The retiring
// worker's WaitGroup slot is still held at this point (its Done is deferred),
// so the replacement's Add can never race a Wait that already returned.
func (ch *channel[C]) release(w *worker[C]) {
	ch.mu.Lock()
	ch.live--
	if len(ch.backlog) == 0 || ch.state == chanClosed || ch.live >= ch.ctx.maxConcurrency {
		ch.mu.Unlock()
		return
	}
	j := ch.backlog[0]
	ch.backlog = ch.backlog[1:]
	ch.ctx.metrics.queued(len(ch.backlog))
	ch.live++
	ch.wg.Add(1)
	next := newWorker(ch)
	ch.mu.Unlock()

	go next.run(j)
}

// shutdown applies the configured policy. Graceful lets workers finish the
// backlog; Drop and Abort discard it, failing each queued Future. All but
// Abort join the workers before returning.
func (ch *channel[C]) shutdown() {
	ch.mu.Lock()
	if ch.ctx.policy == Graceful {
		ch.state = chanDraining
	} else {
		ch.state = chanClosed
		for _, j := range ch.backlog {
			j.fut.fulfill(nil, ErrShuttingDown)
			ch.ctx.metrics.failed()
		}
		ch.backlog = nil
		ch.ctx.metrics.queued(0)
	}
	parked := ch.idle
	ch.idle = nil
	ch.ctx.metrics.idle(float64(-len(parked)))
	ch.mu.Unlock()

	for _, w := range parked {
		w.slot <- nil // stop signal
	}
	if ch.ctx.policy != Abort {
		ch.wg.Wait()
	}

	// Backstop: a job enqueued in the window before the state flip can sit in
	// the backlog with every worker already gone. Fail it rather than leak it.
	ch.mu.Lock()
	leftover := ch.backlog
	ch.backlog = nil
	if len(leftover) > 0 {
		ch.ctx.metrics.queued(0)
	}
	ch.mu.Unlock()
	for _, j := range leftover {
		j.fut.fulfill(nil, ErrShuttingDown)
		ch.ctx.metrics.failed()
	}
}
