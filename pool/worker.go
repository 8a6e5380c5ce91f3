package pool

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/zeptools/pgq/result"
)

// worker pairs one goroutine with one connection and serves jobs to it.
// While parked it is owned by the channel's idle registry; while running a
// job it owns itself; retired it is gone from the books.
type worker[C Conn] struct {
	id   string
	ch   *channel[C]
	conn C

	// slot is the handoff point while parked: a job, or nil to stop.
	slot chan *job[C]
}

func newWorker[C Conn](ch *channel[C]) *worker[C] {
	return &worker[C]{
		id:   uuid.NewString(),
		ch:   ch,
		slot: make(chan *job[C], 1),
	}
}

// run is the worker goroutine. first is the job whose submission caused the
// spawn; it is served before anything else.
func (w *worker[C]) run(first *job[C]) {
	defer w.ch.wg.Done()

	conn, err := w.ch.ctx.connect(context.Background())
	if err != nil {
		log.Printf("[WARN] pool: worker %s: connect failed: %v", w.id, err)
		first.fut.fulfill(nil, fmt.Errorf("pool: connect: %w", err))
		w.ch.ctx.metrics.failed()
		w.ch.release(w)
		return
	}
	w.conn = conn

	j := first
	for {
		w.execute(j)
		if !w.conn.OK() {
			if err := w.conn.Reset(context.Background()); err != nil {
				log.Printf("[WARN] pool: worker %s: reset failed, retiring: %v", w.id, err)
				break
			}
		}
		var ok bool
		j, ok = w.ch.acquire(w)
		if !ok {
			break
		}
	}

	w.ch.release(w)
	if err := w.conn.Close(context.Background()); err != nil {
		log.Printf("[WARN] pool: worker %s: close: %v", w.id, err)
	}
}

func (w *worker[C]) execute(j *job[C]) {
	w.ch.ctx.metrics.active(1)
	res, err := w.runJob(j)
	j.fut.fulfill(res, err)
	if err != nil {
		w.ch.ctx.metrics.failed()
	} else {
		w.ch.ctx.metrics.completed()
	}
	w.ch.ctx.metrics.active(-1)
}

// runJob keeps a panicking job from taking the worker down; the panic
// becomes the job's error.
func (w *worker[C]) runJob(j *job[C]) (res *result.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pool: job panic: %v", r)
		}
	}()
	return j.fn(w.conn)
}
