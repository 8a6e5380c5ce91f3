// Package pool runs jobs against a bounded set of long-lived workers, each
// owning one database connection. Producers submit jobs and get a Future;
// workers pull jobs from a shared FIFO backlog, heal or retire broken
// connections, and retire themselves after a configurable idle period.
// The pool is generic over the connection type so the scheduling core stays
// independent of the driver underneath.
package pool

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/zeptools/pgq/result"
)

var (
	// ErrQueueFull is returned by Submit when the backlog limit is reached
	// and no worker slot is free. Submissions never block on a full queue.
	ErrQueueFull = errors.New("pool: job queue is full")

	// ErrShuttingDown fails submissions after Close, and the Futures of
	// backlog jobs discarded by the Drop policy.
	ErrShuttingDown = errors.New("pool: client is shutting down")
)

// Conn is the capability the pool needs from a connection. A job gets the
// concrete connection; the pool itself only checks health, resets and closes.
type Conn interface {
	OK() bool
	Reset(ctx context.Context) error
	Close(ctx context.Context) error
}

// Job is one unit of pool-dispatched work, executed with exclusive use of a
// worker's connection.
type Job[C Conn] func(C) (*result.Result, error)

// ShutdownPolicy controls what Close does with outstanding work.
type ShutdownPolicy int

const (
	// Graceful finishes the in-flight jobs and the whole backlog, then
	// joins every worker.
	Graceful ShutdownPolicy = iota
	// Drop finishes the in-flight jobs but fails the backlog with
	// ErrShuttingDown, then joins.
	Drop
	// Abort signals the workers and returns without joining. In-flight
	// work is abandoned with no completion guarantee.
	Abort
)

func (p ShutdownPolicy) String() string {
	switch p {
	case Graceful:
		return "graceful"
	case Drop:
		return "drop"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// Context is the immutable pool configuration, shared read-only by the
// client and every worker.
type Context[C Conn] struct {
	connect        func(context.Context) (C, error)
	maxConcurrency int
	queueLimit     int
	queueBounded   bool
	idleTimeout    time.Duration
	policy         ShutdownPolicy
	metrics        *Metrics
}

func (c *Context[C]) MaxConcurrency() int { return c.maxConcurrency }

func (c *Context[C]) IdleTimeout() time.Duration { return c.idleTimeout }

func (c *Context[C]) Policy() ShutdownPolicy { return c.policy }

// MaxQueueSize returns the backlog limit; ok is false when unbounded.
func (c *Context[C]) MaxQueueSize() (limit int, ok bool) {
	return c.queueLimit, c.queueBounded
}

// ContextBuilder assembles a Context. All options have defaults: concurrency
// tracks the hardware, the backlog is unbounded, idle retirement is off and
// shutdown is graceful.
type ContextBuilder[C Conn] struct {
	ctx Context[C]
}

// NewContext starts a builder around the connection factory every worker
// will use.
func NewContext[C Conn](connect func(context.Context) (C, error)) *ContextBuilder[C] {
	return &ContextBuilder[C]{ctx: Context[C]{
		connect:        connect,
		maxConcurrency: runtime.NumCPU(),
		policy:         Graceful,
	}}
}

func (b *ContextBuilder[C]) MaxConcurrency(n int) *ContextBuilder[C] {
	if n > 0 {
		b.ctx.maxConcurrency = n
	}
	return b
}

// MaxQueueSize bounds the backlog. Zero is a valid bound: no job may wait,
// only run immediately.
func (b *ContextBuilder[C]) MaxQueueSize(n int) *ContextBuilder[C] {
	if n >= 0 {
		b.ctx.queueLimit = n
		b.ctx.queueBounded = true
	}
	return b
}

// IdleTimeout makes workers retire (and close their connection) after this
// much inactivity, shrinking the pool back after a load spike.
func (b *ContextBuilder[C]) IdleTimeout(d time.Duration) *ContextBuilder[C] {
	b.ctx.idleTimeout = d
	return b
}

func (b *ContextBuilder[C]) ShutdownPolicy(p ShutdownPolicy) *ContextBuilder[C] {
	b.ctx.policy = p
	return b
}

// Metrics wires prometheus collectors into the pool. Nil (the default)
// disables instrumentation.
func (b *ContextBuilder[C]) Metrics(m *Metrics) *ContextBuilder[C] {
	b.ctx.metrics = m
	return b
}

// Build freezes the configuration.
func (b *ContextBuilder[C]) Build() *Context[C] {
	ctx := b.ctx
	return &ctx
}
