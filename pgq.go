package pgq

import (
	"context"
	"time"

	"github.com/zeptools/pgq/command"
	"github.com/zeptools/pgq/conf"
	"github.com/zeptools/pgq/conn"
	"github.com/zeptools/pgq/pool"
	"github.com/zeptools/pgq/result"
)

// Client is a worker pool over real connections.
type Client = pool.Client[*conn.Conn]

// Job is one unit of pool work with exclusive use of a connection.
type Job = pool.Job[*conn.Conn]

// Context is the pool configuration bound to real connections.
type Context = pool.Context[*conn.Conn]

// New creates the pool client for a built Context.
func New(ctx *Context) *Client {
	return pool.NewClient(ctx)
}

// ContextBuilder assembles a Context: the connection parameters, the
// statements every fresh connection prepares, and the pool behavior knobs.
type ContextBuilder struct {
	cf      conf.Conf
	startup []command.PrepareData
	build   []func(*pool.ContextBuilder[*conn.Conn])
}

func NewContext() *ContextBuilder {
	return &ContextBuilder{}
}

// Config sets the connection parameters used by every worker.
func (b *ContextBuilder) Config(cf conf.Conf) *ContextBuilder {
	b.cf = cf
	return b
}

// Prepare adds a statement to prepare on every new connection, including
// connections re-established after a reset.
func (b *ContextBuilder) Prepare(pd command.PrepareData) *ContextBuilder {
	b.startup = append(b.startup, pd)
	return b
}

func (b *ContextBuilder) MaxConcurrency(n int) *ContextBuilder {
	b.build = append(b.build, func(pb *pool.ContextBuilder[*conn.Conn]) { pb.MaxConcurrency(n) })
	return b
}

func (b *ContextBuilder) MaxQueueSize(n int) *ContextBuilder {
	b.build = append(b.build, func(pb *pool.ContextBuilder[*conn.Conn]) { pb.MaxQueueSize(n) })
	return b
}

func (b *ContextBuilder) IdleTimeout(d time.Duration) *ContextBuilder {
	b.build = append(b.build, func(pb *pool.ContextBuilder[*conn.Conn]) { pb.IdleTimeout(d) })
	return b
}

func (b *ContextBuilder) ShutdownPolicy(p pool.ShutdownPolicy) *ContextBuilder {
	b.build = append(b.build, func(pb *pool.ContextBuilder[*conn.Conn]) { pb.ShutdownPolicy(p) })
	return b
}

func (b *ContextBuilder) Metrics(m *pool.Metrics) *ContextBuilder {
	b.build = append(b.build, func(pb *pool.ContextBuilder[*conn.Conn]) { pb.Metrics(m) })
	return b
}

func (b *ContextBuilder) Build() *Context {
	cf := b.cf
	startup := make([]command.PrepareData, len(b.startup))
	copy(startup, b.startup)
	pb := pool.NewContext(func(ctx context.Context) (*conn.Conn, error) {
		return conn.Open(ctx, cf, startup...)
	})
	for _, apply := range b.build {
		apply(pb)
	}
	return pb.Build()
}

// Exec wraps a command into a Job running it synchronously on the worker's
// connection.
func Exec(cmd *command.Command) Job {
	return ExecCtx(context.Background(), cmd)
}

// ExecCtx is Exec with a caller-supplied context, so cancellation reaches the
// driver call even though the job runs on a pool goroutine.
func ExecCtx(ctx context.Context, cmd *command.Command) Job {
	return func(c *conn.Conn) (*result.Result, error) {
		return c.Exec(ctx, cmd)
	}
}

// ExecPrepared wraps a prepared command into a Job.
func ExecPrepared(cmd *command.PreparedCommand) Job {
	return ExecPreparedCtx(context.Background(), cmd)
}

// ExecPreparedCtx is ExecPrepared with a caller-supplied context.
func ExecPreparedCtx(ctx context.Context, cmd *command.PreparedCommand) Job {
	return func(c *conn.Conn) (*result.Result, error) {
		return c.ExecPrepared(ctx, cmd)
	}
}
