package pgq_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zeptools/pgq"
	"github.com/zeptools/pgq/command"
	"github.com/zeptools/pgq/conf"
	"github.com/zeptools/pgq/conn"
	"github.com/zeptools/pgq/pool"
)

func TestContextBuilderProducesContext(t *testing.T) {
	ctx := pgq.NewContext().
		Config(conf.Build().User("app").Dbname("app").Build()).
		Prepare(command.PrepareData{Name: "p", Statement: "SELECT $1::INT"}).
		MaxConcurrency(4).
		MaxQueueSize(64).
		IdleTimeout(time.Minute).
		ShutdownPolicy(pool.Drop).
		Build()
	require.NotNil(t, ctx)
}

// A malformed DSN fails inside the worker's connect, which must surface on
// the submitted job's Future instead of hanging or killing the pool.
func TestConnectFailureSurfacesOnFuture(t *testing.T) {
	client := pgq.New(pgq.NewContext().
		Config(conf.Raw("=not a dsn")).
		MaxConcurrency(1).
		Build())
	defer client.Close()

	fut, err := client.Submit(pgq.Exec(command.New("SELECT 1")))
	require.NoError(t, err)

	_, err = fut.Get(context.Background())
	require.ErrorContains(t, err, "connect")
}

// The wrappers delegate to the connection with the context they were given;
// a zero Conn rejects the call, which is enough to see the plumbing without
// a server.
func TestJobWrappersDelegateToConn(t *testing.T) {
	ctx := context.Background()

	_, err := pgq.Exec(command.New("SELECT 1"))(&conn.Conn{})
	require.ErrorIs(t, err, conn.ErrClosed)
	_, err = pgq.ExecCtx(ctx, command.New("SELECT 1"))(&conn.Conn{})
	require.ErrorIs(t, err, conn.ErrClosed)
	_, err = pgq.ExecPreparedCtx(ctx, command.NewPrepared("p"))(&conn.Conn{})
	require.ErrorIs(t, err, conn.ErrClosed)
}

func TestSubmitAfterCloseIsRejected(t *testing.T) {
	client := pgq.New(pgq.NewContext().Config(conf.Raw("=not a dsn")).Build())
	client.Close()

	_, err := client.Submit(pgq.Exec(command.New("SELECT 1")))
	require.ErrorIs(t, err, pool.ErrShuttingDown)
}
