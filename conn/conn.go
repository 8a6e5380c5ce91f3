// Package conn wraps a single PostgreSQL session. A Conn executes commands
// synchronously, or splits execution into a send phase and a receive phase
// through a Receiver. The wire protocol itself is owned by the driver; Conn
// adds health reporting, reset-with-re-prepare, transaction helpers and the
// single-outstanding-receiver discipline the pool relies on.
package conn

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/zeptools/pgq/command"
	"github.com/zeptools/pgq/conf"
	"github.com/zeptools/pgq/result"
)

var (
	// ErrBusy is returned when a command is issued while a previous
	// asynchronous send has not been received to completion.
	ErrBusy = errors.New("conn: another command is still being received")

	ErrClosed = errors.New("conn: connection is closed")
)

// Conn owns one server session. It is not safe for concurrent use; the pool
// guarantees one goroutine at a time, standalone users must do the same.
type Conn struct {
	pg    *pgconn.PgConn
	cfg   *pgconn.Config
	types *pgtype.Map

	// startup statements are prepared on every fresh session, including the
	// one Reset establishes.
	startup []command.PrepareData

	rcv *Receiver
}

// Open establishes a session described by cf and prepares the startup
// statements on it.
func Open(ctx context.Context, cf conf.Conf, startup ...command.PrepareData) (*Conn, error) {
	cfg, err := pgconn.ParseConfig(cf.DSN())
	if err != nil {
		return nil, fmt.Errorf("conn: parse config: %w", err)
	}
	c := &Conn{cfg: cfg, types: pgtype.NewMap(), startup: startup}
	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Conn) connect(ctx context.Context) error {
	pg, err := pgconn.ConnectConfig(ctx, c.cfg)
	if err != nil {
		return fmt.Errorf("conn: connect: %w", err)
	}
	for _, pd := range c.startup {
		if _, err := pg.Prepare(ctx, pd.Name, pd.Statement, pd.ParamOIDs); err != nil {
			_ = pg.Close(ctx)
			return fmt.Errorf("conn: prepare %q: %w", pd.Name, err)
		}
	}
	c.pg = pg
	return nil
}

// OK reports whether the session is usable. Statement errors do not make a
// session unusable; losing the server connection does.
func (c *Conn) OK() bool {
	return c.pg != nil && !c.pg.IsClosed()
}

// Reset drops the current session and establishes a new one with the same
// parameters. Server-side state is gone afterwards: ad-hoc prepared
// statements must be prepared again, only the startup list is re-applied.
func (c *Conn) Reset(ctx context.Context) error {
	if c.rcv != nil {
		c.rcv.abandon()
		c.rcv = nil
	}
	if c.pg != nil {
		_ = c.pg.Close(ctx)
		c.pg = nil
	}
	return c.connect(ctx)
}

// Close terminates the session. The Conn cannot be reused afterwards other
// than through Reset.
func (c *Conn) Close(ctx context.Context) error {
	if c.pg == nil {
		return nil
	}
	if c.rcv != nil {
		c.rcv.abandon()
		c.rcv = nil
	}
	err := c.pg.Close(ctx)
	c.pg = nil
	return err
}

// TypeMap exposes the codec registry used for argument encoding and result
// decoding, so callers can register custom types.
func (c *Conn) TypeMap() *pgtype.Map {
	return c.types
}

func (c *Conn) ready() error {
	if c.pg == nil || c.pg.IsClosed() {
		return ErrClosed
	}
	if c.rcv != nil && c.rcv.state != StateDone {
		return ErrBusy
	}
	c.rcv = nil
	return nil
}

// Exec runs one parameterized statement and waits for the whole result set.
func (c *Conn) Exec(ctx context.Context, cmd *command.Command) (*result.Result, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	w, err := cmd.Encode(c.types)
	if err != nil {
		return nil, err
	}
	rr := c.pg.ExecParams(ctx, cmd.SQL(), w.Values, w.OIDs, w.Formats, nil)
	return c.collect(rr)
}

// ExecPrepared runs a statement previously prepared on this session.
func (c *Conn) ExecPrepared(ctx context.Context, cmd *command.PreparedCommand) (*result.Result, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	w, err := cmd.Encode(c.types)
	if err != nil {
		return nil, err
	}
	rr := c.pg.ExecPrepared(ctx, cmd.Name(), w.Values, w.Formats, nil)
	return c.collect(rr)
}

func (c *Conn) collect(rr *pgconn.ResultReader) (*result.Result, error) {
	raw := rr.Read()
	if raw.Err != nil {
		return nil, fmt.Errorf("conn: execute: %w", raw.Err)
	}
	return result.New(c.types, raw.FieldDescriptions, raw.Rows, raw.CommandTag), nil
}

// ExecRaw runs one or more semicolon-separated statements in a single round
// trip. No parameters can be bound and no data is read back; use it for
// migrations and session setup, not for queries.
func (c *Conn) ExecRaw(ctx context.Context, sql string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if _, err := c.pg.Exec(ctx, sql).ReadAll(); err != nil {
		return fmt.Errorf("conn: execute raw: %w", err)
	}
	return nil
}

// Prepare creates a server-side prepared statement for this session. It is
// lost when the session is reset.
func (c *Conn) Prepare(ctx context.Context, pd command.PrepareData) error {
	if err := c.ready(); err != nil {
		return err
	}
	if _, err := c.pg.Prepare(ctx, pd.Name, pd.Statement, pd.ParamOIDs); err != nil {
		return fmt.Errorf("conn: prepare %q: %w", pd.Name, err)
	}
	return nil
}

// Send issues cmd without waiting for its results. The returned Receiver
// collects them; at most one Receiver may be live per connection.
func (c *Conn) Send(ctx context.Context, cmd *command.Command) (*Receiver, error) {
	return c.send(ctx, cmd, false)
}

// Iter issues cmd in single-row mode: each Receive yields at most one row,
// letting arbitrarily large result sets stream without buffering.
func (c *Conn) Iter(ctx context.Context, cmd *command.Command) (*Receiver, error) {
	return c.send(ctx, cmd, true)
}

func (c *Conn) send(ctx context.Context, cmd *command.Command, singleRow bool) (*Receiver, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	w, err := cmd.Encode(c.types)
	if err != nil {
		return nil, err
	}
	rr := c.pg.ExecParams(ctx, cmd.SQL(), w.Values, w.OIDs, w.Formats, nil)
	r := &Receiver{conn: c, rr: rr, singleRow: singleRow, state: StateSent}
	c.rcv = r
	return r, nil
}

// SendPrepared is the asynchronous counterpart of ExecPrepared.
func (c *Conn) SendPrepared(ctx context.Context, cmd *command.PreparedCommand) (*Receiver, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	w, err := cmd.Encode(c.types)
	if err != nil {
		return nil, err
	}
	rr := c.pg.ExecPrepared(ctx, cmd.Name(), w.Values, w.Formats, nil)
	r := &Receiver{conn: c, rr: rr, state: StateSent}
	c.rcv = r
	return r, nil
}

// SendRaw is the asynchronous counterpart of ExecRaw. Each statement in sql
// produces one receive unit.
func (c *Conn) SendRaw(ctx context.Context, sql string) (*Receiver, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	mrr := c.pg.Exec(ctx, sql)
	r := &Receiver{conn: c, mrr: mrr, state: StateSent}
	c.rcv = r
	return r, nil
}
