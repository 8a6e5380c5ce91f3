package conn

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeptools/pgq/command"
)

// ErrTxDone is returned when committing or rolling back a finished transaction.
var ErrTxDone = errors.New("conn: transaction already finished")

// Tx is a manually controlled transaction. Close rolls back unless Commit
// was called, so `defer tx.Close(ctx)` gives rollback-on-error for free.
type Tx struct {
	conn *Conn
	done bool
}

// Begin opens a transaction on this session. Statements executed on the
// Conn until Commit or Rollback run inside it.
func (c *Conn) Begin(ctx context.Context) (*Tx, error) {
	if err := c.ExecRaw(ctx, "BEGIN"); err != nil {
		return nil, err
	}
	return &Tx{conn: c}, nil
}

func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	return t.conn.ExecRaw(ctx, "COMMIT")
}

func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	return t.conn.ExecRaw(ctx, "ROLLBACK")
}

// Close rolls the transaction back if it has not been committed. Safe to
// call after Commit or Rollback.
func (t *Tx) Close(ctx context.Context) error {
	if t.done {
		return nil
	}
	return t.Rollback(ctx)
}

// Transact runs the given items inside a single transaction: all succeed or
// none take effect. Accepted item types: string (raw SQL), *command.Command,
// *command.PreparedCommand and command.PrepareData.
func (c *Conn) Transact(ctx context.Context, items ...any) error {
	tx, err := c.Begin(ctx)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := c.runItem(ctx, item); err != nil {
			_ = tx.Close(ctx)
			return err
		}
	}
	return tx.Commit(ctx)
}

func (c *Conn) runItem(ctx context.Context, item any) error {
	switch v := item.(type) {
	case string:
		return c.ExecRaw(ctx, v)
	case *command.Command:
		_, err := c.Exec(ctx, v)
		return err
	case *command.PreparedCommand:
		_, err := c.ExecPrepared(ctx, v)
		return err
	case command.PrepareData:
		return c.Prepare(ctx, v)
	default:
		return fmt.Errorf("conn: unsupported transact item type %T", item)
	}
}
