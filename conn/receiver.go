package conn

import (
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zeptools/pgq/result"
)

// State of a Receiver. The happy path is Sent → Ready → Done; a statement
// error moves through Failed but still requires draining to Done.
type State int

const (
	// StateSent: the command is flushed to the server, nothing read yet.
	StateSent State = iota
	// StateReady: at least one unit has been received, more may follow.
	StateReady
	// StateFailed: an error unit was received; drain to Done is still required.
	StateFailed
	// StateDone: terminal. Further Receive calls are no-ops.
	StateDone
)

// Receiver collects the results of an asynchronous send, one unit per
// Receive call. Always finish with Close (or receive until IsDone) so the
// connection returns to a reusable state — Close drains whatever the server
// still has to say, which is what makes connection reuse across unrelated
// commands safe.
type Receiver struct {
	conn *Conn

	// exactly one of rr/mrr is set: rr for parameterized sends, mrr for raw
	// multi-statement sends.
	rr  *pgconn.ResultReader
	mrr *pgconn.MultiResultReader

	singleRow bool
	exhausted bool
	state     State
	err       error
}

// OK reports whether the receiver has observed no error so far.
func (r *Receiver) OK() bool {
	return r.err == nil
}

func (r *Receiver) Err() error {
	return r.err
}

func (r *Receiver) State() State {
	return r.state
}

// Busy reports whether a Receive call would block waiting on the server.
func (r *Receiver) Busy() bool {
	return r.state != StateDone && r.conn.pg != nil && r.conn.pg.IsBusy()
}

// Receive blocks until the next unit is available and advances the state
// machine one step. Past the terminal state it keeps returning the terminal
// unit without blocking.
func (r *Receiver) Receive() *result.Result {
	switch {
	case r.state == StateDone:
		return result.DoneWith(r.err)
	case r.mrr != nil:
		return r.receiveMulti()
	case r.singleRow:
		return r.receiveRow()
	default:
		return r.receiveSet()
	}
}

// receiveSet yields the whole result set in one unit, then the terminal unit.
func (r *Receiver) receiveSet() *result.Result {
	if r.exhausted {
		r.retire()
		return result.DoneWith(r.err)
	}
	raw := r.rr.Read()
	r.exhausted = true
	if raw.Err != nil {
		r.err = raw.Err
		r.state = StateFailed
		return result.Failed(raw.Err)
	}
	r.state = StateReady
	return result.New(r.conn.types, raw.FieldDescriptions, raw.Rows, raw.CommandTag)
}

// receiveRow yields one row per unit, then an empty boundary unit carrying
// the command tag, then the terminal unit. The boundary can look identical
// to an empty result set, which is why callers must check IsDone and not
// just emptiness.
func (r *Receiver) receiveRow() *result.Result {
	if r.exhausted {
		r.retire()
		return result.DoneWith(r.err)
	}
	if r.rr.NextRow() {
		fields := make([]pgconn.FieldDescription, len(r.rr.FieldDescriptions()))
		copy(fields, r.rr.FieldDescriptions())
		src := r.rr.Values()
		row := make([][]byte, len(src))
		for i := range src {
			if src[i] != nil {
				row[i] = make([]byte, len(src[i]))
				copy(row[i], src[i])
			}
		}
		r.state = StateReady
		return result.New(r.conn.types, fields, [][][]byte{row}, pgconn.CommandTag{})
	}
	tag, err := r.rr.Close()
	r.exhausted = true
	if err != nil {
		r.err = err
		r.state = StateFailed
		return result.Failed(err)
	}
	r.state = StateReady
	return result.New(r.conn.types, nil, nil, tag)
}

// receiveMulti yields one unit per statement of a raw send, then the
// terminal unit.
func (r *Receiver) receiveMulti() *result.Result {
	if r.mrr.NextResult() {
		raw := r.mrr.ResultReader().Read()
		if raw.Err != nil {
			r.err = raw.Err
			r.state = StateFailed
			return result.Failed(raw.Err)
		}
		r.state = StateReady
		return result.New(r.conn.types, raw.FieldDescriptions, raw.Rows, raw.CommandTag)
	}
	if err := r.mrr.Close(); err != nil && r.err == nil {
		r.err = err
		r.state = StateFailed
	}
	r.retire()
	return result.DoneWith(r.err)
}

// retire marks the terminal state and detaches from the connection so the
// next command is allowed.
func (r *Receiver) retire() {
	r.state = StateDone
	if r.conn.rcv == r {
		r.conn.rcv = nil
	}
}

// abandon is called by the connection when the session underneath is torn
// down: there is nothing left to drain from a dead session.
func (r *Receiver) abandon() {
	r.state = StateDone
}

// Close drains all remaining units so the connection is reusable. The block
// is bounded by the server finishing the command. Safe to call repeatedly
// and after the terminal state.
func (r *Receiver) Close() error {
	for r.state != StateDone {
		r.Receive()
	}
	return r.err
}
