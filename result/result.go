// Package result holds data received from the server, fully detached from
// the connection that produced it. A Result is one receive unit: a whole
// result set for synchronous execution, or a set, a single row, or a yield
// boundary for the asynchronous receiver. Field values decode through the
// driver's type map by column position or name.
package result

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// Result is one unit of received data.
//
// The flags follow the underlying protocol: a unit carrying data (or a
// successful empty command) is OK; a unit describing a failed statement is
// not OK but also not yet done; the terminal unit is empty, not OK and done.
type Result struct {
	types  *pgtype.Map
	fields []pgconn.FieldDescription
	rows   [][][]byte
	tag    pgconn.CommandTag
	err    error
	done   bool
}

// New builds a data-carrying unit.
func New(types *pgtype.Map, fields []pgconn.FieldDescription, rows [][][]byte, tag pgconn.CommandTag) *Result {
	return &Result{types: types, fields: fields, rows: rows, tag: tag}
}

// Failed builds an empty unit carrying a statement error. More units (at
// least the terminal one) still follow it.
func Failed(err error) *Result {
	return &Result{err: err}
}

// Done builds the terminal unit.
func Done() *Result {
	return &Result{done: true}
}

// DoneWith builds the terminal unit, keeping the error observed while
// receiving so late callers can still see it.
func DoneWith(err error) *Result {
	return &Result{err: err, done: true}
}

// OK reports whether this unit represents a successful server response.
// The terminal unit is never OK, mirroring the null result that ends a
// libpq-style receive loop.
func (r *Result) OK() bool {
	return !r.done && r.err == nil
}

// IsEmpty reports whether the unit carries no rows. Note that an empty unit
// is not necessarily the last one: failed statements and single-row yield
// boundaries are empty too, so check IsDone separately.
func (r *Result) IsEmpty() bool {
	return len(r.rows) == 0
}

// IsDone reports whether this is the terminal unit.
func (r *Result) IsDone() bool {
	return r.done
}

func (r *Result) Err() error {
	return r.err
}

// Len returns the number of rows in the unit.
func (r *Result) Len() int {
	return len(r.rows)
}

// Tag returns the command tag, when the server sent one for this unit.
func (r *Result) Tag() pgconn.CommandTag {
	return r.tag
}

func (r *Result) Fields() []pgconn.FieldDescription {
	return r.fields
}

// Row gives access to the i-th row. Out-of-range access is a programming
// error and panics, same as indexing a slice.
func (r *Result) Row(i int) Row {
	if i < 0 || i >= len(r.rows) {
		panic(fmt.Sprintf("result: row %d out of range (%d rows)", i, len(r.rows)))
	}
	return Row{res: r, idx: i}
}

// Row is a view into one row of a Result.
type Row struct {
	res *Result
	idx int
}

func (r Row) Len() int {
	return len(r.res.fields)
}

// Field gives access to the i-th column. Panics when out of range.
func (r Row) Field(i int) Field {
	if i < 0 || i >= len(r.res.fields) {
		panic(fmt.Sprintf("result: column %d out of range (%d columns)", i, len(r.res.fields)))
	}
	return Field{res: r.res, row: r.idx, col: i}
}

// FieldByName looks a column up by its name.
func (r Row) FieldByName(name string) (Field, error) {
	for i := range r.res.fields {
		if r.res.fields[i].Name == name {
			return Field{res: r.res, row: r.idx, col: i}, nil
		}
	}
	return Field{}, fmt.Errorf("result: no column named %q", name)
}

// Scan decodes every column of the row, in order, into dest.
func (r Row) Scan(dest ...any) error {
	if len(dest) != len(r.res.fields) {
		return fmt.Errorf("result: scan expects %d destinations, got %d", len(r.res.fields), len(dest))
	}
	for i := range dest {
		if err := r.Field(i).Scan(dest[i]); err != nil {
			return err
		}
	}
	return nil
}

// Field is a view into one value of a Result.
type Field struct {
	res *Result
	row int
	col int
}

func (f Field) Name() string {
	return f.res.fields[f.col].Name
}

// IsNull reports whether the value is SQL NULL.
func (f Field) IsNull() bool {
	return f.res.rows[f.row][f.col] == nil
}

// Bytes returns the raw value as sent by the server. Nil for SQL NULL.
func (f Field) Bytes() []byte {
	return f.res.rows[f.row][f.col]
}

// Scan decodes the value into dst using the column's type and format. NULL
// values require a nullable destination (e.g. a pointer to pointer), same
// rules as the driver.
func (f Field) Scan(dst any) error {
	fd := f.res.fields[f.col]
	if err := f.res.types.Scan(fd.DataTypeOID, fd.Format, f.res.rows[f.row][f.col], dst); err != nil {
		return fmt.Errorf("result: scan column %q: %w", fd.Name, err)
	}
	return nil
}
