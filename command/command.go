// Package command models parameterized SQL statements and their wire-format
// arguments. Argument values are carried as native Go values and encoded
// through the driver's type map only when the owning connection executes the
// command, so a Command itself is cheap to build and free of connection state.
package command

import "github.com/jackc/pgx/v5/pgtype"

// PrepareData describes a statement to prepare on the server: a name to
// execute it by, the statement body, and optionally the parameter OIDs when
// the server should not infer them.
type PrepareData struct {
	Name      string
	Statement string
	ParamOIDs []uint32
}

// Command is a single SQL statement plus its arguments.
type Command struct {
	sql  string
	args []any
}

func New(sql string, args ...any) *Command {
	return &Command{sql: sql, args: args}
}

// Add appends arguments after construction.
func (c *Command) Add(args ...any) *Command {
	c.args = append(c.args, args...)
	return c
}

func (c *Command) SQL() string {
	return c.sql
}

// Encode renders the arguments into the extended-protocol parameter block.
func (c *Command) Encode(m *pgtype.Map) (*Wire, error) {
	return encodeArgs(m, c.args)
}

// PreparedCommand executes a statement previously prepared under Name.
type PreparedCommand struct {
	name string
	args []any
}

func NewPrepared(name string, args ...any) *PreparedCommand {
	return &PreparedCommand{name: name, args: args}
}

func (c *PreparedCommand) Add(args ...any) *PreparedCommand {
	c.args = append(c.args, args...)
	return c
}

func (c *PreparedCommand) Name() string {
	return c.name
}

func (c *PreparedCommand) Encode(m *pgtype.Map) (*Wire, error) {
	return encodeArgs(m, c.args)
}

// OIDValue pins an explicit parameter type for one argument, overriding the
// type that would be detected from the Go value. Useful for types the
// detection cannot guess, e.g. passing a string as JSON.
type OIDValue struct {
	Value any
	OID   uint32
}

// BindOID wraps value so it is sent with the given parameter OID.
func BindOID(value any, oid uint32) OIDValue {
	return OIDValue{Value: value, OID: oid}
}
