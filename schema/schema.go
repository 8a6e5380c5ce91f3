// Package schema describes tables as ordered column lists and scans result
// rows into model structs. The description is explicit — a model says what
// its table looks like and which struct fields receive which columns — so
// no reflection or code generation is involved.
package schema

// Kind is the semantic column type, deliberately coarser than a type OID:
// it names what the column means to the model, not how the server encodes it.
type Kind int

const (
	Bool Kind = iota
	Int2
	Int4
	Int8
	Float4
	Float8
	Text
	Bytea
	Timestamp
	Timestamptz
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "BOOL"
	case Int2:
		return "SMALLINT"
	case Int4:
		return "INT"
	case Int8:
		return "BIGINT"
	case Float4:
		return "REAL"
	case Float8:
		return "DOUBLE PRECISION"
	case Text:
		return "TEXT"
	case Bytea:
		return "BYTEA"
	case Timestamp:
		return "TIMESTAMP"
	case Timestamptz:
		return "TIMESTAMPTZ"
	default:
		return "UNKNOWN"
	}
}

// Column is one entry of a table description.
type Column struct {
	Name string
	Type Kind
}

// Definition describes a table as an ordered column list. Statement-building
// helpers consume it; the pool and connection layers never need it.
type Definition interface {
	TableName() string
	Columns() []Column
}
