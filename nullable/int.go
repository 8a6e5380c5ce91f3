// Package nullable provides scan destinations for columns that may be SQL
// NULL. Each type embeds the corresponding database/sql null type, so the
// result decoder accepts it anywhere a plain destination would go, and it
// marshals to JSON null instead of a zero value when query results are
// forwarded as JSON.
package nullable

import (
	"database/sql"
	"encoding/json"
)

// Int holds a SMALLINT/INT/BIGINT column value or NULL.
// implements: sql.Scanner by embedding sql.NullInt64
// implements: json.Marshaler and json.Unmarshaler
type Int struct {
	sql.NullInt64
}

// IntOf wraps a present value.
func IntOf(v int64) Int {
	return Int{sql.NullInt64{Int64: v, Valid: true}}
}

func (n *Int) MarshalJSON() ([]byte, error) {
	if n.Valid {
		return json.Marshal(n.Int64)
	}
	return []byte("null"), nil
}

func (n *Int) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Valid = false
		n.Int64 = 0
		return nil
	}
	var i int64
	if err := json.Unmarshal(data, &i); err != nil {
		return err
	}
	n.Int64 = i
	n.Valid = true
	return nil
}

// ForceValue returns the value, or the zero value for NULL.
func (n *Int) ForceValue() int64 {
	if !n.Valid {
		return 0
	}
	return n.Int64
}

func (n *Int) IsNil() bool {
	return !n.Valid
}
