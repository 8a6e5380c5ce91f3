package nullable

import (
	"database/sql"
	"encoding/json"
)

// Bool holds a BOOL column value or NULL.
// implements: sql.Scanner by embedding sql.NullBool
// implements: json.Marshaler and json.Unmarshaler
type Bool struct {
	sql.NullBool
}

// BoolOf wraps a present value.
func BoolOf(v bool) Bool {
	return Bool{sql.NullBool{Bool: v, Valid: true}}
}

func (n *Bool) MarshalJSON() ([]byte, error) {
	if n.Valid {
		return json.Marshal(n.Bool)
	}
	return []byte("null"), nil
}

func (n *Bool) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Valid = false
		n.Bool = false
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	n.Bool = b
	n.Valid = true
	return nil
}

// ForceValue returns the value, or false for NULL.
func (n *Bool) ForceValue() bool {
	if !n.Valid {
		return false
	}
	return n.Bool
}

func (n *Bool) IsNil() bool {
	return !n.Valid
}
