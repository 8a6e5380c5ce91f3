package command

import (
	"fmt"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Wire is an encoded parameter block in the shape the extended query protocol
// wants: one entry per argument across the three slices.
type Wire struct {
	Values  [][]byte
	OIDs    []uint32
	Formats []int16
}

func encodeArgs(m *pgtype.Map, args []any) (*Wire, error) {
	w := &Wire{
		Values:  make([][]byte, 0, len(args)),
		OIDs:    make([]uint32, 0, len(args)),
		Formats: make([]int16, 0, len(args)),
	}
	for i, a := range args {
		val, oid, format, err := encodeArg(m, a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		w.Values = append(w.Values, val)
		w.OIDs = append(w.OIDs, oid)
		w.Formats = append(w.Formats, format)
	}
	return w, nil
}

func encodeArg(m *pgtype.Map, a any) (val []byte, oid uint32, format int16, err error) {
	if ov, ok := a.(OIDValue); ok {
		if ov.Value == nil || isNilPointer(ov.Value) {
			return nil, ov.OID, pgtype.TextFormatCode, nil
		}
		return encodeValue(m, ov.OID, ov.Value)
	}
	if a == nil {
		// OID 0 lets the server infer the type of the NULL.
		return nil, 0, pgtype.TextFormatCode, nil
	}
	oid, ok := detectOID(a)
	if !ok {
		return nil, 0, 0, fmt.Errorf("unsupported argument type %T", a)
	}
	if isNilPointer(a) {
		return nil, oid, pgtype.TextFormatCode, nil
	}
	return encodeValue(m, oid, a)
}

func encodeValue(m *pgtype.Map, oid uint32, v any) ([]byte, uint32, int16, error) {
	buf, err := m.Encode(oid, pgtype.BinaryFormatCode, v, nil)
	if err == nil {
		return buf, oid, pgtype.BinaryFormatCode, nil
	}
	// Some codecs only speak text for a given value shape.
	buf, terr := m.Encode(oid, pgtype.TextFormatCode, v, nil)
	if terr != nil {
		return nil, 0, 0, err
	}
	return buf, oid, pgtype.TextFormatCode, nil
}

// detectOID maps native Go argument types to parameter OIDs. Anything not
// listed here must be bound explicitly with BindOID.
func detectOID(a any) (uint32, bool) {
	switch a.(type) {
	case bool, *bool:
		return pgtype.BoolOID, true
	case int16, *int16:
		return pgtype.Int2OID, true
	case int32, *int32:
		return pgtype.Int4OID, true
	case int, int64, *int, *int64:
		return pgtype.Int8OID, true
	case float32, *float32:
		return pgtype.Float4OID, true
	case float64, *float64:
		return pgtype.Float8OID, true
	case string, *string:
		return pgtype.TextOID, true
	case []byte:
		return pgtype.ByteaOID, true
	case time.Time, *time.Time:
		return pgtype.TimestamptzOID, true
	}
	return 0, false
}

func isNilPointer(a any) bool {
	rv := reflect.ValueOf(a)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
