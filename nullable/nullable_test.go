package nullable_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/pgq/nullable"
	"github.com/zeptools/pgq/result"
)

func TestScanFromResultColumns(t *testing.T) {
	fields := []pgconn.FieldDescription{
		{Name: "n", DataTypeOID: pgtype.Int8OID, Format: pgtype.TextFormatCode},
		{Name: "s", DataTypeOID: pgtype.TextOID, Format: pgtype.TextFormatCode},
	}
	rows := [][][]byte{
		{[]byte("42"), nil},
		{nil, []byte("alice")},
	}
	res := result.New(pgtype.NewMap(), fields, rows, pgconn.NewCommandTag("SELECT 2"))

	var n nullable.Int
	var s nullable.String
	require.NoError(t, res.Row(0).Scan(&n, &s))
	require.False(t, n.IsNil())
	require.EqualValues(t, 42, n.ForceValue())
	require.True(t, s.IsNil())
	require.Equal(t, "", s.ForceValue())

	require.NoError(t, res.Row(1).Scan(&n, &s))
	require.True(t, n.IsNil())
	require.EqualValues(t, 0, n.ForceValue())
	require.False(t, s.IsNil())
	require.Equal(t, "alice", s.ForceValue())
}

func TestJSONRoundTrip(t *testing.T) {
	type record struct {
		N int64           `json:"n"`
		S nullable.String `json:"s"`
		T nullable.Time   `json:"t"`
	}

	in := record{N: 1, S: nullable.StringOf("x")}
	data, err := json.Marshal(&in)
	require.NoError(t, err)
	require.JSONEq(t, `{"n":1,"s":"x","t":null}`, string(data))

	var out record
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, "x", out.S.ForceValue())
	require.True(t, out.T.IsNil())
}

func TestTimeJSONUsesRFC3339(t *testing.T) {
	ts := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	n := nullable.TimeOf(ts)
	data, err := json.Marshal(&n)
	require.NoError(t, err)
	require.Equal(t, `"2026-08-24T12:00:00Z"`, string(data))

	var back nullable.Time
	require.NoError(t, back.UnmarshalJSON(data))
	require.True(t, ts.Equal(back.ForceValue()))
}

func TestNullLiteralRoundTrip(t *testing.T) {
	var b nullable.Bool
	require.NoError(t, b.UnmarshalJSON([]byte("null")))
	require.True(t, b.IsNil())

	var f nullable.Float
	require.NoError(t, f.UnmarshalJSON([]byte("2.5")))
	require.Equal(t, 2.5, f.ForceValue())
	data, err := f.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, "2.5", string(data))
}
