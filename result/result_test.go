package result_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/pgq/result"
)

func textField(name string, oid uint32) pgconn.FieldDescription {
	return pgconn.FieldDescription{
		Name:        name,
		DataTypeOID: oid,
		Format:      pgtype.TextFormatCode,
	}
}

func sampleResult() *result.Result {
	fields := []pgconn.FieldDescription{
		textField("id", pgtype.Int8OID),
		textField("name", pgtype.TextOID),
	}
	rows := [][][]byte{
		{[]byte("7"), []byte("alice")},
		{[]byte("8"), nil},
	}
	return result.New(pgtype.NewMap(), fields, rows, pgconn.NewCommandTag("SELECT 2"))
}

func TestDataUnitFlags(t *testing.T) {
	res := sampleResult()
	require.True(t, res.OK())
	require.False(t, res.IsEmpty())
	require.False(t, res.IsDone())
	require.NoError(t, res.Err())
	require.Equal(t, 2, res.Len())
	require.Equal(t, "SELECT 2", res.Tag().String())
}

func TestFailedUnitFlags(t *testing.T) {
	cause := errors.New("relation does not exist")
	res := result.Failed(cause)
	require.False(t, res.OK())
	require.True(t, res.IsEmpty())
	require.False(t, res.IsDone(), "a failed statement is not the end of the receive stream")
	require.ErrorIs(t, res.Err(), cause)
}

func TestTerminalUnitFlags(t *testing.T) {
	res := result.Done()
	require.False(t, res.OK(), "the terminal unit is never OK")
	require.True(t, res.IsEmpty())
	require.True(t, res.IsDone())
	require.NoError(t, res.Err())

	cause := errors.New("syntax error")
	res = result.DoneWith(cause)
	require.True(t, res.IsDone())
	require.ErrorIs(t, res.Err(), cause)
}

func TestRowScanDecodesColumns(t *testing.T) {
	res := sampleResult()

	var id int64
	var name string
	require.NoError(t, res.Row(0).Scan(&id, &name))
	require.EqualValues(t, 7, id)
	require.Equal(t, "alice", name)
}

func TestRowScanDestinationCountMismatch(t *testing.T) {
	res := sampleResult()
	var id int64
	require.ErrorContains(t, res.Row(0).Scan(&id), "2 destinations, got 1")
}

func TestFieldByName(t *testing.T) {
	res := sampleResult()

	f, err := res.Row(0).FieldByName("name")
	require.NoError(t, err)
	require.Equal(t, "name", f.Name())

	var name string
	require.NoError(t, f.Scan(&name))
	require.Equal(t, "alice", name)

	_, err = res.Row(0).FieldByName("missing")
	require.ErrorContains(t, err, `no column named "missing"`)
}

func TestNullField(t *testing.T) {
	res := sampleResult()

	f := res.Row(1).Field(1)
	require.True(t, f.IsNull())
	require.Nil(t, f.Bytes())
	require.False(t, res.Row(1).Field(0).IsNull())

	var name *string
	require.NoError(t, f.Scan(&name))
	require.Nil(t, name)
}

func TestScanErrorNamesColumn(t *testing.T) {
	res := sampleResult()
	var id int64
	err := res.Row(0).Field(1).Scan(&id)
	require.ErrorContains(t, err, `scan column "name"`)
}

func TestOutOfRangeAccessPanics(t *testing.T) {
	res := sampleResult()
	require.Panics(t, func() { res.Row(2) })
	require.Panics(t, func() { res.Row(-1) })
	require.Panics(t, func() { res.Row(0).Field(2) })
}

func TestRawBytes(t *testing.T) {
	res := sampleResult()
	require.Equal(t, []byte("alice"), res.Row(0).Field(1).Bytes())
}
