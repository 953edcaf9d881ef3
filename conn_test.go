package dawg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Conn {
	t.Helper()
	c, err := Open(":memory:", ReadWriteMode(true), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestConnExecuteAndFetch(t *testing.T) {
	c := openMemory(t)
	require.NoError(t, c.Execute(MustBuild("CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)")))
	require.NoError(t, c.Execute(MustBuild("INSERT INTO t (id, name) VALUES (", 1, ", ", "alice", ")")))
	require.NoError(t, c.Execute(MustBuild("INSERT INTO t (id, name) VALUES (", 2, ", ", "bob", ")")))

	rows, err := c.FetchAll(MustBuild("SELECT id, name FROM t ORDER BY id"))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	name, err := DecodeNamed[string](rows[0], "name")
	require.NoError(t, err)
	require.Equal(t, "alice", name)
}

func TestConnFetchOneNoRowsIsError(t *testing.T) {
	c := openMemory(t)
	require.NoError(t, c.Execute(MustBuild("CREATE TABLE t (id INTEGER)")))
	_, err := c.FetchOne(MustBuild("SELECT id FROM t"))
	require.Error(t, err)
	require.True(t, IsNoRows(err))
}

func TestConnFetchOptionalNoRows(t *testing.T) {
	c := openMemory(t)
	require.NoError(t, c.Execute(MustBuild("CREATE TABLE t (id INTEGER)")))
	row, err := c.FetchOptional(MustBuild("SELECT id FROM t"))
	require.NoError(t, err)
	require.Nil(t, row)
}

func TestConnRunReportsRowID(t *testing.T) {
	c := openMemory(t)
	require.NoError(t, c.Execute(MustBuild("CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)")))
	res, err := c.Run(MustBuild("INSERT INTO t (name) VALUES (", "carol", ")"))
	require.NoError(t, err)
	require.Equal(t, int64(1), res.LastInsertRowID)
	require.Equal(t, int64(1), res.RowsAffected)
}

func TestPreparingCommentOnlyQueryIsEmptyQuery(t *testing.T) {
	c := openMemory(t)
	for _, sql := range []string{"-- just a comment", "   ", "/* also nothing */"} {
		_, err := c.Preparing(RawQuery(sql))
		require.Error(t, err)
		var e *Error
		require.ErrorAs(t, err, &e)
		require.Equal(t, KindEmptyQuery, e.Kind)
	}
}

func TestConnBindingMismatch(t *testing.T) {
	c := openMemory(t)
	require.NoError(t, c.Execute(MustBuild("CREATE TABLE t (id INTEGER)")))
	_, err := c.Preparing(RawQuery("SELECT ?, ?", IntegerValue(1)))
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, KindBindingMismatch, e.Kind)
}

func TestTransactionCommitsOnSuccess(t *testing.T) {
	c := openMemory(t)
	require.NoError(t, c.Execute(MustBuild("CREATE TABLE t (id INTEGER PRIMARY KEY)")))

	err := c.Transaction(TxImmediate, func(tx *Tx) error {
		return tx.Execute(MustBuild("INSERT INTO t (id) VALUES (", 1, ")"))
	})
	require.NoError(t, err)

	rows, err := c.FetchAll(MustBuild("SELECT id FROM t"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	c := openMemory(t)
	require.NoError(t, c.Execute(MustBuild("CREATE TABLE t (id INTEGER PRIMARY KEY)")))

	boom := newErr(KindEmptyQuery, "boom")
	err := c.Transaction(TxDeferred, func(tx *Tx) error {
		if execErr := tx.Execute(MustBuild("INSERT INTO t (id) VALUES (", 1, ")")); execErr != nil {
			return execErr
		}
		return boom
	})
	require.ErrorIs(t, err, error(boom))

	rows, err := c.FetchAll(MustBuild("SELECT id FROM t"))
	require.NoError(t, err)
	require.Len(t, rows, 0)
}

func TestConnIsBorrowedDuringTransaction(t *testing.T) {
	c := openMemory(t)
	require.NoError(t, c.Execute(MustBuild("CREATE TABLE t (id INTEGER)")))

	err := c.Transaction(TxDeferred, func(tx *Tx) error {
		_, outerErr := c.FetchAll(MustBuild("SELECT id FROM t"))
		require.Error(t, outerErr)
		var e *Error
		require.ErrorAs(t, outerErr, &e)
		require.Equal(t, KindConnectionBorrowed, e.Kind)
		return nil
	})
	require.NoError(t, err)
}

func TestStepAfterExhaustionIsNoop(t *testing.T) {
	c := openMemory(t)
	require.NoError(t, c.Execute(MustBuild("CREATE TABLE t (id INTEGER)")))
	s, err := c.Preparing(MustBuild("SELECT id FROM t"))
	require.NoError(t, err)
	defer s.Finalize()

	hasRow, err := s.Step()
	require.NoError(t, err)
	require.False(t, hasRow)

	hasRow, err = s.Step()
	require.NoError(t, err)
	require.False(t, hasRow)
}
