package dawg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

func seedWidgets(t *testing.T, c *Conn) {
	t.Helper()
	require.NoError(t, c.Execute(MustBuild("CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT)")))
	require.NoError(t, c.Execute(MustBuild("INSERT INTO widgets (id, name) VALUES (1, ", "a", ")")))
	require.NoError(t, c.Execute(MustBuild("INSERT INTO widgets (id, name) VALUES (2, ", "b", ")")))
}

func TestFetchAllAsStructural(t *testing.T) {
	c := openMemory(t)
	seedWidgets(t, c)

	s, err := c.Preparing(MustBuild("SELECT id, name FROM widgets ORDER BY id"))
	require.NoError(t, err)
	got, err := FetchAllAs(s, Decode[widget])
	require.NoError(t, err)
	require.Equal(t, []widget{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, got)
}

func TestFetchAllAsTuple(t *testing.T) {
	c := openMemory(t)
	seedWidgets(t, c)

	s, err := c.Preparing(MustBuild("SELECT id, name FROM widgets ORDER BY id"))
	require.NoError(t, err)
	got, err := FetchAllAs(s, DecodePair[int64, string])
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(1), got[0].First)
	require.Equal(t, "a", got[0].Second)
}

func TestFetchOneAsStructural(t *testing.T) {
	c := openMemory(t)
	seedWidgets(t, c)

	s, err := c.Preparing(MustBuild("SELECT id, name FROM widgets WHERE id = ", 2))
	require.NoError(t, err)
	got, err := FetchOneAs(s, Decode[widget])
	require.NoError(t, err)
	require.Equal(t, widget{ID: 2, Name: "b"}, got)
}

func TestFetchOptionalAsNoRows(t *testing.T) {
	c := openMemory(t)
	seedWidgets(t, c)

	s, err := c.Preparing(MustBuild("SELECT id, name FROM widgets WHERE id = ", 999))
	require.NoError(t, err)
	got, err := FetchOptionalAs(s, Decode[widget])
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRunDiscardsRowOnReturning(t *testing.T) {
	c := openMemory(t)
	require.NoError(t, c.Execute(MustBuild("CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT)")))

	s, err := c.Preparing(MustBuild("INSERT INTO widgets (id, name) VALUES (1, ", "a", ") RETURNING id"))
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)
	require.Equal(t, int64(1), res.LastInsertRowID)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	c := openMemory(t)
	require.NoError(t, c.Execute(MustBuild("CREATE TABLE t (id INTEGER)")))
	s, err := c.Preparing(MustBuild("SELECT id FROM t"))
	require.NoError(t, err)
	require.NoError(t, s.Finalize())
	require.NoError(t, s.Finalize())
}
