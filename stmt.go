package dawg

/*
#include <stdlib.h>
#include <sqlite3.h>

// Defined in engine.go's preamble.
int dawg_bind_text_transient(sqlite3_stmt *s, int i, const char *p, int n);
int dawg_bind_blob_transient(sqlite3_stmt *s, int i, const void *p, int n);
int dawg_bind_blob_static_empty(sqlite3_stmt *s, int i);
*/
import "C"

import (
	"unsafe"
)

// Stmt is a prepared statement (C7): a live engine handle bound to exactly
// one Bound Query, alive until it is explicitly finalized or consumed by a
// terminal fetcher. Per §3 invariant I1, a Stmt is always either live or
// finalized, never both; per I2, stepping an exhausted (or finalized)
// statement again is a no-op rather than an error.
type Stmt struct {
	c           *conn
	stmt        *C.sqlite3_stmt
	columnNames []string
	done        bool
	logger      Logger
}

// prepareStmt prepares q against c, implementing §4.5's preparation
// algorithm: reject an empty query, prepare against the engine, verify the
// engine's placeholder count against len(q.Binds) (binding-mismatch
// otherwise), bind every value positionally, and materialize column names
// once up front.
func prepareStmt(c *conn, q Query, logger Logger) (*Stmt, error) {
	if len(q.SQL) == 0 {
		return nil, newErr(KindEmptyQuery, "cannot prepare an empty query")
	}

	cSQL := C.CString(q.SQL)
	defer C.free(unsafe.Pointer(cSQL))

	var raw *C.sqlite3_stmt
	var tail *C.char
	rc := C.sqlite3_prepare_v2(c.db, cSQL, C.int(len(q.SQL)), &raw, &tail)
	if rc != C.SQLITE_OK {
		return nil, engineErr(KindPrepareStatement, int(rc), engineErrMsg(c.db, rc))
	}
	// A query that is syntactically present but contains no statement (all
	// whitespace, or nothing but a comment, per §6) prepares successfully
	// with a nil stmt instead of failing — the engine's own way of saying
	// "nothing to execute here." Surface that the same way as the
	// zero-length-string case above, rather than letting a nil raw flow
	// into sqlite3_bind_parameter_count/column_count/step and misreport as
	// an engine failure.
	if raw == nil {
		return nil, newErr(KindEmptyQuery, "cannot prepare an empty query")
	}

	expected := int(C.sqlite3_bind_parameter_count(raw))
	if expected != len(q.Binds) {
		C.sqlite3_finalize(raw)
		return nil, mismatchErr(expected, len(q.Binds))
	}

	s := &Stmt{c: c, stmt: raw, logger: logOrDiscard(logger)}

	for i, v := range q.Binds {
		if err := s.bind(i+1, v); err != nil {
			s.finalize()
			return nil, err
		}
	}

	n := int(C.sqlite3_column_count(raw))
	s.columnNames = make([]string, n)
	for i := 0; i < n; i++ {
		s.columnNames[i] = C.GoString(C.sqlite3_column_name(raw, C.int(i)))
	}

	return s, nil
}

// bind attaches Value v to the 1-based placeholder index i, choosing the
// matching sqlite3_bind_* call per §4.5 step 4. Text and non-empty blob
// payloads are bound transient: the engine takes its own copy, since Go's
// garbage collector may move or free the backing array at any time. A blob
// with no bytes is bound static, as there is nothing to copy.
func (s *Stmt) bind(i int, v Value) error {
	idx := C.int(i)
	var rc C.int
	switch v.Kind() {
	case Null:
		rc = C.sqlite3_bind_null(s.stmt, idx)
	case Integer:
		n, _ := v.AsInteger()
		rc = C.sqlite3_bind_int64(s.stmt, idx, C.sqlite3_int64(n))
	case Float:
		f, _ := v.AsFloat()
		rc = C.sqlite3_bind_double(s.stmt, idx, C.double(f))
	case Text:
		text, _ := v.AsText()
		cText := C.CString(text)
		defer C.free(unsafe.Pointer(cText))
		rc = C.dawg_bind_text_transient(s.stmt, idx, cText, C.int(len(text)))
	case BlobKind:
		b, _ := v.AsBlob()
		data := b.Bytes()
		if len(data) == 0 {
			rc = C.dawg_bind_blob_static_empty(s.stmt, idx)
		} else {
			rc = C.dawg_bind_blob_transient(s.stmt, idx, unsafe.Pointer(&data[0]), C.int(len(data)))
		}
	}
	if rc != C.SQLITE_OK {
		return engineErr(KindPrepareStatement, int(rc), engineErrMsg(s.c.db, rc))
	}
	return nil
}

// ColumnNames returns the statement's column names, materialized once at
// preparation time. A supplemental accessor beyond the plain fetchers,
// useful to callers that want to inspect shape before stepping.
func (s *Stmt) ColumnNames() []string { return s.columnNames }

// ColumnCount returns len(ColumnNames()).
func (s *Stmt) ColumnCount() int { return len(s.columnNames) }

// Step advances the statement by one row, the only non-terminal operation
// of §4.5. It returns (true, nil) when a row is available, (false, nil)
// once the statement is exhausted, and a non-nil error on engine failure.
// Per I2, calling Step again after exhaustion is a no-op that keeps
// returning (false, nil) without touching the engine.
func (s *Stmt) Step() (bool, error) {
	if s.done {
		return false, nil
	}
	rc := C.sqlite3_step(s.stmt)
	switch rc {
	case C.SQLITE_ROW:
		return true, nil
	case C.SQLITE_DONE:
		s.done = true
		return false, nil
	default:
		s.done = true
		return false, engineErr(KindEngineUnknown, int(rc), engineErrMsg(s.c.db, rc))
	}
}

// currentRow reads the engine's current row into a Row value. Only valid
// immediately after Step returned (true, nil).
func (s *Stmt) currentRow() Row {
	n := len(s.columnNames)
	values := make([]Value, n)
	for i := 0; i < n; i++ {
		values[i] = s.columnValue(i)
	}
	return newRow(s.columnNames, values)
}

func (s *Stmt) columnValue(i int) Value {
	idx := C.int(i)
	switch C.sqlite3_column_type(s.stmt, idx) {
	case C.SQLITE_NULL:
		return NullValue()
	case C.SQLITE_INTEGER:
		return IntegerValue(int64(C.sqlite3_column_int64(s.stmt, idx)))
	case C.SQLITE_FLOAT:
		return FloatValue(float64(C.sqlite3_column_double(s.stmt, idx)))
	case C.SQLITE_TEXT:
		n := int(C.sqlite3_column_bytes(s.stmt, idx))
		p := C.sqlite3_column_text(s.stmt, idx)
		return TextValue(C.GoStringN((*C.char)(unsafe.Pointer(p)), C.int(n)))
	default: // SQLITE_BLOB
		n := int(C.sqlite3_column_bytes(s.stmt, idx))
		if n == 0 {
			return BlobValue(EmptyBlob())
		}
		p := C.sqlite3_column_blob(s.stmt, idx)
		b := C.GoBytes(p, C.int(n))
		return BlobValue(LoadedBlob(b))
	}
}

// finalize releases the engine handle, idempotently (per §3 invariant C3 /
// I1): finalizing an already-finalized Stmt is a no-op.
func (s *Stmt) finalize() error {
	if s.stmt == nil {
		return nil
	}
	stmt := s.stmt
	s.stmt = nil
	s.done = true
	if rc := C.sqlite3_finalize(stmt); rc != C.SQLITE_OK {
		return engineErr(KindEngineUnknown, int(rc), engineErrMsg(s.c.db, rc))
	}
	return nil
}

// Finalize explicitly releases the statement ahead of its terminal
// fetcher running (or when the caller only ever uses Step directly, as
// Conn.Preparing's callers do). Safe to call more than once.
func (s *Stmt) Finalize() error { return s.finalize() }

// finalizeLogged finalizes the statement and, on failure, logs rather than
// returning — used where finalize happens implicitly alongside a result the
// caller already has (e.g. after a successful FetchAll), mirroring how
// maragudk/sqlite logs errors from implicit cleanup instead of discarding
// a result to report a secondary error.
func (s *Stmt) finalizeLogged() {
	if err := s.finalize(); err != nil {
		s.logger.Println("dawg: statement finalize:", err)
	}
}

// RunResult reports the side effects of a Run (§4.5): the rowid assigned by
// an INSERT without an explicit rowid, the number of rows the statement
// itself affected, and the connection-lifetime total.
type RunResult struct {
	LastInsertRowID   int64
	RowsAffected      int64
	TotalRowsAffected int64
}

// Run is the terminal fetcher for statements executed for their effects
// rather than their rows (INSERT/UPDATE/DELETE, and DDL prepared the normal
// way). It steps exactly once — a RETURNING clause's row, if any, is
// discarded — and always finalizes.
func (s *Stmt) Run() (RunResult, error) {
	defer s.finalizeLogged()
	if _, err := s.Step(); err != nil {
		return RunResult{}, err
	}
	return RunResult{
		LastInsertRowID:   s.c.lastInsertRowID(),
		RowsAffected:      s.c.rowsAffected(),
		TotalRowsAffected: s.c.totalRowsAffected(),
	}, nil
}

// FetchAll is the terminal fetcher that collects every row, in order, then
// finalizes. An empty result set is not an error — it is an empty slice.
func (s *Stmt) FetchAll() ([]Row, error) {
	defer s.finalizeLogged()
	var rows []Row
	for {
		hasRow, err := s.Step()
		if err != nil {
			return nil, err
		}
		if !hasRow {
			return rows, nil
		}
		rows = append(rows, s.currentRow())
	}
}

// FetchOne is the terminal fetcher that returns the first row; zero rows is
// a no-rows-fetched error. Any rows beyond the first are discarded when the
// statement finalizes.
func (s *Stmt) FetchOne() (Row, error) {
	defer s.finalizeLogged()
	hasRow, err := s.Step()
	if err != nil {
		return Row{}, err
	}
	if !hasRow {
		return Row{}, newErr(KindNoRowsFetched, "query returned no rows")
	}
	return s.currentRow(), nil
}

// FetchOptional is the terminal fetcher that tolerates zero rows, returning
// a nil Row pointer rather than an error in that case.
func (s *Stmt) FetchOptional() (*Row, error) {
	defer s.finalizeLogged()
	hasRow, err := s.Step()
	if err != nil {
		return nil, err
	}
	if !hasRow {
		return nil, nil
	}
	row := s.currentRow()
	return &row, nil
}

// FetchAllAs wraps FetchAll with a decode callback, implementing the
// tuple/structural FetchAll variants of §4.5 (decode can be Decode[T],
// DecodePair, DecodeTriple, or any custom func(Row) (T, error)). Decoding a
// row with the wrong column count surfaces decode's own column-count-
// mismatch error, since FetchAllAs has no static arity of its own to check
// up front.
func FetchAllAs[T any](s *Stmt, decode func(Row) (T, error)) ([]T, error) {
	rows, err := s.FetchAll()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		t, err := decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// FetchOneAs wraps FetchOne with a decode callback.
func FetchOneAs[T any](s *Stmt, decode func(Row) (T, error)) (T, error) {
	var zero T
	row, err := s.FetchOne()
	if err != nil {
		return zero, err
	}
	return decode(row)
}

// FetchOptionalAs wraps FetchOptional with a decode callback, returning a
// nil *T when no row was produced.
func FetchOptionalAs[T any](s *Stmt, decode func(Row) (T, error)) (*T, error) {
	row, err := s.FetchOptional()
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	t, err := decode(*row)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
