package dawg

/*
#cgo pkg-config: sqlite3

#include <stdlib.h>
#include <sqlite3.h>

// cgo cannot translate the SQLITE_STATIC/SQLITE_TRANSIENT pointer constants
// (they are (void*)0 and (void*)-1 respectively), so the transient-vs-static
// bind choice of §4.5 step 4 is made on the C side by these three tiny
// wrappers, same trick as maragudk/sqlite's my_bind_text/my_bind_blob.
// They are not static, so stmt.go (which calls them) can declare them.
int dawg_bind_text_transient(sqlite3_stmt *s, int i, const char *p, int n) {
	return sqlite3_bind_text(s, i, p, n, SQLITE_TRANSIENT);
}
int dawg_bind_blob_transient(sqlite3_stmt *s, int i, const void *p, int n) {
	return sqlite3_bind_blob(s, i, p, n, SQLITE_TRANSIENT);
}
int dawg_bind_blob_static_empty(sqlite3_stmt *s, int i) {
	return sqlite3_bind_blob(s, i, "", 0, SQLITE_STATIC);
}
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
)

// AccessMode is the read/write half of an OpenMode (§6).
type AccessMode int

const (
	ReadOnly AccessMode = iota
	ReadWrite
)

// OpenMode configures how Open accesses the database file (§6):
// read-only, or read-write with an optional create-if-missing flag.
type OpenMode struct {
	Access AccessMode
	Create bool
}

// ReadOnlyMode is the read-only OpenMode.
func ReadOnlyMode() OpenMode { return OpenMode{Access: ReadOnly} }

// ReadWriteMode is the read-write OpenMode, creating the file if create is true.
func ReadWriteMode(create bool) OpenMode { return OpenMode{Access: ReadWrite, Create: create} }

func (m OpenMode) cFlags() C.int {
	var flags C.int
	switch m.Access {
	case ReadOnly:
		flags = C.SQLITE_OPEN_READONLY
	default:
		flags = C.SQLITE_OPEN_READWRITE
		if m.Create {
			flags |= C.SQLITE_OPEN_CREATE
		}
	}
	if C.sqlite3_threadsafe() != 0 {
		// This package does its own serialization (Conn is non-shareable,
		// SharedConn holds a mutex); NOMUTEX avoids paying for SQLite's own
		// connection-level mutex on top of that.
		flags |= C.SQLITE_OPEN_NOMUTEX
	}
	return flags
}

var (
	initOnce sync.Once
	initErr  error
)

// libraryInit invokes sqlite3_initialize() exactly once, per §4.6. When the
// engine is statically linked, this is required; when a host process has
// already initialized a dynamically-linked engine, this is a documented
// no-op. Either way any failure here is fatal and surfaces as an
// open-database error from the first Open call.
func libraryInit() error {
	initOnce.Do(func() {
		if rc := C.sqlite3_initialize(); rc != C.SQLITE_OK {
			initErr = engineErr(KindOpenDatabase, int(rc), "engine initialization failed")
		}
	})
	return initErr
}

// conn is the unmanaged connection (C6): a thin, non-thread-safe adapter
// over one raw engine handle. It carries no synchronization of its own —
// every caller above it (Conn, SharedConn, Pool) is responsible for making
// sure at most one logical owner touches it at a time.
type conn struct {
	db *C.sqlite3
}

// openConn opens filename under mode. The special name ":memory:" opens an
// ephemeral in-memory database (§6).
func openConn(filename string, mode OpenMode) (*conn, error) {
	if err := libraryInit(); err != nil {
		return nil, err
	}

	cFilename := C.CString(filename)
	defer C.free(unsafe.Pointer(cFilename))

	var db *C.sqlite3
	rc := C.sqlite3_open_v2(cFilename, &db, mode.cFlags(), nil)
	if rc != C.SQLITE_OK {
		msg := engineErrMsg(db, rc)
		if db != nil {
			C.sqlite3_close_v2(db)
		}
		return nil, engineErr(KindOpenDatabase, int(rc), msg)
	}
	C.sqlite3_extended_result_codes(db, 1)
	return &conn{db: db}, nil
}

// close releases the engine handle. Idempotent: closing an already-closed
// conn is a no-op, per §3 invariant C3.
func (c *conn) close() error {
	if c.db == nil {
		return nil
	}
	db := c.db
	c.db = nil
	if rc := C.sqlite3_close_v2(db); rc != C.SQLITE_OK {
		return engineErr(KindEngineUnknown, int(rc), engineErrMsg(db, rc))
	}
	return nil
}

// execBatch runs a semicolon-delimited batch of statements via the
// engine's own multi-statement executor (sqlite3_exec). Per §4.6 this does
// not support parameter binding and is injection-unsafe by design — it
// exists for DDL scripts and migrations, not user-facing queries.
func (c *conn) execBatch(sql string) error {
	cSQL := C.CString(sql)
	defer C.free(unsafe.Pointer(cSQL))

	var errmsg *C.char
	rc := C.sqlite3_exec(c.db, cSQL, nil, nil, &errmsg)
	if rc != C.SQLITE_OK {
		msg := C.GoString(errmsg)
		if errmsg != nil {
			C.sqlite3_free(unsafe.Pointer(errmsg))
		}
		return engineErr(KindEngineUnknown, int(rc), msg)
	}
	return nil
}

func (c *conn) lastInsertRowID() int64 {
	return int64(C.sqlite3_last_insert_rowid(c.db))
}

func (c *conn) rowsAffected() int64 {
	return int64(C.sqlite3_changes64(c.db))
}

func (c *conn) totalRowsAffected() int64 {
	return int64(C.sqlite3_total_changes64(c.db))
}

// engineErrMsg extracts the engine's textual message for result code rc on
// connection db (db may be nil if open itself failed before a handle was
// produced).
func engineErrMsg(db *C.sqlite3, rc C.int) string {
	if db != nil {
		if msg := C.sqlite3_errmsg(db); msg != nil {
			return C.GoString(msg)
		}
	}
	return C.GoString(C.sqlite3_errstr(rc))
}

// wrapCause annotates a Go error that did not come from the engine (e.g.
// the context error Pool.Acquire gets from its semaphore) with a message
// using pkg/errors, keeping err as the cause.
func wrapCause(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
