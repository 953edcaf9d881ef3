package dawg

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the semantic class of an Error, per the taxonomy each
// operation in this package can fail with.
type Kind uint8

const (
	// KindOpenDatabase covers failures opening the underlying engine handle,
	// including a fatal engine-initialization failure.
	KindOpenDatabase Kind = iota
	// KindPrepareStatement covers parsing/binding bookkeeping during Prepare.
	KindPrepareStatement
	// KindEmptyQuery is returned when the prepared input contained no statement.
	KindEmptyQuery
	// KindBindingMismatch is returned when placeholder count and binding count differ.
	KindBindingMismatch
	// KindNoRowsFetched is returned by FetchOne when the first step is done.
	KindNoRowsFetched
	// KindColumnCountMismatch is returned when a tuple/primitive arity doesn't match row arity.
	KindColumnCountMismatch
	// KindEngineUnknown wraps any other engine failure, including BUSY.
	KindEngineUnknown
	// KindDecodeTypeMismatch is returned by the primitive codec on an impossible coercion.
	KindDecodeTypeMismatch
	// KindDecodeKeyNotFound is returned by the structural decoder for a missing column.
	KindDecodeKeyNotFound
	// KindDecodeShape is returned by the structural decoder for an unsupported row shape.
	KindDecodeShape
	// KindConnectionBorrowed is returned when a Conn is used while a Transaction
	// block holds exclusive access to its underlying connection.
	KindConnectionBorrowed
	// KindPoolClosed is returned by Pool operations after the pool has been dropped.
	KindPoolClosed
)

func (k Kind) String() string {
	switch k {
	case KindOpenDatabase:
		return "open-database"
	case KindPrepareStatement:
		return "prepare-statement"
	case KindEmptyQuery:
		return "empty-query"
	case KindBindingMismatch:
		return "binding-mismatch"
	case KindNoRowsFetched:
		return "no-rows-fetched"
	case KindColumnCountMismatch:
		return "column-count-mismatch"
	case KindEngineUnknown:
		return "engine-unknown"
	case KindDecodeTypeMismatch:
		return "decode-type-mismatch"
	case KindDecodeKeyNotFound:
		return "decode-key-not-found"
	case KindDecodeShape:
		return "decode-shape"
	case KindConnectionBorrowed:
		return "connection-borrowed"
	case KindPoolClosed:
		return "pool-closed"
	default:
		return "unknown"
	}
}

// Error is the error type this package returns for its own failures. Each
// Error carries a Kind plus whatever contextual fields are relevant to that
// Kind (Expected/Got for arity mismatches, Code/Message for
// engine-originated failures). Errors from outside the package are passed
// through instead: Pool.Acquire returns its context error annotated via
// pkg/errors, and Conn.Transaction returns its callback's error as is.
type Error struct {
	Kind    Kind
	Message string

	// Code is the engine's numeric result code for errors the engine
	// reported (KindEngineUnknown, KindOpenDatabase, and KindPrepareStatement
	// from prepare or bind), or a synthetic code (see SyntheticCode) for
	// errors that never touched the engine.
	Code int

	// Expected/Got carry the two sides of a KindBindingMismatch or
	// KindColumnCountMismatch.
	Expected int
	Got      int

	// Key is the column name for KindDecodeKeyNotFound.
	Key string

	cause error
}

// SyntheticCode is used as Error.Code for errors that never touched the
// engine (so callers that branch on Code still see a stable, documented
// value rather than a zero that collides with SQLITE_OK).
const SyntheticCode = -1

func (e *Error) Error() string {
	switch e.Kind {
	case KindBindingMismatch:
		return fmt.Sprintf("dawg: binding mismatch: expected %d, got %d", e.Expected, e.Got)
	case KindColumnCountMismatch:
		return fmt.Sprintf("dawg: column count mismatch: expected %d, got %d", e.Expected, e.Got)
	case KindDecodeKeyNotFound:
		return fmt.Sprintf("dawg: decode: key %q not found", e.Key)
	case KindEngineUnknown, KindOpenDatabase:
		if e.Message != "" {
			return fmt.Sprintf("dawg: %s: %s (code %d)", e.Kind, e.Message, e.Code)
		}
		return fmt.Sprintf("dawg: %s (code %d)", e.Kind, e.Code)
	default:
		if e.Message != "" {
			return fmt.Sprintf("dawg: %s: %s", e.Kind, e.Message)
		}
		return fmt.Sprintf("dawg: %s", e.Kind)
	}
}

// Unwrap exposes the engine-originated cause, if any, so errors.Is/As and
// errors.Unwrap reach it. Error has no Cause method, so pkg/errors'
// errors.Cause returns the *Error itself rather than this cause.
func (e *Error) Unwrap() error { return e.cause }

func newErr(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Code: SyntheticCode}
}

func mismatchErr(expected, got int) *Error {
	return &Error{Kind: KindBindingMismatch, Expected: expected, Got: got, Code: SyntheticCode}
}

func columnCountErr(expected, got int) *Error {
	return &Error{Kind: KindColumnCountMismatch, Expected: expected, Got: got, Code: SyntheticCode}
}

func keyNotFoundErr(key string) *Error {
	return &Error{Kind: KindDecodeKeyNotFound, Key: key, Code: SyntheticCode}
}

func shapeErr(format string, args ...interface{}) *Error {
	return &Error{Kind: KindDecodeShape, Message: fmt.Sprintf(format, args...), Code: SyntheticCode}
}

func typeMismatchErr(format string, args ...interface{}) *Error {
	return &Error{Kind: KindDecodeTypeMismatch, Message: fmt.Sprintf(format, args...), Code: SyntheticCode}
}

// engineErr reports a failure the engine itself returned (a non-OK result
// code from sqlite3_step, sqlite3_prepare_v2, and so on): a Kind-classified
// Error carrying the numeric code and message, with the engine's message
// also kept as a pkg/errors error that Unwrap returns — so a
// caller that only cares "was this caused by some underlying failure" can
// use errors.Is/errors.As without reaching into Code/Message directly.
func engineErr(kind Kind, code int, msg string) *Error {
	e := &Error{Kind: kind, Code: code, Message: msg}
	if msg != "" {
		e.cause = errors.New(msg)
	}
	return e
}

// IsNoRows reports whether err is a KindNoRowsFetched Error, analogous to
// checking against sql.ErrNoRows.
func IsNoRows(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindNoRowsFetched
	}
	return false
}
