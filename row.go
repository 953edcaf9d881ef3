package dawg

import "reflect"

// Row is an ordered, immutable sequence of (column name, value) pairs
// produced by a single step of a prepared statement (§3). Column names
// are materialized once at statement preparation and may repeat; by-name
// lookup always resolves to the first match.
type Row struct {
	names  []string
	values []Value
}

// newRow builds a Row from parallel names/values slices of equal length.
func newRow(names []string, values []Value) Row {
	return Row{names: names, values: values}
}

// Len returns the number of columns.
func (r Row) Len() int { return len(r.values) }

// ColumnNames returns the row's column names, in order. The returned
// slice must not be mutated by the caller.
func (r Row) ColumnNames() []string { return r.names }

// At returns the column name and value at position i (0-based).
func (r Row) At(i int) (string, Value) { return r.names[i], r.values[i] }

// Value returns the value at position i (0-based), without a bounds check
// — callers that need a checked access should use DecodeAt.
func (r Row) Value(i int) Value { return r.values[i] }

// Get looks up a value by column name. Per §4.2, if the name occurs more
// than once only the first match is addressable.
func (r Row) Get(name string) (Value, bool) {
	for i, n := range r.names {
		if n == name {
			return r.values[i], true
		}
	}
	return Value{}, false
}

// DecodeAt decodes the value at position i (0-based) into T, per §4.2's
// "positional decode" operation. An out-of-range index or an impossible
// coercion both surface as type-mismatch-flavored errors.
func DecodeAt[T any](r Row, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(r.values) {
		return zero, typeMismatchErr("column index %d is out of range (row has %d columns)", i, len(r.values))
	}
	return decodeValueAs[T](r.values[i])
}

// DecodeNamed decodes the first value whose column name is name into T,
// per §4.2's "named decode" operation. A missing name is a distinct error
// (decode-key-not-found) from a present-but-wrong-type value
// (decode-type-mismatch).
func DecodeNamed[T any](r Row, name string) (T, error) {
	var zero T
	v, ok := r.Get(name)
	if !ok {
		return zero, keyNotFoundErr(name)
	}
	return decodeValueAs[T](v)
}

// decodeValueAs decodes v into T using decodeReflect, handling the
// addressable-temporary dance generics require.
func decodeValueAs[T any](v Value) (T, error) {
	var zero T
	rv := reflect.New(reflect.TypeOf(&zero).Elem()).Elem()
	if err := decodeReflect(rv, v); err != nil {
		return zero, err
	}
	return rv.Interface().(T), nil
}

// Scan decodes positions 0..len(dst)-1 into the pointers in dst, the
// heterogeneous tuple decode of §4.2. A dst longer than the row is an
// error, but a shorter one is accepted: Scan does not require len(dst) to
// equal the row's column count. The §4.5 "column-count mismatch" check is
// done by DecodePair and DecodeTriple (the tuple decoders passed to
// FetchAllAs/FetchOneAs/FetchOptionalAs), not by Scan.
func (r Row) Scan(dst ...interface{}) error {
	for i, d := range dst {
		if i >= len(r.values) {
			return typeMismatchErr("column index %d is out of range (row has %d columns)", i, len(r.values))
		}
		rv := reflect.ValueOf(d)
		if rv.Kind() != reflect.Ptr || rv.IsNil() {
			return typeMismatchErr("Scan destination %d must be a non-nil pointer, got %T", i, d)
		}
		if err := decodeReflect(rv.Elem(), r.values[i]); err != nil {
			return err
		}
	}
	return nil
}

// Pair is a 2-tuple, used with DecodePair to give FetchAllAs/FetchOneAs/
// FetchOptionalAs a type-safe way to decode a 2-column row (§4.5's "tuple of
// N primitives" with N=2) without needing variadic generics.
type Pair[A, B any] struct {
	First  A
	Second B
}

// DecodePair decodes row as a 2-tuple, checking that the row has exactly 2
// columns (column-count-mismatch otherwise).
func DecodePair[A, B any](r Row) (Pair[A, B], error) {
	var zero Pair[A, B]
	if r.Len() != 2 {
		return zero, columnCountErr(2, r.Len())
	}
	a, err := DecodeAt[A](r, 0)
	if err != nil {
		return zero, err
	}
	b, err := DecodeAt[B](r, 1)
	if err != nil {
		return zero, err
	}
	return Pair[A, B]{First: a, Second: b}, nil
}

// Triple is a 3-tuple, the N=3 counterpart to Pair.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// DecodeTriple decodes row as a 3-tuple, checking that the row has
// exactly 3 columns (column-count-mismatch otherwise).
func DecodeTriple[A, B, C any](r Row) (Triple[A, B, C], error) {
	var zero Triple[A, B, C]
	if r.Len() != 3 {
		return zero, columnCountErr(3, r.Len())
	}
	a, err := DecodeAt[A](r, 0)
	if err != nil {
		return zero, err
	}
	b, err := DecodeAt[B](r, 1)
	if err != nil {
		return zero, err
	}
	c, err := DecodeAt[C](r, 2)
	if err != nil {
		return zero, err
	}
	return Triple[A, B, C]{First: a, Second: b, Third: c}, nil
}
