package dawg

import "strings"

// Query is a Bound Query (§4.4): SQL text with `?` placeholders, paired
// with an ordered list of typed bindings. The Nth `?` in SQL corresponds
// to the Nth entry in Binds.
type Query struct {
	SQL   string
	Binds []Value
}

// String implements fmt.Stringer, returning the SQL text.
func (q Query) String() string { return q.SQL }

// Raw is the single injection-unsafe escape hatch: a Raw part passed to
// Build is appended to the SQL text verbatim instead of becoming a bound
// parameter. The caller is responsible for its safety — this is exactly
// the `{raw: S}` interpolation form of §4.4.
type Raw string

// Build assembles a Query from a sequence of parts, implementing the
// interpolation forms of §4.4's table. Parts alternate between literal SQL
// text and interpolated values, starting with text: a string at an even
// position (0, 2, 4, ...) is literal text, appended verbatim. Every other
// part is an interpolation:
//
//   - a Raw part is appended to the SQL text verbatim — Raw exists to make
//     the unsafe case syntactically obvious at the call site;
//   - a Query part is spliced in as a fragment: its text is appended and
//     its bindings are appended in order (the `{fragment: Q}` form);
//   - a *Query part that is nil is an absent fragment and contributes
//     nothing;
//   - any other value, including a string at an odd position, is encoded
//     via EncodeValue and appended as a single `?` placeholder plus one
//     binding (the `{value}` form).
//
// Placeholder count equals binding count by construction: Build never
// appends a `?` without a corresponding Bind, and never appends a Bind
// without a `?`.
func Build(parts ...interface{}) (Query, error) {
	var sql strings.Builder
	var binds []Value
	for i, p := range parts {
		if s, ok := p.(string); ok && i%2 == 0 {
			sql.WriteString(s)
			continue
		}
		switch x := p.(type) {
		case Raw:
			sql.WriteString(string(x))
		case Query:
			sql.WriteString(x.SQL)
			binds = append(binds, x.Binds...)
		case *Query:
			if x == nil {
				continue
			}
			sql.WriteString(x.SQL)
			binds = append(binds, x.Binds...)
		default:
			v, err := EncodeValue(x)
			if err != nil {
				return Query{}, err
			}
			sql.WriteByte('?')
			binds = append(binds, v)
		}
	}
	return Query{SQL: sql.String(), Binds: binds}, nil
}

// MustBuild is like Build but panics on error; useful for query fragments
// built from values already known to be encodable (literal constants).
func MustBuild(parts ...interface{}) Query {
	q, err := Build(parts...)
	if err != nil {
		panic(err)
	}
	return q
}

// RawQuery constructs a Query directly from SQL text and an explicit list
// of bindings, without requiring the two to correspond. This exists so
// tests (and advanced callers) can exercise Prepare's binding-mismatch
// detection (§8 S4) by constructing a deliberately mismatched Query; Build
// can never produce one.
func RawQuery(sql string, binds ...Value) Query {
	return Query{SQL: sql, Binds: binds}
}

// Concat concatenates two Bound Queries: concatenated text, concatenated
// bindings, per §3's composition rule.
func (q Query) Concat(other Query) Query {
	binds := make([]Value, 0, len(q.Binds)+len(other.Binds))
	binds = append(binds, q.Binds...)
	binds = append(binds, other.Binds...)
	return Query{SQL: q.SQL + other.SQL, Binds: binds}
}
