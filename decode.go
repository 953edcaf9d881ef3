package dawg

import (
	"reflect"
	"strings"
	"time"
)

// structTag is the struct tag key used to override a field's column name,
// or to exclude the field entirely with a "-" value. Mirrors the
// db-tag convention used throughout the Go SQL ecosystem (database/sql
// wrappers, sqlx-style mappers) rather than inventing a dawg-specific one.
const structTag = "db"

var timeType = reflect.TypeOf(time.Time{})

// Decode implements the structural Row Decoder of §4.3: a single generic
// entry point that dispatches on T's shape into one of three forms.
//
//   - Keyed container (struct, or map[string]V): fields/entries are matched
//     against the row's columns by name. A struct field may rename its
//     match with a `db:"col"` tag, or opt out entirely with `db:"-"`.
//   - Single-value container: any other type decodes the row's sole column
//     — a column-count mismatch if the row doesn't have exactly one.
//   - Unkeyed container (slice, array): always an error. There is no
//     positional correspondence between a row's columns and a slice's
//     indices without the caller saying so explicitly (use Row.Scan, or
//     DecodePair/DecodeTriple, instead).
func Decode[T any](r Row) (T, error) {
	var zero T
	rt := reflect.TypeOf(&zero).Elem()

	if rt == timeType {
		return decodeSingleValue[T](r)
	}

	switch rt.Kind() {
	case reflect.Struct:
		rv := reflect.New(rt).Elem()
		if err := decodeStruct(rv, r); err != nil {
			return zero, err
		}
		return rv.Interface().(T), nil
	case reflect.Map:
		rv := reflect.New(rt).Elem()
		if err := decodeMap(rv, r); err != nil {
			return zero, err
		}
		return rv.Interface().(T), nil
	case reflect.Slice, reflect.Array:
		return zero, shapeErr("unkeyed container %s cannot be decoded from a row; use Row.Scan or a tuple decoder instead", rt)
	default:
		return decodeSingleValue[T](r)
	}
}

// decodeSingleValue implements the single-value-container branch of Decode.
func decodeSingleValue[T any](r Row) (T, error) {
	var zero T
	if r.Len() != 1 {
		return zero, columnCountErr(1, r.Len())
	}
	return decodeValueAs[T](r.values[0])
}

// decodeStruct fills rv (a struct) from r's columns, matching each exported
// field's name (or its `db` tag override) against a column name.
func decodeStruct(rv reflect.Value, r Row) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}
		name, skip := columnNameFor(field)
		if skip {
			continue
		}
		v, ok := r.Get(name)
		if !ok {
			return keyNotFoundErr(name)
		}
		if err := decodeReflect(rv.Field(i), v); err != nil {
			return err
		}
	}
	return nil
}

// columnNameFor resolves the column name a struct field matches against,
// honoring a `db:"col"` tag, `db:"-"` to skip, and otherwise the field name.
func columnNameFor(field reflect.StructField) (name string, skip bool) {
	tag, ok := field.Tag.Lookup(structTag)
	if !ok {
		return field.Name, false
	}
	tag = strings.Split(tag, ",")[0]
	if tag == "-" {
		return "", true
	}
	if tag == "" {
		return field.Name, false
	}
	return tag, false
}

// decodeMap fills rv (a map[string]V) from every column in r.
func decodeMap(rv reflect.Value, r Row) error {
	rt := rv.Type()
	if rt.Key().Kind() != reflect.String {
		return shapeErr("map decode target must be keyed by string, got %s", rt)
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(rt, r.Len()))
	}
	elemType := rt.Elem()
	for i := 0; i < r.Len(); i++ {
		name, val := r.At(i)
		elem := reflect.New(elemType).Elem()
		if err := decodeReflect(elem, val); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(name), elem)
	}
	return nil
}
