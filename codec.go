package dawg

import (
	"math"
	"reflect"
	"time"
)

// signed, unsigned and floatKind constrain the generic Decode* helpers to
// the host integer/float widths the primitive codec supports.
type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type floatKind interface {
	~float32 | ~float64
}

// EncodeValue converts a host primitive into its Value representation,
// the "obvious variant" per §4.1's encoding contract. Supported inputs:
// nil, bool, every sized int/uint, float32/float64, string, []byte, Blob,
// time.Time, and Value itself (passed through unchanged). Optional values
// are represented as a nil pointer (encodes to Null) or a non-nil pointer
// (delegates to the pointee).
func EncodeValue(v interface{}) (Value, error) {
	switch x := v.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return x, nil
	case bool:
		if x {
			return IntegerValue(1), nil
		}
		return IntegerValue(0), nil
	case int:
		return IntegerValue(int64(x)), nil
	case int8:
		return IntegerValue(int64(x)), nil
	case int16:
		return IntegerValue(int64(x)), nil
	case int32:
		return IntegerValue(int64(x)), nil
	case int64:
		return IntegerValue(x), nil
	case uint:
		return IntegerValue(int64(x)), nil
	case uint8:
		return IntegerValue(int64(x)), nil
	case uint16:
		return IntegerValue(int64(x)), nil
	case uint32:
		return IntegerValue(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, typeMismatchErr("uint64 value %d overflows int64 storage", x)
		}
		return IntegerValue(int64(x)), nil
	case float32:
		return FloatValue(float64(x)), nil
	case float64:
		return FloatValue(x), nil
	case string:
		return TextValue(x), nil
	case []byte:
		if len(x) == 0 {
			return BlobValue(EmptyBlob()), nil
		}
		return BlobValue(LoadedBlob(x)), nil
	case Blob:
		return BlobValue(x), nil
	case time.Time:
		return FloatValue(float64(x.UnixNano()) / 1e9), nil
	}

	// Optional wrapper: a nil pointer encodes as Null, a non-nil pointer
	// delegates to its pointee.
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return NullValue(), nil
		}
		return EncodeValue(rv.Elem().Interface())
	}

	return Value{}, typeMismatchErr("cannot encode value of type %T", v)
}

// DecodeSigned decodes v into a signed integer of width T, per §4.1: from
// the integer variant when it fits T's range, or from the float variant
// when it is integral and in range. Any other variant, or an out-of-range
// value, is a decode-type-mismatch error — never a silent wrap.
func DecodeSigned[T signed](v Value) (T, error) {
	var zero T
	n, err := decodeInt64(v)
	if err != nil {
		return zero, err
	}
	t := T(n)
	if int64(t) != n {
		return zero, typeMismatchErr("integer value %d overflows target type", n)
	}
	return t, nil
}

// DecodeUnsigned decodes v into an unsigned integer of width T, following
// the same integer/float coercion rules as DecodeSigned.
func DecodeUnsigned[T unsigned](v Value) (T, error) {
	var zero T
	n, err := decodeInt64(v)
	if err != nil {
		return zero, err
	}
	if n < 0 {
		return zero, typeMismatchErr("negative value %d cannot decode to an unsigned type", n)
	}
	t := T(uint64(n))
	if int64(t) != n {
		return zero, typeMismatchErr("integer value %d overflows target type", n)
	}
	return t, nil
}

// decodeInt64 implements the integer-typed decode contract of §4.1 at full
// width: integer variant passes through; float variant must be integral.
func decodeInt64(v Value) (int64, error) {
	switch v.Kind() {
	case Integer:
		n, _ := v.AsInteger()
		return n, nil
	case Float:
		f, _ := v.AsFloat()
		if math.Trunc(f) != f {
			return 0, typeMismatchErr("float value %v is not integral", f)
		}
		// float64(math.MaxInt64) rounds up to 2^63, which is itself out of range.
		if f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, typeMismatchErr("float value %v overflows int64", f)
		}
		return int64(f), nil
	default:
		return 0, typeMismatchErr("cannot decode %s as an integer", v.Kind())
	}
}

// DecodeFloat decodes v into a float of width T. §4.1: from the float
// variant directly, or from the integer variant by exact conversion.
func DecodeFloat[T floatKind](v Value) (T, error) {
	var zero T
	switch v.Kind() {
	case Float:
		f, _ := v.AsFloat()
		return T(f), nil
	case Integer:
		n, _ := v.AsInteger()
		t := T(n)
		if float64(t) >= math.MaxInt64 || int64(t) != n {
			return zero, typeMismatchErr("integer value %d has no exact %T representation", n, t)
		}
		return t, nil
	default:
		return zero, typeMismatchErr("cannot decode %s as a float", v.Kind())
	}
}

// DecodeBool decodes v as a boolean. The source's coercion is preserved
// verbatim even though it reads backwards: integer 0 decodes to true, any
// other integer decodes to false. No other variant coerces to bool.
func DecodeBool(v Value) (bool, error) {
	if v.Kind() != Integer {
		return false, typeMismatchErr("cannot decode %s as a boolean", v.Kind())
	}
	n, _ := v.AsInteger()
	return n == 0, nil
}

// DecodeString decodes v as UTF-8 text. Only the text variant coerces.
func DecodeString(v Value) (string, error) {
	if v.Kind() != Text {
		return "", typeMismatchErr("cannot decode %s as text", v.Kind())
	}
	s, _ := v.AsText()
	return s, nil
}

// DecodeBytes decodes v as a blob. Only the blob variant coerces.
func DecodeBytes(v Value) ([]byte, error) {
	if v.Kind() != BlobKind {
		return nil, typeMismatchErr("cannot decode %s as a blob", v.Kind())
	}
	b, _ := v.AsBlob()
	return b.Bytes(), nil
}

// DecodeOptional decodes v with inner, treating Null as absent (a nil
// result) rather than an error.
func DecodeOptional[T any](v Value, inner func(Value) (T, error)) (*T, error) {
	if v.IsNull() {
		return nil, nil
	}
	t, err := inner(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// decodeReflect assigns v into the addressable reflect.Value rv, dispatching
// on rv's underlying kind so named primitive types (e.g. type UserID int64)
// decode the same way their underlying type would. It is the engine behind
// both Row's positional/named primitive decode and the structural decoder's
// per-field assignment (§4.2, §4.3).
func decodeReflect(rv reflect.Value, v Value) error {
	if rv.Kind() == reflect.Ptr {
		if v.IsNull() {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decodeReflect(rv.Elem(), v)
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := decodeInt64(v)
		if err != nil {
			return err
		}
		if rv.OverflowInt(n) {
			return typeMismatchErr("integer value %d overflows field of type %s", n, rv.Type())
		}
		rv.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := decodeInt64(v)
		if err != nil {
			return err
		}
		if n < 0 || rv.OverflowUint(uint64(n)) {
			return typeMismatchErr("integer value %d overflows field of type %s", n, rv.Type())
		}
		rv.SetUint(uint64(n))
		return nil
	case reflect.Float32, reflect.Float64:
		switch v.Kind() {
		case Float:
			f, _ := v.AsFloat()
			rv.SetFloat(f)
			return nil
		case Integer:
			n, _ := v.AsInteger()
			rv.SetFloat(float64(n))
			return nil
		default:
			return typeMismatchErr("cannot decode %s as a float", v.Kind())
		}
	case reflect.Bool:
		b, err := DecodeBool(v)
		if err != nil {
			return err
		}
		rv.SetBool(b)
		return nil
	case reflect.String:
		s, err := DecodeString(v)
		if err != nil {
			return err
		}
		rv.SetString(s)
		return nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() != reflect.Uint8 {
			return shapeErr("unsupported field slice type %s", rv.Type())
		}
		b, err := DecodeBytes(v)
		if err != nil {
			return err
		}
		rv.SetBytes(b)
		return nil
	case reflect.Struct:
		if rv.Type() == reflect.TypeOf(time.Time{}) {
			t, err := DecodeTime(v)
			if err != nil {
				return err
			}
			rv.Set(reflect.ValueOf(t))
			return nil
		}
		return shapeErr("nested keyed container in field of type %s is not supported", rv.Type())
	case reflect.Interface:
		// dynamicValue(NullValue()) returns a bare Go nil, and
		// reflect.ValueOf(nil) is the zero reflect.Value — Set would panic
		// ("reflect: Set using zero Value argument") rather than leaving an
		// interface{}/any destination holding a typed nil. Null must zero
		// the destination explicitly instead.
		if v.IsNull() {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		rv.Set(reflect.ValueOf(dynamicValue(v)))
		return nil
	default:
		return shapeErr("unsupported field type %s", rv.Type())
	}
}

// dynamicValue converts v into the most natural Go representation for an
// interface{}/any destination: int64, float64, string, []byte or nil.
func dynamicValue(v Value) interface{} {
	switch v.Kind() {
	case Null:
		return nil
	case Integer:
		n, _ := v.AsInteger()
		return n
	case Float:
		f, _ := v.AsFloat()
		return f
	case Text:
		s, _ := v.AsText()
		return s
	case BlobKind:
		b, _ := v.AsBlob()
		return b.Bytes()
	default:
		return nil
	}
}
