package dawg

// ValueKind tags the dynamic storage type of a Value, matching SQLite's own
// fundamental datatypes plus the absence of one.
type ValueKind uint8

const (
	Null ValueKind = iota
	Integer
	Float
	Text
	BlobKind
)

func (k ValueKind) String() string {
	switch k {
	case Null:
		return "null"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Text:
		return "text"
	case BlobKind:
		return "blob"
	default:
		return "unknown"
	}
}

// Blob is a variant over an empty blob and a loaded (non-empty) blob. At
// bind time (§4.5 step 4) a blob with no bytes binds through the
// statically-borrowed sentinel destructor and one with bytes through the
// transient-copy destructor, both via sqlite3_bind_blob; the choice is made
// on the byte length, so a zero-length LoadedBlob binds like EmptyBlob.
type Blob struct {
	bytes  []byte
	loaded bool
}

// EmptyBlob constructs the empty blob variant.
func EmptyBlob() Blob { return Blob{} }

// LoadedBlob constructs the loaded(bytes) variant. A nil or zero-length
// slice still produces the loaded variant if this constructor is used
// explicitly; EncodeValue picks EmptyBlob for a []byte with len 0 instead.
func LoadedBlob(b []byte) Blob { return Blob{bytes: b, loaded: true} }

// IsLoaded reports whether this is the loaded(bytes) variant.
func (b Blob) IsLoaded() bool { return b.loaded }

// Bytes returns the underlying bytes, or nil for the empty variant.
func (b Blob) Bytes() []byte { return b.bytes }

func (b Blob) equal(o Blob) bool {
	if b.loaded != o.loaded {
		return false
	}
	if len(b.bytes) != len(o.bytes) {
		return false
	}
	for i := range b.bytes {
		if b.bytes[i] != o.bytes[i] {
			return false
		}
	}
	return true
}

// Value is a tagged variant over SQLite's dynamic storage classes: null,
// a 64-bit signed integer, a 64-bit IEEE-754 float, a UTF-8 text string, or
// a Blob. Values are immutable once constructed and compare structurally
// via Equal.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
	b    Blob
}

// NullValue constructs the null variant.
func NullValue() Value { return Value{kind: Null} }

// IntegerValue constructs the integer variant.
func IntegerValue(v int64) Value { return Value{kind: Integer, i: v} }

// FloatValue constructs the float variant.
func FloatValue(v float64) Value { return Value{kind: Float, f: v} }

// TextValue constructs the text variant.
func TextValue(v string) Value { return Value{kind: Text, s: v} }

// BlobValue constructs the blob variant from a Blob.
func BlobValue(v Blob) Value { return Value{kind: BlobKind, b: v} }

// Kind reports the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether this value is the null variant.
func (v Value) IsNull() bool { return v.kind == Null }

// AsInteger returns the raw integer payload and whether the kind was Integer.
func (v Value) AsInteger() (int64, bool) { return v.i, v.kind == Integer }

// AsFloat returns the raw float payload and whether the kind was Float.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == Float }

// AsText returns the raw text payload and whether the kind was Text.
func (v Value) AsText() (string, bool) { return v.s, v.kind == Text }

// AsBlob returns the raw blob payload and whether the kind was BlobKind.
func (v Value) AsBlob() (Blob, bool) { return v.b, v.kind == BlobKind }

// Equal reports structural equality: same kind and same payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Integer:
		return v.i == o.i
	case Float:
		return v.f == o.f
	case Text:
		return v.s == o.s
	case BlobKind:
		return v.b.equal(o.b)
	default:
		return false
	}
}
