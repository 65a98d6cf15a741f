package structure

import "strconv"

// Kind identifies the variant stored in a Value. Mappings and sequences are
// structural; the remaining kinds are scalars.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	}
	return "unknown"
}

// Scalar reports whether the kind is one of the four scalar variants.
func (k Kind) Scalar() bool {
	return k != KindMapping && k != KindSequence
}

// Value is a tagged union over the shapes a structure tree can take:
// scalar (string, number, bool, null), mapping, or sequence. Mappings keep
// their keys in insertion order so that output derived from a tree is
// reproducible; order never affects comparison semantics.
//
// A Value is built once (by the decoder, the extractor, or the constructors
// below) and read-only afterwards.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	keys []string
	m    map[string]Value
	seq  []Value
}

// Null returns the null scalar. It is also the zero Value.
func Null() Value { return Value{kind: KindNull} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

func String(s string) Value { return Value{kind: KindString, str: s} }

// Sequence builds an ordered sequence from the given items.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, seq: items}
}

// NewMapping returns an empty mapping ready for Set calls.
func NewMapping() Value {
	return Value{kind: KindMapping, m: map[string]Value{}}
}

func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload; zero unless KindString.
func (v Value) Str() string { return v.str }

// Num returns the numeric payload; zero unless KindNumber.
func (v Value) Num() float64 { return v.num }

// Bool returns the boolean payload; zero unless KindBool.
func (v Value) Bool() bool { return v.b }

// Set inserts or replaces a mapping entry. New keys append to the key order;
// replaced keys keep their original position. Set panics on non-mappings,
// mirroring writes through a nil map.
func (v *Value) Set(key string, val Value) {
	if v.kind != KindMapping {
		panic("structure: Set on non-mapping value")
	}
	if _, ok := v.m[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.m[key] = val
}

// Get looks up a mapping key. The second return is false for missing keys
// and for non-mapping values.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	val, ok := v.m[key]
	return val, ok
}

// Keys returns mapping keys in insertion order. Callers must not modify the
// returned slice.
func (v Value) Keys() []string { return v.keys }

// Items returns sequence elements in order. Callers must not modify the
// returned slice.
func (v Value) Items() []Value { return v.seq }

// Append adds items to a sequence, panicking on other kinds.
func (v *Value) Append(items ...Value) {
	if v.kind != KindSequence {
		panic("structure: Append on non-sequence value")
	}
	v.seq = append(v.seq, items...)
}

// Len returns the entry count for mappings and sequences, zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindMapping:
		return len(v.keys)
	case KindSequence:
		return len(v.seq)
	}
	return 0
}

// StringAt returns the string payload of a mapping attribute, or "" when the
// key is absent or not a string. Keyed-collection matching relies on this
// default so that malformed items degrade to key mismatches instead of
// aborting a comparison.
func (v Value) StringAt(key string) string {
	val, ok := v.Get(key)
	if !ok || val.kind != KindString {
		return ""
	}
	return val.str
}

// Equal reports scalar value equality. Values of different kinds are never
// equal; mappings and sequences always compare false here, deep comparison
// being the differ's job.
func Equal(a, b Value) bool {
	if a.kind != b.kind || !a.kind.Scalar() {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str == b.str
	}
	return false
}

// Format renders a scalar for discrepancy messages: strings bare, numbers in
// minimal form, booleans as true/false, null as null. Structural values
// render as their kind name.
func (v Value) Format() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	}
	return v.kind.String()
}
