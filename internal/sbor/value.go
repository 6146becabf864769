// Package sbor is a structural binary codec for the values that cross the
// guest/host boundary: call arguments, return values, component state and
// storage entries. It is a small self-describing value model plus an
// iterative structural walker that can classify and rewrite bucket and
// reference ids embedded anywhere in an arbitrary payload.
//
// Two byte values are reserved as "custom" leaf tags so that transient
// bucket and reference ids can be embedded in otherwise arbitrary payloads
// and recognized by the walker. The values reuse the constants the Radix
// Engine's scrypto crate assigns to the same concept
// (SCRYPTO_TYPE_BID / SCRYPTO_TYPE_RID in scrypto/src/constants/mod.rs) so
// that golden fixtures ported from that corpus decode unchanged.
package sbor

const (
	TypeBucket    byte = 0x83 // custom tag: transient bucket id (BID)
	TypeReference byte = 0x84 // custom tag: borrowed bucket reference id (RID)
)

// TypeID tags every node in a Value tree so the decoder knows how to read
// the payload that follows and the walker knows how to recurse.
type TypeID byte

const (
	TUnit TypeID = iota
	TBool
	TI8
	TI16
	TI32
	TI64
	TU8
	TU16
	TU32
	TU64
	TString
	TOption
	TBox
	TArray
	TTuple
	TStruct
	TEnum
	TVec
	TTreeSet
	THashSet
	TTreeMap
	THashMap
	TCustom
)

// FieldsKind distinguishes the three shapes a Rust-style struct or enum
// variant's payload can take.
type FieldsKind byte

const (
	FieldsUnit FieldsKind = iota
	FieldsNamed
	FieldsUnnamed
)

// NamedField is one field of a FieldsNamed payload.
type NamedField struct {
	Name  string
	Value Value
}

// Fields is the payload carried by a Struct or an Enum variant.
type Fields struct {
	Kind    FieldsKind
	Named   []NamedField
	Unnamed []Value
}

// Pair is one entry of an ordered or unordered map.
type Pair struct {
	Key Value
	Val Value
}

// Value is a decoded SBOR node. Exactly one of the fields is meaningful,
// selected by Type: a plain data-carrying struct rather than a deep
// interface hierarchy, so callers can switch on Type without type
// assertions.
type Value struct {
	Type TypeID

	Bool bool
	Int  int64
	Uint uint64
	Str  string

	// Option: Some == nil means None.
	Some *Value

	// Box
	Boxed *Value

	// Array / Vec / TreeSet / HashSet share this shape; ElemType is the
	// declared element type, kept for round-trip fidelity even though
	// every element is self-describing.
	ElemType TypeID
	Elems    []Value

	// Tuple
	Tuple []Value

	// Struct / Enum
	Variant uint8 // enum discriminant; unused for Struct
	Fields  Fields

	// TreeMap / HashMap
	KeyType TypeID
	ValType TypeID
	Pairs   []Pair

	// Custom
	CustomTag  byte
	CustomData []byte
}

// IsBucket reports whether v is a custom leaf tagged as a bucket id.
func (v Value) IsBucket() bool { return v.Type == TCustom && v.CustomTag == TypeBucket }

// IsReference reports whether v is a custom leaf tagged as a reference id.
func (v Value) IsReference() bool { return v.Type == TCustom && v.CustomTag == TypeReference }
