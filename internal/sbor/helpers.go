package sbor

// The constructors below build the common leaf/collection shapes used by
// the CLI (encoding a human-typed argument like `123` or `hello`) and by
// tests assembling fixtures; they are not exhaustive, only covering the
// value shapes this repository's own call sites need.

func Unit() Value { return Value{Type: TUnit} }

func Bool(b bool) Value { return Value{Type: TBool, Bool: b} }

func U8(x uint8) Value  { return Value{Type: TU8, Uint: uint64(x)} }
func U16(x uint16) Value { return Value{Type: TU16, Uint: uint64(x)} }
func U32(x uint32) Value { return Value{Type: TU32, Uint: uint64(x)} }
func U64(x uint64) Value { return Value{Type: TU64, Uint: x} }

func I8(x int8) Value   { return Value{Type: TI8, Int: int64(x)} }
func I32(x int32) Value { return Value{Type: TI32, Int: int64(x)} }
func I64(x int64) Value { return Value{Type: TI64, Int: x} }

func Str(s string) Value { return Value{Type: TString, Str: s} }

// Bytes wraps a raw byte slice as a Vec<u8>, the conventional SBOR shape
// for opaque binary payloads (WASM code, metadata blobs).
func Bytes(b []byte) Value {
	elems := make([]Value, len(b))
	for i, x := range b {
		elems[i] = U8(x)
	}
	return Value{Type: TVec, ElemType: TU8, Elems: elems}
}

// AsBytes unwraps a Vec<u8>-shaped Value back into a byte slice.
func AsBytes(v Value) ([]byte, bool) {
	if v.Type != TVec && v.Type != TArray {
		return nil, false
	}
	out := make([]byte, len(v.Elems))
	for i, e := range v.Elems {
		if e.Type != TU8 {
			return nil, false
		}
		out[i] = byte(e.Uint)
	}
	return out, true
}

// Struct builds an unnamed-field struct (a Rust tuple-struct), the shape
// most call arguments and return values take.
func Struct(fields ...Value) Value {
	return Value{Type: TStruct, Fields: Fields{Kind: FieldsUnnamed, Unnamed: fields}}
}

// NamedStruct builds a named-field struct.
func NamedStruct(fields ...NamedField) Value {
	return Value{Type: TStruct, Fields: Fields{Kind: FieldsNamed, Named: fields}}
}
