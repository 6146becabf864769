package sbor

import (
	"encoding/binary"
	"fmt"

	"github.com/nexargate/resource-engine/internal/rterr"
)

// Encode serializes v into its self-describing binary form.
func Encode(v Value) []byte {
	buf := make([]byte, 0, 64)
	return encodeInto(buf, v)
}

func encodeInto(buf []byte, v Value) []byte {
	buf = append(buf, byte(v.Type))
	switch v.Type {
	case TUnit:
		// no payload
	case TBool:
		if v.Bool {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case TI8:
		buf = append(buf, byte(int8(v.Int)))
	case TI16:
		buf = appendU16(buf, uint16(int16(v.Int)))
	case TI32:
		buf = appendU32(buf, uint32(int32(v.Int)))
	case TI64:
		buf = appendU64(buf, uint64(v.Int))
	case TU8:
		buf = append(buf, byte(v.Uint))
	case TU16:
		buf = appendU16(buf, uint16(v.Uint))
	case TU32:
		buf = appendU32(buf, uint32(v.Uint))
	case TU64:
		buf = appendU64(buf, v.Uint)
	case TString:
		buf = appendU32(buf, uint32(len(v.Str)))
		buf = append(buf, v.Str...)
	case TOption:
		if v.Some == nil {
			buf = append(buf, 0)
		} else {
			buf = append(buf, 1)
			buf = encodeInto(buf, *v.Some)
		}
	case TBox:
		buf = encodeInto(buf, *v.Boxed)
	case TArray, TVec, TTreeSet, THashSet:
		buf = append(buf, byte(v.ElemType))
		buf = appendU32(buf, uint32(len(v.Elems)))
		for _, e := range v.Elems {
			buf = encodeInto(buf, e)
		}
	case TTuple:
		buf = appendU32(buf, uint32(len(v.Tuple)))
		for _, e := range v.Tuple {
			buf = encodeInto(buf, e)
		}
	case TStruct:
		buf = encodeFields(buf, v.Fields)
	case TEnum:
		buf = append(buf, v.Variant)
		buf = encodeFields(buf, v.Fields)
	case TTreeMap, THashMap:
		buf = append(buf, byte(v.KeyType), byte(v.ValType))
		buf = appendU32(buf, uint32(len(v.Pairs)))
		for _, p := range v.Pairs {
			buf = encodeInto(buf, p.Key)
			buf = encodeInto(buf, p.Val)
		}
	case TCustom:
		buf = append(buf, v.CustomTag)
		buf = appendU32(buf, uint32(len(v.CustomData)))
		buf = append(buf, v.CustomData...)
	default:
		panic(fmt.Sprintf("sbor: encode: unknown type %d", v.Type))
	}
	return buf
}

func encodeFields(buf []byte, f Fields) []byte {
	buf = append(buf, byte(f.Kind))
	switch f.Kind {
	case FieldsUnit:
	case FieldsNamed:
		buf = appendU32(buf, uint32(len(f.Named)))
		for _, nf := range f.Named {
			buf = appendU32(buf, uint32(len(nf.Name)))
			buf = append(buf, nf.Name...)
			buf = encodeInto(buf, nf.Value)
		}
	case FieldsUnnamed:
		buf = appendU32(buf, uint32(len(f.Unnamed)))
		for _, e := range f.Unnamed {
			buf = encodeInto(buf, e)
		}
	}
	return buf
}

func appendU16(buf []byte, x uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], x)
	return append(buf, b[:]...)
}

func appendU32(buf []byte, x uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], x)
	return append(buf, b[:]...)
}

func appendU64(buf []byte, x uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], x)
	return append(buf, b[:]...)
}

// decoder reads a Value tree off a byte slice.
type decoder struct {
	buf []byte
	pos int
}

// Decode parses a single Value from data; it fails if trailing bytes
// remain, mirroring decode_with_type's `check_end` in the original codec.
func Decode(data []byte) (Value, error) {
	d := &decoder{buf: data}
	v, err := d.value()
	if err != nil {
		return Value{}, err
	}
	if d.pos != len(d.buf) {
		return Value{}, rterr.New(rterr.Codec, "trailing %d bytes after value", len(d.buf)-d.pos)
	}
	return v, nil
}

func (d *decoder) need(n int) error {
	if d.pos+n > len(d.buf) {
		return rterr.New(rterr.Codec, "truncated SBOR payload: need %d bytes at offset %d, have %d", n, d.pos, len(d.buf)-d.pos)
	}
	return nil
}

func (d *decoder) byte() (byte, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) bytes(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) u16() (uint16, error) {
	b, err := d.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *decoder) u64() (uint64, error) {
	b, err := d.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *decoder) value() (Value, error) {
	tb, err := d.byte()
	if err != nil {
		return Value{}, err
	}
	t := TypeID(tb)
	switch t {
	case TUnit:
		return Value{Type: TUnit}, nil
	case TBool:
		b, err := d.byte()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TBool, Bool: b != 0}, nil
	case TI8:
		b, err := d.byte()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TI8, Int: int64(int8(b))}, nil
	case TI16:
		u, err := d.u16()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TI16, Int: int64(int16(u))}, nil
	case TI32:
		u, err := d.u32()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TI32, Int: int64(int32(u))}, nil
	case TI64:
		u, err := d.u64()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TI64, Int: int64(u)}, nil
	case TU8:
		b, err := d.byte()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TU8, Uint: uint64(b)}, nil
	case TU16:
		u, err := d.u16()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TU16, Uint: uint64(u)}, nil
	case TU32:
		u, err := d.u32()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TU32, Uint: uint64(u)}, nil
	case TU64:
		u, err := d.u64()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TU64, Uint: u}, nil
	case TString:
		n, err := d.u32()
		if err != nil {
			return Value{}, err
		}
		b, err := d.bytes(int(n))
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TString, Str: string(b)}, nil
	case TOption:
		present, err := d.byte()
		if err != nil {
			return Value{}, err
		}
		if present == 0 {
			return Value{Type: TOption}, nil
		}
		inner, err := d.value()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TOption, Some: &inner}, nil
	case TBox:
		inner, err := d.value()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TBox, Boxed: &inner}, nil
	case TArray, TVec, TTreeSet, THashSet:
		etb, err := d.byte()
		if err != nil {
			return Value{}, err
		}
		n, err := d.u32()
		if err != nil {
			return Value{}, err
		}
		elems := make([]Value, 0, n)
		for i := uint32(0); i < n; i++ {
			e, err := d.value()
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, e)
		}
		return Value{Type: t, ElemType: TypeID(etb), Elems: elems}, nil
	case TTuple:
		n, err := d.u32()
		if err != nil {
			return Value{}, err
		}
		elems := make([]Value, 0, n)
		for i := uint32(0); i < n; i++ {
			e, err := d.value()
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, e)
		}
		return Value{Type: TTuple, Tuple: elems}, nil
	case TStruct:
		f, err := d.fields()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TStruct, Fields: f}, nil
	case TEnum:
		variant, err := d.byte()
		if err != nil {
			return Value{}, err
		}
		f, err := d.fields()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TEnum, Variant: variant, Fields: f}, nil
	case TTreeMap, THashMap:
		kt, err := d.byte()
		if err != nil {
			return Value{}, err
		}
		vt, err := d.byte()
		if err != nil {
			return Value{}, err
		}
		n, err := d.u32()
		if err != nil {
			return Value{}, err
		}
		pairs := make([]Pair, 0, n)
		for i := uint32(0); i < n; i++ {
			k, err := d.value()
			if err != nil {
				return Value{}, err
			}
			v, err := d.value()
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: k, Val: v})
		}
		return Value{Type: t, KeyType: TypeID(kt), ValType: TypeID(vt), Pairs: pairs}, nil
	case TCustom:
		tag, err := d.byte()
		if err != nil {
			return Value{}, err
		}
		n, err := d.u32()
		if err != nil {
			return Value{}, err
		}
		data, err := d.bytes(int(n))
		if err != nil {
			return Value{}, err
		}
		cp := make([]byte, len(data))
		copy(cp, data)
		return Value{Type: TCustom, CustomTag: tag, CustomData: cp}, nil
	default:
		return Value{}, rterr.New(rterr.Codec, "unknown SBOR type tag 0x%02x", tb)
	}
}

func (d *decoder) fields() (Fields, error) {
	kb, err := d.byte()
	if err != nil {
		return Fields{}, err
	}
	kind := FieldsKind(kb)
	switch kind {
	case FieldsUnit:
		return Fields{Kind: FieldsUnit}, nil
	case FieldsNamed:
		n, err := d.u32()
		if err != nil {
			return Fields{}, err
		}
		named := make([]NamedField, 0, n)
		for i := uint32(0); i < n; i++ {
			nl, err := d.u32()
			if err != nil {
				return Fields{}, err
			}
			nb, err := d.bytes(int(nl))
			if err != nil {
				return Fields{}, err
			}
			val, err := d.value()
			if err != nil {
				return Fields{}, err
			}
			named = append(named, NamedField{Name: string(nb), Value: val})
		}
		return Fields{Kind: FieldsNamed, Named: named}, nil
	case FieldsUnnamed:
		n, err := d.u32()
		if err != nil {
			return Fields{}, err
		}
		unnamed := make([]Value, 0, n)
		for i := uint32(0); i < n; i++ {
			val, err := d.value()
			if err != nil {
				return Fields{}, err
			}
			unnamed = append(unnamed, val)
		}
		return Fields{Kind: FieldsUnnamed, Unnamed: unnamed}, nil
	default:
		return Fields{}, rterr.New(rterr.Codec, "unknown fields kind %d", kb)
	}
}
