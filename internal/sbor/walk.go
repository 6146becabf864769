package sbor

import (
	"encoding/binary"

	"github.com/nexargate/resource-engine/internal/rterr"
)

// Classifier is applied to every bucket/reference custom leaf the walker
// encounters. internal/process holds a "move" classifier that drains
// ownership into the current frame's moving set and a "reject"
// classifier that fails on any bucket/reference id; Identity below
// passes ids through unchanged.
type Classifier interface {
	Bucket(id uint64) (uint64, error)
	Reference(id uint64) (uint64, error)
}

type identityClassifier struct{}

func (identityClassifier) Bucket(id uint64) (uint64, error)    { return id, nil }
func (identityClassifier) Reference(id uint64) (uint64, error) { return id, nil }

// Identity is a Classifier that leaves every bucket/reference id
// unchanged; used to assert the walker's round-trip invariant.
var Identity Classifier = identityClassifier{}

// Walk decodes data, visits every node applying c to bucket/reference
// custom leaves, and re-encodes the transformed tree. The traversal is
// iterative (an explicit work-stack, not Go call-stack recursion) so that
// adversarially deep payloads cannot exhaust the goroutine stack.
func Walk(data []byte, c Classifier) ([]byte, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, rterr.Wrap(rterr.Codec, err, "decode SBOR payload")
	}
	out, err := walk(v, c)
	if err != nil {
		return nil, err
	}
	return Encode(out), nil
}

// buildInfo describes how to reassemble a composite Value once all of its
// children have been transformed and are sitting on the value stack.
type buildInfo struct {
	typ        TypeID
	n          int
	elemType   TypeID
	fieldsKind FieldsKind
	names      []string
	variant    uint8
	keyType    TypeID
	valType    TypeID
	isMap      bool
}

type instr struct {
	isBuild bool
	val     Value
	build   buildInfo
}

func walk(root Value, c Classifier) (Value, error) {
	work := []instr{{val: root}}
	var values []Value

	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]

		if cur.isBuild {
			n := cur.build.n
			if n > len(values) {
				return Value{}, rterr.New(rterr.Codec, "internal walker underflow")
			}
			children := append([]Value(nil), values[len(values)-n:]...)
			values = values[:len(values)-n]
			rebuilt, err := rebuild(cur.build, children)
			if err != nil {
				return Value{}, err
			}
			values = append(values, rebuilt)
			continue
		}

		v := cur.val
		switch v.Type {
		case TUnit, TBool, TI8, TI16, TI32, TI64, TU8, TU16, TU32, TU64, TString:
			values = append(values, v)

		case TOption:
			if v.Some == nil {
				values = append(values, v)
				continue
			}
			work = append(work, instr{isBuild: true, build: buildInfo{typ: TOption, n: 1}})
			work = append(work, instr{val: *v.Some})

		case TBox:
			work = append(work, instr{isBuild: true, build: buildInfo{typ: TBox, n: 1}})
			work = append(work, instr{val: *v.Boxed})

		case TArray, TVec, TTreeSet, THashSet:
			work = append(work, instr{isBuild: true, build: buildInfo{typ: v.Type, n: len(v.Elems), elemType: v.ElemType}})
			pushReverse(&work, v.Elems)

		case TTuple:
			work = append(work, instr{isBuild: true, build: buildInfo{typ: TTuple, n: len(v.Tuple)}})
			pushReverse(&work, v.Tuple)

		case TStruct:
			switch v.Fields.Kind {
			case FieldsUnit:
				values = append(values, v)
			case FieldsNamed:
				names := make([]string, len(v.Fields.Named))
				children := make([]Value, len(v.Fields.Named))
				for i, nf := range v.Fields.Named {
					names[i] = nf.Name
					children[i] = nf.Value
				}
				work = append(work, instr{isBuild: true, build: buildInfo{typ: TStruct, n: len(children), fieldsKind: FieldsNamed, names: names}})
				pushReverse(&work, children)
			case FieldsUnnamed:
				work = append(work, instr{isBuild: true, build: buildInfo{typ: TStruct, n: len(v.Fields.Unnamed), fieldsKind: FieldsUnnamed}})
				pushReverse(&work, v.Fields.Unnamed)
			}

		case TEnum:
			switch v.Fields.Kind {
			case FieldsUnit:
				values = append(values, v)
			case FieldsNamed:
				names := make([]string, len(v.Fields.Named))
				children := make([]Value, len(v.Fields.Named))
				for i, nf := range v.Fields.Named {
					names[i] = nf.Name
					children[i] = nf.Value
				}
				work = append(work, instr{isBuild: true, build: buildInfo{typ: TEnum, n: len(children), fieldsKind: FieldsNamed, names: names, variant: v.Variant}})
				pushReverse(&work, children)
			case FieldsUnnamed:
				work = append(work, instr{isBuild: true, build: buildInfo{typ: TEnum, n: len(v.Fields.Unnamed), fieldsKind: FieldsUnnamed, variant: v.Variant}})
				pushReverse(&work, v.Fields.Unnamed)
			}

		case TTreeMap, THashMap:
			n := len(v.Pairs)
			flat := make([]Value, 0, n*2)
			for _, p := range v.Pairs {
				flat = append(flat, p.Key, p.Val)
			}
			work = append(work, instr{isBuild: true, build: buildInfo{typ: v.Type, n: len(flat), isMap: true, keyType: v.KeyType, valType: v.ValType}})
			pushReverse(&work, flat)

		case TCustom:
			nv, err := classifyCustom(v, c)
			if err != nil {
				return Value{}, err
			}
			values = append(values, nv)

		default:
			return Value{}, rterr.New(rterr.Codec, "walk: unknown type %d", v.Type)
		}
	}

	if len(values) != 1 {
		return Value{}, rterr.New(rterr.Codec, "internal walker imbalance: %d results", len(values))
	}
	return values[0], nil
}

// pushReverse pushes vs onto work in reverse order so that, once work is
// treated as a stack, vs[0] is popped (and therefore visited) first.
func pushReverse(work *[]instr, vs []Value) {
	for i := len(vs) - 1; i >= 0; i-- {
		*work = append(*work, instr{val: vs[i]})
	}
}

func rebuild(b buildInfo, children []Value) (Value, error) {
	switch b.typ {
	case TOption:
		c := children[0]
		return Value{Type: TOption, Some: &c}, nil
	case TBox:
		c := children[0]
		return Value{Type: TBox, Boxed: &c}, nil
	case TArray, TVec, TTreeSet, THashSet:
		return Value{Type: b.typ, ElemType: b.elemType, Elems: children}, nil
	case TTuple:
		return Value{Type: TTuple, Tuple: children}, nil
	case TStruct, TEnum:
		var f Fields
		switch b.fieldsKind {
		case FieldsNamed:
			named := make([]NamedField, len(children))
			for i, c := range children {
				named[i] = NamedField{Name: b.names[i], Value: c}
			}
			f = Fields{Kind: FieldsNamed, Named: named}
		case FieldsUnnamed:
			f = Fields{Kind: FieldsUnnamed, Unnamed: children}
		default:
			f = Fields{Kind: FieldsUnit}
		}
		if b.typ == TEnum {
			return Value{Type: TEnum, Variant: b.variant, Fields: f}, nil
		}
		return Value{Type: TStruct, Fields: f}, nil
	case TTreeMap, THashMap:
		pairs := make([]Pair, 0, len(children)/2)
		for i := 0; i+1 < len(children); i += 2 {
			pairs = append(pairs, Pair{Key: children[i], Val: children[i+1]})
		}
		return Value{Type: b.typ, KeyType: b.keyType, ValType: b.valType, Pairs: pairs}, nil
	default:
		return Value{}, rterr.New(rterr.Codec, "rebuild: unhandled type %d", b.typ)
	}
}

func classifyCustom(v Value, c Classifier) (Value, error) {
	switch v.CustomTag {
	case TypeBucket:
		id, err := decodeID(v.CustomData)
		if err != nil {
			return Value{}, rterr.Wrap(rterr.Codec, err, "invalid bucket custom payload")
		}
		newID, err := c.Bucket(id)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TCustom, CustomTag: TypeBucket, CustomData: encodeID(newID)}, nil
	case TypeReference:
		id, err := decodeID(v.CustomData)
		if err != nil {
			return Value{}, rterr.Wrap(rterr.Codec, err, "invalid reference custom payload")
		}
		newID, err := c.Reference(id)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TCustom, CustomTag: TypeReference, CustomData: encodeID(newID)}, nil
	default:
		return v, nil
	}
}

func decodeID(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, rterr.New(rterr.Codec, "expected 8-byte id, got %d bytes", len(data))
	}
	return binary.LittleEndian.Uint64(data), nil
}

func encodeID(id uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, id)
	return b
}

// BucketValue builds the custom-tagged leaf Value for a bucket id.
func BucketValue(id uint64) Value {
	return Value{Type: TCustom, CustomTag: TypeBucket, CustomData: encodeID(id)}
}

// ReferenceValue builds the custom-tagged leaf Value for a reference id.
func ReferenceValue(id uint64) Value {
	return Value{Type: TCustom, CustomTag: TypeReference, CustomData: encodeID(id)}
}
