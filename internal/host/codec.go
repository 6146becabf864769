// Package host implements the single multiplexed host-call dispatcher a
// guest module calls back into: it decodes the SBOR request, routes to
// a handler keyed by op code, and SBOR-encodes the response. Handlers
// read and mutate the calling Process's frame state and, through the
// Process's Runtime, the transaction's ledger shadow.
package host

import (
	"math/big"

	"github.com/nexargate/resource-engine/internal/resource"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/sbor"
	"github.com/nexargate/resource-engine/pkg/types"
)

// addressValue / amountValue / etc. give every handler a single place to
// agree on how domain types are shaped as SBOR, since the op table in
// §4.3 specifies schemas only in prose.

func addressValue(a types.Address) sbor.Value { return sbor.Bytes(a.Bytes()) }

func decodeAddress(v sbor.Value) (types.Address, error) {
	b, ok := sbor.AsBytes(v)
	if !ok || len(b) != 20 {
		return types.Address{}, rterr.New(rterr.Codec, "expected a 20-byte address")
	}
	var a types.Address
	copy(a[:], b)
	return a, nil
}

func amountValue(a resource.Amount) sbor.Value { return sbor.Str(a.String()) }

func decodeAmount(v sbor.Value) (resource.Amount, error) {
	if v.Type != sbor.TString {
		return resource.Amount{}, rterr.New(rterr.Codec, "expected an amount string")
	}
	x, ok := new(big.Int).SetString(v.Str, 10)
	if !ok {
		return resource.Amount{}, rterr.New(rterr.Codec, "invalid amount literal %q", v.Str)
	}
	return resource.AmountFromBigInt(x)
}

func u64Value(x uint64) sbor.Value { return sbor.U64(x) }

func decodeU64(v sbor.Value) (uint64, error) {
	if v.Type != sbor.TU64 {
		return 0, rterr.New(rterr.Codec, "expected a u64")
	}
	return v.Uint, nil
}

func bidValue(id types.BID) sbor.Value { return sbor.U64(uint64(id)) }
func decodeBID(v sbor.Value) (types.BID, error) {
	x, err := decodeU64(v)
	return types.BID(x), err
}

func ridValue(id types.RID) sbor.Value { return sbor.U64(uint64(id)) }
func decodeRID(v sbor.Value) (types.RID, error) {
	x, err := decodeU64(v)
	return types.RID(x), err
}

func vidValue(id types.VID) sbor.Value { return sbor.U64(uint64(id)) }
func decodeVID(v sbor.Value) (types.VID, error) {
	x, err := decodeU64(v)
	return types.VID(x), err
}

func sidValue(id types.SID) sbor.Value { return sbor.U64(uint64(id)) }
func decodeSID(v sbor.Value) (types.SID, error) {
	x, err := decodeU64(v)
	return types.SID(x), err
}

func stringValue(s string) sbor.Value { return sbor.Str(s) }

func decodeString(v sbor.Value) (string, error) {
	if v.Type != sbor.TString {
		return "", rterr.New(rterr.Codec, "expected a string")
	}
	return v.Str, nil
}

// decodeOp decodes the single input payload into a tuple of fields; most
// ops take more than one argument, delivered as an unnamed-field struct.
func decodeOp(data []byte) (sbor.Value, error) {
	v, err := sbor.Decode(data)
	if err != nil {
		return sbor.Value{}, rterr.Wrap(rterr.Codec, err, "decode host-call input")
	}
	return v, nil
}

// argsValue / decodeArgs shape an invocation's argument list as a
// Vec<Bytes>, one SBOR-encoded payload per formal parameter.
func argsValue(args [][]byte) sbor.Value {
	elems := make([]sbor.Value, len(args))
	for i, a := range args {
		elems[i] = sbor.Bytes(a)
	}
	return sbor.Value{Type: sbor.TVec, ElemType: sbor.TVec, Elems: elems}
}

func decodeArgs(v sbor.Value) ([][]byte, error) {
	if v.Type != sbor.TVec && v.Type != sbor.TArray {
		return nil, rterr.New(rterr.Codec, "expected a vec of byte arrays")
	}
	out := make([][]byte, len(v.Elems))
	for i, e := range v.Elems {
		b, ok := sbor.AsBytes(e)
		if !ok {
			return nil, rterr.New(rterr.Codec, "invalid args element %d", i)
		}
		out[i] = b
	}
	return out, nil
}

// metadataValue / decodeMetadata shape a resource definition's opaque
// name/value metadata as a Vec<Tuple<string,string>>, avoiding the need
// for an ordered-map codec path this corpus doesn't otherwise exercise.
func metadataValue(m map[string]string) sbor.Value {
	elems := make([]sbor.Value, 0, len(m))
	for k, v := range m {
		elems = append(elems, sbor.Value{Type: sbor.TTuple, Tuple: []sbor.Value{sbor.Str(k), sbor.Str(v)}})
	}
	return sbor.Value{Type: sbor.TVec, ElemType: sbor.TTuple, Elems: elems}
}

func decodeMetadata(v sbor.Value) (map[string]string, error) {
	if v.Type != sbor.TVec && v.Type != sbor.TArray {
		return nil, rterr.New(rterr.Codec, "expected a vec of metadata tuples")
	}
	out := make(map[string]string, len(v.Elems))
	for _, e := range v.Elems {
		if e.Type != sbor.TTuple || len(e.Tuple) != 2 {
			return nil, rterr.New(rterr.Codec, "invalid metadata tuple")
		}
		if e.Tuple[0].Type != sbor.TString || e.Tuple[1].Type != sbor.TString {
			return nil, rterr.New(rterr.Codec, "metadata tuple must be (string, string)")
		}
		out[e.Tuple[0].Str] = e.Tuple[1].Str
	}
	return out, nil
}

func field(v sbor.Value, i int) (sbor.Value, error) {
	if v.Type != sbor.TStruct || v.Fields.Kind != sbor.FieldsUnnamed || i >= len(v.Fields.Unnamed) {
		return sbor.Value{}, rterr.New(rterr.Codec, "host-call input missing field %d", i)
	}
	return v.Fields.Unnamed[i], nil
}
