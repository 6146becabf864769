// Package abi extracts a published blueprint's function and method
// signatures by invoking its synthesized `<blueprint>_abi` export and
// decoding the SBOR tuple it returns, so a CLI or client can describe a
// package without inspecting its WASM bytes directly.
package abi

import (
	"github.com/nexargate/resource-engine/internal/process"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/runtime"
	"github.com/nexargate/resource-engine/internal/sbor"
	"github.com/nexargate/resource-engine/pkg/types"
)

// Function describes one callable export a blueprint advertises: its
// name and the number of SBOR-encoded arguments it expects.
type Function struct {
	Name    string
	Arity   int
	IsEmpty bool // true when Arity is zero
}

// Blueprint is the decoded result of an ABI request: the blueprint's
// free functions and its component methods.
type Blueprint struct {
	Name      string
	Functions []Function
	Methods   []Function
}

// Export runs the ABI invocation against pkg's blueprint and decodes
// the result.
func Export(rt *runtime.Runtime, pkg types.Address, blueprint string) (Blueprint, error) {
	inv := process.PrepareCallABI(pkg, blueprint)
	out, err := process.Execute(rt, pkg, inv)
	if err != nil {
		return Blueprint{}, err
	}
	return decodeBlueprint(blueprint, out)
}

func decodeBlueprint(name string, data []byte) (Blueprint, error) {
	v, err := sbor.Decode(data)
	if err != nil {
		return Blueprint{}, rterr.Wrap(rterr.Codec, err, "decode ABI response")
	}
	if v.Type != sbor.TStruct || v.Fields.Kind != sbor.FieldsUnnamed || len(v.Fields.Unnamed) != 2 {
		return Blueprint{}, rterr.New(rterr.Codec, "ABI response must be a (functions, methods) tuple")
	}
	fns, err := decodeFunctionList(v.Fields.Unnamed[0])
	if err != nil {
		return Blueprint{}, err
	}
	methods, err := decodeFunctionList(v.Fields.Unnamed[1])
	if err != nil {
		return Blueprint{}, err
	}
	return Blueprint{Name: name, Functions: fns, Methods: methods}, nil
}

func decodeFunctionList(v sbor.Value) ([]Function, error) {
	if v.Type != sbor.TVec && v.Type != sbor.TArray {
		return nil, rterr.New(rterr.Codec, "ABI function list must be a vec")
	}
	out := make([]Function, 0, len(v.Elems))
	for _, e := range v.Elems {
		if e.Type != sbor.TStruct || e.Fields.Kind != sbor.FieldsUnnamed || len(e.Fields.Unnamed) != 2 {
			return nil, rterr.New(rterr.Codec, "ABI function entry must be a (name, arity) tuple")
		}
		nameV, arityV := e.Fields.Unnamed[0], e.Fields.Unnamed[1]
		if nameV.Type != sbor.TString || arityV.Type != sbor.TU32 {
			return nil, rterr.New(rterr.Codec, "ABI function entry has the wrong field types")
		}
		out = append(out, Function{Name: nameV.Str, Arity: int(arityV.Uint), IsEmpty: arityV.Uint == 0})
	}
	return out, nil
}
