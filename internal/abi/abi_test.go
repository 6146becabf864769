package abi

import (
	"testing"

	"github.com/nexargate/resource-engine/internal/sbor"
)

func functionEntry(name string, arity uint32) sbor.Value {
	return sbor.Struct(sbor.Str(name), sbor.U32(arity))
}

func functionVec(entries ...sbor.Value) sbor.Value {
	return sbor.Value{Type: sbor.TVec, ElemType: sbor.TStruct, Elems: entries}
}

func TestDecodeBlueprintRoundTripsFunctionsAndMethods(t *testing.T) {
	abiValue := sbor.Struct(
		functionVec(functionEntry("mint", 1), functionEntry("new", 0)),
		functionVec(functionEntry("withdraw", 2)),
	)
	raw := sbor.Encode(abiValue)

	bp, err := decodeBlueprint("vault", raw)
	if err != nil {
		t.Fatalf("decode blueprint: %v", err)
	}
	if bp.Name != "vault" {
		t.Fatalf("expected name 'vault', got %q", bp.Name)
	}
	if len(bp.Functions) != 2 || len(bp.Methods) != 1 {
		t.Fatalf("unexpected shape: %+v", bp)
	}
	if bp.Functions[0].Name != "mint" || bp.Functions[0].Arity != 1 || bp.Functions[0].IsEmpty {
		t.Fatalf("unexpected function[0]: %+v", bp.Functions[0])
	}
	if bp.Functions[1].Name != "new" || bp.Functions[1].Arity != 0 || !bp.Functions[1].IsEmpty {
		t.Fatalf("expected 'new' to be flagged empty: %+v", bp.Functions[1])
	}
	if bp.Methods[0].Name != "withdraw" || bp.Methods[0].Arity != 2 {
		t.Fatalf("unexpected method[0]: %+v", bp.Methods[0])
	}
}

func TestDecodeBlueprintRejectsWrongShape(t *testing.T) {
	raw := sbor.Encode(sbor.Str("not a tuple"))
	if _, err := decodeBlueprint("broken", raw); err == nil {
		t.Fatalf("expected an error for a malformed ABI response")
	}
}
