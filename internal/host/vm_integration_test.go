package host

import (
	"testing"

	"github.com/nexargate/resource-engine/internal/ledger"
	"github.com/nexargate/resource-engine/internal/process"
	"github.com/nexargate/resource-engine/internal/runtime"
	"github.com/nexargate/resource-engine/internal/sbor"
	"github.com/nexargate/resource-engine/internal/testutil"
	"github.com/nexargate/resource-engine/pkg/types"
)

// greeterWAT is a hand-assembled blueprint: its only function, "greet",
// emits a single log line through the emit_log host call and returns
// without borrowing or minting anything. It exercises the full round
// trip a real blueprint depends on: scrypto_alloc backing a guest
// allocator, a host call reading a length-prefixed argument buffer out
// of linear memory, and the guest handing back a length-prefixed return
// buffer of its own.
const greeterWAT = `
(module
  (import "env" "kernel" (func $kernel (param i32 i32 i32 i32) (result i32)))
  (memory (export "memory") 2)
  (global $bump (mut i32) (i32.const 8192))

  (func $scrypto_alloc (param $len i32) (result i32)
    (local $ptr i32)
    (local.set $ptr (global.get $bump))
    (global.set $bump (i32.add (global.get $bump) (local.get $len)))
    (local.get $ptr))
  (export "scrypto_alloc" (func $scrypto_alloc))

  (func $scrypto_free (param $ptr i32))
  (export "scrypto_free" (func $scrypto_free))

  (func $greeter_main (param $argptr i32) (result i32)
    (drop (call $kernel (i32.const 26) (i32.const 1024) (i32.const 29) (i32.const 0)))
    (i32.const 2048))
  (export "greeter_main" (func $greeter_main))

  ;; emit_log(level="info", message="hello"): a 4-byte length prefix (25)
  ;; followed by a 2-field unnamed-struct SBOR payload.
  (data (i32.const 1024) "\19\00\00\00\0f\02\02\00\00\00\0a\04\00\00\00info\0a\05\00\00\00hello")

  ;; the guest's return value: a 4-byte length prefix (1) around a bare
  ;; Unit leaf.
  (data (i32.const 2048) "\01\00\00\00\00")
)
`

func TestGreeterBlueprintEmitsLogThroughGuestHostRoundTrip(t *testing.T) {
	wasm := testutil.CompileWAT(t, greeterWAT)

	rt := runtime.New(types.Hash{7}, ledger.NewInMemory(), false)

	pkg, err := Publish(rt, wasm, nil)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	inv := process.PrepareCallFunction(pkg, "greeter", nil)
	out, err := process.Execute(rt, pkg, inv)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	v, err := sbor.Decode(out)
	if err != nil {
		t.Fatalf("decode return value: %v", err)
	}
	if v.Type != sbor.TUnit {
		t.Fatalf("expected a unit return value, got %+v", v)
	}

	rec := rt.Receipt(true, out, nil)
	if len(rec.Logs) != 2 {
		t.Fatalf("expected the runtime's trace entry and the guest's entry, got %d: %+v", len(rec.Logs), rec.Logs)
	}
	if rec.Logs[0].Level != "trace" {
		t.Fatalf("expected the runtime's invoke trace first, got %+v", rec.Logs[0])
	}
	if rec.Logs[1].Level != "info" || rec.Logs[1].Message != "hello" {
		t.Fatalf("unexpected log entry: %+v", rec.Logs[1])
	}
}
