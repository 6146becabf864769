package runtime

import (
	"testing"

	"github.com/nexargate/resource-engine/internal/ledger"
	"github.com/nexargate/resource-engine/pkg/types"
)

func TestIDAllocatorCountersAreDistinctAndSequential(t *testing.T) {
	rt := New(types.Hash{1, 2, 3}, ledger.NewInMemory(), false)

	if rt.NextBID() != types.BID(1) || rt.NextBID() != types.BID(2) {
		t.Fatalf("expected sequential bucket ids")
	}
	if rt.NextRID() != types.RID(1) {
		t.Fatalf("expected reference counter to start independently at 1")
	}
}

func TestNextAddressIsDeterministicPerTransaction(t *testing.T) {
	rt1 := New(types.Hash{9, 9, 9}, ledger.NewInMemory(), false)
	rt2 := New(types.Hash{9, 9, 9}, ledger.NewInMemory(), false)

	if rt1.NextAddress() != rt2.NextAddress() {
		t.Fatalf("expected two runtimes with identical tx hashes to derive identical first addresses")
	}
}

func TestNextAddressDiffersAcrossCalls(t *testing.T) {
	rt := New(types.Hash{9, 9, 9}, ledger.NewInMemory(), false)
	a := rt.NextAddress()
	b := rt.NextAddress()
	if a == b {
		t.Fatalf("expected successive addresses within one transaction to differ")
	}
}

func TestEmitLogAccumulatesIntoReceipt(t *testing.T) {
	rt := New(types.Hash{1}, ledger.NewInMemory(), false)
	rt.EmitLog("info", "hello")
	rt.EmitLog("warn", "uh oh")

	rec := rt.Receipt(true, []byte("ok"), nil)
	if len(rec.Logs) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(rec.Logs))
	}
	if !rec.Success || string(rec.ReturnData) != "ok" {
		t.Fatalf("unexpected receipt: %+v", rec)
	}
}

func TestReceiptCarriesFailureMessage(t *testing.T) {
	rt := New(types.Hash{1}, ledger.NewInMemory(), false)
	rec := rt.Receipt(false, nil, errBoom{})
	if rec.Success {
		t.Fatalf("expected failed receipt")
	}
	if rec.Error != "boom" {
		t.Fatalf("expected error message to be carried, got %q", rec.Error)
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
