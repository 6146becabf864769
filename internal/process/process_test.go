package process

import (
	"testing"

	"github.com/nexargate/resource-engine/internal/ledger"
	"github.com/nexargate/resource-engine/internal/resource"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/runtime"
	"github.com/nexargate/resource-engine/internal/sbor"
	"github.com/nexargate/resource-engine/pkg/types"
)

func newTestProcess(t *testing.T) *Process {
	t.Helper()
	rt := runtime.New(types.Hash{7}, ledger.NewInMemory(), false)
	return NewRoot(rt, types.Address{1})
}

func TestMoveClassifierDrainsOwnedBucketIntoMovingSet(t *testing.T) {
	p := newTestProcess(t)
	bid := p.CreateBucket(resource.NewBucket(types.Address{9}, resource.NewAmount(7)))

	payload := sbor.Encode(sbor.BucketValue(uint64(bid)))
	out, err := sbor.Walk(payload, newMoveClassifier(p))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, stillOwned := p.Buckets[bid]; stillOwned {
		t.Fatalf("expected bucket to be drained from owned set")
	}
	if _, moved := p.MovingBuckets[bid]; !moved {
		t.Fatalf("expected bucket to land in moving set")
	}

	back, err := sbor.Decode(out)
	if err != nil || !back.IsBucket() {
		t.Fatalf("expected re-encoded payload to still be a bucket leaf: %v", err)
	}
}

func TestMoveClassifierFailsOnUnknownBucket(t *testing.T) {
	p := newTestProcess(t)
	payload := sbor.Encode(sbor.BucketValue(999))
	if _, err := sbor.Walk(payload, newMoveClassifier(p)); !rterr.Is(err, rterr.Resolution) {
		t.Fatalf("expected a Resolution error, got %v", err)
	}
}

func TestRejectClassifierFailsOnAnyHandle(t *testing.T) {
	payload := sbor.Encode(sbor.ReferenceValue(1))
	if _, err := sbor.Walk(payload, newRejectClassifier()); !rterr.Is(err, rterr.Movement) {
		t.Fatalf("expected a Movement error, got %v", err)
	}
}

func TestBorrowThenDropRevertsLockToOwner(t *testing.T) {
	p := newTestProcess(t)
	bid := p.CreateBucket(resource.NewBucket(types.Address{9}, resource.NewAmount(10)))

	rid, err := p.Borrow(bid)
	if err != nil {
		t.Fatalf("borrow failed: %v", err)
	}
	if _, owned := p.Buckets[bid]; owned {
		t.Fatalf("expected bucket to be locked, not owned, after borrow")
	}
	lb, ok := p.LockedBucket(bid)
	if !ok || lb.RefCount() != 1 {
		t.Fatalf("expected one outstanding reference, got ok=%v count=%v", ok, lb)
	}

	if err := p.DropReference(rid); err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	if _, stillLocked := p.LockedBucket(bid); stillLocked {
		t.Fatalf("expected lock to have reverted")
	}
	b, owned := p.Buckets[bid]
	if !owned || b.Amount.Cmp(resource.NewAmount(10)) != 0 {
		t.Fatalf("expected bucket back in owned set with original amount, got %+v", b)
	}
}

func TestDoubleBorrowKeepsLockUntilLastDrop(t *testing.T) {
	p := newTestProcess(t)
	bid := p.CreateBucket(resource.NewBucket(types.Address{9}, resource.NewAmount(10)))

	rid1, err := p.Borrow(bid)
	if err != nil {
		t.Fatalf("first borrow failed: %v", err)
	}
	rid2, err := p.Borrow(bid)
	if err != nil {
		t.Fatalf("second borrow failed: %v", err)
	}

	if err := p.DropReference(rid1); err != nil {
		t.Fatalf("drop rid1 failed: %v", err)
	}
	if _, stillLocked := p.LockedBucket(bid); !stillLocked {
		t.Fatalf("expected lock to remain while rid2 is outstanding")
	}

	if err := p.DropReference(rid2); err != nil {
		t.Fatalf("drop rid2 failed: %v", err)
	}
	if _, stillLocked := p.LockedBucket(bid); stillLocked {
		t.Fatalf("expected lock to revert once the last reference drops")
	}
}

func TestFinalizeFailsOnResidualBalance(t *testing.T) {
	p := newTestProcess(t)
	p.CreateBucket(resource.NewBucket(types.Address{9}, resource.NewAmount(3)))

	if err := p.Finalize(); !rterr.Is(err, rterr.Lifecycle) {
		t.Fatalf("expected a Lifecycle resource-leak error, got %v", err)
	}
}

func TestFinalizeFailsOnOutstandingReference(t *testing.T) {
	p := newTestProcess(t)
	bid := p.CreateBucket(resource.NewBucket(types.Address{9}, resource.NewAmount(3)))
	if _, err := p.Borrow(bid); err != nil {
		t.Fatalf("borrow failed: %v", err)
	}

	if err := p.Finalize(); !rterr.Is(err, rterr.Lifecycle) {
		t.Fatalf("expected a Lifecycle resource-leak error, got %v", err)
	}
}

func TestFinalizeSucceedsWhenEmpty(t *testing.T) {
	p := newTestProcess(t)
	bid := p.CreateBucket(resource.NewBucket(types.Address{9}, resource.Zero))
	_ = bid

	if err := p.Finalize(); err != nil {
		t.Fatalf("expected clean finalize, got %v", err)
	}
}
