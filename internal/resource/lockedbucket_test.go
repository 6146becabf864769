package resource

import "testing"

func TestLockedBucketRevertsWhenLastRefDropped(t *testing.T) {
	res := mustAddr(t, "0x3333333333333333333333333333333333333333")
	b := NewBucket(res, NewAmount(50))
	lb := NewLockedBucket(1, b)

	lb.Borrow(101)
	lb.Borrow(102)
	if lb.RefCount() != 2 {
		t.Fatalf("expected ref count 2, got %d", lb.RefCount())
	}

	if ok := lb.Drop(101); !ok {
		t.Fatalf("expected dropping an outstanding ref to succeed")
	}
	if lb.RefCount() != 1 {
		t.Fatalf("expected ref count 1, got %d", lb.RefCount())
	}

	if ok := lb.Drop(102); !ok {
		t.Fatalf("expected dropping the last ref to succeed")
	}
	if lb.RefCount() != 0 {
		t.Fatalf("expected ref count 0 after last drop, got %d", lb.RefCount())
	}
}

func TestLockedBucketDropUnknownRefFails(t *testing.T) {
	lb := NewLockedBucket(1, NewBucket(mustAddr(t, "0x3333333333333333333333333333333333333333"), NewAmount(1)))
	if ok := lb.Drop(999); ok {
		t.Fatalf("expected dropping an unknown reference id to report failure")
	}
}
