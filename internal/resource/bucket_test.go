package resource

import "testing"

func TestBucketPutMergesMatchingResource(t *testing.T) {
	res := mustAddr(t, "0x3333333333333333333333333333333333333333")
	a := NewBucket(res, NewAmount(10))
	b := NewBucket(res, NewAmount(5))

	if err := a.Put(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Amount.Cmp(NewAmount(15)) != 0 {
		t.Fatalf("expected merged amount 15, got %s", a.Amount)
	}
	if !b.Amount.IsZero() {
		t.Fatalf("expected source bucket to be zeroed after merge, got %s", b.Amount)
	}
}

func TestBucketPutRejectsMismatchedResource(t *testing.T) {
	a := NewBucket(mustAddr(t, "0x3333333333333333333333333333333333333333"), NewAmount(10))
	b := NewBucket(mustAddr(t, "0x4444444444444444444444444444444444444444"), NewAmount(5))

	if err := a.Put(b); err == nil {
		t.Fatalf("expected merging buckets of different resources to fail")
	}
}

func TestBucketTakeSplitsAndDeducts(t *testing.T) {
	res := mustAddr(t, "0x3333333333333333333333333333333333333333")
	a := NewBucket(res, NewAmount(10))

	split, err := a.Take(NewAmount(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if split.Amount.Cmp(NewAmount(4)) != 0 {
		t.Fatalf("expected split amount 4, got %s", split.Amount)
	}
	if a.Amount.Cmp(NewAmount(6)) != 0 {
		t.Fatalf("expected remaining amount 6, got %s", a.Amount)
	}
}

func TestBucketTakeInsufficientFails(t *testing.T) {
	res := mustAddr(t, "0x3333333333333333333333333333333333333333")
	a := NewBucket(res, NewAmount(3))

	if _, err := a.Take(NewAmount(4)); err == nil {
		t.Fatalf("expected taking more than held to fail")
	}
}
