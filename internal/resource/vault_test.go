package resource

import "testing"

func TestVaultPutTakeRoundTrip(t *testing.T) {
	authority := mustAddr(t, "0x5555555555555555555555555555555555555555")
	res := mustAddr(t, "0x3333333333333333333333333333333333333333")
	v := NewVault(1, authority)

	if err := v.Put(NewBucket(res, NewAmount(20)), authority); err != nil {
		t.Fatalf("unexpected error depositing: %v", err)
	}
	if v.Amount().Cmp(NewAmount(20)) != 0 {
		t.Fatalf("expected vault amount 20, got %s", v.Amount())
	}

	taken, err := v.Take(NewAmount(8), authority)
	if err != nil {
		t.Fatalf("unexpected error withdrawing: %v", err)
	}
	if taken.Amount.Cmp(NewAmount(8)) != 0 {
		t.Fatalf("expected withdrawn amount 8, got %s", taken.Amount)
	}
	if v.Amount().Cmp(NewAmount(12)) != 0 {
		t.Fatalf("expected remaining vault amount 12, got %s", v.Amount())
	}
}

func TestVaultPutRejectsWrongAuthority(t *testing.T) {
	authority := mustAddr(t, "0x5555555555555555555555555555555555555555")
	intruder := mustAddr(t, "0x6666666666666666666666666666666666666666")
	res := mustAddr(t, "0x3333333333333333333333333333333333333333")
	v := NewVault(1, authority)

	if err := v.Put(NewBucket(res, NewAmount(1)), intruder); err == nil {
		t.Fatalf("expected deposit by a non-authority caller to fail")
	}
}

func TestVaultTakeInsufficientFails(t *testing.T) {
	authority := mustAddr(t, "0x5555555555555555555555555555555555555555")
	res := mustAddr(t, "0x3333333333333333333333333333333333333333")
	v := NewVault(1, authority)
	if err := v.Put(NewBucket(res, NewAmount(5)), authority); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := v.Take(NewAmount(6), authority); err == nil {
		t.Fatalf("expected withdrawal exceeding balance to fail")
	}
}
