package resource

import "testing"

func TestAmountSubInsufficientFails(t *testing.T) {
	have := NewAmount(5)
	_, err := have.Sub(NewAmount(6))
	if err == nil {
		t.Fatalf("expected an error when subtracting more than is held")
	}
}

func TestAmountAddNeverFails(t *testing.T) {
	sum := NewAmount(3).Add(NewAmount(4))
	if sum.Cmp(NewAmount(7)) != 0 {
		t.Fatalf("expected 7, got %s", sum)
	}
}

func TestResourceDefMintRejectsFixedSupply(t *testing.T) {
	addr := mustAddr(t, "0x1111111111111111111111111111111111111111")
	def := &ResourceDef{Address: addr, Supply: NewAmount(100)}
	if err := def.Mint(addr, NewAmount(1)); err == nil {
		t.Fatalf("expected mint on a fixed-supply resource to fail")
	}
}

func TestResourceDefMintRejectsWrongCaller(t *testing.T) {
	addr := mustAddr(t, "0x1111111111111111111111111111111111111111")
	other := mustAddr(t, "0x2222222222222222222222222222222222222222")
	def := &ResourceDef{Address: addr, Authority: &addr}
	if err := def.Mint(other, NewAmount(1)); err == nil {
		t.Fatalf("expected mint from a non-authority caller to fail")
	}
}

func TestResourceDefMintIncreasesSupply(t *testing.T) {
	addr := mustAddr(t, "0x1111111111111111111111111111111111111111")
	def := &ResourceDef{Address: addr, Authority: &addr, Supply: NewAmount(10)}
	if err := def.Mint(addr, NewAmount(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Supply.Cmp(NewAmount(15)) != 0 {
		t.Fatalf("expected supply 15, got %s", def.Supply)
	}
}
