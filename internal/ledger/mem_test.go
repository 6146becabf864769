package ledger

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/nexargate/resource-engine/internal/resource"
	"github.com/nexargate/resource-engine/pkg/types"
)

func addr(hex string) types.Address {
	return types.AddressFromCommon(common.HexToAddress(hex))
}

func TestMemLedgerPackageRoundTrip(t *testing.T) {
	l := NewInMemory()
	pkg := &Package{Address: addr("0x1111111111111111111111111111111111111111"), Code: []byte{0, 1, 2}}

	if err := l.PutPackage(pkg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := l.GetPackage(pkg.Address)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Code) != 3 {
		t.Fatalf("expected code of length 3, got %d", len(got.Code))
	}
}

func TestMemLedgerGetMissingFails(t *testing.T) {
	l := NewInMemory()
	if _, err := l.GetComponent(addr("0x2222222222222222222222222222222222222222")); err == nil {
		t.Fatalf("expected lookup of a missing component to fail")
	}
}

func TestMemLedgerVaultRoundTrip(t *testing.T) {
	l := NewInMemory()
	authority := addr("0x3333333333333333333333333333333333333333")
	v := resource.NewVault(1, authority)
	if err := v.Put(resource.NewBucket(addr("0x4444444444444444444444444444444444444444"), resource.NewAmount(9)), authority); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := l.PutVault(v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := l.GetVault(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Amount().Cmp(resource.NewAmount(9)) != 0 {
		t.Fatalf("expected amount 9, got %s", got.Amount())
	}
}
