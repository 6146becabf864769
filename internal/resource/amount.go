// Package resource implements the fungible-resource containers that flow
// through an invocation: the non-negative Amount arithmetic, resource
// definitions, transient buckets, the borrow/reference mechanism, and
// persistent vaults.
package resource

import (
	"math/big"

	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/pkg/types"
)

// MarshalJSON renders the amount as its decimal string, so ledger
// snapshots stay human-readable and never lose precision to a float
// round-trip.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON parses the decimal string produced by MarshalJSON.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return rterr.New(rterr.Codec, "invalid amount literal %q", s)
	}
	parsed, err := AmountFromBigInt(v)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Amount is a non-negative integer-valued quantity. It is backed by
// big.Int rather than a fixed-width integer so a resource supply can
// never overflow the way a token contract's uint256 silently can; every
// balance in the runtime is checked for conservation, so arithmetic
// must fail loudly rather than wrap.
type Amount struct {
	v *big.Int
}

// Zero is the additive identity.
var Zero = Amount{v: big.NewInt(0)}

// NewAmount builds an Amount from a non-negative int64.
func NewAmount(x int64) Amount {
	if x < 0 {
		panic("resource: NewAmount called with a negative value")
	}
	return Amount{v: big.NewInt(x)}
}

// AmountFromBigInt wraps a big.Int, failing if it is negative.
func AmountFromBigInt(x *big.Int) (Amount, error) {
	if x.Sign() < 0 {
		return Amount{}, rterr.New(rterr.Accounting, "amount cannot be negative: %s", x.String())
	}
	return Amount{v: new(big.Int).Set(x)}, nil
}

func (a Amount) BigInt() *big.Int {
	if a.v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(a.v)
}

func (a Amount) String() string {
	if a.v == nil {
		return "0"
	}
	return a.v.String()
}

func (a Amount) IsZero() bool { return a.v == nil || a.v.Sign() == 0 }

// Cmp compares a and b the way big.Int.Cmp does.
func (a Amount) Cmp(b Amount) int { return a.BigInt().Cmp(b.BigInt()) }

// Add returns a+b. Addition can never fail since both operands are
// already non-negative.
func (a Amount) Add(b Amount) Amount {
	return Amount{v: new(big.Int).Add(a.BigInt(), b.BigInt())}
}

// Sub returns a-b, failing with an Accounting error if b > a rather than
// wrapping or saturating at zero.
func (a Amount) Sub(b Amount) (Amount, error) {
	if a.Cmp(b) < 0 {
		return Amount{}, rterr.New(rterr.Accounting, "insufficient balance: have %s, need %s", a.String(), b.String())
	}
	return Amount{v: new(big.Int).Sub(a.BigInt(), b.BigInt())}, nil
}

// ResourceDef is the per-ledger record describing a resource address.
type ResourceDef struct {
	Address   types.Address
	Metadata  map[string]string
	Minter    *types.Address // present only for mutable resources
	Supply    Amount
	Authority *types.Address // package allowed to mint; mirrors Minter for a package minter, the component's package for a component minter
}

// Fixed reports whether the resource's supply can never change again.
func (r *ResourceDef) Fixed() bool { return r.Minter == nil && r.Authority == nil }

// Mint increases supply and fails on a fixed-supply resource or when the
// caller is not the resource's authority.
func (r *ResourceDef) Mint(caller types.Address, amount Amount) error {
	if r.Fixed() {
		return rterr.New(rterr.Authority, "resource %s has fixed supply", r.Address)
	}
	if r.Authority == nil || *r.Authority != caller {
		return rterr.New(rterr.Authority, "caller %s is not authorized to mint resource %s", caller, r.Address)
	}
	r.Supply = r.Supply.Add(amount)
	return nil
}
