package resource

import (
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/pkg/types"
)

// Vault is a persistent container tied to a component: a single Bucket
// plus the package address allowed to deposit into or withdraw from it.
// Unlike a Bucket, a Vault survives across invocations and transactions.
type Vault struct {
	ID        types.VID
	Authority types.Address
	held      *Bucket
}

// NewVault creates an empty vault with the given id, authorized to the
// current package.
func NewVault(id types.VID, authority types.Address) *Vault {
	return &Vault{ID: id, Authority: authority, held: nil}
}

// RestoreVault rebuilds a vault from its persisted fields, used by the
// ledger when loading a snapshot. held may be nil for an empty vault.
func RestoreVault(id types.VID, authority types.Address, held *Bucket) *Vault {
	return &Vault{ID: id, Authority: authority, held: held}
}

// Held returns the bucket currently inside v, or nil if empty. Used only
// by the ledger's snapshot encoder.
func (v *Vault) Held() *Bucket { return v.held }

// Amount reports the amount currently held, zero for an empty vault.
func (v *Vault) Amount() Amount {
	if v.held == nil {
		return Zero
	}
	return v.held.Amount
}

// Resource reports the resource address currently held; ok is false for
// an empty vault that has never been deposited into.
func (v *Vault) Resource() (addr types.Address, ok bool) {
	if v.held == nil {
		return types.Address{}, false
	}
	return v.held.Resource, true
}

func (v *Vault) checkAuthority(caller types.Address) error {
	if caller != v.Authority {
		return rterr.New(rterr.Authority, "caller %s is not authorized for vault %s", caller, v.ID)
	}
	return nil
}

// Put deposits bucket's contents into v, requiring caller == v.Authority
// and (once the vault already holds a balance) a matching resource
// address.
func (v *Vault) Put(bucket *Bucket, caller types.Address) error {
	if err := v.checkAuthority(caller); err != nil {
		return err
	}
	if v.held == nil {
		v.held = NewBucket(bucket.Resource, Zero)
	}
	return v.held.Put(bucket)
}

// Take withdraws amount from v into a freshly returned bucket, requiring
// caller == v.Authority. Fails with an Accounting error if amount
// exceeds the held balance.
func (v *Vault) Take(amount Amount, caller types.Address) (*Bucket, error) {
	if err := v.checkAuthority(caller); err != nil {
		return nil, err
	}
	if v.held == nil {
		if amount.IsZero() {
			return NewBucket(types.Address{}, Zero), nil
		}
		return nil, rterr.New(rterr.Accounting, "insufficient balance: vault %s is empty, need %s", v.ID, amount.String())
	}
	return v.held.Take(amount)
}
