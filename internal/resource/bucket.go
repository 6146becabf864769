package resource

import (
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/pkg/types"
)

// Bucket is a transient container holding an amount of a single
// resource. It is the unit of resource flow in and out of invocations
// and vaults; ownership lives in exactly one Process's bucket map at a
// time, except while borrowed (see LockedBucket).
type Bucket struct {
	Resource types.Address
	Amount   Amount
}

// NewBucket creates a bucket of the given resource and amount. Used by
// mint, fixed-supply creation, vault withdrawal and bucket-split.
func NewBucket(resource types.Address, amount Amount) *Bucket {
	return &Bucket{Resource: resource, Amount: amount}
}

// Put merges other into b in place, requiring identical resource
// addresses; other is left with zero amount so a caller can treat it as
// consumed.
func (b *Bucket) Put(other *Bucket) error {
	if b.Resource != other.Resource {
		return rterr.New(rterr.Accounting, "cannot merge bucket of resource %s into bucket of resource %s", other.Resource, b.Resource)
	}
	b.Amount = b.Amount.Add(other.Amount)
	other.Amount = Zero
	return nil
}

// Take splits amount off b, returning a new bucket holding it and
// deducting in place. Fails with InsufficientBalance semantics if
// amount exceeds what b holds.
func (b *Bucket) Take(amount Amount) (*Bucket, error) {
	remaining, err := b.Amount.Sub(amount)
	if err != nil {
		return nil, err
	}
	b.Amount = remaining
	return NewBucket(b.Resource, amount), nil
}
