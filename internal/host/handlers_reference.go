package host

import (
	"github.com/nexargate/resource-engine/internal/process"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/sbor"
)

// handleCreateReference borrows bid, converting it to a LockedBucket on
// first borrow (or adding an additional outstanding reference to an
// already-locked one), and returns a fresh BucketRef id.
func handleCreateReference(p *process.Process, in sbor.Value) (sbor.Value, error) {
	bidV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	bid, err := decodeBID(bidV)
	if err != nil {
		return sbor.Value{}, err
	}
	rid, err := p.Borrow(bid)
	if err != nil {
		return sbor.Value{}, err
	}
	return ridValue(rid), nil
}

// handleDropReference removes this frame's reference id, reverting the
// underlying LockedBucket to its original owning frame once the last
// outstanding reference is gone.
func handleDropReference(p *process.Process, in sbor.Value) (sbor.Value, error) {
	ridV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	rid, err := decodeRID(ridV)
	if err != nil {
		return sbor.Value{}, err
	}
	if err := p.DropReference(rid); err != nil {
		return sbor.Value{}, err
	}
	return sbor.Unit(), nil
}

// handleGetRefAmount reads the amount of the bucket rid is borrowed
// against.
func handleGetRefAmount(p *process.Process, in sbor.Value) (sbor.Value, error) {
	ridV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	rid, err := decodeRID(ridV)
	if err != nil {
		return sbor.Value{}, err
	}
	ref, ok := p.References[rid]
	if !ok {
		return sbor.Value{}, rterr.New(rterr.Resolution, "reference %s not found", rid)
	}
	lb, ok := p.LockedBucket(ref.BucketID)
	if !ok {
		return sbor.Value{}, rterr.New(rterr.Resolution, "reference %s points at an unlocked bucket", rid)
	}
	return amountValue(lb.Bucket.Amount), nil
}

// handleGetRefResource reads the resource address of the bucket rid is
// borrowed against.
func handleGetRefResource(p *process.Process, in sbor.Value) (sbor.Value, error) {
	ridV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	rid, err := decodeRID(ridV)
	if err != nil {
		return sbor.Value{}, err
	}
	ref, ok := p.References[rid]
	if !ok {
		return sbor.Value{}, rterr.New(rterr.Resolution, "reference %s not found", rid)
	}
	lb, ok := p.LockedBucket(ref.BucketID)
	if !ok {
		return sbor.Value{}, rterr.New(rterr.Resolution, "reference %s points at an unlocked bucket", rid)
	}
	return addressValue(lb.Bucket.Resource), nil
}
