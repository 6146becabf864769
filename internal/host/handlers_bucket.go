package host

import (
	"github.com/nexargate/resource-engine/internal/process"
	"github.com/nexargate/resource-engine/internal/resource"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/sbor"
)

// handleCreateBucket creates an empty owned bucket tagged with a
// resource address, ready to receive a vault withdrawal, a mint, or a
// put from another bucket.
func handleCreateBucket(p *process.Process, in sbor.Value) (sbor.Value, error) {
	addrV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	addr, err := decodeAddress(addrV)
	if err != nil {
		return sbor.Value{}, err
	}
	bid := p.CreateBucket(resource.NewBucket(addr, resource.Zero))
	return bidValue(bid), nil
}

// handlePutIntoBucket merges the source bucket into the target bucket
// in place and consumes the source; fails if the two hold different
// resources.
func handlePutIntoBucket(p *process.Process, in sbor.Value) (sbor.Value, error) {
	targetV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	target, err := decodeBID(targetV)
	if err != nil {
		return sbor.Value{}, err
	}
	sourceV, err := field(in, 1)
	if err != nil {
		return sbor.Value{}, err
	}
	source, err := decodeBID(sourceV)
	if err != nil {
		return sbor.Value{}, err
	}

	tb, ok := p.Buckets[target]
	if !ok {
		return sbor.Value{}, rterr.New(rterr.Resolution, "bucket %s not found", target)
	}
	sb, ok := p.Buckets[source]
	if !ok {
		return sbor.Value{}, rterr.New(rterr.Resolution, "bucket %s not found", source)
	}
	if err := tb.Put(sb); err != nil {
		return sbor.Value{}, err
	}
	delete(p.Buckets, source)
	return sbor.Unit(), nil
}

// handleTakeFromBucket splits amount off an owned bucket into a fresh
// bucket, deducting in place; fails if amount exceeds what is held.
func handleTakeFromBucket(p *process.Process, in sbor.Value) (sbor.Value, error) {
	bidV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	bid, err := decodeBID(bidV)
	if err != nil {
		return sbor.Value{}, err
	}
	amountV, err := field(in, 1)
	if err != nil {
		return sbor.Value{}, err
	}
	amount, err := decodeAmount(amountV)
	if err != nil {
		return sbor.Value{}, err
	}

	b, ok := p.Buckets[bid]
	if !ok {
		return sbor.Value{}, rterr.New(rterr.Resolution, "bucket %s not found", bid)
	}
	split, err := b.Take(amount)
	if err != nil {
		return sbor.Value{}, err
	}
	newBid := p.CreateBucket(split)
	return bidValue(newBid), nil
}

// handleGetBucketAmount looks up bid's amount, first in the owned set
// and then, if borrowed, via its LockedBucket, so a caller can still
// query a bucket it has lent out a reference to.
func handleGetBucketAmount(p *process.Process, in sbor.Value) (sbor.Value, error) {
	bidV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	bid, err := decodeBID(bidV)
	if err != nil {
		return sbor.Value{}, err
	}
	if b, ok := p.Buckets[bid]; ok {
		return amountValue(b.Amount), nil
	}
	if lb, ok := p.LockedBucket(bid); ok {
		return amountValue(lb.Bucket.Amount), nil
	}
	return sbor.Value{}, rterr.New(rterr.Resolution, "bucket %s not found", bid)
}

// handleGetBucketResource looks up bid's resource address, first in the
// owned set and then via its LockedBucket.
func handleGetBucketResource(p *process.Process, in sbor.Value) (sbor.Value, error) {
	bidV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	bid, err := decodeBID(bidV)
	if err != nil {
		return sbor.Value{}, err
	}
	if b, ok := p.Buckets[bid]; ok {
		return addressValue(b.Resource), nil
	}
	if lb, ok := p.LockedBucket(bid); ok {
		return addressValue(lb.Bucket.Resource), nil
	}
	return sbor.Value{}, rterr.New(rterr.Resolution, "bucket %s not found", bid)
}
