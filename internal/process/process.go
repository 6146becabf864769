// Package process implements the invocation frame and the recursive
// call protocol that moves fungible resources across frames while
// proving none leak: the per-invocation owned/locked/reference maps,
// the nested call sequence, and the finalize check.
package process

import (
	"fmt"

	"github.com/nexargate/resource-engine/internal/resource"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/runtime"
	"github.com/nexargate/resource-engine/internal/wasmvm"
	"github.com/nexargate/resource-engine/pkg/types"
)

// lockEntry pairs a LockedBucket with the Process that created it, so
// drop_reference can revert the lock into the right frame's bucket map
// even when it is called from a descendant frame that only holds the
// moved-in BucketRef.
type lockEntry struct {
	lb    *resource.LockedBucket
	owner *Process
}

// lockRegistry is the single source of truth for which buckets are
// currently locked, shared by pointer across every Process in one
// transaction's invocation tree (the "engine" observing the
// shared-ownership count, per the design's reference-counted-primitive
// note, realized as an explicit map since all mutation happens on one
// logical thread of control).
type lockRegistry struct {
	entries map[types.BID]*lockEntry
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{entries: make(map[types.BID]*lockEntry)}
}

// Process is a single invocation frame.
type Process struct {
	Depth   int
	Trace   bool
	RT      *runtime.Runtime
	Package types.Address // the current package's address, for authority checks
	Parent  *Process

	Invocation *Invocation
	VM         *wasmvm.Instance

	Buckets    map[types.BID]*resource.Bucket
	References map[types.RID]*resource.BucketRef

	// lockedOwned is the set of bucket ids whose LockedBucket this
	// Process originally created (via create_reference); the actual
	// LockedBucket lives in the shared registry.
	lockedOwned map[types.BID]struct{}
	registry    *lockRegistry

	MovingBuckets map[types.BID]*resource.Bucket
	MovingRefs    map[types.RID]*resource.BucketRef
}

// NewRoot creates the root Process for a transaction's top-level call.
func NewRoot(rt *runtime.Runtime, pkg types.Address) *Process {
	return newProcess(rt, pkg, 0, nil, newLockRegistry())
}

func newProcess(rt *runtime.Runtime, pkg types.Address, depth int, parent *Process, registry *lockRegistry) *Process {
	return &Process{
		Depth:         depth,
		Trace:         rt.Trace,
		RT:            rt,
		Package:       pkg,
		Parent:        parent,
		Buckets:       make(map[types.BID]*resource.Bucket),
		References:    make(map[types.RID]*resource.BucketRef),
		lockedOwned:   make(map[types.BID]struct{}),
		registry:      registry,
		MovingBuckets: make(map[types.BID]*resource.Bucket),
		MovingRefs:    make(map[types.RID]*resource.BucketRef),
	}
}

// logf emits a depth-indented log line through the Runtime's log
// buffer, tagging each line with its call-stack position.
func (p *Process) logf(level, format string, args ...any) {
	indent := ""
	for i := 0; i < p.Depth; i++ {
		indent += "  "
	}
	p.RT.EmitLog(level, indent+fmt.Sprintf(format, args...))
}

// CreateBucket installs a fresh owned bucket and returns its id.
func (p *Process) CreateBucket(b *resource.Bucket) types.BID {
	id := p.RT.NextBID()
	p.Buckets[id] = b
	return id
}

// Borrow converts the owned bucket bid into a LockedBucket (or adds a
// reference to an already-locked one) and returns a fresh BucketRef id.
func (p *Process) Borrow(bid types.BID) (types.RID, error) {
	if entry, locked := p.registry.entries[bid]; locked {
		rid := p.RT.NextRID()
		entry.lb.Borrow(rid)
		ref := resource.BucketRef{ID: rid, BucketID: bid}
		p.References[rid] = &ref
		return rid, nil
	}

	b, ok := p.Buckets[bid]
	if !ok {
		return 0, rterr.New(rterr.Resolution, "bucket %s not found", bid)
	}
	delete(p.Buckets, bid)
	lb := resource.NewLockedBucket(bid, b)
	p.registry.entries[bid] = &lockEntry{lb: lb, owner: p}
	p.lockedOwned[bid] = struct{}{}

	rid := p.RT.NextRID()
	lb.Borrow(rid)
	ref := resource.BucketRef{ID: rid, BucketID: bid}
	p.References[rid] = &ref
	return rid, nil
}

// DropReference removes rid from this Process's reference set and, if
// it was the last outstanding reference against its LockedBucket,
// reverts the lock into the owning Process's bucket map.
func (p *Process) DropReference(rid types.RID) error {
	ref, ok := p.References[rid]
	if !ok {
		return rterr.New(rterr.Resolution, "reference %s not found", rid)
	}
	delete(p.References, rid)

	entry, ok := p.registry.entries[ref.BucketID]
	if !ok {
		return rterr.New(rterr.Lifecycle, "reference %s points at an unlocked bucket %s", rid, ref.BucketID)
	}
	if !entry.lb.Drop(rid) {
		return rterr.New(rterr.Resolution, "reference %s already dropped against bucket %s", rid, ref.BucketID)
	}
	if entry.lb.RefCount() == 0 {
		p.revertLock(ref.BucketID, entry)
	}
	return nil
}

func (p *Process) revertLock(bid types.BID, entry *lockEntry) {
	entry.owner.Buckets[bid] = entry.lb.Bucket
	delete(entry.owner.lockedOwned, bid)
	delete(p.registry.entries, bid)
}

// LockedBucket looks up the LockedBucket for bid, for get_ref_amount /
// get_ref_resource and for get_bucket_amount's locked-bucket fallback.
func (p *Process) LockedBucket(bid types.BID) (*resource.LockedBucket, bool) {
	entry, ok := p.registry.entries[bid]
	if !ok {
		return nil, false
	}
	return entry.lb, true
}

// sweepReverts implements step 6 of the nested call protocol: after a
// child Process has been torn down, scan this Process's own locked
// bucket ids for any whose external reference count has fallen to zero
// — references the child took and then dropped without this Process
// observing it directly — and revert them. Must run strictly after the
// child is discarded so references it held no longer contribute.
func (p *Process) sweepReverts() {
	for bid := range p.lockedOwned {
		entry, ok := p.registry.entries[bid]
		if !ok {
			continue
		}
		if entry.lb.RefCount() == 0 {
			p.revertLock(bid, entry)
		}
	}
}

// Finalize proves no resources leaked out of this frame: every owned
// bucket must be zero-balance, no locked bucket may remain outstanding,
// and no reference may remain outstanding.
func (p *Process) Finalize() error {
	for bid, b := range p.Buckets {
		if !b.Amount.IsZero() {
			return rterr.New(rterr.Lifecycle, "resource leak: bucket %s still holds %s", bid, b.Amount)
		}
	}
	if len(p.lockedOwned) != 0 {
		return rterr.New(rterr.Lifecycle, "resource leak: %d locked bucket(s) still outstanding", len(p.lockedOwned))
	}
	if len(p.References) != 0 {
		return rterr.New(rterr.Lifecycle, "resource leak: %d reference(s) still outstanding", len(p.References))
	}
	return nil
}
