package resource

import "github.com/nexargate/resource-engine/pkg/types"

// LockedBucket is a Bucket that has been borrowed: it keeps the same
// bucket id but is temporarily shared, addressable only through the
// BucketRefs issued against it. Go's GC-managed pointer already gives
// share-by-reference; the only thing that needs explicit bookkeeping is
// the *count*, so a LockedBucket carries a plain set of outstanding
// reference ids rather than an atomic refcount — safe because all
// mutation happens on a single logical thread of control per
// transaction.
type LockedBucket struct {
	Bucket *Bucket

	// Owner is the bucket id this lock was issued against.
	Owner types.BID

	refs map[types.RID]struct{}
}

// NewLockedBucket locks b under the given bucket id, with no references
// issued yet.
func NewLockedBucket(owner types.BID, b *Bucket) *LockedBucket {
	return &LockedBucket{Bucket: b, Owner: owner, refs: make(map[types.RID]struct{})}
}

// Borrow issues a fresh BucketRef id against lb.
func (lb *LockedBucket) Borrow(id types.RID) {
	lb.refs[id] = struct{}{}
}

// Drop removes id from the outstanding reference set. ok is false if id
// was not outstanding.
func (lb *LockedBucket) Drop(id types.RID) (ok bool) {
	if _, present := lb.refs[id]; !present {
		return false
	}
	delete(lb.refs, id)
	return true
}

// RefCount is the number of outstanding BucketRefs against lb; the
// holding Process is not counted. A count of zero means the lock is
// ready to revert to a plain owned Bucket.
func (lb *LockedBucket) RefCount() int { return len(lb.refs) }

// BucketRef is a shared read-only handle to a LockedBucket. The
// underlying bucket cannot be split, merged or withdrawn while any
// BucketRef exists.
type BucketRef struct {
	ID       types.RID
	BucketID types.BID
}

// Amount reads the current amount of the locked bucket this ref points
// at, without requiring exclusive ownership.
func (r BucketRef) Amount(lb *LockedBucket) Amount { return lb.Bucket.Amount }

// Resource reads the resource address of the locked bucket this ref
// points at.
func (r BucketRef) Resource(lb *LockedBucket) types.Address { return lb.Bucket.Resource }
