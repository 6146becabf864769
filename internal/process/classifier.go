package process

import (
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/sbor"
	"github.com/nexargate/resource-engine/pkg/types"
)

// moveClassifier drains bucket and reference ownership out of a
// Process's owned sets into its moving sets as the walker encounters
// each custom leaf, per the move classification of 4.2.
type moveClassifier struct {
	p *Process
}

func newMoveClassifier(p *Process) sbor.Classifier { return moveClassifier{p: p} }

func (m moveClassifier) Bucket(id uint64) (uint64, error) {
	bid := types.BID(id)
	b, ok := m.p.Buckets[bid]
	if !ok {
		return 0, rterr.New(rterr.Resolution, "bucket %s not found", bid)
	}
	delete(m.p.Buckets, bid)
	m.p.MovingBuckets[bid] = b
	return id, nil
}

func (m moveClassifier) Reference(id uint64) (uint64, error) {
	rid := types.RID(id)
	r, ok := m.p.References[rid]
	if !ok {
		return 0, rterr.New(rterr.Resolution, "reference %s not found", rid)
	}
	delete(m.p.References, rid)
	m.p.MovingRefs[rid] = r
	return id, nil
}

// rejectClassifier fails the walk if any bucket or reference id is
// found; used for component state and storage keys/values, which must
// never embed a live transient handle.
type rejectClassifier struct{}

func newRejectClassifier() sbor.Classifier { return rejectClassifier{} }

func (rejectClassifier) Bucket(id uint64) (uint64, error) {
	return 0, rterr.New(rterr.Movement, "bucket id %d not allowed in this payload", id)
}

func (rejectClassifier) Reference(id uint64) (uint64, error) {
	return 0, rterr.New(rterr.Movement, "reference id %d not allowed in this payload", id)
}

// WalkReject fails if data embeds any bucket or reference custom leaf;
// used by internal/host before writing component state or storage
// keys/values, which must never carry a live transient handle.
func WalkReject(data []byte) ([]byte, error) {
	return sbor.Walk(data, newRejectClassifier())
}
