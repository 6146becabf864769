package host

import (
	"github.com/nexargate/resource-engine/internal/process"
	"github.com/nexargate/resource-engine/internal/resource"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/sbor"
)

// handleCreateVault creates an empty vault authorized to the current
// package.
func handleCreateVault(p *process.Process, _ sbor.Value) (sbor.Value, error) {
	id := p.RT.NextVID()
	v := resource.NewVault(id, p.Package)
	if err := p.RT.Ledger.PutVault(v); err != nil {
		return sbor.Value{}, err
	}
	return vidValue(id), nil
}

// handlePutIntoVault consumes an owned bucket into a vault, authority
// and resource-match checked by Vault.Put.
func handlePutIntoVault(p *process.Process, in sbor.Value) (sbor.Value, error) {
	vidV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	vid, err := decodeVID(vidV)
	if err != nil {
		return sbor.Value{}, err
	}
	bidV, err := field(in, 1)
	if err != nil {
		return sbor.Value{}, err
	}
	bid, err := decodeBID(bidV)
	if err != nil {
		return sbor.Value{}, err
	}

	b, ok := p.Buckets[bid]
	if !ok {
		return sbor.Value{}, rterr.New(rterr.Resolution, "bucket %s not found", bid)
	}
	v, err := p.RT.Ledger.GetVault(vid)
	if err != nil {
		return sbor.Value{}, err
	}
	if err := v.Put(b, p.Package); err != nil {
		return sbor.Value{}, err
	}
	delete(p.Buckets, bid)
	if err := p.RT.Ledger.PutVault(v); err != nil {
		return sbor.Value{}, err
	}
	return sbor.Unit(), nil
}

// handleTakeFromVault withdraws amount from a vault into a fresh bucket
// owned by the current frame, authority-checked by Vault.Take.
func handleTakeFromVault(p *process.Process, in sbor.Value) (sbor.Value, error) {
	vidV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	vid, err := decodeVID(vidV)
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

	v, err := p.RT.Ledger.GetVault(vid)
	if err != nil {
		return sbor.Value{}, err
	}
	b, err := v.Take(amount, p.Package)
	if err != nil {
		return sbor.Value{}, err
	}
	if err := p.RT.Ledger.PutVault(v); err != nil {
		return sbor.Value{}, err
	}

	bid := p.CreateBucket(b)
	return bidValue(bid), nil
}
