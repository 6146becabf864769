package host

import (
	"github.com/nexargate/resource-engine/internal/process"
	"github.com/nexargate/resource-engine/internal/resource"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/sbor"
)

// handleCreateResourceFixed mints the whole supply up front into a
// fresh bucket owned by the current frame; the resource definition's
// supply can never change again.
func handleCreateResourceFixed(p *process.Process, in sbor.Value) (sbor.Value, error) {
	metaV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	meta, err := decodeMetadata(metaV)
	if err != nil {
		return sbor.Value{}, err
	}
	supplyV, err := field(in, 1)
	if err != nil {
		return sbor.Value{}, err
	}
	supply, err := decodeAmount(supplyV)
	if err != nil {
		return sbor.Value{}, err
	}

	addr := p.RT.NextAddress()
	def := &resource.ResourceDef{Address: addr, Metadata: meta, Supply: supply}
	if err := p.RT.Ledger.PutResourceDef(def); err != nil {
		return sbor.Value{}, err
	}
	p.RT.RecordNewAddress(addr)

	bid := p.CreateBucket(resource.NewBucket(addr, supply))
	return sbor.Struct(addressValue(addr), bidValue(bid)), nil
}

// handleCreateResourceMutable records a resource definition with zero
// initial supply and a minter: either a package address directly
// (authority == minter) or a component address (authority == the
// component's declaring package).
func handleCreateResourceMutable(p *process.Process, in sbor.Value) (sbor.Value, error) {
	metaV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	meta, err := decodeMetadata(metaV)
	if err != nil {
		return sbor.Value{}, err
	}
	minterV, err := field(in, 1)
	if err != nil {
		return sbor.Value{}, err
	}
	minter, err := decodeAddress(minterV)
	if err != nil {
		return sbor.Value{}, err
	}

	authority := minter
	if c, cerr := p.RT.Ledger.GetComponent(minter); cerr == nil {
		authority = c.PackageAddr
	} else if _, perr := p.RT.Ledger.GetPackage(minter); perr != nil {
		return sbor.Value{}, rterr.New(rterr.Resolution, "minter %s is neither a known package nor component", minter)
	}

	addr := p.RT.NextAddress()
	minterCopy := minter
	authorityCopy := authority
	def := &resource.ResourceDef{
		Address:   addr,
		Metadata:  meta,
		Minter:    &minterCopy,
		Supply:    resource.Zero,
		Authority: &authorityCopy,
	}
	if err := p.RT.Ledger.PutResourceDef(def); err != nil {
		return sbor.Value{}, err
	}
	p.RT.RecordNewAddress(addr)
	return addressValue(addr), nil
}

// handleMintResource increases a mutable resource's supply and hands
// back a fresh bucket for the minted amount; fails on a fixed-supply
// resource or when the current package is not the resource's authority.
func handleMintResource(p *process.Process, in sbor.Value) (sbor.Value, error) {
	addrV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	addr, err := decodeAddress(addrV)
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

	def, err := p.RT.Ledger.GetResourceDef(addr)
	if err != nil {
		return sbor.Value{}, err
	}
	if err := def.Mint(p.Package, amount); err != nil {
		return sbor.Value{}, err
	}
	if err := p.RT.Ledger.PutResourceDef(def); err != nil {
		return sbor.Value{}, err
	}

	bid := p.CreateBucket(resource.NewBucket(addr, amount))
	return bidValue(bid), nil
}
