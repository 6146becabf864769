package host

import (
	"github.com/nexargate/resource-engine/internal/ledger"
	"github.com/nexargate/resource-engine/internal/process"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/sbor"
)

func checkComponentAuthority(p *process.Process, c *ledger.Component) error {
	if c.PackageAddr != p.Package {
		return rterr.New(rterr.Authority, "package %s is not authorized for component %s (owned by %s)", p.Package, c.Address, c.PackageAddr)
	}
	return nil
}

// handleCreateComponent rejects any bucket/reference id in the initial
// state, then records a new component owned by the current package.
func handleCreateComponent(p *process.Process, in sbor.Value) (sbor.Value, error) {
	nameV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	name, err := decodeString(nameV)
	if err != nil {
		return sbor.Value{}, err
	}
	stateV, err := field(in, 1)
	if err != nil {
		return sbor.Value{}, err
	}
	state, ok := sbor.AsBytes(stateV)
	if !ok {
		return sbor.Value{}, rterr.New(rterr.Codec, "create_component: expected state bytes")
	}
	if _, err := process.WalkReject(state); err != nil {
		return sbor.Value{}, err
	}

	addr := p.RT.NextAddress()
	c := &ledger.Component{Address: addr, PackageAddr: p.Package, Blueprint: name, State: state}
	if err := p.RT.Ledger.PutComponent(c); err != nil {
		return sbor.Value{}, err
	}
	p.RT.RecordNewAddress(addr)
	return addressValue(addr), nil
}

// handleGetComponentInfo reports (package, blueprint) for component,
// failing with an Authority error unless the current package owns it.
func handleGetComponentInfo(p *process.Process, in sbor.Value) (sbor.Value, error) {
	addrV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	addr, err := decodeAddress(addrV)
	if err != nil {
		return sbor.Value{}, err
	}
	c, err := p.RT.Ledger.GetComponent(addr)
	if err != nil {
		return sbor.Value{}, err
	}
	if err := checkComponentAuthority(p, c); err != nil {
		return sbor.Value{}, err
	}
	return sbor.Struct(addressValue(c.PackageAddr), stringValue(c.Blueprint)), nil
}

// handleGetComponentState reports the component's raw SBOR state.
func handleGetComponentState(p *process.Process, in sbor.Value) (sbor.Value, error) {
	addrV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	addr, err := decodeAddress(addrV)
	if err != nil {
		return sbor.Value{}, err
	}
	c, err := p.RT.Ledger.GetComponent(addr)
	if err != nil {
		return sbor.Value{}, err
	}
	if err := checkComponentAuthority(p, c); err != nil {
		return sbor.Value{}, err
	}
	return sbor.Bytes(c.State), nil
}

// handlePutComponentState rejects any bucket/reference id in the new
// state, then overwrites the component's state in the ledger.
func handlePutComponentState(p *process.Process, in sbor.Value) (sbor.Value, error) {
	addrV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	addr, err := decodeAddress(addrV)
	if err != nil {
		return sbor.Value{}, err
	}
	stateV, err := field(in, 1)
	if err != nil {
		return sbor.Value{}, err
	}
	state, ok := sbor.AsBytes(stateV)
	if !ok {
		return sbor.Value{}, rterr.New(rterr.Codec, "put_component_state: expected state bytes")
	}
	if _, err := process.WalkReject(state); err != nil {
		return sbor.Value{}, err
	}

	c, err := p.RT.Ledger.GetComponent(addr)
	if err != nil {
		return sbor.Value{}, err
	}
	if err := checkComponentAuthority(p, c); err != nil {
		return sbor.Value{}, err
	}
	c.State = state
	if err := p.RT.Ledger.PutComponent(c); err != nil {
		return sbor.Value{}, err
	}
	return sbor.Unit(), nil
}
