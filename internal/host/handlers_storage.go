package host

import (
	"github.com/nexargate/resource-engine/internal/process"
	"github.com/nexargate/resource-engine/internal/resource"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/sbor"
)

func checkStorageAuthority(p *process.Process, s *resource.Storage) error {
	if s.Authority != p.Package {
		return rterr.New(rterr.Authority, "package %s is not authorized for storage %s", p.Package, s.ID)
	}
	return nil
}

// handleCreateStorage creates an empty storage map authorized to the
// current package.
func handleCreateStorage(p *process.Process, _ sbor.Value) (sbor.Value, error) {
	id := p.RT.NextSID()
	s := resource.NewStorage(id, p.Package)
	if err := p.RT.Ledger.PutStorage(s); err != nil {
		return sbor.Value{}, err
	}
	return sidValue(id), nil
}

// handleGetStorageEntry reads the value at key, authority-checked.
func handleGetStorageEntry(p *process.Process, in sbor.Value) (sbor.Value, error) {
	idV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	id, err := decodeSID(idV)
	if err != nil {
		return sbor.Value{}, err
	}
	keyV, err := field(in, 1)
	if err != nil {
		return sbor.Value{}, err
	}
	key, ok := sbor.AsBytes(keyV)
	if !ok {
		return sbor.Value{}, rterr.New(rterr.Codec, "get_storage_entry: expected key bytes")
	}

	s, err := p.RT.Ledger.GetStorage(id)
	if err != nil {
		return sbor.Value{}, err
	}
	if err := checkStorageAuthority(p, s); err != nil {
		return sbor.Value{}, err
	}
	value, present := s.Get(key)
	return sbor.Value{Type: sbor.TOption, Some: optionalBytes(value, present)}, nil
}

func optionalBytes(value []byte, present bool) *sbor.Value {
	if !present {
		return nil
	}
	v := sbor.Bytes(value)
	return &v
}

// handlePutStorageEntry rejects any bucket/reference id embedded in the
// key or value, then writes the entry, authority-checked.
func handlePutStorageEntry(p *process.Process, in sbor.Value) (sbor.Value, error) {
	idV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	id, err := decodeSID(idV)
	if err != nil {
		return sbor.Value{}, err
	}
	keyV, err := field(in, 1)
	if err != nil {
		return sbor.Value{}, err
	}
	key, ok := sbor.AsBytes(keyV)
	if !ok {
		return sbor.Value{}, rterr.New(rterr.Codec, "put_storage_entry: expected key bytes")
	}
	valV, err := field(in, 2)
	if err != nil {
		return sbor.Value{}, err
	}
	val, ok := sbor.AsBytes(valV)
	if !ok {
		return sbor.Value{}, rterr.New(rterr.Codec, "put_storage_entry: expected value bytes")
	}
	if _, err := process.WalkReject(key); err != nil {
		return sbor.Value{}, err
	}
	if _, err := process.WalkReject(val); err != nil {
		return sbor.Value{}, err
	}

	s, err := p.RT.Ledger.GetStorage(id)
	if err != nil {
		return sbor.Value{}, err
	}
	if err := checkStorageAuthority(p, s); err != nil {
		return sbor.Value{}, err
	}
	s.Put(key, val)
	if err := p.RT.Ledger.PutStorage(s); err != nil {
		return sbor.Value{}, err
	}
	return sbor.Unit(), nil
}
