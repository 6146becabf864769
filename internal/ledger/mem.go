package ledger

import (
	"sync"

	"github.com/nexargate/resource-engine/internal/resource"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/pkg/types"
)

// MemLedger is an in-memory Ledger, the test-harness counterpart of
// FileLedger.
type MemLedger struct {
	mu sync.RWMutex

	packages     map[types.Address]*Package
	components   map[types.Address]*Component
	resourceDefs map[types.Address]*resource.ResourceDef
	vaults       map[types.VID]*resource.Vault
	storages     map[types.SID]*resource.Storage
}

// NewInMemory returns an empty MemLedger.
func NewInMemory() *MemLedger {
	return &MemLedger{
		packages:     make(map[types.Address]*Package),
		components:   make(map[types.Address]*Component),
		resourceDefs: make(map[types.Address]*resource.ResourceDef),
		vaults:       make(map[types.VID]*resource.Vault),
		storages:     make(map[types.SID]*resource.Storage),
	}
}

func (m *MemLedger) PutPackage(pkg *Package) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packages[pkg.Address] = pkg
	return nil
}

func (m *MemLedger) GetPackage(addr types.Address) (*Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.packages[addr]
	if !ok {
		return nil, rterr.New(rterr.Resolution, "package %s not found", addr)
	}
	return p, nil
}

func (m *MemLedger) PutComponent(c *Component) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components[c.Address] = c
	return nil
}

func (m *MemLedger) GetComponent(addr types.Address) (*Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.components[addr]
	if !ok {
		return nil, rterr.New(rterr.Resolution, "component %s not found", addr)
	}
	return c, nil
}

func (m *MemLedger) PutResourceDef(def *resource.ResourceDef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resourceDefs[def.Address] = def
	return nil
}

func (m *MemLedger) GetResourceDef(addr types.Address) (*resource.ResourceDef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.resourceDefs[addr]
	if !ok {
		return nil, rterr.New(rterr.Resolution, "resource definition %s not found", addr)
	}
	return d, nil
}

func (m *MemLedger) PutVault(v *resource.Vault) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vaults[v.ID] = v
	return nil
}

func (m *MemLedger) GetVault(id types.VID) (*resource.Vault, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vaults[id]
	if !ok {
		return nil, rterr.New(rterr.Resolution, "vault %s not found", id)
	}
	return v, nil
}

func (m *MemLedger) PutStorage(s *resource.Storage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storages[s.ID] = s
	return nil
}

func (m *MemLedger) GetStorage(id types.SID) (*resource.Storage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.storages[id]
	if !ok {
		return nil, rterr.New(rterr.Resolution, "storage %s not found", id)
	}
	return s, nil
}

func (m *MemLedger) Close() error { return nil }

// allRecordsLocked returns every entity currently held, wrapped as WAL
// records for the snapshot encoder. Caller must hold m.mu.
func (m *MemLedger) allRecordsLocked() []*record {
	var out []*record
	for _, pkg := range m.packages {
		out = append(out, &record{Op: "package", Package: pkg})
	}
	for _, c := range m.components {
		out = append(out, &record{Op: "component", Component: c})
	}
	for _, d := range m.resourceDefs {
		out = append(out, &record{Op: "resource_def", ResourceDef: d})
	}
	for _, v := range m.vaults {
		out = append(out, &record{Op: "vault", Vault: vaultToDTO(v)})
	}
	for _, s := range m.storages {
		out = append(out, &record{Op: "storage", Storage: storageToDTO(s)})
	}
	return out
}
