package ledger

import (
	"github.com/nexargate/resource-engine/internal/resource"
	"github.com/nexargate/resource-engine/pkg/types"
)

// Ledger is the persistence contract every runtime operation against a
// package, component, resource definition, vault or storage map goes
// through. Both implementations are safe for concurrent use, though in
// practice only one transaction is ever active at a time per §7.
type Ledger interface {
	PutPackage(pkg *Package) error
	GetPackage(addr types.Address) (*Package, error)

	PutComponent(c *Component) error
	GetComponent(addr types.Address) (*Component, error)

	PutResourceDef(def *resource.ResourceDef) error
	GetResourceDef(addr types.Address) (*resource.ResourceDef, error)

	PutVault(v *resource.Vault) error
	GetVault(id types.VID) (*resource.Vault, error)

	PutStorage(s *resource.Storage) error
	GetStorage(id types.SID) (*resource.Storage, error)

	Close() error
}
