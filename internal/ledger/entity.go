// Package ledger persists the five entity kinds a transaction can read
// or mutate across its lifetime: packages, components, resource
// definitions, vaults and storage maps. It offers an in-memory
// implementation for tests and a write-ahead-logged, gzip-snapshotted
// implementation for standalone use, both behind the same Ledger
// interface.
package ledger

import "github.com/nexargate/resource-engine/pkg/types"

// Package is a published blueprint bundle: its WASM code, the hash that
// addresses it, and an optional Ricardian (legal-prose) metadata blob
// bound to that code at publish time.
type Package struct {
	Address   types.Address
	Code      []byte
	CodeHash  types.Hash
	Ricardian []byte `json:",omitempty"`
}

// Component is a blueprint instance: its declaring package, blueprint
// name, and SBOR-encoded state. Authority over a component is always
// its declaring package.
type Component struct {
	Address     types.Address
	PackageAddr types.Address
	Blueprint   string
	State       []byte
}
