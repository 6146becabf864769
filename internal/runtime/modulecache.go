package runtime

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/nexargate/resource-engine/internal/ledger"
	"github.com/nexargate/resource-engine/internal/wasmvm"
	"github.com/nexargate/resource-engine/pkg/types"
)

// moduleCache compiles a package's WASM code once per address and
// reuses the result for every invocation that targets it within the
// same transaction (or across transactions sharing a Runtime). A
// singleflight.Group collapses concurrent first-touches of the same
// package into a single compile, since two sibling invocations can
// target the same package back-to-back before the first compile
// finishes.
type moduleCache struct {
	mu   sync.Mutex
	mods map[types.Address]*wasmvm.Module
	sf   singleflight.Group
}

func newModuleCache() *moduleCache {
	return &moduleCache{mods: make(map[types.Address]*wasmvm.Module)}
}

func (c *moduleCache) get(led ledger.Ledger, addr types.Address) (*wasmvm.Module, error) {
	c.mu.Lock()
	if mod, ok := c.mods[addr]; ok {
		c.mu.Unlock()
		return mod, nil
	}
	c.mu.Unlock()

	v, err, _ := c.sf.Do(addr.Hex(), func() (interface{}, error) {
		pkg, err := led.GetPackage(addr)
		if err != nil {
			return nil, err
		}
		mod, err := wasmvm.Load(pkg.Code)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.mods[addr] = mod
		c.mu.Unlock()
		return mod, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*wasmvm.Module), nil
}
