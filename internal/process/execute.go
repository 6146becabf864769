package process

import (
	"github.com/nexargate/resource-engine/internal/runtime"
	"github.com/nexargate/resource-engine/pkg/types"
)

// Execute drives a single top-level invocation end to end: it spawns a
// root Process at depth 0 against rt, runs inv, and finalizes. On
// success it returns the top-level return bytes; on any failure
// (including a failed finalize) it returns the error; building the
// Receipt from the outcome is left to the caller.
func Execute(rt *runtime.Runtime, pkg types.Address, inv *Invocation) ([]byte, error) {
	root := NewRoot(rt, pkg)
	out, err := root.Run(inv)
	if err != nil {
		return nil, err
	}
	if err := root.Finalize(); err != nil {
		return nil, err
	}
	return out, nil
}
