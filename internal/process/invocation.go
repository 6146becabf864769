package process

import "github.com/nexargate/resource-engine/pkg/types"

// Invocation is the immutable record of what to run: a target package,
// the guest export to call, and the SBOR-encoded argument payloads to
// deliver through the get_call_data host call — one payload per formal
// parameter, exactly as the guest's own ABI expects them.
type Invocation struct {
	Package types.Address
	Export  string
	Args    [][]byte
}

// PrepareCallFunction builds the Invocation for a direct function call:
// package.blueprint_main(args...).
func PrepareCallFunction(pkg types.Address, blueprint string, args [][]byte) *Invocation {
	return &Invocation{Package: pkg, Export: blueprint + "_main", Args: args}
}

// PrepareCallMethod builds the Invocation for a method call: the
// component's address is prepended to the argument list (SBOR-encoded)
// so the guest's dispatch code can resolve `self`.
func PrepareCallMethod(pkg types.Address, blueprint string, component []byte, args [][]byte) *Invocation {
	full := make([][]byte, 0, len(args)+1)
	full = append(full, component)
	full = append(full, args...)
	return &Invocation{Package: pkg, Export: blueprint + "_main", Args: full}
}

// PrepareCallABI builds the Invocation that asks a blueprint to
// describe its own functions and methods: no arguments, a synthesized
// export name.
func PrepareCallABI(pkg types.Address, blueprint string) *Invocation {
	return &Invocation{Package: pkg, Export: blueprint + "_abi", Args: nil}
}
