package host

import (
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/nexargate/resource-engine/internal/ledger"
	"github.com/nexargate/resource-engine/internal/process"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/runtime"
	"github.com/nexargate/resource-engine/internal/sbor"
	"github.com/nexargate/resource-engine/internal/wasmvm"
	"github.com/nexargate/resource-engine/pkg/types"
)

// Publish runs the publish op directly against a fresh root frame, for
// callers (the CLI) that have WASM bytes but no running invocation to
// call it from. ricardian is an optional legal-prose metadata blob
// (nil when the publisher supplied none).
func Publish(rt *runtime.Runtime, code, ricardian []byte) (types.Address, error) {
	root := process.NewRoot(rt, types.AddressZero)
	out, err := handlePublish(root, sbor.Struct(sbor.Bytes(code), sbor.Bytes(ricardian)))
	if err != nil {
		return types.Address{}, err
	}
	return decodeAddress(out)
}

// handlePublish validates the guest module by compiling it, assigns it
// a fresh deterministic address, and records it (with its optional
// Ricardian metadata) in the ledger. Fails if the module does not
// compile or the derived address is already taken.
func handlePublish(p *process.Process, in sbor.Value) (sbor.Value, error) {
	codeV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	code, ok := sbor.AsBytes(codeV)
	if !ok {
		return sbor.Value{}, rterr.New(rterr.Codec, "publish: expected code bytes")
	}

	var ricardian []byte
	if ricardianV, err := field(in, 1); err == nil {
		if b, ok := sbor.AsBytes(ricardianV); ok {
			ricardian = b
		}
	}

	if _, err := wasmvm.Load(code); err != nil {
		return sbor.Value{}, err
	}

	addr := p.RT.NextAddress()
	if _, err := p.RT.Ledger.GetPackage(addr); err == nil {
		return sbor.Value{}, rterr.New(rterr.Lifecycle, "package address %s already exists", addr)
	}

	var hash types.Hash
	copy(hash[:], crypto.Keccak256(code))

	if err := p.RT.Ledger.PutPackage(&ledger.Package{Address: addr, Code: code, CodeHash: hash, Ricardian: ricardian}); err != nil {
		return sbor.Value{}, err
	}
	p.RT.RecordNewAddress(addr)
	return addressValue(addr), nil
}

// handleCallFunction decodes (package, blueprint, args) and runs the
// nested call protocol against a freshly prepared function invocation.
func handleCallFunction(p *process.Process, in sbor.Value) (sbor.Value, error) {
	pkgV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	pkg, err := decodeAddress(pkgV)
	if err != nil {
		return sbor.Value{}, err
	}
	blueprintV, err := field(in, 1)
	if err != nil {
		return sbor.Value{}, err
	}
	blueprint, err := decodeString(blueprintV)
	if err != nil {
		return sbor.Value{}, err
	}
	argsV, err := field(in, 2)
	if err != nil {
		return sbor.Value{}, err
	}
	args, err := decodeArgs(argsV)
	if err != nil {
		return sbor.Value{}, err
	}

	inv := process.PrepareCallFunction(pkg, blueprint, args)
	out, err := p.Call(inv)
	if err != nil {
		return sbor.Value{}, err
	}
	return sbor.Bytes(out), nil
}

// handleCallMethod decodes (package, blueprint, component, args) and
// runs the nested call protocol against a freshly prepared method
// invocation.
func handleCallMethod(p *process.Process, in sbor.Value) (sbor.Value, error) {
	pkgV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	pkg, err := decodeAddress(pkgV)
	if err != nil {
		return sbor.Value{}, err
	}
	blueprintV, err := field(in, 1)
	if err != nil {
		return sbor.Value{}, err
	}
	blueprint, err := decodeString(blueprintV)
	if err != nil {
		return sbor.Value{}, err
	}
	componentV, err := field(in, 2)
	if err != nil {
		return sbor.Value{}, err
	}
	component, err := decodeAddress(componentV)
	if err != nil {
		return sbor.Value{}, err
	}
	argsV, err := field(in, 3)
	if err != nil {
		return sbor.Value{}, err
	}
	args, err := decodeArgs(argsV)
	if err != nil {
		return sbor.Value{}, err
	}

	inv := process.PrepareCallMethod(pkg, blueprint, sbor.Encode(addressValue(component)), args)
	out, err := p.Call(inv)
	if err != nil {
		return sbor.Value{}, err
	}
	return sbor.Bytes(out), nil
}

// handleGetPackageAddress reports the current frame's package address.
func handleGetPackageAddress(p *process.Process, _ sbor.Value) (sbor.Value, error) {
	return addressValue(p.Package), nil
}

// handleGetCallData returns the current invocation's argument list
// exactly as prepared, letting the guest pull its own parameters
// instead of receiving them as WASM call arguments.
func handleGetCallData(p *process.Process, _ sbor.Value) (sbor.Value, error) {
	if p.Invocation == nil {
		return sbor.Value{}, rterr.New(rterr.Lifecycle, "get_call_data: no invocation bound to this frame")
	}
	return argsValue(p.Invocation.Args), nil
}

// handleGetTransactionHash reports the owning transaction's hash.
func handleGetTransactionHash(p *process.Process, _ sbor.Value) (sbor.Value, error) {
	return sbor.Bytes(p.RT.TxHash.Bytes()), nil
}

// handleEmitLog appends (level, message) to the transaction's log
// buffer. level must name one of trace/debug/info/warn/error.
func handleEmitLog(p *process.Process, in sbor.Value) (sbor.Value, error) {
	levelV, err := field(in, 0)
	if err != nil {
		return sbor.Value{}, err
	}
	level, err := decodeString(levelV)
	if err != nil {
		return sbor.Value{}, err
	}
	msgV, err := field(in, 1)
	if err != nil {
		return sbor.Value{}, err
	}
	msg, err := decodeString(msgV)
	if err != nil {
		return sbor.Value{}, err
	}
	switch level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return sbor.Value{}, rterr.New(rterr.Dispatch, "emit_log: invalid level %q", level)
	}
	p.RT.EmitLog(level, msg)
	return sbor.Unit(), nil
}
