// Package wasmvm wraps wasmer-go with the narrow surface the runtime
// needs: load a guest module, instantiate it against a single
// multiplexed host import, and move length-prefixed byte buffers across
// the guest/host boundary the way scrypto_alloc/scrypto_free frame them.
package wasmvm

import (
	"encoding/binary"

	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/nexargate/resource-engine/internal/rterr"
)

// MemoryAccessor lets a HostCallee read the bytes a guest call passed in
// and allocate guest memory for a return value, without importing this
// package's Instance type directly (avoids a dependency cycle between
// wasmvm and the host dispatcher that implements HostCallee).
type MemoryAccessor interface {
	ReadBytes(ptr int32) ([]byte, error)
	WriteBytes(data []byte) (int32, error)
}

// HostCallee is the single import function a guest module calls back
// into. The runtime's host dispatcher implements this, collapsing what
// could have been four separate host imports (gas, read, write, log)
// into one multiplexed call keyed by op.
type HostCallee interface {
	Dispatch(mem MemoryAccessor, op uint32, inputPtr, inputLen, spare int32) (int32, error)
}

// Module is a compiled (but not yet instantiated) guest package.
type Module struct {
	store *wasmer.Store
	mod   *wasmer.Module
}

// Load compiles code against a fresh engine/store pair.
func Load(code []byte) (*Module, error) {
	engine := wasmer.NewEngine()
	store := wasmer.NewStore(engine)
	mod, err := wasmer.NewModule(store, code)
	if err != nil {
		return nil, rterr.Wrap(rterr.VM, err, "compile guest module")
	}
	return &Module{store: store, mod: mod}, nil
}

// Instance is one running instantiation of a Module, bound to a single
// HostCallee for the lifetime of the invocation that created it.
type Instance struct {
	inst *wasmer.Instance
	mem  *wasmer.Memory
}

// Instantiate links m against callee under import name env.kernel and
// resolves the instance's exported linear memory.
func (m *Module) Instantiate(callee HostCallee) (*Instance, error) {
	instance := &Instance{}

	fnType := wasmer.NewFunctionType(
		wasmer.NewValueTypes(wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32),
		wasmer.NewValueTypes(wasmer.I32),
	)
	kernel := wasmer.NewFunction(m.store, fnType, func(args []wasmer.Value) ([]wasmer.Value, error) {
		op := uint32(args[0].I32())
		ptr := args[1].I32()
		ln := args[2].I32()
		spare := args[3].I32()
		out, err := callee.Dispatch(instance, op, ptr, ln, spare)
		if err != nil {
			return nil, err
		}
		return []wasmer.Value{wasmer.NewI32(out)}, nil
	})

	imports := wasmer.NewImportObject()
	imports.Register("env", map[string]wasmer.IntoExtern{"kernel": kernel})

	inst, err := wasmer.NewInstance(m.mod, imports)
	if err != nil {
		return nil, rterr.Wrap(rterr.VM, err, "instantiate guest module")
	}
	mem, err := inst.Exports.GetMemory("memory")
	if err != nil {
		return nil, rterr.Wrap(rterr.VM, err, "guest module has no exported memory")
	}
	instance.inst = inst
	instance.mem = mem
	return instance, nil
}

// InvokeExport calls the zero-or-one-argument export name, passing
// argPtr to an export that declares one parameter and calling an export
// that declares none (such as `<blueprint>_abi`) without arguments, and
// returns the i32 result, conventionally a guest pointer to the
// length-prefixed return buffer.
func (i *Instance) InvokeExport(name string, argPtr int32) (int32, error) {
	fn, err := i.inst.Exports.GetRawFunction(name)
	if err != nil {
		return 0, rterr.Wrap(rterr.VM, err, "export %q not found", name)
	}
	var res interface{}
	if fn.ParameterArity() == 0 {
		res, err = fn.Call()
	} else {
		res, err = fn.Call(argPtr)
	}
	if err != nil {
		return 0, rterr.Wrap(rterr.VM, err, "invoke export %q", name)
	}
	out, ok := res.(int32)
	if !ok {
		return 0, rterr.New(rterr.VM, "export %q did not return an i32", name)
	}
	return out, nil
}

// ReadBytes reads a length-prefixed buffer (4-byte little-endian length
// followed by that many bytes) out of guest memory at ptr.
func (i *Instance) ReadBytes(ptr int32) ([]byte, error) {
	data := i.mem.Data()
	if ptr < 0 || int(ptr)+4 > len(data) {
		return nil, rterr.New(rterr.VM, "memory access out of bounds at %d", ptr)
	}
	n := binary.LittleEndian.Uint32(data[ptr : ptr+4])
	start := int(ptr) + 4
	end := start + int(n)
	if end > len(data) || end < start {
		return nil, rterr.New(rterr.VM, "memory access out of bounds reading %d bytes at %d", n, ptr)
	}
	out := make([]byte, n)
	copy(out, data[start:end])
	return out, nil
}

// WriteBytes asks the guest's scrypto_alloc export for a buffer large
// enough to hold data's length prefix plus its payload, writes both,
// and returns the guest pointer.
func (i *Instance) WriteBytes(data []byte) (int32, error) {
	alloc, err := i.inst.Exports.GetFunction("scrypto_alloc")
	if err != nil {
		return 0, rterr.Wrap(rterr.VM, err, "guest module missing scrypto_alloc")
	}
	res, err := alloc(int32(len(data) + 4))
	if err != nil {
		return 0, rterr.Wrap(rterr.VM, err, "scrypto_alloc")
	}
	ptr, ok := res.(int32)
	if !ok {
		return 0, rterr.New(rterr.VM, "scrypto_alloc did not return an i32")
	}

	mem := i.mem.Data()
	if int(ptr)+4+len(data) > len(mem) || ptr < 0 {
		return 0, rterr.New(rterr.VM, "unable to allocate guest memory for %d bytes", len(data))
	}
	binary.LittleEndian.PutUint32(mem[ptr:ptr+4], uint32(len(data)))
	copy(mem[int(ptr)+4:], data)
	return ptr, nil
}

// Free releases a previously allocated guest buffer via scrypto_free,
// a best-effort call since not every guest export is required to free
// eagerly.
func (i *Instance) Free(ptr int32) {
	free, err := i.inst.Exports.GetFunction("scrypto_free")
	if err != nil {
		return
	}
	_, _ = free(ptr)
}
