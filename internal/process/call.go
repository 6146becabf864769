package process

import (
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/sbor"
	"github.com/nexargate/resource-engine/internal/wasmvm"
)

// HostDispatch handles every host call a guest makes during Run. It is
// left nil here and wired by internal/host's init: host needs the
// *Process type to read and mutate frame state, so process cannot
// import host without creating a cycle; this package-level indirection
// breaks it.
var HostDispatch func(p *Process, mem wasmvm.MemoryAccessor, op uint32, inputPtr, inputLen, spare int32) (int32, error)

// Dispatch implements wasmvm.HostCallee, forwarding every guest host
// call to the injected HostDispatch.
func (p *Process) Dispatch(mem wasmvm.MemoryAccessor, op uint32, inputPtr, inputLen, spare int32) (int32, error) {
	if HostDispatch == nil {
		return 0, rterr.New(rterr.Dispatch, "no host dispatcher registered")
	}
	return HostDispatch(p, mem, op, inputPtr, inputLen, spare)
}

// Run loads inv's target module, instantiates it against this Process
// as the host callee, invokes the named export with no direct
// arguments (the guest fetches them itself via the get_call_data host
// call), reads the guest's return pointer, decodes the length-prefixed
// return buffer, walks it with the move classification to drain any
// resources the guest is handing back out of this frame, and returns
// the raw re-encoded SBOR bytes.
func (p *Process) Run(inv *Invocation) ([]byte, error) {
	p.Invocation = inv

	mod, err := p.RT.Module(inv.Package)
	if err != nil {
		return nil, err
	}

	vm, err := mod.Instantiate(p)
	if err != nil {
		return nil, err
	}
	p.VM = vm

	p.logf("trace", "invoke %s.%s", inv.Package, inv.Export)

	outPtr, err := vm.InvokeExport(inv.Export, 0)
	if err != nil {
		return nil, err
	}

	raw, err := vm.ReadBytes(outPtr)
	if err != nil {
		return nil, err
	}

	out, err := sbor.Walk(raw, newMoveClassifier(p))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Call runs the six-step nested call protocol: it walks every argument
// payload in inv with the move classification (draining ownership out
// of p), spawns a child Process at depth+1 sharing p's lock registry,
// transfers the drained resources into the child, runs the child,
// drains the child's own moving sets (populated by its Run) back into
// p's owned sets, finalizes the child, and finally sweeps p's own
// locked buckets for any whose external reference count has fallen to
// zero now that the child (and any references it held) is gone.
func (p *Process) Call(inv *Invocation) ([]byte, error) {
	args := make([][]byte, len(inv.Args))
	for i, arg := range inv.Args {
		moved, err := sbor.Walk(arg, newMoveClassifier(p))
		if err != nil {
			return nil, err
		}
		args[i] = moved
	}
	inv = &Invocation{Package: inv.Package, Export: inv.Export, Args: args}

	child := newProcess(p.RT, inv.Package, p.Depth+1, p, p.registry)
	for bid, b := range p.MovingBuckets {
		child.Buckets[bid] = b
		delete(p.MovingBuckets, bid)
	}
	for rid, r := range p.MovingRefs {
		child.References[rid] = r
		delete(p.MovingRefs, rid)
	}

	p.logf("trace", "call -> depth %d", child.Depth)

	ret, runErr := child.Run(inv)
	if runErr != nil {
		return nil, runErr
	}

	for bid, b := range child.MovingBuckets {
		p.Buckets[bid] = b
	}
	for rid, r := range child.MovingRefs {
		p.References[rid] = r
	}

	if err := child.Finalize(); err != nil {
		return nil, err
	}

	p.sweepReverts()

	return ret, nil
}
