package host

import (
	"github.com/nexargate/resource-engine/internal/process"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/sbor"
	"github.com/nexargate/resource-engine/internal/wasmvm"
)

func init() {
	process.HostDispatch = Dispatch
}

// Dispatch is the single entry point every op comes through. It reads
// the request out of guest memory, decodes it, routes to the handler
// matching op, SBOR-encodes the handler's result, writes it back into
// guest memory via the guest's own allocator, and returns the pointer.
// Authority, not-found and accounting failures returned by a handler
// propagate exactly like any other error: the guest invocation aborts
// and the calling Process sees Run/Call fail.
func Dispatch(p *process.Process, mem wasmvm.MemoryAccessor, op uint32, inputPtr, inputLen, _ int32) (int32, error) {
	raw, err := mem.ReadBytes(inputPtr)
	if err != nil {
		return 0, err
	}
	_ = inputLen // length is already framed into raw by ReadBytes's length prefix

	in, err := decodeOp(raw)
	if err != nil {
		return 0, err
	}

	h, ok := handlers[Op(op)]
	if !ok {
		return 0, rterr.New(rterr.Dispatch, "unknown host op %d", op)
	}

	out, err := h(p, in)
	if err != nil {
		return 0, err
	}

	ptr, err := mem.WriteBytes(sbor.Encode(out))
	if err != nil {
		return 0, err
	}
	return ptr, nil
}

type handlerFunc func(p *process.Process, in sbor.Value) (sbor.Value, error)

var handlers = map[Op]handlerFunc{
	OpPublish:               handlePublish,
	OpCallFunction:           handleCallFunction,
	OpCallMethod:             handleCallMethod,
	OpCreateComponent:        handleCreateComponent,
	OpGetComponentInfo:       handleGetComponentInfo,
	OpGetComponentState:      handleGetComponentState,
	OpPutComponentState:      handlePutComponentState,
	OpCreateStorage:          handleCreateStorage,
	OpGetStorageEntry:        handleGetStorageEntry,
	OpPutStorageEntry:        handlePutStorageEntry,
	OpCreateResourceFixed:    handleCreateResourceFixed,
	OpCreateResourceMutable:  handleCreateResourceMutable,
	OpMintResource:           handleMintResource,
	OpCreateVault:            handleCreateVault,
	OpPutIntoVault:           handlePutIntoVault,
	OpTakeFromVault:          handleTakeFromVault,
	OpCreateBucket:           handleCreateBucket,
	OpPutIntoBucket:          handlePutIntoBucket,
	OpTakeFromBucket:         handleTakeFromBucket,
	OpGetBucketAmount:        handleGetBucketAmount,
	OpGetBucketResource:      handleGetBucketResource,
	OpCreateReference:        handleCreateReference,
	OpDropReference:          handleDropReference,
	OpGetRefAmount:           handleGetRefAmount,
	OpGetRefResource:         handleGetRefResource,
	OpEmitLog:                handleEmitLog,
	OpGetPackageAddress:      handleGetPackageAddress,
	OpGetCallData:            handleGetCallData,
	OpGetTransactionHash:     handleGetTransactionHash,
}
