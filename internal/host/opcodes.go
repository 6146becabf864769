package host

// Op identifies one of the host-call operations a guest can invoke
// through the single multiplexed `env.kernel` import.
type Op uint32

const (
	OpPublish Op = iota + 1
	OpCallFunction
	OpCallMethod
	OpCreateComponent
	OpGetComponentInfo
	OpGetComponentState
	OpPutComponentState
	OpCreateStorage
	OpGetStorageEntry
	OpPutStorageEntry
	OpCreateResourceFixed
	OpCreateResourceMutable
	OpMintResource
	OpCreateVault
	OpPutIntoVault
	OpTakeFromVault
	OpCreateBucket
	OpPutIntoBucket
	OpTakeFromBucket
	OpGetBucketAmount
	OpGetBucketResource
	OpCreateReference
	OpDropReference
	OpGetRefAmount
	OpGetRefResource
	OpEmitLog
	OpGetPackageAddress
	OpGetCallData
	OpGetTransactionHash
)
