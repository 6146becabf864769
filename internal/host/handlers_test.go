package host

import (
	"testing"

	"github.com/nexargate/resource-engine/internal/ledger"
	"github.com/nexargate/resource-engine/internal/process"
	"github.com/nexargate/resource-engine/internal/resource"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/internal/runtime"
	"github.com/nexargate/resource-engine/internal/sbor"
	"github.com/nexargate/resource-engine/pkg/types"
)

func mustAmount(x int64) resource.Amount { return resource.NewAmount(x) }

func newTestProcess(t *testing.T, pkg types.Address) *process.Process {
	t.Helper()
	rt := runtime.New(types.Hash{42}, ledger.NewInMemory(), false)
	return process.NewRoot(rt, pkg)
}

func TestCreateResourceFixedMintsIntoOwnedBucket(t *testing.T) {
	p := newTestProcess(t, types.Address{1})
	in := sbor.Struct(metadataValue(map[string]string{"symbol": "HT"}), amountValue(mustAmount(1000)))

	out, err := handleCreateResourceFixed(p, in)
	if err != nil {
		t.Fatalf("create_resource_fixed failed: %v", err)
	}
	if out.Type != sbor.TStruct || len(out.Fields.Unnamed) != 2 {
		t.Fatalf("expected (address, bucket id) tuple, got %+v", out)
	}

	addr, err := decodeAddress(out.Fields.Unnamed[0])
	if err != nil {
		t.Fatalf("decode address: %v", err)
	}
	def, err := p.RT.Ledger.GetResourceDef(addr)
	if err != nil {
		t.Fatalf("resource def not persisted: %v", err)
	}
	if !def.Fixed() {
		t.Fatalf("expected a fixed-supply resource")
	}
	bid, err := decodeBID(out.Fields.Unnamed[1])
	if err != nil {
		t.Fatalf("decode bucket id: %v", err)
	}
	if _, ok := p.Buckets[bid]; !ok {
		t.Fatalf("expected the minted bucket to be owned by the frame")
	}
}

func TestMintResourceFailsOnFixedSupply(t *testing.T) {
	p := newTestProcess(t, types.Address{1})
	createOut, err := handleCreateResourceFixed(p, sbor.Struct(metadataValue(nil), amountValue(mustAmount(10))))
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	addr, _ := decodeAddress(createOut.Fields.Unnamed[0])

	_, err = handleMintResource(p, sbor.Struct(addressValue(addr), amountValue(mustAmount(1))))
	if !rterr.Is(err, rterr.Authority) {
		t.Fatalf("expected an Authority error for minting a fixed resource, got %v", err)
	}
}

func TestBucketCreatePutTakeRoundTrip(t *testing.T) {
	p := newTestProcess(t, types.Address{1})

	fixedOut, err := handleCreateResourceFixed(p, sbor.Struct(metadataValue(nil), amountValue(mustAmount(5))))
	if err != nil {
		t.Fatalf("create_resource_fixed failed: %v", err)
	}
	resourceAddr, _ := decodeAddress(fixedOut.Fields.Unnamed[0])
	sourceBid, _ := decodeBID(fixedOut.Fields.Unnamed[1])

	createOut, err := handleCreateBucket(p, sbor.Struct(addressValue(resourceAddr)))
	if err != nil {
		t.Fatalf("create_bucket failed: %v", err)
	}
	bid, _ := decodeBID(createOut)

	if _, err := handlePutIntoBucket(p, sbor.Struct(bidValue(bid), bidValue(sourceBid))); err != nil {
		t.Fatalf("put_into_bucket failed: %v", err)
	}
	if _, stillThere := p.Buckets[sourceBid]; stillThere {
		t.Fatalf("expected source bucket to be consumed")
	}

	amtOut, err := handleGetBucketAmount(p, sbor.Struct(bidValue(bid)))
	if err != nil {
		t.Fatalf("get_bucket_amount failed: %v", err)
	}
	amt, err := decodeAmount(amtOut)
	if err != nil || amt.String() != "5" {
		t.Fatalf("expected amount 5, got %+v err=%v", amt, err)
	}

	takeOut, err := handleTakeFromBucket(p, sbor.Struct(bidValue(bid), amountValue(mustAmount(2))))
	if err != nil {
		t.Fatalf("take_from_bucket failed: %v", err)
	}
	newBid, _ := decodeBID(takeOut)
	if newBid == bid {
		t.Fatalf("expected a distinct bucket id for the split")
	}
}

func TestCreateReferenceThenDropReference(t *testing.T) {
	p := newTestProcess(t, types.Address{1})
	fixedOut, _ := handleCreateResourceFixed(p, sbor.Struct(metadataValue(nil), amountValue(mustAmount(10))))
	bid, _ := decodeBID(fixedOut.Fields.Unnamed[1])

	refOut, err := handleCreateReference(p, sbor.Struct(bidValue(bid)))
	if err != nil {
		t.Fatalf("create_reference failed: %v", err)
	}
	rid, _ := decodeRID(refOut)

	if _, err := handleGetRefAmount(p, sbor.Struct(ridValue(rid))); err != nil {
		t.Fatalf("get_ref_amount failed: %v", err)
	}

	// the bucket is locked: take_from_bucket must fail as not-found
	if _, err := handleTakeFromBucket(p, sbor.Struct(bidValue(bid), amountValue(mustAmount(1)))); !rterr.Is(err, rterr.Resolution) {
		t.Fatalf("expected a Resolution error while the bucket is locked, got %v", err)
	}

	if _, err := handleDropReference(p, sbor.Struct(ridValue(rid))); err != nil {
		t.Fatalf("drop_reference failed: %v", err)
	}

	if _, err := handleTakeFromBucket(p, sbor.Struct(bidValue(bid), amountValue(mustAmount(1)))); err != nil {
		t.Fatalf("expected take_from_bucket to succeed once the lock reverted: %v", err)
	}
}

func TestComponentAuthorityRejectsForeignPackage(t *testing.T) {
	owner := newTestProcess(t, types.Address{1})
	createOut, err := handleCreateComponent(owner, sbor.Struct(stringValue("Account"), sbor.Bytes(sbor.Encode(sbor.Unit()))))
	if err != nil {
		t.Fatalf("create_component failed: %v", err)
	}
	addr, _ := decodeAddress(createOut)

	stranger := process.NewRoot(owner.RT, types.Address{2})
	if _, err := handleGetComponentState(stranger, sbor.Struct(addressValue(addr))); !rterr.Is(err, rterr.Authority) {
		t.Fatalf("expected an Authority error for a cross-package read, got %v", err)
	}
	if _, err := owner.RT.Ledger.GetComponent(addr); err != nil {
		t.Fatalf("component should still exist: %v", err)
	}
}

func TestPutStorageEntryRejectsEmbeddedBucketID(t *testing.T) {
	p := newTestProcess(t, types.Address{1})
	sidOut, err := handleCreateStorage(p, sbor.Unit())
	if err != nil {
		t.Fatalf("create_storage failed: %v", err)
	}
	sid, _ := decodeSID(sidOut)

	key := sbor.Encode(sbor.Str("k"))
	poison := sbor.Encode(sbor.BucketValue(1))
	_, err = handlePutStorageEntry(p, sbor.Struct(sidValue(sid), sbor.Bytes(key), sbor.Bytes(poison)))
	if !rterr.Is(err, rterr.Movement) {
		t.Fatalf("expected a Movement error, got %v", err)
	}
}
