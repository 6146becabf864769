package runtime

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/nexargate/resource-engine/pkg/types"
)

// idAllocator hands out deterministic ids for a single transaction.
// Bucket and reference ids live only for the transaction and are plain
// per-kind counters starting at 1. Vault ids, storage ids and new
// component/package addresses persist in the ledger, so each is a
// per-kind counter hashed together with the transaction hash.
type idAllocator struct {
	txHash  types.Hash
	bucket  uint64
	ref     uint64
	vault   uint64
	storage uint64
	addrSeq uint64
}

func newIDAllocator(txHash types.Hash) *idAllocator {
	return &idAllocator{txHash: txHash}
}

func (a *idAllocator) NextBID() types.BID {
	a.bucket++
	return types.BID(a.bucket)
}

func (a *idAllocator) NextRID() types.RID {
	a.ref++
	return types.RID(a.ref)
}

func (a *idAllocator) NextVID() types.VID {
	a.vault++
	return types.VID(a.derive('v', a.vault))
}

func (a *idAllocator) NextSID() types.SID {
	a.storage++
	return types.SID(a.derive('s', a.storage))
}

// derive hashes the transaction hash, a kind tag and seq into a 64-bit id.
func (a *idAllocator) derive(kind byte, seq uint64) uint64 {
	var buf [9]byte
	buf[0] = kind
	binary.LittleEndian.PutUint64(buf[1:], seq)
	return binary.LittleEndian.Uint64(crypto.Keccak256(a.txHash.Bytes(), buf[:])[:8])
}

// NextAddress derives a fresh component or package address from this
// transaction's hash and an internal sequence counter, keyed on the
// transaction rather than on (creator, code) so repeated publishes of
// identical code within one transaction still get distinct addresses.
func (a *idAllocator) NextAddress() types.Address {
	a.addrSeq++
	var seq [8]byte
	binary.LittleEndian.PutUint64(seq[:], a.addrSeq)
	digest := crypto.Keccak256(a.txHash.Bytes(), seq[:])
	var out types.Address
	copy(out[:], digest[12:])
	return out
}
