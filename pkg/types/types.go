// Package types holds the address, hash and id primitives shared by every
// layer of the runtime.
package types

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Address identifies a package, component or resource definition.
//
// It is deliberately the same 20-byte shape as an account address, so
// that go-ethereum's `common.Address` helpers (hex formatting, byte-slice
// conversion) can be reused verbatim.
type Address [20]byte

// AddressZero is the reserved sentinel used as a caller address at the
// root of a transaction, where no package or component is yet on the
// call stack.
var AddressZero Address

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string { return common.BytesToAddress(a[:]).Hex() }

func (a Address) String() string { return a.Hex() }

// ParseAddress parses a hex-encoded address string (with or without the
// "0x" prefix) into an Address.
func ParseAddress(s string) (Address, error) {
	b, err := hex.DecodeString(trimHexPrefix(s))
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(b) != 20 {
		return Address{}, fmt.Errorf("invalid address %q: want 20 bytes, got %d", s, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// AddressFromCommon converts a go-ethereum common.Address into Address.
func AddressFromCommon(c common.Address) Address {
	var a Address
	copy(a[:], c[:])
	return a
}

// Common converts Address to a go-ethereum common.Address, the shape the
// host-facing WASM bindings and hashing helpers expect.
func (a Address) Common() common.Address { return common.BytesToAddress(a[:]) }

// MarshalJSON renders the address as its hex string, so ledger
// snapshots and logs are readable without a byte-array dump.
func (a Address) MarshalJSON() ([]byte, error) { return []byte(`"` + a.Hex() + `"`), nil }

// UnmarshalJSON parses the hex string produced by MarshalJSON.
func (a *Address) UnmarshalJSON(data []byte) error {
	s := trimQuotes(data)
	c := common.HexToAddress(s)
	copy(a[:], c[:])
	return nil
}

// Hash is a 32-byte content hash, used for transaction hashes and code
// hashes.
type Hash [32]byte

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// MarshalJSON renders the hash as its hex string.
func (h Hash) MarshalJSON() ([]byte, error) { return []byte(`"` + h.Hex() + `"`), nil }

// UnmarshalJSON parses the hex string produced by MarshalJSON.
func (h *Hash) UnmarshalJSON(data []byte) error {
	s := trimQuotes(data)
	b, err := hex.DecodeString(trimHexPrefix(s))
	if err != nil {
		return err
	}
	copy(h[:], b)
	return nil
}

func trimQuotes(data []byte) string {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// BID identifies a transient bucket within a single transaction.
type BID uint64

func (b BID) String() string { return fmt.Sprintf("bid#%d", uint64(b)) }

// RID identifies a borrowed bucket reference within a single transaction.
type RID uint64

func (r RID) String() string { return fmt.Sprintf("rid#%d", uint64(r)) }

// VID identifies a persistent vault.
type VID uint64

func (v VID) String() string { return fmt.Sprintf("vid#%d", uint64(v)) }

// SID identifies a persistent storage map.
type SID uint64

func (s SID) String() string { return fmt.Sprintf("sid#%d", uint64(s)) }
