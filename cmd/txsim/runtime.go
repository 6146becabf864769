package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/nexargate/resource-engine/internal/ledger"
	"github.com/nexargate/resource-engine/internal/runtime"
	"github.com/nexargate/resource-engine/pkg/types"
)

// newTxHash derives a deterministic-looking 32-byte transaction hash
// from a freshly generated UUID, giving every CLI invocation its own
// id-allocation namespace without requiring the caller to supply one.
func newTxHash() types.Hash {
	id := uuid.New()
	digest := crypto.Keccak256(id[:])
	var h types.Hash
	copy(h[:], digest)
	return h
}

// newRuntime opens the configured ledger and wraps it in a fresh
// Runtime for one transaction.
func newRuntime() (*runtime.Runtime, ledger.Ledger, error) {
	led, err := openLedger()
	if err != nil {
		return nil, nil, err
	}
	rt := runtime.New(newTxHash(), led, flagTrace)
	return rt, led, nil
}

// dumpReceipt renders a transaction's outcome as YAML to stdout.
func dumpReceipt(r runtime.Receipt) {
	out, err := yaml.Marshal(r)
	if err != nil {
		fmt.Fprintln(os.Stderr, "render receipt:", err)
		return
	}
	fmt.Print(string(out))
}
