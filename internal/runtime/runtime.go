// Package runtime is the transaction context: the deterministic id
// allocator, the compiled-module cache, the accumulated log
// buffer, and the ledger handle every Process in the invocation tree
// shares through a single exclusive reference, per the
// one-logical-thread-of-control model.
package runtime

import (
	"github.com/sirupsen/logrus"

	"github.com/nexargate/resource-engine/internal/ledger"
	"github.com/nexargate/resource-engine/internal/wasmvm"
	"github.com/nexargate/resource-engine/pkg/types"
)

// LogEntry is one line emitted by a guest or the runtime itself during a
// transaction.
type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Receipt is the transaction outcome record: whether the top-level call
// succeeded, its return bytes, every log line emitted, and every
// address the transaction caused to come into existence.
type Receipt struct {
	Success      bool            `json:"success"`
	ReturnData   []byte          `json:"return_data,omitempty"`
	Logs         []LogEntry      `json:"logs,omitempty"`
	NewAddresses []types.Address `json:"new_addresses,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// Runtime is the per-transaction context. It is not safe for concurrent
// use by more than one Process at a time by design: only one Process in
// the invocation tree is ever active, so Runtime state needs no locking
// beyond what moduleCache does internally for cross-transaction reuse.
type Runtime struct {
	TxHash types.Hash
	Ledger ledger.Ledger
	Trace  bool

	ids   *idAllocator
	cache *moduleCache

	logs         []LogEntry
	newAddresses []types.Address

	log *logrus.Entry
}

// New builds a Runtime for a single transaction identified by txHash.
func New(txHash types.Hash, led ledger.Ledger, trace bool) *Runtime {
	return &Runtime{
		TxHash: txHash,
		Ledger: led,
		Trace:  trace,
		ids:    newIDAllocator(txHash),
		cache:  newModuleCache(),
		log:    logrus.WithField("tx", txHash.Hex()),
	}
}

func (rt *Runtime) NextBID() types.BID         { return rt.ids.NextBID() }
func (rt *Runtime) NextRID() types.RID         { return rt.ids.NextRID() }
func (rt *Runtime) NextVID() types.VID         { return rt.ids.NextVID() }
func (rt *Runtime) NextSID() types.SID         { return rt.ids.NextSID() }
func (rt *Runtime) NextAddress() types.Address { return rt.ids.NextAddress() }

// RecordNewAddress notes addr as having been created during this
// transaction, for inclusion in the final Receipt.
func (rt *Runtime) RecordNewAddress(addr types.Address) {
	rt.newAddresses = append(rt.newAddresses, addr)
}

// Module returns the compiled module for pkg, compiling and caching it
// on first use.
func (rt *Runtime) Module(pkg types.Address) (*wasmvm.Module, error) {
	return rt.cache.get(rt.Ledger, pkg)
}

// EmitLog appends a log entry to this transaction's buffer. When Trace
// is enabled the entry is also mirrored to logrus at a level matching
// level; internal/process.Process.logf layers depth-indentation on top
// of this for call-stack-aware tracing.
func (rt *Runtime) EmitLog(level, message string) {
	rt.logs = append(rt.logs, LogEntry{Level: level, Message: message})
	if !rt.Trace {
		return
	}
	switch level {
	case "trace", "debug":
		rt.log.Debug(message)
	case "warn":
		rt.log.Warn(message)
	case "error":
		rt.log.Error(message)
	default:
		rt.log.Info(message)
	}
}

// Receipt builds the final transaction outcome record.
func (rt *Runtime) Receipt(success bool, returnData []byte, failure error) Receipt {
	r := Receipt{
		Success:      success,
		ReturnData:   returnData,
		Logs:         rt.logs,
		NewAddresses: rt.newAddresses,
	}
	if failure != nil {
		r.Error = failure.Error()
	}
	return r
}
