package main

import (
	"path/filepath"

	"github.com/nexargate/resource-engine/internal/ledger"
)

// openLedger opens the ledger backend selected by the root command's
// persistent flags: an in-memory ledger under --ephemeral, otherwise a
// file-backed WAL+snapshot ledger under --data-dir.
func openLedger() (ledger.Ledger, error) {
	if flagEphemeral {
		return ledger.NewInMemory(), nil
	}
	snapshot := flagSnapshot
	if snapshot == "" {
		snapshot = filepath.Join(flagDataDir, "snapshot.gz")
	}
	return ledger.OpenFileLedger(ledger.FileConfig{
		WALPath:          filepath.Join(flagDataDir, "wal.log"),
		SnapshotPath:     snapshot,
		SnapshotInterval: flagInterval,
	})
}

// closeLedger snapshots (if file-backed) and closes led; snapshot and
// close errors are discarded and do not fail the command.
func closeLedger(led ledger.Ledger) {
	if fl, ok := led.(*ledger.FileLedger); ok {
		_ = fl.Snapshot()
	}
	_ = led.Close()
}
