package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nexargate/resource-engine/internal/resource"
)

func TestFileLedgerReplaysWALAfterReopen(t *testing.T) {
	dir := t.TempDir()
	cfg := FileConfig{
		WALPath:      filepath.Join(dir, "ledger.wal"),
		SnapshotPath: filepath.Join(dir, "ledger.snap"),
	}

	fl, err := OpenFileLedger(cfg)
	if err != nil {
		t.Fatalf("unexpected error opening ledger: %v", err)
	}
	pkgAddr := addr("0x1111111111111111111111111111111111111111")
	if err := fl.PutPackage(&Package{Address: pkgAddr, Code: []byte{9, 9, 9}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	authority := addr("0x5555555555555555555555555555555555555555")
	v := resource.NewVault(7, authority)
	if err := v.Put(resource.NewBucket(addr("0x4444444444444444444444444444444444444444"), resource.NewAmount(42)), authority); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := fl.PutVault(v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("unexpected error closing ledger: %v", err)
	}

	reopened, err := OpenFileLedger(cfg)
	if err != nil {
		t.Fatalf("unexpected error reopening ledger: %v", err)
	}
	defer reopened.Close()

	pkg, err := reopened.GetPackage(pkgAddr)
	if err != nil {
		t.Fatalf("expected package to survive reopen: %v", err)
	}
	if len(pkg.Code) != 3 {
		t.Fatalf("expected code length 3 after replay, got %d", len(pkg.Code))
	}

	gotVault, err := reopened.GetVault(7)
	if err != nil {
		t.Fatalf("expected vault to survive reopen: %v", err)
	}
	if gotVault.Amount().Cmp(resource.NewAmount(42)) != 0 {
		t.Fatalf("expected vault amount 42 after replay, got %s", gotVault.Amount())
	}
}

func TestFileLedgerSnapshotTruncatesWAL(t *testing.T) {
	dir := t.TempDir()
	cfg := FileConfig{
		WALPath:          filepath.Join(dir, "ledger.wal"),
		SnapshotPath:     filepath.Join(dir, "ledger.snap"),
		SnapshotInterval: 1,
	}
	fl, err := OpenFileLedger(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer fl.Close()

	pkgAddr := addr("0x1111111111111111111111111111111111111111")
	if err := fl.PutPackage(&Package{Address: pkgAddr, Code: []byte{1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fl.sinceSnap != 0 {
		t.Fatalf("expected automatic snapshot to reset sinceSnap, got %d", fl.sinceSnap)
	}
	info, err := os.Stat(cfg.WALPath)
	if err != nil {
		t.Fatalf("unexpected error reading WAL: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected automatic snapshot to truncate the WAL, got %d bytes", info.Size())
	}
}
