package ledger

import (
	"bufio"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nexargate/resource-engine/internal/resource"
	"github.com/nexargate/resource-engine/internal/rterr"
	"github.com/nexargate/resource-engine/pkg/types"
)

// FileConfig configures a FileLedger. SnapshotInterval is the number of
// WAL records written before an automatic compaction snapshot is taken;
// zero disables automatic snapshotting (the caller must call Snapshot
// explicitly, e.g. at transaction commit).
type FileConfig struct {
	WALPath          string
	SnapshotPath     string
	SnapshotInterval int
}

// record is one WAL/snapshot line: exactly one of the entity pointers is
// set, selected by Op.
type record struct {
	Op          string              `json:"op"`
	Package     *Package            `json:"package,omitempty"`
	Component   *Component          `json:"component,omitempty"`
	ResourceDef *resource.ResourceDef `json:"resource_def,omitempty"`
	Vault       *vaultDTO           `json:"vault,omitempty"`
	Storage     *storageDTO         `json:"storage,omitempty"`
}

type vaultDTO struct {
	ID        types.VID     `json:"id"`
	Authority types.Address `json:"authority"`
	Resource  *types.Address `json:"resource,omitempty"`
	Amount    resource.Amount `json:"amount"`
}

type storageDTO struct {
	ID        types.SID         `json:"id"`
	Authority types.Address     `json:"authority"`
	Entries   map[string]string `json:"entries"` // base64(key) -> base64(value)
}

func vaultToDTO(v *resource.Vault) *vaultDTO {
	dto := &vaultDTO{ID: v.ID, Authority: v.Authority, Amount: v.Amount()}
	if addr, ok := v.Resource(); ok {
		dto.Resource = &addr
	}
	return dto
}

func vaultFromDTO(dto *vaultDTO) *resource.Vault {
	var held *resource.Bucket
	if dto.Resource != nil {
		held = resource.NewBucket(*dto.Resource, dto.Amount)
	}
	return resource.RestoreVault(dto.ID, dto.Authority, held)
}

func storageToDTO(s *resource.Storage) *storageDTO {
	entries := make(map[string]string, len(s.Entries()))
	for k, v := range s.Entries() {
		entries[base64.StdEncoding.EncodeToString([]byte(k))] = base64.StdEncoding.EncodeToString(v)
	}
	return &storageDTO{ID: s.ID, Authority: s.Authority, Entries: entries}
}

func storageFromDTO(dto *storageDTO) (*resource.Storage, error) {
	entries := make(map[string][]byte, len(dto.Entries))
	for k64, v64 := range dto.Entries {
		k, err := base64.StdEncoding.DecodeString(k64)
		if err != nil {
			return nil, rterr.Wrap(rterr.Codec, err, "decode storage key")
		}
		v, err := base64.StdEncoding.DecodeString(v64)
		if err != nil {
			return nil, rterr.Wrap(rterr.Codec, err, "decode storage value")
		}
		entries[string(k)] = v
	}
	return resource.RestoreStorage(dto.ID, dto.Authority, entries), nil
}

// FileLedger is a write-ahead-logged Ledger: every mutation is appended
// to the WAL as a JSON line before it takes effect in memory, and
// periodically compacted into a gzip snapshot with the WAL truncated.
type FileLedger struct {
	mu sync.Mutex

	mem *MemLedger

	walPath      string
	walFile      *os.File
	snapshotPath string
	interval     int
	sinceSnap    int

	log *logrus.Entry
}

// OpenFileLedger opens or creates the WAL at cfg.WALPath, replaying any
// existing snapshot and WAL records.
func OpenFileLedger(cfg FileConfig) (*FileLedger, error) {
	fl := &FileLedger{
		mem:          NewInMemory(),
		walPath:      cfg.WALPath,
		snapshotPath: cfg.SnapshotPath,
		interval:     cfg.SnapshotInterval,
		log:          logrus.WithField("component", "ledger"),
	}

	if err := fl.loadSnapshot(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.WALPath), 0o755); err != nil {
		return nil, rterr.Wrap(rterr.Lifecycle, err, "create WAL directory")
	}
	wal, err := os.OpenFile(cfg.WALPath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o600)
	if err != nil {
		return nil, rterr.Wrap(rterr.Lifecycle, err, "open WAL %s", cfg.WALPath)
	}
	fl.walFile = wal

	if err := fl.replayWAL(); err != nil {
		wal.Close()
		return nil, err
	}

	return fl, nil
}

func (fl *FileLedger) loadSnapshot() error {
	if fl.snapshotPath == "" {
		return nil
	}
	f, err := os.Open(fl.snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return rterr.Wrap(rterr.Lifecycle, err, "open snapshot %s", fl.snapshotPath)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return rterr.Wrap(rterr.Lifecycle, err, "open snapshot gzip stream")
	}
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if err := fl.applyRecordBytes(scanner.Bytes()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return rterr.Wrap(rterr.Lifecycle, err, "read snapshot")
	}
	fl.log.Infof("loaded snapshot from %s", fl.snapshotPath)
	return nil
}

func (fl *FileLedger) replayWAL() error {
	scanner := bufio.NewScanner(fl.walFile)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	count := 0
	for scanner.Scan() {
		if err := fl.applyRecordBytes(scanner.Bytes()); err != nil {
			return err
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return rterr.Wrap(rterr.Lifecycle, err, "replay WAL")
	}
	if count > 0 {
		fl.log.Infof("replayed %d WAL records", count)
	}
	fl.sinceSnap = count
	return nil
}

func (fl *FileLedger) applyRecordBytes(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return rterr.Wrap(rterr.Lifecycle, err, "unmarshal WAL record")
	}
	return fl.applyRecord(&r)
}

func (fl *FileLedger) applyRecord(r *record) error {
	switch r.Op {
	case "package":
		return fl.mem.PutPackage(r.Package)
	case "component":
		return fl.mem.PutComponent(r.Component)
	case "resource_def":
		return fl.mem.PutResourceDef(r.ResourceDef)
	case "vault":
		return fl.mem.PutVault(vaultFromDTO(r.Vault))
	case "storage":
		s, err := storageFromDTO(r.Storage)
		if err != nil {
			return err
		}
		return fl.mem.PutStorage(s)
	default:
		return rterr.New(rterr.Lifecycle, "unknown ledger record op %q", r.Op)
	}
}

func (fl *FileLedger) appendAndApply(r *record) error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	data, err := json.Marshal(r)
	if err != nil {
		return rterr.Wrap(rterr.Lifecycle, err, "marshal WAL record")
	}
	if _, err := fl.walFile.Write(append(data, '\n')); err != nil {
		return rterr.Wrap(rterr.Lifecycle, err, "append WAL record")
	}
	if err := fl.walFile.Sync(); err != nil {
		return rterr.Wrap(rterr.Lifecycle, err, "sync WAL")
	}
	if err := fl.applyRecord(r); err != nil {
		return err
	}

	fl.sinceSnap++
	if fl.interval > 0 && fl.sinceSnap >= fl.interval {
		if err := fl.snapshotLocked(); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot forces a compaction: the current in-memory state is written
// to a fresh gzip snapshot file and the WAL is truncated.
func (fl *FileLedger) Snapshot() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.snapshotLocked()
}

func (fl *FileLedger) snapshotLocked() error {
	if fl.snapshotPath == "" {
		return nil
	}
	f, err := os.Create(fl.snapshotPath)
	if err != nil {
		return rterr.Wrap(rterr.Lifecycle, err, "create snapshot file")
	}
	gz := gzip.NewWriter(f)

	fl.mem.mu.RLock()
	records := fl.mem.allRecordsLocked()
	fl.mem.mu.RUnlock()

	var writeErr error
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			writeErr = err
			break
		}
		if _, err := gz.Write(append(data, '\n')); err != nil {
			writeErr = err
			break
		}
	}
	if writeErr == nil {
		writeErr = gz.Close()
	} else {
		gz.Close()
	}
	if writeErr == nil {
		writeErr = f.Close()
	} else {
		f.Close()
	}
	if writeErr != nil {
		return rterr.Wrap(rterr.Lifecycle, writeErr, "write snapshot")
	}

	if err := fl.walFile.Close(); err != nil {
		return rterr.Wrap(rterr.Lifecycle, err, "close WAL before truncation")
	}
	wal, err := os.Create(fl.walPath)
	if err != nil {
		return rterr.Wrap(rterr.Lifecycle, err, "recreate WAL after snapshot")
	}
	fl.walFile = wal
	fl.sinceSnap = 0
	fl.log.Infof("snapshot saved to %s; WAL truncated", fl.snapshotPath)
	return nil
}

func (fl *FileLedger) PutPackage(pkg *Package) error {
	return fl.appendAndApply(&record{Op: "package", Package: pkg})
}

func (fl *FileLedger) GetPackage(addr types.Address) (*Package, error) {
	return fl.mem.GetPackage(addr)
}

func (fl *FileLedger) PutComponent(c *Component) error {
	return fl.appendAndApply(&record{Op: "component", Component: c})
}

func (fl *FileLedger) GetComponent(addr types.Address) (*Component, error) {
	return fl.mem.GetComponent(addr)
}

func (fl *FileLedger) PutResourceDef(def *resource.ResourceDef) error {
	return fl.appendAndApply(&record{Op: "resource_def", ResourceDef: def})
}

func (fl *FileLedger) GetResourceDef(addr types.Address) (*resource.ResourceDef, error) {
	return fl.mem.GetResourceDef(addr)
}

func (fl *FileLedger) PutVault(v *resource.Vault) error {
	return fl.appendAndApply(&record{Op: "vault", Vault: vaultToDTO(v)})
}

func (fl *FileLedger) GetVault(id types.VID) (*resource.Vault, error) {
	return fl.mem.GetVault(id)
}

func (fl *FileLedger) PutStorage(s *resource.Storage) error {
	return fl.appendAndApply(&record{Op: "storage", Storage: storageToDTO(s)})
}

func (fl *FileLedger) GetStorage(id types.SID) (*resource.Storage, error) {
	return fl.mem.GetStorage(id)
}

func (fl *FileLedger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.walFile.Close()
}
