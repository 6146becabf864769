package testutil

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// CompileWAT assembles src (WebAssembly text format) into a binary module
// by shelling out to wat2wasm, skipping the calling test if the tool
// isn't on PATH. Tests that need a real guest module to drive through
// the VM use this instead of checking in a .wasm fixture.
func CompileWAT(t *testing.T, src string) []byte {
	t.Helper()

	dir := t.TempDir()
	watPath := filepath.Join(dir, "module.wat")
	if err := os.WriteFile(watPath, []byte(src), 0o644); err != nil {
		t.Fatalf("write wat source: %v", err)
	}
	wasmPath := filepath.Join(dir, "module.wasm")

	cmd := exec.Command("wat2wasm", "-o", wasmPath, watPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			t.Skip("wat2wasm not installed")
		}
		t.Fatalf("compile wat: %v\n%s", err, out)
	}

	wasm, err := os.ReadFile(wasmPath)
	if err != nil {
		t.Fatalf("read compiled wasm: %v", err)
	}
	return wasm
}
