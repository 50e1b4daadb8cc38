package checksum

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSum_Stable(t *testing.T) {
	a := Sum([]byte("[]"))
	if a != Sum([]byte("[]")) {
		t.Error("digest not stable")
	}
	if a == Sum([]byte("[ ]")) {
		t.Error("different content should differ")
	}
	if len(a) != 64 {
		t.Errorf("len = %d, want 64", len(a))
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	missing, err := File(filepath.Join(dir, "absent.json"))
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if missing != Sum(nil) {
		t.Errorf("missing file digest = %q", missing)
	}

	p := filepath.Join(dir, "notes.json")
	_ = os.WriteFile(p, []byte("[]"), 0o644)
	got, err := File(p)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if got != Sum([]byte("[]")) {
		t.Errorf("digest = %q", got)
	}
}
