package settings

import (
	"path/filepath"
	"testing"
)

func openTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("Couldn't open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestGetMissingKey(t *testing.T) {
	repo := openTestRepository(t)

	value, err := repo.Get("printer_address")
	if err != nil {
		t.Fatalf("missing key must not be an error: %v", err)
	}
	if value != "" {
		t.Errorf("value = %q, want empty", value)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	repo := openTestRepository(t)

	if err := repo.Put("printer_address", "DC:0D:30:AA:BB:CC"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	value, err := repo.Get("printer_address")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != "DC:0D:30:AA:BB:CC" {
		t.Errorf("value = %q", value)
	}
}

func TestPutOverwrites(t *testing.T) {
	repo := openTestRepository(t)

	if err := repo.Put("paper_width", "58"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := repo.Put("paper_width", "80"); err != nil {
		t.Fatalf("second put failed: %v", err)
	}
	value, err := repo.Get("paper_width")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != "80" {
		t.Errorf("value = %q, want the overwritten value", value)
	}
}

func TestDelete(t *testing.T) {
	repo := openTestRepository(t)

	if err := repo.Put("printer_name", "RPP02N"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := repo.Delete("printer_name"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	value, err := repo.Get("printer_name")
	if err != nil || value != "" {
		t.Errorf("deleted key should read back empty, got (%q, %v)", value, err)
	}

	if err := repo.Delete("never_existed"); err != nil {
		t.Errorf("deleting a missing key must not fail: %v", err)
	}
}
