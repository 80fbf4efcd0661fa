package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestListFilesAndDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "b.MP3"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// os.ReadDir sorts lexically, which the walkers rely on for
	// reproducible output.
	if entries[0].Name != "a.txt" || entries[1].Name != "b.MP3" || entries[2].Name != "sub" {
		t.Errorf("unexpected order: %v", entries)
	}
	if entries[1].Extension != ".mp3" {
		t.Errorf("extension = %q, want lower-cased .mp3", entries[1].Extension)
	}
	if !entries[2].IsDir || entries[2].Extension != "" {
		t.Errorf("directory entry = %+v", entries[2])
	}
}

func TestListMissingDirectory(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "nope"))

	var scanErr *ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("expected ScanError, got %v", err)
	}
	if scanErr.Type != DirectoryNotFound {
		t.Errorf("type = %s, want DIRECTORY_NOT_FOUND", scanErr.Type)
	}
}

func TestListNotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.mp3")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := List(file)
	var scanErr *ScanError
	if !errors.As(err, &scanErr) || scanErr.Type != DirectoryNotFound {
		t.Errorf("expected DIRECTORY_NOT_FOUND for non-directory, got %v", err)
	}
}

func TestListSymlinkPolicies(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.mp3")
	if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link.mp3")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	skipped, err := ListWithOptions(dir, ListOptions{SymlinkPolicy: SymlinkPolicySkip})
	if err != nil {
		t.Fatalf("skip policy: %v", err)
	}
	if len(skipped) != 1 {
		t.Errorf("skip policy: expected 1 entry, got %d", len(skipped))
	}

	followed, err := ListWithOptions(dir, ListOptions{SymlinkPolicy: SymlinkPolicyFollow})
	if err != nil {
		t.Fatalf("follow policy: %v", err)
	}
	if len(followed) != 2 {
		t.Errorf("follow policy: expected 2 entries, got %d", len(followed))
	}

	if _, err := ListWithOptions(dir, ListOptions{SymlinkPolicy: SymlinkPolicyError}); err == nil {
		t.Error("error policy: expected failure")
	}
}
