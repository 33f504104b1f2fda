package cleaner

import (
	"os"
	"path/filepath"
	"testing"
)

func makeFiles(t *testing.T, names ...string) []File {
	t.Helper()
	dir := t.TempDir()
	files := make([]File, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("archive"), 0644); err != nil {
			t.Fatal(err)
		}
		files = append(files, File{Path: path, Size: 7})
	}
	return files
}

func TestCleanDeletesAll(t *testing.T) {
	files := makeFiles(t,
		"firefox-70.0-1-p2-x86_64.pisi",
		"vim-8.2-1-p2-x86_64.pisi",
	)

	result := New(false).Clean(files)

	if len(result.Deleted) != 2 {
		t.Fatalf("Deleted = %v", result.Deleted)
	}
	if result.DeletedSize != 14 {
		t.Errorf("DeletedSize = %d, want 14", result.DeletedSize)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v", result.Errors)
	}
	for _, f := range files {
		if _, err := os.Stat(f.Path); !os.IsNotExist(err) {
			t.Errorf("%s still exists", f.Path)
		}
	}
}

func TestDryRunDeletesNothing(t *testing.T) {
	files := makeFiles(t, "firefox-70.0-1-p2-x86_64.pisi")

	result := New(true).Clean(files)

	if !result.DryRun {
		t.Error("result should be marked dry-run")
	}
	if len(result.Deleted) != 1 || result.DeletedSize != 7 {
		t.Errorf("dry-run should report the file: %+v", result)
	}
	if _, err := os.Stat(files[0].Path); err != nil {
		t.Errorf("dry-run removed the file: %v", err)
	}
}

func TestMissingFileIsNotAnError(t *testing.T) {
	files := makeFiles(t, "firefox-70.0-1-p2-x86_64.pisi")
	gone := File{Path: filepath.Join(t.TempDir(), "vanished.pisi"), Size: 3}

	result := New(false).Clean([]File{gone, files[0]})

	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Errors)
	}
	if len(result.Deleted) != 1 {
		t.Errorf("Deleted = %v, want the surviving file", result.Deleted)
	}
	if result.SkippedReason[gone.Path] != "already deleted" {
		t.Errorf("SkippedReason = %v", result.SkippedReason)
	}
}

func TestFailureDoesNotAbortRemaining(t *testing.T) {
	files := makeFiles(t, "a-1.0-1-p2-x86_64.pisi", "b-1.0-1-p2-x86_64.pisi")
	// A directory in the list must fail its own removal only.
	dir := File{Path: t.TempDir(), Size: 0}

	result := New(false).Clean([]File{files[0], dir, files[1]})

	if len(result.Deleted) != 2 {
		t.Errorf("Deleted = %v, want both regular files", result.Deleted)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", result.Errors)
	}
	if result.Errors[0].Reason != ErrorInvalidPath {
		t.Errorf("Reason = %v, want ErrorInvalidPath", result.Errors[0].Reason)
	}
}

func TestSymlinkIsRefused(t *testing.T) {
	files := makeFiles(t, "real-1.0-1-p2-x86_64.pisi")
	link := filepath.Join(t.TempDir(), "link.pisi")
	if err := os.Symlink(files[0].Path, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	result := New(false).Clean([]File{{Path: link, Size: 7}})

	if len(result.Errors) != 1 || result.Errors[0].Reason != ErrorInvalidPath {
		t.Errorf("symlink should be refused, got %+v", result)
	}
	if _, err := os.Stat(files[0].Path); err != nil {
		t.Errorf("symlink target was deleted: %v", err)
	}
}
