package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkFindsArchivesRecursively(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "f", "firefox", "firefox-70.0-1-p2-x86_64.pisi"), 10)
	writeFile(t, filepath.Join(root, "s", "spotify", "spotify-1.1.10.546-15-p2-x86_64.pisi"), 20)
	writeFile(t, filepath.Join(root, "README.txt"), 5)

	result, err := NewFSWalker(".pisi", nil).Walk(root)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	if result.TotalCount != 2 {
		t.Fatalf("TotalCount = %d, want 2", result.TotalCount)
	}
	if result.TotalSize != 30 {
		t.Errorf("TotalSize = %d, want 30", result.TotalSize)
	}
	for _, f := range result.Files {
		if filepath.Ext(f.Name) != ".pisi" {
			t.Errorf("unexpected file %q", f.Name)
		}
		if f.Dir == "" || f.Name == "" {
			t.Errorf("incomplete FileRef: %+v", f)
		}
		if _, err := os.Stat(f.Path()); err != nil {
			t.Errorf("Path() does not resolve: %v", err)
		}
	}
}

func TestWalkEmptyRepository(t *testing.T) {
	result, err := NewFSWalker(".pisi", nil).Walk(t.TempDir())
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	if result.TotalCount != 0 || len(result.Files) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestWalkExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "firefox-70.0-1-p2-x86_64.pisi"), 1)
	writeFile(t, filepath.Join(root, "broken-70.0-1-p2-x86_64.pisi"), 1)

	result, err := NewFSWalker(".pisi", []string{"broken-*"}).Walk(root)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	if result.TotalCount != 1 {
		t.Fatalf("TotalCount = %d, want 1", result.TotalCount)
	}
	if result.Files[0].Name != "firefox-70.0-1-p2-x86_64.pisi" {
		t.Errorf("kept wrong file: %q", result.Files[0].Name)
	}
}

func TestCheckRoot(t *testing.T) {
	root := t.TempDir()

	if err := CheckRoot(root); err != nil {
		t.Errorf("CheckRoot on a directory failed: %v", err)
	}

	err := CheckRoot(filepath.Join(root, "missing"))
	var rootErr *RootError
	if !errors.As(err, &rootErr) || !rootErr.NotFound {
		t.Errorf("missing root: got %v, want RootError{NotFound: true}", err)
	}

	file := filepath.Join(root, "plain.txt")
	writeFile(t, file, 1)
	err = CheckRoot(file)
	if !errors.As(err, &rootErr) || rootErr.NotFound {
		t.Errorf("file root: got %v, want RootError{NotFound: false}", err)
	}
}
