// Package scanner finds package archives under a repository tree.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileRef is one archive file found during scanning: the directory it
// lives in and its basename, kept separate so the parsed entry can
// reconstruct the full path later.
type FileRef struct {
	Dir  string
	Name string
	Size int64
}

// Path returns the full path of the file.
func (f FileRef) Path() string {
	return filepath.Join(f.Dir, f.Name)
}

// Result represents the outcome of a repository scan.
type Result struct {
	Files      []FileRef
	TotalSize  int64
	TotalCount int
	Errors     []error
}

// Walker yields the archive files under a repository root. The filesystem
// implementation below is the only production one; tests substitute fakes
// so parsing and ranking never touch a real directory tree.
type Walker interface {
	Walk(root string) (*Result, error)
}

// FSWalker scans a directory tree on the local filesystem for files with a
// fixed extension.
type FSWalker struct {
	Extension       string
	ExcludePatterns []string
}

// NewFSWalker returns an FSWalker for the given archive extension.
func NewFSWalker(ext string, exclude []string) *FSWalker {
	if ext == "" {
		ext = ".pisi"
	}
	return &FSWalker{Extension: ext, ExcludePatterns: exclude}
}

// Walk recursively collects matching files under root. Unreadable entries
// are recorded and skipped, not fatal; a missing or non-directory root is
// the caller's error to handle before calling Walk.
func (w *FSWalker) Walk(root string) (*Result, error) {
	result := &Result{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Permission denied or vanished entry - record and continue.
			result.Errors = append(result.Errors, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), w.Extension) {
			return nil
		}
		if w.excluded(path) {
			return nil
		}

		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}

		result.Files = append(result.Files, FileRef{
			Dir:  filepath.Dir(path),
			Name: d.Name(),
			Size: size,
		})
		result.TotalSize += size
		result.TotalCount++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	return result, nil
}

// excluded reports whether path matches any configured exclude pattern.
func (w *FSWalker) excluded(path string) bool {
	for _, pattern := range w.ExcludePatterns {
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}
	return false
}

// CheckRoot validates the repository root before any work begins.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return &RootError{Root: root, NotFound: true}
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &RootError{Root: root}
	}
	return nil
}

// RootError reports an unusable repository root.
type RootError struct {
	Root     string
	NotFound bool
}

func (e *RootError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("%s does not exist", e.Root)
	}
	return fmt.Sprintf("%s is not a directory", e.Root)
}
