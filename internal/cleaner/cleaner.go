// Package cleaner removes redundant archives from the repository. A
// failure on one file never aborts the rest of the discard list; there is
// no transactional guarantee to preserve, so each removal stands alone.
package cleaner

import (
	"os"
	"time"
)

// File is one archive slated for removal.
type File struct {
	Path string
	Size int64
}

// Result represents the outcome of a clean operation.
type Result struct {
	Deleted       []string
	DeletedSize   int64
	Skipped       []string
	SkippedReason map[string]string
	Errors        []*DeletionError
	DryRun        bool
}

// Cleaner deletes archive files with per-file error handling.
type Cleaner struct {
	dryRun      bool
	retryDelays []time.Duration
}

// New creates a Cleaner. With dryRun set, Clean only reports what it
// would delete.
func New(dryRun bool) *Cleaner {
	return &Cleaner{
		dryRun: dryRun,
		retryDelays: []time.Duration{
			100 * time.Millisecond,
			500 * time.Millisecond,
			2 * time.Second,
		},
	}
}

// Clean removes every file in the list. Failures are categorized and
// collected; the loop always runs to the end.
func (c *Cleaner) Clean(files []File) *Result {
	result := &Result{
		SkippedReason: make(map[string]string),
		DryRun:        c.dryRun,
	}

	if c.dryRun {
		for _, f := range files {
			result.Deleted = append(result.Deleted, f.Path)
			result.DeletedSize += f.Size
		}
		return result
	}

	for _, f := range files {
		if err := c.deleteWithRetry(f, result); err != nil {
			result.Errors = append(result.Errors, err)
			result.Skipped = append(result.Skipped, f.Path)
			result.SkippedReason[f.Path] = err.UserMessage()
		}
	}

	return result
}

// deleteWithRetry retries transient in-use failures with backoff.
func (c *Cleaner) deleteWithRetry(f File, result *Result) *DeletionError {
	var lastErr *DeletionError
	for attempt := 0; attempt <= len(c.retryDelays); attempt++ {
		lastErr = c.delete(f, result)
		if lastErr == nil || !lastErr.Retryable {
			return lastErr
		}
		if attempt < len(c.retryDelays) {
			time.Sleep(c.retryDelays[attempt])
		}
	}
	return lastErr
}

func (c *Cleaner) delete(f File, result *Result) *DeletionError {
	// Lstat so a path swapped for a symlink is never followed.
	info, err := os.Lstat(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			// Already gone, nothing to do.
			result.Skipped = append(result.Skipped, f.Path)
			result.SkippedReason[f.Path] = "already deleted"
			return nil
		}
		return CategorizeError(f.Path, err)
	}

	if info.Mode()&os.ModeSymlink != 0 || info.IsDir() {
		return &DeletionError{
			Path:     f.Path,
			Reason:   ErrorInvalidPath,
			Original: os.ErrInvalid,
		}
	}

	if err := os.Remove(f.Path); err != nil {
		return CategorizeError(f.Path, err)
	}

	result.Deleted = append(result.Deleted, f.Path)
	result.DeletedSize += f.Size
	return nil
}
