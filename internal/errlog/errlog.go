// Package errlog records archives that failed filename parsing. The log
// file is named after the run's timestamp and is only created when the
// first failure actually happens, so clean runs leave no file behind.
package errlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Log is a lazily created per-run error log.
type Log struct {
	path  string
	runID string
	file  *os.File
	count int
}

// New prepares a log in dir named for the given run start time. Nothing
// touches the filesystem until the first Record call.
func New(dir string, start time.Time) *Log {
	if dir == "" {
		dir = "."
	}
	name := fmt.Sprintf("pisiclean_errors_%s.log", start.Format("20060102_150405"))
	return &Log{
		path:  filepath.Join(dir, name),
		runID: uuid.NewString(),
	}
}

// Path returns where the log is (or would be) written.
func (l *Log) Path() string { return l.path }

// RunID returns the identifier written to the log header, for correlating
// a log file with console output.
func (l *Log) RunID() string { return l.runID }

// Count returns how many failures were recorded.
func (l *Log) Count() int { return l.count }

// Record appends one skipped archive to the log, creating the file on the
// first call.
func (l *Log) Record(filename, rawVersion string, cause error) error {
	if l.file == nil {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("creating error log: %w", err)
		}
		l.file = f
		fmt.Fprintf(f, "# pisiclean run %s\n", l.runID)
	}
	l.count++
	_, err := fmt.Fprintf(l.file, "skipped %s: version %q: %v\n", filename, rawVersion, cause)
	return err
}

// Close closes the log file if one was created.
func (l *Log) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
