package errlog

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNoFileWithoutFailures(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, time.Now())
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := os.Stat(l.Path()); !os.IsNotExist(err) {
		t.Errorf("log file should not exist, stat err = %v", err)
	}
}

func TestRecordCreatesAndAppends(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC)
	l := New(dir, start)

	if !strings.HasSuffix(l.Path(), "pisiclean_errors_20240309_143005.log") {
		t.Fatalf("unexpected log path %q", l.Path())
	}

	if err := l.Record("bad-file.pisi", "", errors.New("too few fields")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := l.Record("x-1..2-1-p2-i686.pisi", "1..2", errors.New("empty component")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if l.Count() != 2 {
		t.Errorf("Count = %d, want 2", l.Count())
	}

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, l.RunID()) {
		t.Error("log header missing run ID")
	}
	if !strings.Contains(content, "bad-file.pisi") {
		t.Error("log missing first failure")
	}
	if !strings.Contains(content, `"1..2"`) {
		t.Error("log missing raw version of second failure")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	l := New(t.TempDir(), time.Now())
	if err := l.Record("bad-file.pisi", "", errors.New("x")); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
