// Package archive parses PISI archive filenames into their package
// identity and version fields, and rebuilds the exact filename back from
// those fields when an archive has to be located for deletion.
package archive

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/erkanisik1/Pisilinux-tools/internal/version"
)

// DefaultExtension is the archive suffix recognized by default.
const DefaultExtension = ".pisi"

// Entry is one parsed archive. Build and Arch are kept per entry, not per
// package: different versions of a package may have been built with
// different tool versions or for different architectures, and the filename
// must be reconstructed from the fields of this specific archive.
type Entry struct {
	Name      string   // package name, may itself contain dashes
	Dir       string   // directory the archive was found in
	Version   []string // upstream version, split on dots
	Release   string   // package release number
	Build     string   // pisi tool version, e.g. "p2"
	Arch      string   // e.g. "x86_64"
	Size      int64
	Extension string

	// Comparable orders this entry against other entries of the same
	// package. It covers the upstream version plus the release.
	Comparable version.Version
}

// MalformedNameError reports an archive filename that could not be parsed.
// Callers are expected to log it and skip the file, never to abort a scan.
type MalformedNameError struct {
	Filename   string
	RawVersion string
	Err        error
}

func (e *MalformedNameError) Error() string {
	if e.RawVersion != "" {
		return fmt.Sprintf("malformed archive name %q: version %q: %v", e.Filename, e.RawVersion, e.Err)
	}
	return fmt.Sprintf("malformed archive name %q: %v", e.Filename, e.Err)
}

func (e *MalformedNameError) Unwrap() error { return e.Err }

// Parse decodes an archive filename of the form
//
//	<name>-<version>-<release>-<build>-<arch><ext>
//
// anchored on the last four dashes, so the package name absorbs any
// interior dashes. dir is recorded for later path reconstruction.
func Parse(dir, filename, ext string) (Entry, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasSuffix(filename, ext) {
		return Entry{}, &MalformedNameError{Filename: filename, Err: fmt.Errorf("missing %s extension", ext)}
	}
	base := strings.TrimSuffix(filename, ext)

	parts := strings.Split(base, "-")
	if len(parts) < 5 {
		return Entry{}, &MalformedNameError{Filename: filename, Err: fmt.Errorf("want name-version-release-build-arch, got %d dash fields", len(parts))}
	}

	n := len(parts)
	e := Entry{
		Name:      strings.Join(parts[:n-4], "-"),
		Dir:       dir,
		Release:   parts[n-3],
		Build:     parts[n-2],
		Arch:      parts[n-1],
		Extension: ext,
	}
	rawVersion := parts[n-4]
	e.Version = strings.Split(rawVersion, ".")

	for _, field := range []string{e.Name, rawVersion, e.Release, e.Build, e.Arch} {
		if field == "" {
			return Entry{}, &MalformedNameError{Filename: filename, RawVersion: rawVersion, Err: fmt.Errorf("empty field")}
		}
	}

	// The release participates in ordering as the final component.
	cmp, err := version.Parse(strings.Join(append(append([]string{}, e.Version...), e.Release), "."))
	if err != nil {
		return Entry{}, &MalformedNameError{Filename: filename, RawVersion: rawVersion, Err: err}
	}
	e.Comparable = cmp

	return e, nil
}

// VersionComponents returns the ordered version components including the
// trailing release.
func (e Entry) VersionComponents() []string {
	return append(append([]string{}, e.Version...), e.Release)
}

// Filename rebuilds the archive basename. For any entry produced by Parse
// this is byte-for-byte the original input.
func (e Entry) Filename() string {
	return fmt.Sprintf("%s-%s-%s-%s-%s%s",
		e.Name, strings.Join(e.Version, "."), e.Release, e.Build, e.Arch, e.Extension)
}

// Path rebuilds the full path of the archive.
func (e Entry) Path() string {
	return filepath.Join(e.Dir, e.Filename())
}

// Compare orders two entries of the same package, newest last.
func (e Entry) Compare(o Entry) int {
	return e.Comparable.Compare(o.Comparable)
}
