// Package version implements the loose version ordering used to rank
// package archives. It accepts anything the repository actually contains
// (arbitrary segment counts, letter suffixes like 70.0b3) rather than
// strict semver, and defines a deterministic total order over all of it.
package version

import (
	"fmt"
	"strings"
)

// tokenKind distinguishes numeric runs from alphabetic runs.
type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenWord
)

// token is one comparable unit of a version string. Numbers keep their
// digit string (compared zero-trimmed, so length never overflows anything),
// words are stored case-folded.
type token struct {
	kind   tokenKind
	digits string
	word   string
}

// Version is a parsed, orderable version string.
type Version struct {
	raw    string
	tokens []token
}

// Parse tokenizes a dot-separated version string into alternating numeric
// and alphabetic runs. "70.0b3" becomes [70 0 b 3]. An empty string, an
// empty dot-field, or any character outside [0-9A-Za-z] is an error.
func Parse(raw string) (Version, error) {
	if raw == "" {
		return Version{}, fmt.Errorf("empty version string")
	}

	v := Version{raw: raw}
	for _, field := range strings.Split(raw, ".") {
		if field == "" {
			return Version{}, fmt.Errorf("empty component in version %q", raw)
		}
		toks, err := tokenizeField(field)
		if err != nil {
			return Version{}, fmt.Errorf("version %q: %w", raw, err)
		}
		v.tokens = append(v.tokens, toks...)
	}
	return v, nil
}

// MustParse is Parse for test fixtures and constants; it panics on error.
func MustParse(raw string) Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// tokenizeField splits one dot-field into digit and letter runs.
func tokenizeField(field string) ([]token, error) {
	var toks []token
	start := 0
	numeric := isDigit(field[0])

	flush := func(end int) {
		run := field[start:end]
		if numeric {
			toks = append(toks, token{kind: tokenNumber, digits: run})
		} else {
			toks = append(toks, token{kind: tokenWord, word: strings.ToLower(run)})
		}
	}

	for i := 0; i < len(field); i++ {
		c := field[i]
		switch {
		case isDigit(c):
			if !numeric {
				flush(i)
				start, numeric = i, true
			}
		case isLetter(c):
			if numeric {
				flush(i)
				start, numeric = i, false
			}
		default:
			return nil, fmt.Errorf("invalid character %q in component %q", c, field)
		}
	}
	flush(len(field))
	return toks, nil
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

// String returns the raw string the version was parsed from.
func (v Version) String() string { return v.raw }

// Compare returns -1, 0 or 1 as v is older than, equal to, or newer than o.
//
// Token pairs compare numeric-vs-numeric by value, word-vs-word lexically,
// and a word always sorts before a number (pre-release before release).
// When one version runs out of tokens, the remainder of the other decides:
// leading zero numbers are padding (1.0 == 1.0.0), a word makes the longer
// version older (1.0b1 < 1.0), a nonzero number makes it newer.
func (v Version) Compare(o Version) int {
	a, b := v.tokens, o.tokens
	for i := 0; ; i++ {
		switch {
		case i >= len(a) && i >= len(b):
			return 0
		case i >= len(a):
			return -tailOrder(b[i:])
		case i >= len(b):
			return tailOrder(a[i:])
		}
		if c := compareToken(a[i], b[i]); c != 0 {
			return c
		}
	}
}

// Less reports whether v orders strictly before o.
func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

func compareToken(a, b token) int {
	if a.kind != b.kind {
		if a.kind == tokenWord {
			return -1
		}
		return 1
	}
	if a.kind == tokenWord {
		return strings.Compare(a.word, b.word)
	}
	return compareDigits(a.digits, b.digits)
}

// compareDigits compares two digit runs numerically without converting
// them to integers.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// tailOrder decides how a version with extra tokens compares against its
// own prefix: zero numbers are skipped, the first word means older, the
// first nonzero number means newer.
func tailOrder(rest []token) int {
	for _, t := range rest {
		if t.kind == tokenWord {
			return -1
		}
		if strings.TrimLeft(t.digits, "0") != "" {
			return 1
		}
	}
	return 0
}
