package ui

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Decision
	}{
		{"yes", "y\n", Confirmed},
		{"yes uppercase", "Y\n", Confirmed},
		{"yes word", "yes\n", Confirmed},
		{"no", "n\n", Rejected},
		{"no word", "No\n", Rejected},
		{"empty input defaults to no", "\n", Rejected},
		{"eof defaults to no", "", Rejected},
		{"garbage then yes", "maybe\nok\ny\n", Confirmed},
		{"garbage then empty", "maybe\n\n", Rejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got := Confirm(strings.NewReader(tc.input), &out, "Delete everything?")
			if got != tc.want {
				t.Errorf("Confirm(%q) = %v, want %v", tc.input, got, tc.want)
			}
			if !strings.Contains(out.String(), "[y/N]") {
				t.Error("prompt should show the y/N default marker")
			}
		})
	}
}

func TestConfirmSharedReader(t *testing.T) {
	// Two questions on one stream must each get their own answer; a
	// shared buffered reader keeps read-ahead from eating the second.
	in := bufio.NewReader(strings.NewReader("y\nn\n"))
	var out bytes.Buffer

	if got := Confirm(in, &out, "First?"); got != Confirmed {
		t.Errorf("first answer = %v, want Confirmed", got)
	}
	if got := Confirm(in, &out, "Second?"); got != Rejected {
		t.Errorf("second answer = %v, want Rejected", got)
	}
}

func TestConfirmReasksOnGarbage(t *testing.T) {
	var out bytes.Buffer
	Confirm(strings.NewReader("what\nhuh\nn\n"), &out, "Sure?")
	if got := strings.Count(out.String(), "[y/N]"); got != 3 {
		t.Errorf("prompt shown %d times, want 3", got)
	}
}
