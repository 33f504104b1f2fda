package version

import "testing"

func TestParseRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		".",
		"1..2",
		"1.2.",
		".1.2",
		"1.2~rc1",
		"1 .2",
	}
	for _, raw := range cases {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q) should have failed", raw)
		}
	}
}

func TestParseAcceptsLooseInput(t *testing.T) {
	cases := []string{
		"1",
		"70.0",
		"1.1.10.546.15",
		"70.0b3",
		"2019e",
		"0.9.8zh",
	}
	for _, raw := range cases {
		v, err := Parse(raw)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", raw, err)
			continue
		}
		if v.String() != raw {
			t.Errorf("Parse(%q).String() = %q", raw, v.String())
		}
	}
}

func TestCompareNumericNotLexical(t *testing.T) {
	// 1.10 must beat 1.9 even though "10" < "9" as strings.
	order := []string{"1.2.0", "1.9.0", "1.10.0"}
	for i := 0; i < len(order)-1; i++ {
		a, b := MustParse(order[i]), MustParse(order[i+1])
		if a.Compare(b) >= 0 {
			t.Errorf("expected %s < %s", order[i], order[i+1])
		}
		if b.Compare(a) <= 0 {
			t.Errorf("expected %s > %s", order[i+1], order[i])
		}
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "1.0.0", 0},
		{"1.0.0.0", "1.0", 0},
		{"9", "10", -1},
		{"1.0", "1.0.1", -1},
		{"1.1.10.546.15", "1.1.10.546.2", 1},
		{"2.0", "10.0", -1},
		// Pre-release style suffixes sort before the release.
		{"1.0b1", "1.0", -1},
		{"1.0.b1", "1.0", -1},
		{"70.0b3", "70.0", -1},
		{"70.0b3", "70.0b12", -1},
		{"1.0a1", "1.0b1", -1},
		// A word always loses to a number in the same position.
		{"1.b", "1.0", -1},
		{"2019d", "2019e", -1},
		{"2019e", "2019", -1},
		// Leading zeros are not significant.
		{"1.02", "1.2", 0},
		{"1.010", "1.9", 1},
	}
	for _, tc := range cases {
		a, b := MustParse(tc.a), MustParse(tc.b)
		if got := a.Compare(b); got != tc.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		if got := b.Compare(a); got != -tc.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", tc.b, tc.a, got, -tc.want)
		}
	}
}

func TestCompareHugeComponents(t *testing.T) {
	a := MustParse("1.99999999999999999999999999999998")
	b := MustParse("1.99999999999999999999999999999999")
	if a.Compare(b) != -1 {
		t.Error("huge numeric components should still compare by value")
	}
}

func TestLess(t *testing.T) {
	if !MustParse("1.2").Less(MustParse("1.10")) {
		t.Error("1.2 should be less than 1.10")
	}
	if MustParse("1.10").Less(MustParse("1.2")) {
		t.Error("1.10 should not be less than 1.2")
	}
}
