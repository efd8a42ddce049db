package username

import (
	"strings"
	"testing"
)

func TestDerive(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"Alice@example.com", "alice"},
		{"alice.smith@example.com", "alicesmith"},
		{"bob+tag@example.com", "bobtag"},
		{"MIXED_case-99@example.com", "mixed_case-99"},
		{"no-at-sign", "no-at-sign"},
		{"a@example.com", "user"},          // too short after derivation
		{"dashboard@example.com", "user"},  // reserved
		{"!!!@example.com", "user"},        // nothing survives stripping
	}

	for _, c := range cases {
		if got := Derive(c.email); got != c.want {
			t.Errorf("Derive(%q) = %q, want %q", c.email, got, c.want)
		}
	}
}

func TestDeriveTruncates(t *testing.T) {
	long := strings.Repeat("a", 50) + "@example.com"
	got := Derive(long)
	if len(got) != maxLen {
		t.Errorf("len = %d, want %d", len(got), maxLen)
	}
}

func TestWithSuffix(t *testing.T) {
	if got := WithSuffix("alice", 2); got != "alice2" {
		t.Errorf("WithSuffix = %q", got)
	}

	base := strings.Repeat("b", maxLen)
	got := WithSuffix(base, 12)
	if len(got) != maxLen {
		t.Errorf("len = %d, want %d", len(got), maxLen)
	}
	if !strings.HasSuffix(got, "12") {
		t.Errorf("suffix missing: %q", got)
	}
}

func TestValidate(t *testing.T) {
	if msg := Validate("alice-99"); msg != "" {
		t.Errorf("valid handle rejected: %q", msg)
	}
	for _, bad := range []string{"ab", "Has Space", "UPPER", "sign-in", strings.Repeat("x", maxLen+1), "dot.ted"} {
		if msg := Validate(bad); msg == "" {
			t.Errorf("Validate(%q) accepted", bad)
		}
	}
}
