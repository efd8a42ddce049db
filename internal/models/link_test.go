package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"mysite.com", "https://mysite.com"},
		{"instagram.com/alice", "https://instagram.com/alice"},
		{"https://example.com", "https://example.com"},
		{"http://example.com", "http://example.com"},
		{"HTTPS://Example.com", "HTTPS://Example.com"},
		{"HTTP://example.com/path", "HTTP://example.com/path"},
		{"ftp.example.com", "https://ftp.example.com"},
	}

	for _, c := range cases {
		if got := NormalizeURL(c.in); got != c.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewLink(t *testing.T) {
	l, err := NewLink("Portfolio", "mysite.com", "globe")
	if err != nil {
		t.Fatalf("NewLink: %v", err)
	}
	if l.ID == uuid.Nil {
		t.Error("expected a generated id")
	}
	if l.URL != "https://mysite.com" {
		t.Errorf("url = %q, want %q", l.URL, "https://mysite.com")
	}
	if l.Icon != IconGlobe {
		t.Errorf("icon = %q, want %q", l.Icon, IconGlobe)
	}
	if !l.Enabled {
		t.Error("new links must default to enabled")
	}
}

func TestNewLinkRequiredFields(t *testing.T) {
	if _, err := NewLink("", "mysite.com", "link"); err == nil {
		t.Error("expected error for empty title")
	}
	if _, err := NewLink("Title", "   ", "link"); err == nil {
		t.Error("expected error for blank url")
	}
}

func TestLinkApplyPreservesIdentity(t *testing.T) {
	orig, err := NewLink("Old", "old.com", "twitter")
	if err != nil {
		t.Fatalf("NewLink: %v", err)
	}
	orig.Enabled = false

	updated, err := orig.Apply("New", "new.com", "github")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if updated.ID != orig.ID {
		t.Error("Apply must preserve the link id")
	}
	if updated.Enabled != orig.Enabled {
		t.Error("Apply must preserve the enabled flag")
	}
	if updated.Title != "New" || updated.URL != "https://new.com" || updated.Icon != IconGitHub {
		t.Errorf("unexpected updated link: %+v", updated)
	}
}

func TestParseIcon(t *testing.T) {
	if got := ParseIcon("Instagram"); got != IconInstagram {
		t.Errorf("ParseIcon(Instagram) = %q", got)
	}
	if got := ParseIcon("  YOUTUBE "); got != IconYouTube {
		t.Errorf("ParseIcon(YOUTUBE) = %q", got)
	}
	// Unknown keys fall back to the generic link glyph.
	if got := ParseIcon("myspace"); got != IconLink {
		t.Errorf("ParseIcon(myspace) = %q, want %q", got, IconLink)
	}
	if got := ParseIcon(""); got != IconLink {
		t.Errorf("ParseIcon(empty) = %q, want %q", got, IconLink)
	}
}

func TestIconLabel(t *testing.T) {
	if IconMail.Label() != "Email" {
		t.Errorf("IconMail label = %q", IconMail.Label())
	}
	if IconKey("bogus").Label() != "Link" {
		t.Errorf("unknown label = %q", IconKey("bogus").Label())
	}
}
