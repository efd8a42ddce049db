// Package models defines the data structures that map to database rows
// and provides the core types used throughout the application.
package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IconKey identifies a display glyph for a link. The set is closed:
// unknown inputs resolve to IconLink rather than being stored verbatim.
type IconKey string

const (
	IconInstagram IconKey = "instagram"
	IconFacebook  IconKey = "facebook"
	IconTwitter   IconKey = "twitter"
	IconLinkedIn  IconKey = "linkedin"
	IconYouTube   IconKey = "youtube"
	IconTikTok    IconKey = "tiktok"
	IconGitHub    IconKey = "github"
	IconMail      IconKey = "mail"
	IconLink      IconKey = "link"
	IconGlobe     IconKey = "globe"
)

// iconLabels maps each icon key to its human-readable label, in the
// order the editor's icon picker presents them.
var iconLabels = map[IconKey]string{
	IconInstagram: "Instagram",
	IconFacebook:  "Facebook",
	IconTwitter:   "Twitter",
	IconLinkedIn:  "LinkedIn",
	IconYouTube:   "YouTube",
	IconTikTok:    "TikTok",
	IconGitHub:    "GitHub",
	IconMail:      "Email",
	IconLink:      "Link",
	IconGlobe:     "Website",
}

// IconKeys lists all valid icon keys for the editor's picker.
var IconKeys = []IconKey{
	IconInstagram, IconFacebook, IconTwitter, IconLinkedIn, IconYouTube,
	IconTikTok, IconGitHub, IconMail, IconLink, IconGlobe,
}

// ParseIcon maps arbitrary input to a valid IconKey. Matching is
// case-insensitive; anything outside the closed set falls back to IconLink.
func ParseIcon(s string) IconKey {
	key := IconKey(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := iconLabels[key]; ok {
		return key
	}
	return IconLink
}

// Label returns the human-readable label for the icon key.
func (k IconKey) Label() string {
	if l, ok := iconLabels[k]; ok {
		return l
	}
	return iconLabels[IconLink]
}

// Link is a single outbound URL entry on a profile. Ordering within the
// owning account's collection is insertion order and display-significant.
type Link struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	URL     string    `json:"url"`
	Icon    IconKey   `json:"icon"`
	Enabled bool      `json:"enabled"`
}

// NewLink constructs a link with a fresh ID and Enabled=true. Title and
// URL are required; the URL is normalized to carry a scheme.
func NewLink(title, url, icon string) (Link, error) {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)
	if title == "" {
		return Link{}, fmt.Errorf("link title is required")
	}
	if url == "" {
		return Link{}, fmt.Errorf("link url is required")
	}
	return Link{
		ID:      uuid.New(),
		Title:   title,
		URL:     NormalizeURL(url),
		Icon:    ParseIcon(icon),
		Enabled: true,
	}, nil
}

// Apply returns a copy of the link with updated title, URL, and icon.
// The ID and Enabled flag are preserved.
func (l Link) Apply(title, url, icon string) (Link, error) {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)
	if title == "" {
		return Link{}, fmt.Errorf("link title is required")
	}
	if url == "" {
		return Link{}, fmt.Errorf("link url is required")
	}
	l.Title = title
	l.URL = NormalizeURL(url)
	l.Icon = ParseIcon(icon)
	return l, nil
}

// NormalizeURL prefixes values that lack an http:// or https:// scheme
// (case-insensitive) with https://. Values that already carry one are
// returned unchanged.
func NormalizeURL(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}
