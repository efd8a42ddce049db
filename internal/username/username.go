// Package username derives and validates the public handle that routes
// to a profile page.
package username

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minLen = 3
	maxLen = 30
)

// validHandle matches a complete, well-formed handle.
var validHandle = regexp.MustCompile(`^[a-z0-9_-]+$`)

// invalidRunes matches everything a derived handle must drop.
var invalidRunes = regexp.MustCompile(`[^a-z0-9_-]`)

// reserved lists handles that collide with the route surface and can
// never be assigned to a profile.
var reserved = map[string]bool{
	"sign-in":   true,
	"sign-up":   true,
	"sign-out":  true,
	"dashboard": true,
	"auth":      true,
	"2fa":       true,
	"healthz":   true,
	"static":    true,
	"admin":     true,
}

// Derive builds a handle candidate from an email address: the
// local-part, lowercased, with dots folded away and anything outside
// [a-z0-9_-] stripped. The result may still collide with an existing
// handle; callers disambiguate with a numeric suffix.
func Derive(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}
	local = strings.ToLower(strings.TrimSpace(local))
	local = strings.ReplaceAll(local, ".", "")
	local = invalidRunes.ReplaceAllString(local, "")
	if len(local) > maxLen {
		local = local[:maxLen]
	}
	if len(local) < minLen || reserved[local] {
		return "user"
	}
	return local
}

// WithSuffix appends a numeric disambiguation suffix, trimming the base
// so the result stays within the length limit.
func WithSuffix(base string, n int) string {
	suffix := fmt.Sprintf("%d", n)
	if len(base)+len(suffix) > maxLen {
		base = base[:maxLen-len(suffix)]
	}
	return base + suffix
}

// Validate checks a handle a user picked themselves. Returns a
// user-facing message for the first problem found, or "".
func Validate(handle string) string {
	if len(handle) < minLen {
		return fmt.Sprintf("Username must be at least %d characters.", minLen)
	}
	if len(handle) > maxLen {
		return fmt.Sprintf("Username must be at most %d characters.", maxLen)
	}
	if !validHandle.MatchString(handle) {
		return "Username may only contain lowercase letters, digits, hyphens, and underscores."
	}
	if reserved[handle] {
		return "That username is reserved."
	}
	return ""
}
