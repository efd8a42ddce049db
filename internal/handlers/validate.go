package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for profile and link fields.
const (
	maxDisplayNameLen = 50
	maxBioLen         = 300
	maxLinkTitleLen   = 80
	maxLinkURLLen     = 500
	minPasswordLen    = 8
	maxEmailLen       = 254
)

// validateProfile checks profile form inputs and returns the first error found.
func validateProfile(displayName, bio string) string {
	if strings.TrimSpace(displayName) == "" {
		return "Display name is required."
	}
	if utf8.RuneCountInString(displayName) > maxDisplayNameLen {
		return "Display name is too long (max 50 characters)."
	}
	if utf8.RuneCountInString(bio) > maxBioLen {
		return "Bio is too long (max 300 characters)."
	}
	return ""
}

// validateLink checks link form inputs and returns the first error found.
func validateLink(title, url string) string {
	if strings.TrimSpace(title) == "" {
		return "Link title is required."
	}
	if utf8.RuneCountInString(title) > maxLinkTitleLen {
		return "Link title is too long (max 80 characters)."
	}
	if strings.TrimSpace(url) == "" {
		return "Link URL is required."
	}
	if utf8.RuneCountInString(url) > maxLinkURLLen {
		return "Link URL is too long (max 500 characters)."
	}
	return ""
}

// validateCredentials checks sign-up form inputs and returns the first error found.
func validateCredentials(email, password string) string {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "A valid email address is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email address is too long."
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	return ""
}
