// Package markdown converts bio text into HTML using goldmark. Bios are
// user-authored and rendered on public pages, so raw HTML is NOT passed
// through; only generated markup reaches the browser.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.Linkify,       // bare URLs in bios become links
		extension.Strikethrough, // ~~text~~
	),
)

// ToHTML converts a bio's Markdown source into HTML. Raw HTML embedded
// in the source is escaped, never emitted as-is.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
