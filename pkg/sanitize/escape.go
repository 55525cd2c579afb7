// Package sanitize renders untrusted index text HTML-safe.
//
// Plain fields go through Escape. Rich fields (descriptions and release
// notes) go through Sanitizer.Description, which rewrites package links,
// scrubs the markup against a safe-list and turns line breaks into <br />.
// Deep then escapes every remaining string of a composed record.
package sanitize

import (
	"regexp"
	"strings"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape replaces the five HTML special characters with named entities.
// No markup survives.
func Escape(s string) string {
	return escaper.Replace(s)
}

var lineBreak = regexp.MustCompile(`\r\n|\r|\n`)

// LineBreaksToHTML replaces every line break with "<br />", one for one
func LineBreaksToHTML(s string) string {
	return lineBreak.ReplaceAllLiteralString(s, "<br />")
}
