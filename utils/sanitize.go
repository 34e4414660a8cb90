package utils

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// Notification titles and messages are staff-typed plain text rendered in
// the web UI; strip all markup rather than allowing a UGC subset.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips markup from text content. The policy entity-escapes what
// survives, but the stored value is plain text (clients and the push payload
// render it as text, never as HTML), so the escaping is undone: "14:00 &
// 15:00" must round-trip unchanged.
func Sanitize(input string) string {
	return html.UnescapeString(sanitizer.Sanitize(input))
}
