// Package sanitize strips lightweight markdown markers from generated text so
// it can be embedded in digests, notifications and email bodies. Application
// is purely textual: malformed or unpaired markers are left verbatim and no
// input ever produces an error.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	headingRe = regexp.MustCompile(`#{1,6}\s?`)
	boldRe    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	boldAltRe = regexp.MustCompile(`__(.*?)__`)
	italicRe  = regexp.MustCompile(`\*(.*?)\*`)
	italicAlt = regexp.MustCompile(`_(.*?)_`)
	codeRe    = regexp.MustCompile("`{1,3}(.*?)`{1,3}")
	linkRe    = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	bulletRe  = regexp.MustCompile(`\n\s*[-*+]\s+`)
)

// Clean removes heading, emphasis, code and link markers, converts bullet
// markers to a bullet character and trims surrounding whitespace. Newlines
// are preserved.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	out := headingRe.ReplaceAllString(text, "")
	out = boldRe.ReplaceAllString(out, "$1")
	out = boldAltRe.ReplaceAllString(out, "$1")
	out = italicRe.ReplaceAllString(out, "$1")
	out = italicAlt.ReplaceAllString(out, "$1")
	out = codeRe.ReplaceAllString(out, "$1")
	out = linkRe.ReplaceAllString(out, "$1")
	out = bulletRe.ReplaceAllString(out, "\n• ")
	return strings.TrimSpace(out)
}

// HTML cleans text and renders newlines as HTML break tokens: a blank line
// becomes a paragraph break, a single newline a line break.
func HTML(text string) string {
	out := Clean(text)
	out = strings.ReplaceAll(out, "\n\n", "<br/><br/>")
	out = strings.ReplaceAll(out, "\n", "<br/>")
	return out
}

var markerReplacer = strings.NewReplacer("#", "", "*", "", "`", "")

// StripMarkers is the crude single-pass strip used for push digests. Unlike
// Clean it discards emphasis characters wholesale without pairing.
func StripMarkers(text string) string {
	return markerReplacer.Replace(text)
}
