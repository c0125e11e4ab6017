package artpdf

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultExtension is the extension of rendered PDF documents.
const DefaultExtension = ".pdf"

// whitespaceRun matches the same characters as JavaScript's \s so titles
// copied from a browser normalize the way they look on the page.
var whitespaceRun = regexp.MustCompile(`[\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]+`)

// pathUnsafe maps characters that would split or truncate a directory entry.
var pathUnsafe = strings.NewReplacer("/", "-", `\`, "-", "\x00", "-")

// MaxNameBytes is the longest directory entry most filesystems accept.
const MaxNameBytes = 255

// NormalizeFilename derives a document name from an article title.
//
// Every run of whitespace becomes a single hyphen, the result is lowercased
// and ext is appended. Edge whitespace is not trimmed here, so
// "  My   Great Article  " becomes "-my-great-article-.pdf"; extractors
// hand over titles already stripped the way a browser's document.title is.
//
// The part before ext is cut at a rune boundary so the whole name fits in
// MaxNameBytes.
//
// Distinct titles may normalize to the same name; callers that need
// distinct files use UniqueName in the pipeline package.
func NormalizeFilename(title, ext string) string {
	name := whitespaceRun.ReplaceAllString(title, "-")
	name = pathUnsafe.Replace(name)
	name = strings.ToLower(name)
	return truncate(name, MaxNameBytes-len(ext)) + ext
}

// truncate returns the longest prefix of s that is at most n bytes and ends
// on a rune boundary.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
