// Package placeholder handles named interpolation slots like {name}
// inside translatable strings.
//
// Machine translation services routinely reorder, inflect, or otherwise
// mangle anything that looks like a word, so placeholders must be hidden
// before transit. The primary encoding wraps each placeholder in an inert
// self-closing XML tag (<ph x="name"/>) which the service is told to
// ignore; a fallback token encoding (__PH_name__) exists for transports
// that reject tag markup. Decode accepts output produced by either path,
// including tags the transport re-escaped a second time.
package placeholder

import (
	"regexp"
	"sort"
	"strings"
)

var (
	nameRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

	tagRe = regexp.MustCompile(`<ph x="([A-Za-z0-9_]+)"\s*/>`)
	// Tag form after the transport XML-escaped it a second time.
	escapedTagRe = regexp.MustCompile(`&lt;ph x=&quot;([A-Za-z0-9_]+)&quot;\s*/&gt;`)
	tokenRe      = regexp.MustCompile(`__PH_([A-Za-z0-9_]+)__`)
)

// Collect returns the sorted, deduplicated placeholder names in text.
func Collect(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range nameRe.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var xmlUnescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

// Encode prepares text for transit through an XML-aware translator:
// the five XML metacharacters are escaped, then each {name} placeholder
// becomes an inert self-closing tag carrying the name.
func Encode(text string) string {
	escaped := xmlEscaper.Replace(text)
	return nameRe.ReplaceAllString(escaped, `<ph x="$1"/>`)
}

// EncodeFallback prepares text for transports that reject tag syntax.
// Placeholders become plain literal tokens; no XML escaping is applied.
func EncodeFallback(text string) string {
	return nameRe.ReplaceAllString(text, "__PH_${1}__")
}

// Decode reverses Encode and EncodeFallback. It restores placeholders
// from the tag form, the double-escaped tag form, and the token form,
// then unescapes the XML metacharacters.
func Decode(text string) string {
	text = tagRe.ReplaceAllString(text, "{$1}")
	text = escapedTagRe.ReplaceAllString(text, "{$1}")
	text = tokenRe.ReplaceAllString(text, "{$1}")
	return xmlUnescaper.Replace(text)
}

// Equal reports whether two strings carry the same placeholder set,
// ignoring order and repetition.
func Equal(a, b string) bool {
	an, bn := Collect(a), Collect(b)
	if len(an) != len(bn) {
		return false
	}
	for i := range an {
		if an[i] != bn[i] {
			return false
		}
	}
	return true
}
