// Package textnorm canonicalizes free text for matching.
package textnorm

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases s, strips combining marks and trims surrounding
// whitespace. It is idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.TrimSpace(strings.ToLower(s))
	}
	return strings.TrimSpace(result)
}

// Fold is the case-insensitive comparison key: trimmed and lower-cased with
// Unicode rules, accents kept.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeAny coerces v to its string form first. nil yields "".
func NormalizeAny(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return Normalize(x)
	case fmt.Stringer:
		return Normalize(x.String())
	default:
		return Normalize(fmt.Sprint(x))
	}
}

// ContainsAny reports whether any needle is a substring of text. Empty needles
// never match.
func ContainsAny(text string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// SplitWords splits a comma-separated list, normalizing each entry and
// dropping empties.
func SplitWords(csv string) []string {
	var out []string
	for _, w := range strings.Split(csv, ",") {
		if w = Normalize(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
