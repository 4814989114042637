package graph

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxLabelLength bounds the length, in runes, of every label.
const MaxLabelLength = 8164

// IsValidLabel reports whether s is usable as the label of a resource,
// predicate, class or list: non-blank, single-line and bounded.
func IsValidLabel(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	if strings.ContainsAny(s, "\n\r") {
		return false
	}
	return utf8.RuneCountInString(s) <= MaxLabelLength
}

// IsValidLiteralLabel reports whether s is usable as a literal label.
// Literal labels may be empty or span several lines.
func IsValidLiteralLabel(s string) bool {
	return utf8.RuneCountInString(s) <= MaxLabelLength
}

// NormalizeLabel returns the NFC form of s. Labels are compared in this
// form so that canonically equivalent text is treated as equal.
func NormalizeLabel(s string) string {
	return norm.NFC.String(s)
}

// SameLabel reports whether a and b are canonically equivalent.
func SameLabel(a, b string) bool {
	return NormalizeLabel(a) == NormalizeLabel(b)
}
