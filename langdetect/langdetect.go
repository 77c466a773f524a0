// Package langdetect guesses the language of a claim so the right stance
// lexicon and search templates are used downstream.
package langdetect

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Supported language codes.
const (
	English = "en"
	Nepali  = "ne"
	Hindi   = "hi"
)

// devanagariThreshold is the minimum share of Devanagari letters for a
// text to be classified as Nepali.
const devanagariThreshold = 0.3

// Detect returns "ne" when more than 30% of the letters are Devanagari,
// "en" otherwise. Empty or whitespace-only input defaults to "en".
// Hindi is never auto-detected (Nepali and Hindi share the script);
// callers pass "hi" explicitly when they know better.
func Detect(text string) string {
	text = norm.NFC.String(strings.TrimSpace(text))
	if text == "" {
		return English
	}

	var total, devanagari int
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		total++
		if r >= 0x0900 && r <= 0x097F {
			devanagari++
		}
	}
	if total == 0 {
		return English
	}
	if float64(devanagari)/float64(total) > devanagariThreshold {
		return Nepali
	}
	return English
}

// Normalize maps arbitrary language input to a supported code,
// defaulting to "en".
func Normalize(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case Nepali, "nep", "nepali":
		return Nepali
	case Hindi, "hin", "hindi":
		return Hindi
	default:
		return English
	}
}

// IsDevanagari reports whether any rune of s is in the Devanagari block.
func IsDevanagari(s string) bool {
	for _, r := range s {
		if r >= 0x0900 && r <= 0x097F {
			return true
		}
	}
	return false
}
