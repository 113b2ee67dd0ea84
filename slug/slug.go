// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package slug turns titles into URL slugs, folding French accents to ASCII
// ("Crème brûlée à Montmartre" -> "creme-brulee-a-montmartre").
package slug

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const MaxLength = 80

var ErrInvalid = errors.New("slug must be lowercase letters, digits and single hyphens")

// Ligatures that do not decompose under NFD
var ligatures = strings.NewReplacer("œ", "oe", "Œ", "oe", "æ", "ae", "Æ", "ae", "ß", "ss")

// Make builds a slug from free text. It can return "" when s has no letters
// or digits.
func Make(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), ligatures.Replace(s))
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	out := b.String()
	if len(out) > MaxLength {
		out = strings.TrimRight(out[:MaxLength], "-")
	}
	return out
}

// Valid reports whether s is already in slug form
func Valid(s string) bool {
	if s == "" || len(s) > MaxLength {
		return false
	}
	return Make(s) == s
}

// Resolve returns the explicit slug if given (checked), otherwise one made
// from the title
func Resolve(explicit, title string) (string, error) {
	if explicit != "" {
		if !Valid(explicit) {
			return "", ErrInvalid
		}
		return explicit, nil
	}
	s := Make(title)
	if s == "" {
		return "", ErrInvalid
	}
	return s, nil
}
