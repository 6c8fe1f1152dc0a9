// Package names canonicalizes free-text speaker and official names taken from
// AI-extracted meeting minutes so that two spellings of the same person can be
// compared. Every comparison of two names elsewhere in the module goes through
// this package, so the matching policy can be tightened in one place.
package names

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize trims surrounding whitespace and lowercases the name. The result
// is the equality key for a name; an empty or blank name normalizes to "".
func Normalize(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	// Casers carry state, so each call gets its own.
	return cases.Lower(language.Und).String(trimmed)
}

// Equivalent reports whether a and b normalize to the same non-empty key.
func Equivalent(a, b string) bool {
	na := Normalize(a)
	if na == "" {
		return false
	}
	return na == Normalize(b)
}

// LastToken returns the final whitespace-delimited token of name, normalized.
func LastToken(name string) string {
	fields := strings.Fields(Normalize(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// IsSameOfficial reports whether speaker refers to one of officials. Besides
// plain equivalence, a speaker whose surname (last token) equals an official's
// surname matches, so "Trustee Price-Bush", "Price-Bush" and
// "Mary Price-Bush" all resolve to the same official.
//
// Two different officials sharing a surname are indistinguishable under this
// rule.
func IsSameOfficial(speaker string, officials []string) bool {
	key := Normalize(speaker)
	if key == "" {
		return false
	}
	surname := LastToken(speaker)
	for _, official := range officials {
		if Normalize(official) == key {
			return true
		}
		if surname != "" && LastToken(official) == surname {
			return true
		}
	}
	return false
}
