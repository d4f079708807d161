package schema

import (
	"sort"
	"strings"
	"unicode"
)

// isUsernameRune reports whether r may appear in a Lichess username.
func isUsernameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '_'
}

// NormalizeUsername trims whitespace, a leading "@" and surrounding punctuation,
// then lower-cases the result. Lichess usernames are case-insensitive.
func NormalizeUsername(name string) string {
	trimmed := strings.TrimSpace(name)
	trimmed = strings.TrimPrefix(trimmed, "@")
	trimmed = strings.TrimFunc(trimmed, func(r rune) bool {
		return !isUsernameRune(r)
	})
	return strings.ToLower(trimmed)
}

// ValidUsername reports whether name is a plausible Lichess username after normalization.
func ValidUsername(name string) bool {
	n := NormalizeUsername(name)
	if len(n) < 2 || len(n) > 30 {
		return false
	}
	for _, r := range n {
		if !isUsernameRune(r) {
			return false
		}
	}
	return true
}

// DedupeUsernames normalizes usernames and drops empties and duplicates, keeping first-seen order.
func DedupeUsernames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		n := NormalizeUsername(name)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// FormatUsernames joins usernames as "alice, bob".
func FormatUsernames(names []string) string {
	return strings.Join(names, ", ")
}

// UsernamesEqual compares two slices of usernames, considering them equal if they
// contain the same normalized names regardless of order
func UsernamesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	aSorted := make([]string, len(a))
	for i, n := range a {
		aSorted[i] = NormalizeUsername(n)
	}
	sort.Strings(aSorted)

	bSorted := make([]string, len(b))
	for i, n := range b {
		bSorted[i] = NormalizeUsername(n)
	}
	sort.Strings(bSorted)

	for i := range aSorted {
		if aSorted[i] != bSorted[i] {
			return false
		}
	}
	return true
}
