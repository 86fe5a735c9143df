// internal/normalize/normalize.go
// Package normalize canonicalizes raw model output before comparison.
package normalize

import "strings"

// Options controls which canonicalization steps are applied.
type Options struct {
	// Trim removes leading and trailing whitespace.
	Trim bool
	// CaseSensitive preserves letter case; when false, text is lowercased.
	CaseSensitive bool
	// CollapseWhitespace folds runs of spaces, tabs, and newlines into a
	// single space.
	CollapseWhitespace bool
}

// DefaultOptions returns the canonicalization applied when a run does not
// override it: trimmed, case-folded, whitespace-collapsed.
func DefaultOptions() Options {
	return Options{
		Trim:               true,
		CaseSensitive:      false,
		CollapseWhitespace: true,
	}
}

// Normalize applies the configured steps in a fixed order: trim, case fold,
// whitespace collapse. It is total and idempotent: normalizing already
// normalized text returns it unchanged.
func Normalize(text string, opts Options) string {
	if opts.Trim {
		text = strings.TrimSpace(text)
	}
	if !opts.CaseSensitive {
		text = strings.ToLower(text)
	}
	if opts.CollapseWhitespace {
		text = strings.Join(strings.Fields(text), " ")
	}
	return text
}

// All normalizes every string in texts with the same options, returning a
// new slice.
func All(texts []string, opts Options) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = Normalize(t, opts)
	}
	return out
}
