// Package pagepath normalizes UI page paths to their canonical form.
//
// The source formats disagree on the hierarchy separator: args files
// nest page elements, OSL metadata separates with '.', JSON files with
// '/'. The canonical form joins segments with '|', which leaves '.'
// and '/' free to appear inside page names.
package pagepath

import "strings"

// Sep separates the segments of a canonical page path.
const Sep = "|"

// FromDot rewrites a dot-separated page path to canonical form.
func FromDot(path string) string {
	return strings.ReplaceAll(path, ".", Sep)
}

// FromSlash rewrites a slash-separated page path to canonical form.
func FromSlash(path string) string {
	return strings.ReplaceAll(path, "/", Sep)
}

// Join assembles segments into a canonical path, skipping empty ones.
func Join(segments ...string) string {
	var kept []string
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, Sep)
}
