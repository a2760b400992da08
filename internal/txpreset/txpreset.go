// Package txpreset lists the texture conversion presets recognized on
// file parameters.
//
// A parameter whose options mapping carries one of these keys routes
// its value through texture preprocessing instead of being used as a
// plain file path.
package txpreset

import "sort"

var keys = map[string]struct{}{
	"texture":    {},
	"env":        {},
	"imageplane": {},
}

// IsKey reports whether name is a recognized preset key.
func IsKey(name string) bool {
	_, ok := keys[name]
	return ok
}

// Keys returns the recognized preset keys in sorted order.
func Keys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
