// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package desc

import (
	"errors"
	"fmt"
)

// Error is a fatal parse failure scoped to one description file.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "node description error: " + e.Reason
	}
	return fmt.Sprintf("node description error: %s: %s", e.Path, e.Reason)
}

// IgnoreError reports that a file is deliberately not a node
// description and must be skipped without noise.
type IgnoreError struct {
	Reason string
}

func (e *IgnoreError) Error() string {
	return "node description ignored: " + e.Reason
}

// IsIgnore reports whether err marks a deliberately skipped file.
func IsIgnore(err error) bool {
	var ignore *IgnoreError
	return errors.As(err, &ignore)
}
