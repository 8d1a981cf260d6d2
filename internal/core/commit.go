package core

import "strings"

// shortLen is the abbreviated hash length used in verbose output.
const shortLen = 7

// Commit is an opaque commit identifier as printed by the history backend.
type Commit string

// String returns the full identifier.
func (c Commit) String() string {
	return string(c)
}

// IsZero reports whether c is the empty sentinel reference.
func (c Commit) IsZero() bool {
	return c == ""
}

// Short returns the abbreviated identifier.
func (c Commit) Short() string {
	if len(c) <= shortLen {
		return string(c)
	}
	return string(c[:shortLen])
}

// Matches compares c against raw identifier text such as backend output.
func (c Commit) Matches(raw string) bool {
	return !c.IsZero() && string(c) == strings.TrimSpace(raw)
}
