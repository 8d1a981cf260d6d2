package core

import "strings"

// DefaultTagPrefix is the marker placed before a raw version to form its
// canonical display form and default tag name.
const DefaultTagPrefix = "v"

// Version is a declared package version or the unset marker.
//
// The zero value is unset. Only the initial state of a history walk may hold
// an unset Version; displaying or tagging one is a programming error and panics.
type Version struct {
	raw      string
	declared bool
}

// Unset returns the version marker used before any commit has been examined.
func Unset() Version {
	return Version{}
}

// Declared returns a version holding the raw text read from a manifest.
func Declared(raw string) Version {
	return Version{raw: raw, declared: true}
}

// IsUnset reports whether no version has been observed yet.
func (v Version) IsUnset() bool {
	return !v.declared
}

// Equal reports whether v and other hold the same declared text.
// Two unset versions are equal.
func (v Version) Equal(other Version) bool {
	return v.declared == other.declared && v.raw == other.raw
}

// Raw returns the version text exactly as it appeared in the manifest.
func (v Version) Raw() string {
	v.mustBeDeclared()
	return v.raw
}

// String returns the canonical display form, e.g. "v1.2.3".
func (v Version) String() string {
	return v.TagName(DefaultTagPrefix)
}

// TagName returns the tag name for v under the given prefix.
func (v Version) TagName(prefix string) string {
	v.mustBeDeclared()
	var sb strings.Builder
	sb.Grow(len(prefix) + len(v.raw))
	sb.WriteString(prefix)
	sb.WriteString(v.raw)
	return sb.String()
}

func (v Version) mustBeDeclared() {
	if !v.declared {
		panic("core: unset version has no display form")
	}
}
