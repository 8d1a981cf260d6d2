package manifest

import (
	"path/filepath"
	"strings"
)

// Format represents the supported manifest formats.
type Format string

const (
	// FormatTOML is for TOML manifests (Cargo.toml, pyproject.toml).
	FormatTOML Format = "toml"

	// FormatJSON is for JSON manifests (package.json, composer.json).
	FormatJSON Format = "json"

	// FormatYAML is for YAML manifests (Chart.yaml, pubspec.yaml).
	FormatYAML Format = "yaml"

	// FormatRaw is for plain text files where the whole content is the version.
	FormatRaw Format = "raw"
)

// DefaultPath is the manifest read when none is configured.
const DefaultPath = "Cargo.toml"

// DefaultField is the dot-notation path of the version in a Cargo manifest.
const DefaultField = "package.version"

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	switch f {
	case FormatTOML, FormatJSON, FormatYAML, FormatRaw:
		return true
	default:
		return false
	}
}

// DetectFormat guesses the format of a manifest from its file name.
// Unknown extensions fall back to TOML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case "":
		if strings.EqualFold(filepath.Base(path), "VERSION") {
			return FormatRaw
		}
		return FormatTOML
	default:
		return FormatTOML
	}
}

// DefaultFieldFor returns the conventional version field for a manifest path.
func DefaultFieldFor(path string) string {
	switch DetectFormat(path) {
	case FormatJSON, FormatYAML:
		return "version"
	case FormatRaw:
		return ""
	default:
		if strings.EqualFold(filepath.Base(path), "pyproject.toml") {
			return "project.version"
		}
		return DefaultField
	}
}
