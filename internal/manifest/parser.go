// Package manifest extracts the declared version from a manifest snapshot.
package manifest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/gitv/internal/core"
	"github.com/pelletier/go-toml/v2"
)

// Parser decodes manifest bytes and reads the version at Field.
type Parser struct {
	Format Format

	// Field is the dot-notation path to the version field.
	// Example: "package.version", "tool.poetry.version"
	Field string
}

// NewParser returns a parser for the manifest at path, detecting the format
// and field when they are empty.
func NewParser(path string, format Format, field string) (*Parser, error) {
	if format == "" {
		format = DetectFormat(path)
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("invalid manifest format: %s", format)
	}
	if field == "" {
		field = DefaultFieldFor(path)
	}
	if field == "" && format != FormatRaw {
		return nil, fmt.Errorf("field is required for %s manifests", format)
	}
	return &Parser{Format: format, Field: field}, nil
}

// Parse returns the version declared in data.
// Every failure wraps core.ErrManifestMalformed.
func (p *Parser) Parse(data []byte) (core.Version, error) {
	raw, err := p.extract(data)
	if err != nil {
		return core.Unset(), fmt.Errorf("%w: %w", core.ErrManifestMalformed, err)
	}
	if raw == "" {
		return core.Unset(), fmt.Errorf("%w: field %q is empty", core.ErrManifestMalformed, p.Field)
	}
	return core.Declared(raw), nil
}

func (p *Parser) extract(data []byte) (string, error) {
	if p.Format == FormatRaw {
		return strings.TrimSpace(string(data)), nil
	}

	var obj map[string]any
	switch p.Format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &obj); err != nil {
			return "", fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &obj); err != nil {
			return "", fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return "", fmt.Errorf("unsupported format: %s", p.Format)
	}

	value, err := getNestedValue(obj, p.Field)
	if err != nil {
		return "", err
	}

	version, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("field %q is not a string", p.Field)
	}
	return version, nil
}

// getNestedValue retrieves a value from a nested map using dot notation.
func getNestedValue(obj map[string]any, field string) (any, error) {
	if field == "" {
		return nil, fmt.Errorf("field path cannot be empty")
	}

	parts := strings.Split(field, ".")
	current := any(obj)

	for i, part := range parts {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q is not an object at path %q", strings.Join(parts[:i], "."), part)
		}

		value, exists := currentMap[part]
		if !exists {
			return nil, fmt.Errorf("field %q not found", field)
		}

		current = value
	}

	return current, nil
}
