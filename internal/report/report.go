// Package report prints one line per tagging decision.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/indaco/gitv/internal/tagger"
	"github.com/tidwall/sjson"
)

// Format selects the report output format.
type Format string

const (
	// FormatText prints "<commit> <tag>" lines.
	FormatText Format = "text"

	// FormatJSON prints one JSON object per line.
	FormatJSON Format = "json"
)

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// Reporter receives tagging decisions in processing order.
type Reporter interface {
	Report(res tagger.Result) error
}

// New returns the reporter for format writing to w.
func New(format Format, w io.Writer) Reporter {
	if format == FormatJSON {
		return &JSONReporter{w: w}
	}
	return &TextReporter{w: w}
}

// TextReporter writes the human-readable line format. Lines are never
// styled, so scripts see the same text on a terminal and through a pipe.
type TextReporter struct {
	w io.Writer
}

// annotation returns the parenthesised suffix for an outcome, if any.
func annotation(o tagger.Outcome) string {
	switch o {
	case tagger.AlreadyTagged:
		return "(already tagged)"
	case tagger.WouldCreate:
		return "(dry run)"
	case tagger.Skipped:
		return "(skipped)"
	default:
		return ""
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(res tagger.Result) error {
	line := res.Commit.String() + " " + res.Tag
	if note := annotation(res.Outcome); note != "" {
		line += " " + note
	}
	_, err := fmt.Fprintln(r.w, line)
	return err
}

// JSONReporter writes one JSON object per decision.
type JSONReporter struct {
	w io.Writer
}

// Report implements Reporter.
func (r *JSONReporter) Report(res tagger.Result) error {
	fields := []struct {
		path  string
		value string
	}{
		{"commit", res.Commit.String()},
		{"tag", res.Tag},
		{"version", res.Version.Raw()},
		{"outcome", res.Outcome.String()},
	}

	doc := []byte("{}")
	for _, f := range fields {
		var err error
		if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
			return fmt.Errorf("failed to encode %s: %w", f.path, err)
		}
	}
	if res.Message != "" {
		var err error
		if doc, err = sjson.SetBytes(doc, "message", res.Message); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	doc = append(doc, '\n')
	_, err := r.w.Write(doc)
	return err
}
