// Package tagger creates the annotated tag for a version at the commit that
// introduced it, skipping tags that already point there.
package tagger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/indaco/gitv/internal/core"
)

// Outcome is the result of applying one version/commit pair.
type Outcome int

const (
	// Created means a new tag was written.
	Created Outcome = iota

	// AlreadyTagged means the tag already resolves to the introduction commit.
	AlreadyTagged

	// WouldCreate means a tag is missing but dry-run mode suppressed the write.
	WouldCreate

	// Skipped means the confirmation prompt declined the write.
	Skipped
)

// String returns the lower-case outcome name used in machine-readable output.
func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyTagged:
		return "already-tagged"
	case WouldCreate:
		return "dry-run"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes one tagging decision.
type Result struct {
	Version core.Version
	Commit  core.Commit
	Tag     string
	Message string
	Outcome Outcome
}

// Config holds tagger settings.
type Config struct {
	// Prefix is the tag prefix (default: "v").
	Prefix string

	// MessageTemplate is the annotation message template.
	// Supports placeholders: {version}, {tag}, {prefix}, {commit}, {short}, {date}
	// Default: "Release {tag}".
	MessageTemplate string

	// DryRun reports missing tags without creating them.
	DryRun bool
}

// defaultMessageTemplate matches the message git-based release scripts use.
const defaultMessageTemplate = "Release {tag}"

// DefaultConfig returns the default tagger configuration.
func DefaultConfig() *Config {
	return &Config{
		Prefix:          core.DefaultTagPrefix,
		MessageTemplate: defaultMessageTemplate,
	}
}

// Confirmer approves a tag creation before it is written.
type Confirmer interface {
	Confirm(ctx context.Context, tag string, commit core.Commit) (bool, error)
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, tag string, commit core.Commit) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(ctx context.Context, tag string, commit core.Commit) (bool, error) {
	return f(ctx, tag, commit)
}

// Tagger applies era events to a TagWriter.
type Tagger struct {
	config  *Config
	writer  core.TagWriter
	confirm Confirmer
	now     func() time.Time
}

// New creates a tagger writing through writer. A nil config uses DefaultConfig.
func New(cfg *Config, writer core.TagWriter) *Tagger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Tagger{
		config: cfg,
		writer: writer,
		now:    time.Now,
	}
}

// WithConfirmer makes the tagger ask c before every write.
func (t *Tagger) WithConfirmer(c Confirmer) *Tagger {
	t.confirm = c
	return t
}

// FormatTagName returns the tag name for version.
func (t *Tagger) FormatTagName(version core.Version) string {
	return version.TagName(t.config.Prefix)
}

// FormatTagMessage returns the annotation message for version at commit.
func (t *Tagger) FormatTagMessage(version core.Version, commit core.Commit) string {
	template := t.config.MessageTemplate
	if template == "" {
		template = defaultMessageTemplate
	}
	return FormatMessage(template, NewTemplateData(version, commit, t.config.Prefix, t.now()))
}

// Apply makes sure the tag for version points at commit.
//
// When the tag already resolves to commit nothing is written. Otherwise a
// create is attempted even if the name exists elsewhere; the backend refuses
// to overwrite, which surfaces as core.ErrTagCreationFailed. Passing an unset
// version panics.
func (t *Tagger) Apply(ctx context.Context, version core.Version, commit core.Commit) (Result, error) {
	if version.IsUnset() {
		panic("tagger: apply with unset version")
	}

	res := Result{
		Version: version,
		Commit:  commit,
		Tag:     t.FormatTagName(version),
	}

	existing, found, err := t.writer.ResolveTag(ctx, res.Tag)
	if err != nil {
		return res, wrapSentinel(core.ErrTagResolutionFailed, fmt.Errorf("resolve %s: %w", res.Tag, err))
	}
	if found && commit.Matches(existing.String()) {
		res.Outcome = AlreadyTagged
		return res, nil
	}

	res.Message = t.FormatTagMessage(version, commit)

	if t.config.DryRun {
		res.Outcome = WouldCreate
		return res, nil
	}

	if t.confirm != nil {
		ok, err := t.confirm.Confirm(ctx, res.Tag, commit)
		if err != nil {
			return res, fmt.Errorf("confirm %s: %w", res.Tag, err)
		}
		if !ok {
			res.Outcome = Skipped
			return res, nil
		}
	}

	if err := t.writer.CreateAnnotatedTag(ctx, res.Tag, commit, res.Message); err != nil {
		return res, wrapSentinel(core.ErrTagCreationFailed, fmt.Errorf("create %s at %s: %w", res.Tag, commit.Short(), err))
	}

	res.Outcome = Created
	return res, nil
}

// wrapSentinel adds sentinel to err unless a backend already did.
func wrapSentinel(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
