// Package operations wires history, walker, tagger and reporter into runs.
package operations

import (
	"context"
	"fmt"

	"github.com/indaco/gitv/internal/core"
	"github.com/indaco/gitv/internal/era"
	"github.com/indaco/gitv/internal/manifest"
	"github.com/indaco/gitv/internal/printer"
	"github.com/indaco/gitv/internal/report"
	"github.com/indaco/gitv/internal/tagger"
)

// ProgressFunc runs action while showing progress titled title.
type ProgressFunc func(ctx context.Context, title string, action func(context.Context) error) error

// Options tune a TagHistory run.
type Options struct {
	// Jobs is the number of concurrent manifest reads. Values above 1 read
	// every snapshot before the first tag is applied.
	Jobs int

	// AllowEmpty makes a manifest without version history a successful no-op.
	AllowEmpty bool

	// Progress wraps the prefetch phase. Nil runs it without progress output.
	Progress ProgressFunc
}

// TagHistory tags the first commit of every version era of one manifest.
type TagHistory struct {
	repo     core.Repository
	parser   *manifest.Parser
	path     string
	tagger   *tagger.Tagger
	reporter report.Reporter
	opts     Options
}

// NewTagHistory creates a run over the manifest at path in repo.
func NewTagHistory(repo core.Repository, parser *manifest.Parser, path string, tg *tagger.Tagger, rep report.Reporter, opts Options) *TagHistory {
	return &TagHistory{
		repo:     repo,
		parser:   parser,
		path:     path,
		tagger:   tg,
		reporter: rep,
		opts:     opts,
	}
}

// Run walks the history newest first, applying and reporting one decision
// per era. It stops at the first error; tags created before it remain.
func (op *TagHistory) Run(ctx context.Context) (report.Summary, error) {
	var summary report.Summary

	commits, err := op.repo.ListCommitsTouching(ctx, op.path)
	if err != nil {
		return summary, err
	}
	printer.Debugf("%d commits touch %s", len(commits), op.path)

	source, err := op.source(ctx, commits)
	if err != nil {
		return summary, err
	}

	for ev, err := range era.NewWalker(source).Events(ctx, commits) {
		if err != nil {
			return summary, err
		}

		res, err := op.tagger.Apply(ctx, ev.Version, ev.Commit)
		if err != nil {
			return summary, err
		}
		summary.Add(res.Outcome)
		printer.Debugf("%s at %s: %s", res.Tag, ev.Commit.Short(), res.Outcome)

		if err := op.reporter.Report(res); err != nil {
			return summary, fmt.Errorf("failed to write report: %w", err)
		}
	}

	if summary.Total() == 0 && !op.opts.AllowEmpty {
		return summary, fmt.Errorf("%w: %s", core.ErrNoVersionHistory, op.path)
	}
	return summary, nil
}

// source returns the sequential manifest source, or a prefetched one when
// more than one job is configured.
func (op *TagHistory) source(ctx context.Context, commits []core.Commit) (era.VersionSource, error) {
	sequential := era.NewManifestSource(op.repo, op.parser, op.path)
	if op.opts.Jobs <= 1 || len(commits) < 2 {
		return sequential, nil
	}

	var prefetched *era.Prefetched
	fetch := func(ctx context.Context) error {
		var err error
		prefetched, err = era.Prefetch(ctx, sequential, commits, op.opts.Jobs)
		return err
	}

	progress := op.opts.Progress
	if progress == nil {
		progress = func(ctx context.Context, _ string, action func(context.Context) error) error {
			return action(ctx)
		}
	}

	title := fmt.Sprintf("Reading %d snapshots of %s", len(commits), op.path)
	if err := progress(ctx, title, fetch); err != nil {
		return nil, err
	}
	printer.Debugf("prefetched %d snapshots with %d jobs", prefetched.Len(), op.opts.Jobs)
	return prefetched, nil
}
