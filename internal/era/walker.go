package era

import (
	"context"
	"fmt"
	"iter"

	"github.com/indaco/gitv/internal/core"
)

// VersionSource returns the version declared by the manifest at a commit.
type VersionSource interface {
	VersionAt(ctx context.Context, commit core.Commit) (core.Version, error)
}

// VersionSourceFunc adapts a function to VersionSource.
type VersionSourceFunc func(ctx context.Context, commit core.Commit) (core.Version, error)

// VersionAt implements VersionSource.
func (f VersionSourceFunc) VersionAt(ctx context.Context, commit core.Commit) (core.Version, error) {
	return f(ctx, commit)
}

// Walker turns a commit sequence into era events.
type Walker struct {
	source VersionSource
}

// NewWalker creates a walker reading versions from source.
func NewWalker(source VersionSource) *Walker {
	return &Walker{source: source}
}

// Events returns the lazy event sequence for commits, given newest first.
//
// Versions are fetched one commit at a time as the sequence is consumed, so
// a consumer acting on an event runs before later snapshots are read. The
// first error is yielded with a zero Event and ends the sequence. An empty
// commit list yields nothing.
func (w *Walker) Events(ctx context.Context, commits []core.Commit) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		var state State
		for _, c := range commits {
			if err := ctx.Err(); err != nil {
				yield(Event{}, err)
				return
			}

			v, err := w.source.VersionAt(ctx, c)
			if err != nil {
				yield(Event{}, fmt.Errorf("commit %s: %w", c, err))
				return
			}
			if v.IsUnset() {
				yield(Event{}, fmt.Errorf("commit %s: %w: no version declared", c, core.ErrManifestMalformed))
				return
			}

			var (
				ev   Event
				emit bool
			)
			state, ev, emit = Step(state, c, v)
			if emit && !yield(ev, nil) {
				return
			}
		}

		if ev, ok := Finish(state); ok {
			yield(ev, nil)
		}
	}
}
