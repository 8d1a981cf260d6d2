package era

import (
	"context"
	"fmt"

	"github.com/indaco/gitv/internal/core"
	"github.com/indaco/gitv/internal/manifest"
	"golang.org/x/sync/errgroup"
)

// ManifestSource reads the manifest snapshot at each commit and parses its version.
type ManifestSource struct {
	reader core.HistoryReader
	parser *manifest.Parser
	path   string
}

// NewManifestSource creates a source reading path through reader.
func NewManifestSource(reader core.HistoryReader, parser *manifest.Parser, path string) *ManifestSource {
	return &ManifestSource{reader: reader, parser: parser, path: path}
}

// VersionAt implements VersionSource.
func (s *ManifestSource) VersionAt(ctx context.Context, commit core.Commit) (core.Version, error) {
	data, err := s.reader.FileAt(ctx, commit, s.path)
	if err != nil {
		return core.Unset(), err
	}
	v, err := s.parser.Parse(data)
	if err != nil {
		return core.Unset(), fmt.Errorf("%s: %w", s.path, err)
	}
	return v, nil
}

// Prefetched holds versions fetched ahead of the walk.
type Prefetched struct {
	versions map[core.Commit]core.Version
}

// Prefetch reads the version at every commit with up to jobs concurrent
// fetches. The walk over the result visits commits in their original order,
// so era boundaries are the same as with a sequential source.
func Prefetch(ctx context.Context, source VersionSource, commits []core.Commit, jobs int) (*Prefetched, error) {
	if jobs < 1 {
		jobs = 1
	}

	results := make([]core.Version, len(commits))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, c := range commits {
		g.Go(func() error {
			v, err := source.VersionAt(gctx, c)
			if err != nil {
				return fmt.Errorf("commit %s: %w", c, err)
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p := &Prefetched{versions: make(map[core.Commit]core.Version, len(commits))}
	for i, c := range commits {
		p.versions[c] = results[i]
	}
	return p, nil
}

// VersionAt implements VersionSource.
func (p *Prefetched) VersionAt(_ context.Context, commit core.Commit) (core.Version, error) {
	v, ok := p.versions[commit]
	if !ok {
		return core.Unset(), fmt.Errorf("%w: commit %s was not prefetched", core.ErrManifestUnavailable, commit)
	}
	return v, nil
}

// Len returns the number of prefetched snapshots.
func (p *Prefetched) Len() int {
	return len(p.versions)
}
