// Package testutils provides in-memory collaborators for tests.
package testutils

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/indaco/gitv/internal/core"
)

// CreatedTag records one CreateAnnotatedTag call.
type CreatedTag struct {
	Name    string
	Commit  core.Commit
	Message string
}

// FakeRepository is a scripted core.Repository.
//
// Commits are listed in the order given to AddCommit, so callers add them
// newest first, like git log does.
type FakeRepository struct {
	mu sync.Mutex

	commits []core.Commit
	files   map[core.Commit]map[string][]byte
	tags    map[string]core.Commit

	// Created lists every successful tag creation in call order.
	Created []CreatedTag

	// FileReads counts FileAt calls.
	FileReads int

	// ListErr, ResolveErr and CreateErr are returned by the matching call when set.
	ListErr    error
	ResolveErr error
	CreateErr  error

	// FileErr is returned by FileAt for the listed commits.
	FileErr map[core.Commit]error
}

// Verify FakeRepository implements core.Repository.
var _ core.Repository = (*FakeRepository)(nil)

// NewFakeRepository returns an empty repository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		files:   make(map[core.Commit]map[string][]byte),
		tags:    make(map[string]core.Commit),
		FileErr: make(map[core.Commit]error),
	}
}

// AddCommit appends a commit that wrote content to path.
func (r *FakeRepository) AddCommit(id core.Commit, path, content string) *FakeRepository {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = append(r.commits, id)
	if r.files[id] == nil {
		r.files[id] = make(map[string][]byte)
	}
	r.files[id][path] = []byte(content)
	return r
}

// AddCargoCommit appends a commit whose Cargo.toml declares version.
func (r *FakeRepository) AddCargoCommit(id core.Commit, version string) *FakeRepository {
	return r.AddCommit(id, "Cargo.toml", CargoManifest(version))
}

// SetTag makes name resolve to commit.
func (r *FakeRepository) SetTag(name string, commit core.Commit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags[name] = commit
}

// Tags returns a copy of the current tag table.
func (r *FakeRepository) Tags() map[string]core.Commit {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]core.Commit, len(r.tags))
	for k, v := range r.tags {
		out[k] = v
	}
	return out
}

// ListCommitsTouching implements core.HistoryReader.
func (r *FakeRepository) ListCommitsTouching(_ context.Context, path string) ([]core.Commit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ListErr != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrHistoryUnavailable, r.ListErr)
	}
	var out []core.Commit
	for _, c := range r.commits {
		if _, ok := r.files[c][path]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// FileAt implements core.HistoryReader.
func (r *FakeRepository) FileAt(_ context.Context, commit core.Commit, path string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FileReads++
	if err := r.FileErr[commit]; err != nil {
		return nil, err
	}
	data, ok := r.files[commit][path]
	if !ok {
		return nil, fmt.Errorf("%w: %s not found at %s", core.ErrManifestUnavailable, path, commit)
	}
	return data, nil
}

// ResolveTag implements core.TagWriter.
func (r *FakeRepository) ResolveTag(_ context.Context, name string) (core.Commit, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ResolveErr != nil {
		return "", false, fmt.Errorf("%w: %w", core.ErrTagResolutionFailed, r.ResolveErr)
	}
	c, ok := r.tags[name]
	return c, ok, nil
}

// CreateAnnotatedTag implements core.TagWriter. Like git, it refuses to
// overwrite an existing name.
func (r *FakeRepository) CreateAnnotatedTag(_ context.Context, name string, commit core.Commit, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return fmt.Errorf("%w: %w", core.ErrTagCreationFailed, r.CreateErr)
	}
	if _, exists := r.tags[name]; exists {
		return fmt.Errorf("%w: fatal: tag '%s' already exists", core.ErrTagCreationFailed, name)
	}
	r.tags[name] = commit
	r.Created = append(r.Created, CreatedTag{Name: name, Commit: commit, Message: message})
	return nil
}

// CargoManifest renders a minimal Cargo.toml declaring version.
func CargoManifest(version string) string {
	var sb strings.Builder
	sb.WriteString("[package]\n")
	sb.WriteString("name = \"demo\"\n")
	fmt.Fprintf(&sb, "version = %q\n", version)
	sb.WriteString("edition = \"2021\"\n")
	return sb.String()
}
