// Package gogit implements the history and tag contracts in process with go-git,
// for machines without a git binary.
package gogit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/indaco/gitv/internal/core"
)

// Signature identifies the tagger recorded in annotated tags.
type Signature struct {
	Name  string
	Email string
}

// Repository implements core.Repository on top of a go-git repository.
type Repository struct {
	repo   *git.Repository
	tagger *Signature
	now    func() time.Time

	// prefix is the opened directory relative to the worktree root, in
	// slash form. Paths passed in are relative to that directory.
	prefix string
}

// Verify Repository implements core.Repository.
var _ core.Repository = (*Repository)(nil)

// Open opens the repository containing dir. Manifest paths are then read
// relative to dir, which may be a subdirectory of the worktree.
func Open(dir string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: open repository: %w", core.ErrHistoryUnavailable, err)
	}

	r := New(repo)
	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open worktree: %w", core.ErrHistoryUnavailable, err)
	}
	if r.prefix, err = subdirectory(wt.Filesystem.Root(), dir); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrHistoryUnavailable, err)
	}
	return r, nil
}

// subdirectory returns dir relative to root in slash form, "" for root itself.
func subdirectory(root, dir string) (string, error) {
	absRoot, err := canonical(root)
	if err != nil {
		return "", err
	}
	absDir, err := canonical(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the worktree %s", dir, root)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}

func canonical(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// repoPath maps a path relative to the opened directory to the worktree root.
func (r *Repository) repoPath(p string) string {
	if r.prefix == "" {
		return p
	}
	return path.Join(r.prefix, p)
}

// New wraps an already opened repository.
func New(repo *git.Repository) *Repository {
	return &Repository{repo: repo, now: time.Now}
}

// WithTagger sets the identity written into new tags. Without it the user
// section of the git configuration is used.
func (r *Repository) WithTagger(sig *Signature) *Repository {
	if sig != nil && sig.Name != "" {
		r.tagger = sig
	}
	return r
}

// ListCommitsTouching implements core.HistoryReader.
func (r *Repository) ListCommitsTouching(ctx context.Context, path string) ([]core.Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("%w: get HEAD: %w", core.ErrHistoryUnavailable, err)
	}

	name := r.repoPath(path)
	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash(), FileName: &name})
	if err != nil {
		return nil, fmt.Errorf("%w: get log: %w", core.ErrHistoryUnavailable, err)
	}
	defer iter.Close()

	var commits []core.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commits = append(commits, core.Commit(c.Hash.String()))
		return nil
	})
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: walk log: %w", core.ErrHistoryUnavailable, err)
	}

	return commits, nil
}

// FileAt implements core.HistoryReader.
func (r *Repository) FileAt(_ context.Context, commit core.Commit, path string) ([]byte, error) {
	c, err := r.repo.CommitObject(plumbing.NewHash(commit.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: get commit %s: %w", core.ErrManifestUnavailable, commit.Short(), err)
	}

	f, err := c.File(r.repoPath(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %s: %w", core.ErrManifestUnavailable, path, commit.Short(), err)
	}

	contents, err := f.Contents()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s at %s: %w", core.ErrManifestUnavailable, path, commit.Short(), err)
	}
	return []byte(contents), nil
}

// ResolveTag implements core.TagWriter. Annotated tags are peeled through
// their tag objects to the tagged commit.
func (r *Repository) ResolveTag(_ context.Context, name string) (core.Commit, bool, error) {
	ref, err := r.repo.Tag(name)
	if errors.Is(err, git.ErrTagNotFound) || errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", core.ErrTagResolutionFailed, err)
	}

	hash := ref.Hash()
	for {
		tag, err := r.repo.TagObject(hash)
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			// Lightweight tag, or the end of a chain of tag objects.
			break
		}
		if err != nil {
			return "", false, fmt.Errorf("%w: read tag %s: %w", core.ErrTagResolutionFailed, name, err)
		}
		if tag.TargetType == plumbing.CommitObject {
			return core.Commit(tag.Target.String()), true, nil
		}
		if tag.TargetType != plumbing.TagObject {
			return "", false, fmt.Errorf("%w: tag %s points at a %s", core.ErrTagResolutionFailed, name, tag.TargetType)
		}
		hash = tag.Target
	}

	return core.Commit(hash.String()), true, nil
}

// CreateAnnotatedTag implements core.TagWriter.
func (r *Repository) CreateAnnotatedTag(_ context.Context, name string, commit core.Commit, message string) error {
	sig, err := r.signature()
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrTagCreationFailed, err)
	}

	opts := &git.CreateTagOptions{
		Message: message,
		Tagger: &object.Signature{
			Name:  sig.Name,
			Email: sig.Email,
			When:  r.now(),
		},
	}

	if _, err := r.repo.CreateTag(name, plumbing.NewHash(commit.String()), opts); err != nil {
		return fmt.Errorf("%w: %w", core.ErrTagCreationFailed, err)
	}
	return nil
}

// signature returns the configured tagger, falling back to git config.
func (r *Repository) signature() (*Signature, error) {
	if r.tagger != nil {
		return r.tagger, nil
	}

	cfg, err := r.repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		return nil, fmt.Errorf("read git config: %w", err)
	}

	sig := &Signature{Name: cfg.User.Name, Email: cfg.User.Email}
	if sig.Name == "" {
		sig.Name, sig.Email = cfg.Committer.Name, cfg.Committer.Email
	}
	if sig.Name == "" {
		return nil, errors.New("no tagger identity: set user.name in git config or tagger.name in .gitv.yaml")
	}
	return sig, nil
}
