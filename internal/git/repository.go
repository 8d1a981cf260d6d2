// Package git implements the history and tag contracts by running the git binary.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/indaco/gitv/internal/core"
)

// execCommand is replaced in tests.
var execCommand = exec.CommandContext

// OSRepository implements core.Repository using actual git commands.
type OSRepository struct {
	dir         string
	execCommand func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

// Verify OSRepository implements core.Repository.
var _ core.Repository = (*OSRepository)(nil)

// NewOSRepository creates a repository running git in dir.
// An empty dir means the current working directory.
func NewOSRepository(dir string) *OSRepository {
	return &OSRepository{
		dir:         dir,
		execCommand: execCommand,
	}
}

// ListCommitsTouching implements core.HistoryReader.
func (r *OSRepository) ListCommitsTouching(ctx context.Context, path string) ([]core.Commit, error) {
	stdout, stderr, err := r.run(ctx, "log", "--format=%H", "HEAD", "--", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrHistoryUnavailable, describe("git log", stderr, err))
	}

	fields := strings.Fields(stdout)
	commits := make([]core.Commit, 0, len(fields))
	for _, f := range fields {
		commits = append(commits, core.Commit(f))
	}
	return commits, nil
}

// FileAt implements core.HistoryReader. The path is read relative to the
// working directory, as git log reads it, not to the repository root.
func (r *OSRepository) FileAt(ctx context.Context, commit core.Commit, path string) ([]byte, error) {
	stdout, stderr, err := r.run(ctx, "show", fmt.Sprintf("%s:./%s", commit, path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrManifestUnavailable, describe("git show", stderr, err))
	}
	return []byte(stdout), nil
}

// ResolveTag implements core.TagWriter.
//
// The tag is peeled to the commit it points at, so annotated and lightweight
// tags resolve alike. git rev-parse --verify --quiet exits with status 1 and
// prints nothing when the name does not exist.
func (r *OSRepository) ResolveTag(ctx context.Context, name string) (core.Commit, bool, error) {
	ref := fmt.Sprintf("refs/tags/%s^{commit}", name)
	stdout, stderr, err := r.run(ctx, "rev-parse", "--verify", "--quiet", ref)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && strings.TrimSpace(stderr) == "" {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %w", core.ErrTagResolutionFailed, describe("git rev-parse", stderr, err))
	}

	hash := strings.TrimSpace(stdout)
	if hash == "" {
		return "", false, nil
	}
	return core.Commit(hash), true, nil
}

// CreateAnnotatedTag implements core.TagWriter. git tag refuses to replace
// an existing tag without -f, which is never passed.
func (r *OSRepository) CreateAnnotatedTag(ctx context.Context, name string, commit core.Commit, message string) error {
	_, stderr, err := r.run(ctx, "tag", "-a", "-m", message, name, commit.String())
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrTagCreationFailed, describe("git tag (annotated)", stderr, err))
	}
	return nil
}

func (r *OSRepository) run(ctx context.Context, args ...string) (string, string, error) {
	cmd := r.execCommand(ctx, "git", args...)
	if r.dir != "" {
		cmd.Dir = r.dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// describe prefers git's own stderr message over the bare exit status.
func describe(op, stderr string, err error) error {
	if msg := strings.TrimSpace(stderr); msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
