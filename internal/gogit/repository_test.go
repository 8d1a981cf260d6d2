package gogit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/indaco/gitv/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type testRepo struct {
	t    *testing.T
	fs   billy.Filesystem
	repo *git.Repository
	n    int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	fs := memfs.New()
	repo, err := git.Init(memory.NewStorage(), fs)
	require.NoError(t, err)
	return &testRepo{t: t, fs: fs, repo: repo}
}

// commit writes files and commits them, returning the new hash.
func (tr *testRepo) commit(files map[string]string) core.Commit {
	tr.t.Helper()
	wt, err := tr.repo.Worktree()
	require.NoError(tr.t, err)

	for name, content := range files {
		require.NoError(tr.t, util.WriteFile(tr.fs, name, []byte(content), 0o644))
		_, err := wt.Add(name)
		require.NoError(tr.t, err)
	}

	tr.n++
	hash, err := wt.Commit(fmt.Sprintf("commit %d", tr.n), &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: baseTime.Add(time.Duration(tr.n) * time.Minute)},
	})
	require.NoError(tr.t, err)
	return core.Commit(hash.String())
}

func cargo(version, extra string) string {
	return fmt.Sprintf("[package]\nname = \"demo\"\nversion = %q\n%s", version, extra)
}

func TestRepository_ListCommitsTouching(t *testing.T) {
	tr := newTestRepo(t)
	c1 := tr.commit(map[string]string{"Cargo.toml": cargo("0.1.0", "")})
	tr.commit(map[string]string{"README.md": "# demo\n"})
	c3 := tr.commit(map[string]string{"Cargo.toml": cargo("0.1.0", "# edit\n")})
	c4 := tr.commit(map[string]string{"Cargo.toml": cargo("0.2.0", "")})

	r := New(tr.repo)
	got, err := r.ListCommitsTouching(context.Background(), "Cargo.toml")
	require.NoError(t, err)
	assert.Equal(t, []core.Commit{c4, c3, c1}, got)
}

func TestRepository_ListCommitsTouchingEmptyRepo(t *testing.T) {
	tr := newTestRepo(t)

	_, err := New(tr.repo).ListCommitsTouching(context.Background(), "Cargo.toml")
	require.ErrorIs(t, err, core.ErrHistoryUnavailable)
}

func TestRepository_FileAt(t *testing.T) {
	tr := newTestRepo(t)
	c1 := tr.commit(map[string]string{"README.md": "# demo\n"})
	c2 := tr.commit(map[string]string{"Cargo.toml": cargo("1.0.0", "")})
	r := New(tr.repo)
	ctx := context.Background()

	data, err := r.FileAt(ctx, c2, "Cargo.toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), `version = "1.0.0"`)

	_, err = r.FileAt(ctx, c1, "Cargo.toml")
	require.ErrorIs(t, err, core.ErrManifestUnavailable)

	_, err = r.FileAt(ctx, core.Commit(plumbing.ZeroHash.String()), "Cargo.toml")
	require.ErrorIs(t, err, core.ErrManifestUnavailable)
}

func TestRepository_Tags(t *testing.T) {
	tr := newTestRepo(t)
	c1 := tr.commit(map[string]string{"Cargo.toml": cargo("0.1.0", "")})
	c2 := tr.commit(map[string]string{"Cargo.toml": cargo("0.2.0", "")})

	r := New(tr.repo).WithTagger(&Signature{Name: "release-bot", Email: "bot@example.com"})
	r.now = func() time.Time { return baseTime }
	ctx := context.Background()

	_, found, err := r.ResolveTag(ctx, "v0.1.0")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, r.CreateAnnotatedTag(ctx, "v0.1.0", c1, "Release v0.1.0"))

	got, found, err := r.ResolveTag(ctx, "v0.1.0")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, c1, got)

	ref, err := tr.repo.Tag("v0.1.0")
	require.NoError(t, err)
	obj, err := tr.repo.TagObject(ref.Hash())
	require.NoError(t, err, "tag should be annotated")
	assert.Contains(t, obj.Message, "Release v0.1.0")
	assert.Equal(t, "release-bot", obj.Tagger.Name)

	err = r.CreateAnnotatedTag(ctx, "v0.1.0", c2, "Release v0.1.0")
	require.ErrorIs(t, err, core.ErrTagCreationFailed)

	got, _, err = r.ResolveTag(ctx, "v0.1.0")
	require.NoError(t, err)
	assert.Equal(t, c1, got, "existing tag must not move")
}

func TestRepository_ResolveLightweightTag(t *testing.T) {
	tr := newTestRepo(t)
	c1 := tr.commit(map[string]string{"Cargo.toml": cargo("0.1.0", "")})

	_, err := tr.repo.CreateTag("v0.1.0", plumbing.NewHash(c1.String()), nil)
	require.NoError(t, err)

	got, found, err := New(tr.repo).ResolveTag(context.Background(), "v0.1.0")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, c1, got)
}

func TestRepository_WithTaggerIgnoresEmpty(t *testing.T) {
	tr := newTestRepo(t)
	r := New(tr.repo).WithTagger(&Signature{})
	assert.Nil(t, r.tagger)
	r.WithTagger(nil)
	assert.Nil(t, r.tagger)
}

func TestOpen_Subdirectory(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	n := 0
	commit := func(name, version string) core.Commit {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(cargo(version, "")), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
		n++
		hash, err := wt.Commit(name+" "+version, &git.CommitOptions{
			Author: &object.Signature{Name: "test", Email: "test@example.com", When: baseTime.Add(time.Duration(n) * time.Minute)},
		})
		require.NoError(t, err)
		return core.Commit(hash.String())
	}
	c1 := commit("sub/Cargo.toml", "0.1.0")
	c2 := commit("sub/Cargo.toml", "0.2.0")
	commit("Cargo.toml", "9.9.9")

	r, err := Open(filepath.Join(root, "sub"))
	require.NoError(t, err)
	ctx := context.Background()

	got, err := r.ListCommitsTouching(ctx, "Cargo.toml")
	require.NoError(t, err)
	assert.Equal(t, []core.Commit{c2, c1}, got)

	data, err := r.FileAt(ctx, c1, "Cargo.toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"0.1.0"`)

	top, err := Open(root)
	require.NoError(t, err)
	data, err = top.FileAt(ctx, c2, "sub/Cargo.toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"0.2.0"`)
}
