package operations

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/indaco/gitv/internal/core"
	"github.com/indaco/gitv/internal/manifest"
	"github.com/indaco/gitv/internal/printer"
	"github.com/indaco/gitv/internal/report"
	"github.com/indaco/gitv/internal/tagger"
	"github.com/indaco/gitv/internal/testutils"
)

/* ------------------------------------------------------------------------- */
/* HELPERS                                                                   */
/* ------------------------------------------------------------------------- */

// fiveCommitRepo is c5 (newest) .. c1 declaring 2.0.0, 2.0.0, 1.1.0, 1.0.0, 1.0.0.
func fiveCommitRepo() *testutils.FakeRepository {
	return testutils.NewFakeRepository().
		AddCargoCommit("c5", "2.0.0").
		AddCargoCommit("c4", "2.0.0").
		AddCargoCommit("c3", "1.1.0").
		AddCargoCommit("c2", "1.0.0").
		AddCargoCommit("c1", "1.0.0")
}

type runOpts struct {
	cfg       *tagger.Config
	confirmer tagger.Confirmer
	opts      Options
}

func run(t *testing.T, repo *testutils.FakeRepository, o runOpts) (string, report.Summary, error) {
	t.Helper()
	printer.SetNoColor(true)
	t.Cleanup(func() { printer.SetNoColor(false) })

	parser, err := manifest.NewParser("Cargo.toml", "", "")
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	tg := tagger.New(o.cfg, repo)
	if o.confirmer != nil {
		tg.WithConfirmer(o.confirmer)
	}

	var out bytes.Buffer
	op := NewTagHistory(repo, parser, "Cargo.toml", tg, report.New(report.FormatText, &out), o.opts)
	summary, err := op.Run(context.Background())
	return out.String(), summary, err
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}

/* ------------------------------------------------------------------------- */
/* RUN                                                                       */
/* ------------------------------------------------------------------------- */

func TestTagHistory_Run(t *testing.T) {
	repo := fiveCommitRepo()

	out, summary, err := run(t, repo, runOpts{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := lines("c4 v2.0.0", "c3 v1.1.0", "c1 v1.0.0")
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
	if summary.Created != 3 || summary.Total() != 3 {
		t.Errorf("summary = %+v", summary)
	}

	tags := repo.Tags()
	for name, commit := range map[string]core.Commit{"v2.0.0": "c4", "v1.1.0": "c3", "v1.0.0": "c1"} {
		if tags[name] != commit {
			t.Errorf("tag %s -> %q, want %q", name, tags[name], commit)
		}
	}
	if repo.Created[0].Message != "Release v2.0.0" {
		t.Errorf("message = %q", repo.Created[0].Message)
	}
}

func TestTagHistory_RunTwiceIsIdempotent(t *testing.T) {
	repo := fiveCommitRepo()

	if _, _, err := run(t, repo, runOpts{}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	out, summary, err := run(t, repo, runOpts{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	want := lines("c4 v2.0.0 (already tagged)", "c3 v1.1.0 (already tagged)", "c1 v1.0.0 (already tagged)")
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
	if summary.AlreadyTagged != 3 || len(repo.Created) != 3 {
		t.Errorf("summary = %+v, created = %d", summary, len(repo.Created))
	}
}

func TestTagHistory_RunPartiallyTagged(t *testing.T) {
	repo := fiveCommitRepo()
	repo.SetTag("v1.1.0", "c3")

	out, summary, err := run(t, repo, runOpts{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := lines("c4 v2.0.0", "c3 v1.1.0 (already tagged)", "c1 v1.0.0")
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
	if summary.Created != 2 || summary.AlreadyTagged != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestTagHistory_RunCollisionStops(t *testing.T) {
	repo := fiveCommitRepo()
	repo.SetTag("v1.1.0", "c5")

	out, _, err := run(t, repo, runOpts{})
	if !errors.Is(err, core.ErrTagCreationFailed) {
		t.Fatalf("err = %v, want ErrTagCreationFailed", err)
	}
	if out != lines("c4 v2.0.0") {
		t.Errorf("output = %q", out)
	}
	if _, ok := repo.Tags()["v1.0.0"]; ok {
		t.Error("eras after the failure must not be tagged")
	}
	if repo.Tags()["v2.0.0"] != "c4" {
		t.Error("tags created before the failure must remain")
	}
}

func TestTagHistory_RunRevertedVersion(t *testing.T) {
	repo := testutils.NewFakeRepository().
		AddCargoCommit("c6", "1.0.0").
		AddCargoCommit("c5", "1.1.0").
		AddCargoCommit("c4", "1.1.0").
		AddCargoCommit("c3", "1.0.0")

	out, _, err := run(t, repo, runOpts{})
	if !errors.Is(err, core.ErrTagCreationFailed) {
		t.Fatalf("err = %v, want ErrTagCreationFailed", err)
	}
	if out != lines("c6 v1.0.0", "c4 v1.1.0") {
		t.Errorf("output = %q", out)
	}
}

func TestTagHistory_RunEmptyHistory(t *testing.T) {
	t.Run("error by default", func(t *testing.T) {
		out, _, err := run(t, testutils.NewFakeRepository(), runOpts{})
		if !errors.Is(err, core.ErrNoVersionHistory) {
			t.Fatalf("err = %v, want ErrNoVersionHistory", err)
		}
		if out != "" {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("allowed", func(t *testing.T) {
		_, summary, err := run(t, testutils.NewFakeRepository(), runOpts{opts: Options{AllowEmpty: true}})
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if summary.Total() != 0 {
			t.Errorf("summary = %+v", summary)
		}
	})
}

func TestTagHistory_RunErrors(t *testing.T) {
	t.Run("history unavailable", func(t *testing.T) {
		repo := fiveCommitRepo()
		repo.ListErr = errors.New("not a git repository")
		_, _, err := run(t, repo, runOpts{})
		if !errors.Is(err, core.ErrHistoryUnavailable) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("malformed manifest", func(t *testing.T) {
		repo := testutils.NewFakeRepository().
			AddCargoCommit("c2", "1.0.0").
			AddCommit("c1", "Cargo.toml", "[package]\nname = \"demo\"\n")
		out, _, err := run(t, repo, runOpts{})
		if !errors.Is(err, core.ErrManifestMalformed) {
			t.Fatalf("err = %v", err)
		}
		if out != "" {
			t.Errorf("no era is complete before c1 is read, output = %q", out)
		}
	})

	t.Run("resolution failure", func(t *testing.T) {
		repo := fiveCommitRepo()
		repo.ResolveErr = errors.New("bad object")
		_, _, err := run(t, repo, runOpts{})
		if !errors.Is(err, core.ErrTagResolutionFailed) {
			t.Fatalf("err = %v", err)
		}
		if len(repo.Created) != 0 {
			t.Errorf("created = %v", repo.Created)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		repo := fiveCommitRepo()
		parser, _ := manifest.NewParser("Cargo.toml", "", "")
		var out bytes.Buffer
		op := NewTagHistory(repo, parser, "Cargo.toml", tagger.New(nil, repo), report.New(report.FormatText, &out), Options{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := op.Run(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
		if len(repo.Created) != 0 {
			t.Errorf("created = %v", repo.Created)
		}
	})
}

/* ------------------------------------------------------------------------- */
/* MODES                                                                     */
/* ------------------------------------------------------------------------- */

func TestTagHistory_RunDryRun(t *testing.T) {
	repo := fiveCommitRepo()
	repo.SetTag("v1.0.0", "c1")

	cfg := tagger.DefaultConfig()
	cfg.DryRun = true
	out, summary, err := run(t, repo, runOpts{cfg: cfg})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := lines("c4 v2.0.0 (dry run)", "c3 v1.1.0 (dry run)", "c1 v1.0.0 (already tagged)")
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
	if len(repo.Created) != 0 {
		t.Errorf("dry run created %v", repo.Created)
	}
	if summary.WouldCreate != 2 || summary.AlreadyTagged != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestTagHistory_RunConfirmer(t *testing.T) {
	repo := fiveCommitRepo()
	declineMinor := tagger.ConfirmerFunc(func(_ context.Context, tag string, _ core.Commit) (bool, error) {
		return tag != "v1.1.0", nil
	})

	out, summary, err := run(t, repo, runOpts{confirmer: declineMinor})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := lines("c4 v2.0.0", "c3 v1.1.0 (skipped)", "c1 v1.0.0")
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
	if summary.Skipped != 1 || summary.Created != 2 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestTagHistory_RunPrefetch(t *testing.T) {
	var progressTitle string
	progress := func(ctx context.Context, title string, action func(context.Context) error) error {
		progressTitle = title
		return action(ctx)
	}

	for _, jobs := range []int{2, 8} {
		repo := fiveCommitRepo()
		out, _, err := run(t, repo, runOpts{opts: Options{Jobs: jobs, Progress: progress}})
		if err != nil {
			t.Fatalf("jobs=%d: %v", jobs, err)
		}
		if out != lines("c4 v2.0.0", "c3 v1.1.0", "c1 v1.0.0") {
			t.Errorf("jobs=%d: output = %q", jobs, out)
		}
		if repo.FileReads != 5 {
			t.Errorf("jobs=%d: FileReads = %d, want 5", jobs, repo.FileReads)
		}
	}
	if progressTitle != "Reading 5 snapshots of Cargo.toml" {
		t.Errorf("progress title = %q", progressTitle)
	}
}

func TestTagHistory_RunPrefetchErrorCreatesNothing(t *testing.T) {
	repo := fiveCommitRepo()
	repo.FileErr["c2"] = errors.New("object not found")

	_, _, err := run(t, repo, runOpts{opts: Options{Jobs: 4}})
	if err == nil || !strings.Contains(err.Error(), "c2") {
		t.Fatalf("err = %v", err)
	}
	if len(repo.Created) != 0 {
		t.Errorf("prefetch failure must abort before tagging, created %v", repo.Created)
	}
}
