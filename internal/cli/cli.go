// Package cli builds the gitv root command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/indaco/gitv/internal/config"
	"github.com/indaco/gitv/internal/core"
	"github.com/indaco/gitv/internal/git"
	"github.com/indaco/gitv/internal/gogit"
	"github.com/indaco/gitv/internal/manifest"
	"github.com/indaco/gitv/internal/operations"
	"github.com/indaco/gitv/internal/printer"
	"github.com/indaco/gitv/internal/report"
	"github.com/indaco/gitv/internal/tagger"
	"github.com/indaco/gitv/internal/tui"
	"github.com/indaco/gitv/internal/version"
	urfavecli "github.com/urfave/cli/v3"
)

func init() {
	// -v is taken by --verbose.
	urfavecli.VersionFlag = &urfavecli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
}

// openRepository is replaced in tests.
var openRepository = func(dir string, cfg *config.Config) (core.Repository, error) {
	if cfg.Backend == config.BackendGoGit {
		repo, err := gogit.Open(dir)
		if err != nil {
			return nil, err
		}
		if cfg.Tagger != nil {
			repo.WithTagger(&gogit.Signature{Name: cfg.Tagger.Name, Email: cfg.Tagger.Email})
		}
		return repo, nil
	}
	return git.NewOSRepository(dir), nil
}

// New builds and returns the root CLI command.
func New() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "gitv",
		Version:   version.GetVersion(),
		Usage:     "Tag the commit where each manifest version first appeared",
		UsageText: "gitv [options]",
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:    "dir",
				Aliases: []string{"C"},
				Usage:   "Repository directory",
				Value:   ".",
			},
			&urfavecli.StringFlag{
				Name:        "manifest",
				Aliases:     []string{"m"},
				Usage:       "Manifest declaring the version, relative to the repository root",
				DefaultText: manifest.DefaultPath,
			},
			&urfavecli.StringFlag{
				Name:        "field",
				Usage:       "Dot path of the version field in the manifest",
				DefaultText: "detected from the manifest name",
			},
			&urfavecli.StringFlag{
				Name:        "format",
				Usage:       "Manifest format: toml, json, yaml or raw",
				DefaultText: "detected from the manifest name",
			},
			&urfavecli.StringFlag{
				Name:        "prefix",
				Usage:       "Tag name prefix",
				DefaultText: core.DefaultTagPrefix,
			},
			&urfavecli.StringFlag{
				Name:  "message",
				Usage: "Tag message template ({tag}, {version}, {prefix}, {commit}, {short}, {date})",
			},
			&urfavecli.StringFlag{
				Name:        "backend",
				Usage:       "Git backend: exec or go-git",
				DefaultText: config.BackendExec,
			},
			&urfavecli.IntFlag{
				Name:        "jobs",
				Aliases:     []string{"j"},
				Usage:       "Read manifest snapshots with N concurrent jobs before tagging",
				DefaultText: "1",
			},
			&urfavecli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Report missing tags without creating them",
			},
			&urfavecli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Confirm each tag before it is created",
			},
			&urfavecli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Report format: text or json",
				Value:   string(report.FormatText),
			},
			&urfavecli.BoolFlag{
				Name:  "allow-empty",
				Usage: "Succeed when the manifest has no version history",
			},
			&urfavecli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Print diagnostics to stderr",
			},
			&urfavecli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			printer.SetNoColor(cmd.Bool("no-color"))
			printer.SetVerbose(cmd.Bool("verbose"))
			return ctx, nil
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *urfavecli.Command) error {
	if cmd.Args().Present() {
		return fmt.Errorf("unexpected argument %q", cmd.Args().First())
	}

	dir := cmd.String("dir")
	cfg, err := config.LoadConfigFn(dir)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	tui.SetTheme(cfg.Theme)

	manifestPath, err := resolveManifest(dir, cfg.Manifest)
	if err != nil {
		return err
	}

	parser, err := manifest.NewParser(manifestPath, manifest.Format(cfg.Format), cfg.Field)
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(cmd.String("output"))
	if err != nil {
		return err
	}

	repo, err := openRepository(dir, cfg)
	if err != nil {
		return err
	}
	printer.Debugf("backend %s, manifest %s (%s, field %q)", cfg.Backend, manifestPath, parser.Format, parser.Field)

	tg := tagger.New(&tagger.Config{
		Prefix:          cfg.Prefix,
		MessageTemplate: cfg.Message,
		DryRun:          cmd.Bool("dry-run"),
	}, repo)
	if cmd.Bool("interactive") {
		if !tui.IsInteractive() {
			printer.PrintWarning("not a terminal: --interactive ignored")
		}
		tg.WithConfirmer(tui.TagConfirmer{})
	}

	op := operations.NewTagHistory(repo, parser, manifestPath, tg, report.New(format, stdout(cmd)), operations.Options{
		Jobs:       cfg.Jobs,
		AllowEmpty: cmd.Bool("allow-empty"),
		Progress:   tui.WithSpinner,
	})

	summary, err := op.Run(ctx)
	printer.Debugf("%s", summary)
	return err
}

// applyFlags overrides configuration values with explicitly set flags.
func applyFlags(cmd *urfavecli.Command, cfg *config.Config) {
	for name, dst := range map[string]*string{
		"manifest": &cfg.Manifest,
		"field":    &cfg.Field,
		"format":   &cfg.Format,
		"prefix":   &cfg.Prefix,
		"message":  &cfg.Message,
		"backend":  &cfg.Backend,
	} {
		if cmd.IsSet(name) {
			*dst = cmd.String(name)
		}
	}
	if cmd.IsSet("jobs") {
		cfg.Jobs = cmd.Int("jobs")
	}
}

// resolveManifest checks that the manifest exists under dir and returns its
// slash-separated path relative to dir.
func resolveManifest(dir, path string) (string, error) {
	rel := path
	if filepath.IsAbs(path) {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		rel, err = filepath.Rel(absDir, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("manifest %s is outside %s", path, dir)
		}
	}

	info, err := os.Stat(filepath.Join(dir, rel))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("directory has no %s manifest", path)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("manifest %s is a directory", path)
	}
	return filepath.ToSlash(rel), nil
}

func stdout(cmd *urfavecli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
