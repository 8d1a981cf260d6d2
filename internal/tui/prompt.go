package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/indaco/gitv/internal/core"
)

// confirmFn is replaced in tests.
var confirmFn = confirm

// Confirm shows a yes/no confirmation prompt.
func Confirm(ctx context.Context, title, description string) (bool, error) {
	return confirmFn(ctx, title, description)
}

func confirm(ctx context.Context, title, description string) (bool, error) {
	var ok bool
	field := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Create").
		Negative("Skip").
		Value(&ok)

	err := huh.NewForm(huh.NewGroup(field)).
		WithTheme(currentThemeOrDefault()).
		RunWithContext(ctx)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// TagConfirmer asks before each tag creation. Outside an interactive
// terminal every creation is approved without prompting.
type TagConfirmer struct{}

// Confirm implements tagger.Confirmer.
func (TagConfirmer) Confirm(ctx context.Context, tag string, commit core.Commit) (bool, error) {
	if !IsInteractive() {
		return true, nil
	}
	return Confirm(ctx, fmt.Sprintf("Create tag %s?", tag), fmt.Sprintf("Annotated tag at commit %s", commit.Short()))
}

// runSpinner is replaced in tests.
var runSpinner = func(ctx context.Context, title string, action func()) error {
	return spinner.New().Title(title).Context(ctx).Action(action).Run()
}

// WithSpinner runs action while a spinner titled title is shown. Outside an
// interactive terminal action runs directly.
func WithSpinner(ctx context.Context, title string, action func(context.Context) error) error {
	if !IsInteractive() {
		return action(ctx)
	}

	var actionErr error
	if err := runSpinner(ctx, title, func() { actionErr = action(ctx) }); err != nil {
		return err
	}
	return actionErr
}
