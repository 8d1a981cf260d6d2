package tagger

import (
	"context"

	"github.com/indaco/gitv/internal/core"
)

// MockTagWriter is a mock implementation of core.TagWriter for testing.
type MockTagWriter struct {
	ResolveTagFn         func(name string) (core.Commit, bool, error)
	CreateAnnotatedTagFn func(name string, commit core.Commit, message string) error
}

// Verify MockTagWriter implements core.TagWriter.
var _ core.TagWriter = (*MockTagWriter)(nil)

// ResolveTag implements core.TagWriter.
func (m *MockTagWriter) ResolveTag(_ context.Context, name string) (core.Commit, bool, error) {
	if m.ResolveTagFn != nil {
		return m.ResolveTagFn(name)
	}
	return "", false, nil
}

// CreateAnnotatedTag implements core.TagWriter.
func (m *MockTagWriter) CreateAnnotatedTag(_ context.Context, name string, commit core.Commit, message string) error {
	if m.CreateAnnotatedTagFn != nil {
		return m.CreateAnnotatedTagFn(name, commit, message)
	}
	return nil
}
