// Package core holds the value types and collaborator contracts shared by
// the history walker, the tagger and the git backends.
package core

import "context"

// HistoryReader reads the commit history of a single file.
type HistoryReader interface {
	// ListCommitsTouching returns the commits that modified path, newest first.
	// It fails with ErrHistoryUnavailable when history cannot be queried.
	ListCommitsTouching(ctx context.Context, path string) ([]Commit, error)

	// FileAt returns the content of path as committed at commit.
	// It fails with ErrManifestUnavailable when the file is absent there.
	FileAt(ctx context.Context, commit Commit, path string) ([]byte, error)
}

// TagWriter resolves and creates tags.
type TagWriter interface {
	// ResolveTag returns the commit a tag name dereferences to.
	// A missing tag is reported with found == false and a nil error.
	ResolveTag(ctx context.Context, name string) (commit Commit, found bool, err error)

	// CreateAnnotatedTag binds name to commit with message.
	// It must fail when name already exists.
	CreateAnnotatedTag(ctx context.Context, name string, commit Commit, message string) error
}

// Repository is a backend able to both read history and write tags.
type Repository interface {
	HistoryReader
	TagWriter
}
