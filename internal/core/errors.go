package core

import "errors"

var (
	// ErrHistoryUnavailable means the commits touching the manifest could not be listed.
	ErrHistoryUnavailable = errors.New("history unavailable")

	// ErrManifestUnavailable means a historical manifest snapshot could not be read.
	ErrManifestUnavailable = errors.New("manifest unavailable")

	// ErrManifestMalformed means a manifest snapshot carries no usable version.
	ErrManifestMalformed = errors.New("manifest malformed")

	// ErrTagResolutionFailed means looking up a tag failed (a missing tag is not an error).
	ErrTagResolutionFailed = errors.New("tag resolution failed")

	// ErrTagCreationFailed means the backend refused to create a tag.
	ErrTagCreationFailed = errors.New("tag creation failed")

	// ErrNoVersionHistory means the walk produced nothing to tag.
	ErrNoVersionHistory = errors.New("no version history to process")
)
