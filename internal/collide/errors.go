package collide

import "errors"

// Domain errors for collision model construction and archival.
var (
	// ErrNotCleared indicates BuildModel was called without an open
	// clear/build bracket.
	ErrNotCleared = errors.New("collide: model not cleared before build")

	// ErrAlreadyBuilt indicates BuildModel was called twice without an
	// intervening ClearModel.
	ErrAlreadyBuilt = errors.New("collide: model already built")

	// ErrNoContactable indicates SyncPosition was requested on a model
	// with no owning body attached.
	ErrNoContactable = errors.New("collide: model has no contactable")

	// ErrBadHullFile indicates a malformed .chulls stream.
	ErrBadHullFile = errors.New("collide: malformed hull file")

	// ErrArchiveVersion indicates an archive written by an unknown
	// format version.
	ErrArchiveVersion = errors.New("collide: unsupported archive version")

	// ErrUnknownKind indicates an archive entry with an unrecognized
	// shape kind name.
	ErrUnknownKind = errors.New("collide: unknown shape kind")
)
