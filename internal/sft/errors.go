package sft

import "errors"

// Error kinds surfaced by the registry core. Callers distinguish them with
// errors.Is; every failure out of this package wraps exactly one of these
// (or is a plain wrapped I/O / store error from a lower layer).
var (
	// ErrNotFound means an identity, revision, link, or path could not be
	// resolved.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous means a search term matched two or more distinct
	// identities; the caller must disambiguate with a literal identity.
	ErrAmbiguous = errors.New("ambiguous identifier")

	// ErrDuplicate means a uniqueness rule was violated, e.g. a link
	// already exists for the ordered (source, target) pair.
	ErrDuplicate = errors.New("already exists")

	// ErrSelfLink means a link's source and target are the same identity.
	ErrSelfLink = errors.New("cannot link a file to itself")

	// ErrAlreadyDeleted means a soft delete was requested for an identity
	// that is already deleted.
	ErrAlreadyDeleted = errors.New("already deleted")

	// ErrNotDeleted means a restore was requested for an identity that is
	// not deleted.
	ErrNotDeleted = errors.New("not deleted")

	// ErrIO means a filesystem operation failed.
	ErrIO = errors.New("filesystem operation failed")

	// ErrStore means a database operation or transaction failed.
	ErrStore = errors.New("registry store failure")
)
