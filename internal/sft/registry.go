package sft

import (
	"time"

	"sft-go/internal/model"
)

// Registry provides an interface for the database of record.
// All multi-step writes are implemented with appropriate transaction
// handling; lookup methods return (nil, nil) when nothing matches so the
// service layer owns the mapping onto error kinds.
type Registry interface {
	// Revision rows

	// InsertRevision writes a revision row verbatim. Used for revision 1
	// of a freshly minted identity.
	InsertRevision(rev *model.Revision) error

	// InsertNextRevision atomically assigns max(revision)+1 for the
	// identity and inserts a new row carrying forward the identity's
	// filename, category, notes, tags, and status. Returns (nil, nil)
	// if the identity has no rows. Two concurrent calls for the same
	// identity must never be assigned the same number.
	InsertNextRevision(identity, archivePath, contentHash string, createdAt time.Time) (*model.Revision, error)

	// LatestRevision returns the row with the maximum revision number for
	// the identity, or (nil, nil) if the identity is unknown.
	LatestRevision(identity string) (*model.Revision, error)

	// AllLatestRevisions returns the latest revision of every identity,
	// deleted ones included, ordered by identity.
	AllLatestRevisions() ([]*model.Revision, error)

	// SearchLatestByFilename returns latest revisions whose original
	// filename contains the fragment (case-insensitive).
	SearchLatestByFilename(fragment string) ([]*model.Revision, error)

	// Revisions returns every revision of an identity, ascending by
	// revision number.
	Revisions(identity string) ([]*model.Revision, error)

	// UpdateNotes replaces the notes on one revision row.
	UpdateNotes(identity string, revision int64, notes string) error

	// UpdateTags replaces the tag set on one revision row.
	UpdateTags(identity string, revision int64, tags []string) error

	// UpdateStatus flips the status on one revision row, but only when the
	// row currently holds the from status. Returns false when no row
	// matched, so invalid transitions never write.
	UpdateStatus(identity string, revision int64, from, to model.Status) (bool, error)

	// Link rows

	// InsertLink writes a link row. A row for the same ordered pair
	// results in an error wrapping ErrDuplicate.
	InsertLink(link *model.Link) error

	// DeleteLink removes the link for the ordered pair; false when no
	// such row existed.
	DeleteLink(source, target string) (bool, error)

	// FindLink returns the link for the ordered pair, or (nil, nil).
	FindLink(source, target string) (*model.Link, error)

	// LinksFrom returns all links whose source is identity, most recently
	// created first.
	LinksFrom(identity string) ([]*model.Link, error)

	// LinksTo returns all links whose target is identity, most recently
	// created first.
	LinksTo(identity string) ([]*model.Link, error)

	// UpdateLinkNotes replaces the notes on a link row.
	UpdateLinkNotes(source, target, notes string) error

	// UpdateLinkTags replaces the tag set on a link row.
	UpdateLinkTags(source, target string, tags []string) error

	// Operation journal

	// CreateOperation records the start of a mutating operation.
	CreateOperation(operation, parameters string, startedAt time.Time) (*model.Operation, error)

	// FinishOperation stamps an operation with its outcome.
	FinishOperation(id int64, status string, finishedAt time.Time) error

	// ListOperations returns the most recent operations, newest first.
	ListOperations(limit int) ([]*model.Operation, error)

	// Stats returns registry-wide counts.
	Stats() (*model.RegistryStats, error)

	// Close closes the database connection.
	Close() error
}
