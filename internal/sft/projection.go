package sft

import (
	"fmt"
	"path/filepath"

	"sft-go/internal/model"
)

// ProjectionEntry is the expected filesystem projection of one identity:
// a symlink at LinkPath pointing at the latest revision's archived bytes.
// It is derived, never stored.
type ProjectionEntry struct {
	Identity string
	Category model.Category
	Filename string // original filename, for reporting
	LinkPath string
	Target   string
}

// projectionFor derives the expected symlink location for a revision:
// <symlinkdir>/<subtree>/<identity><original extension>.
func (s *SFTService) projectionFor(rev *model.Revision) *ProjectionEntry {
	linkName := rev.Identity + filepath.Ext(rev.OriginalFilename)
	return &ProjectionEntry{
		Identity: rev.Identity,
		Category: rev.Category,
		Filename: rev.OriginalFilename,
		LinkPath: filepath.Join(s.layout.SymlinkSubtree(rev.Category.Subtree()), linkName),
		Target:   rev.ArchivePath,
	}
}

// DesiredProjection returns the expected projection for the resolved
// identity. A soft-deleted identity has no projection; this fails with
// ErrNotFound for those.
func (s *SFTService) DesiredProjection(term string) (*ProjectionEntry, error) {
	rev, err := s.Resolve(term)
	if err != nil {
		return nil, err
	}
	if rev.Deleted() {
		return nil, fmt.Errorf("identity %s is deleted, no projection: %w", rev.Identity, ErrNotFound)
	}
	return s.projectionFor(rev), nil
}

// EnumerateAll returns the expected projection of every non-deleted
// identity. This is the ground truth the reconciliation engine audits
// against.
func (s *SFTService) EnumerateAll() ([]*ProjectionEntry, error) {
	revs, err := s.registry.AllLatestRevisions()
	if err != nil {
		return nil, fmt.Errorf("enumerating identities: %w", err)
	}
	entries := make([]*ProjectionEntry, 0, len(revs))
	for _, rev := range revs {
		if rev.Deleted() {
			continue
		}
		entries = append(entries, s.projectionFor(rev))
	}
	return entries, nil
}

// ensureProjection points the identity's symlink at the revision's bytes,
// replacing whatever is at the link path.
func (s *SFTService) ensureProjection(rev *model.Revision) error {
	entry := s.projectionFor(rev)
	return s.writeProjection(entry)
}

// writeProjection creates the symlink for an entry, removing any existing
// entry at the link path first.
func (s *SFTService) writeProjection(entry *ProjectionEntry) error {
	state, err := s.fsmgr.InspectSymlink(entry.LinkPath)
	if err != nil {
		return fmt.Errorf("inspecting projection: %w: %w", ErrIO, err)
	}
	if state.Exists {
		if err := s.fsmgr.RemoveFile(entry.LinkPath); err != nil {
			return fmt.Errorf("removing stale projection: %w: %w", ErrIO, err)
		}
	}
	if err := s.fsmgr.Symlink(entry.Target, entry.LinkPath); err != nil {
		return fmt.Errorf("creating projection: %w: %w", ErrIO, err)
	}
	return nil
}

// removeProjection deletes the identity's symlink if present.
func (s *SFTService) removeProjection(entry *ProjectionEntry) error {
	state, err := s.fsmgr.InspectSymlink(entry.LinkPath)
	if err != nil {
		return fmt.Errorf("inspecting projection: %w: %w", ErrIO, err)
	}
	if !state.Exists {
		return nil
	}
	if err := s.fsmgr.RemoveFile(entry.LinkPath); err != nil {
		return fmt.Errorf("removing projection: %w: %w", ErrIO, err)
	}
	return nil
}
