package sft

import (
	"fmt"

	"sft-go/internal/model"
)

// SetNotes replaces the notes on the latest revision of the resolved
// identity.
func (s *SFTService) SetNotes(term string, notes string) (*model.Revision, error) {
	rev, err := s.Resolve(term)
	if err != nil {
		return nil, err
	}
	if err := s.registry.UpdateNotes(rev.Identity, rev.Revision, notes); err != nil {
		return nil, fmt.Errorf("updating notes: %w", err)
	}
	rev.Notes = notes
	s.logger.Info("notes updated", "identity", rev.Identity, "revision", rev.Revision)
	return rev, nil
}

// AddTags merges tags into the latest revision's tag set. Duplicates
// collapse, so adding a tag twice is a no-op.
func (s *SFTService) AddTags(term string, tags []string) (*model.Revision, error) {
	rev, err := s.Resolve(term)
	if err != nil {
		return nil, err
	}
	merged := model.MergeTags(rev.Tags, tags)
	if err := s.registry.UpdateTags(rev.Identity, rev.Revision, merged); err != nil {
		return nil, fmt.Errorf("updating tags: %w", err)
	}
	rev.Tags = merged
	s.logger.Info("tags added", "identity", rev.Identity, "tags", merged)
	return rev, nil
}

// RemoveTags removes tags from the latest revision's tag set. Tags not
// present are silently ignored.
func (s *SFTService) RemoveTags(term string, tags []string) (*model.Revision, error) {
	rev, err := s.Resolve(term)
	if err != nil {
		return nil, err
	}
	remaining := model.SubtractTags(rev.Tags, tags)
	if err := s.registry.UpdateTags(rev.Identity, rev.Revision, remaining); err != nil {
		return nil, fmt.Errorf("updating tags: %w", err)
	}
	rev.Tags = remaining
	return rev, nil
}

// History returns every revision of the resolved identity, ascending by
// revision number.
func (s *SFTService) History(term string) ([]*model.Revision, error) {
	rev, err := s.Resolve(term)
	if err != nil {
		return nil, err
	}
	revs, err := s.registry.Revisions(rev.Identity)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return revs, nil
}

// RevisionDiff reports how two revisions of one identity compare.
// Content equality is judged by hash; full text diffing is out of scope.
type RevisionDiff struct {
	Identity  string
	A, B      *model.Revision
	SameBytes bool
	SizeA     int64
	SizeB     int64
}

// Diff compares two revisions of the resolved identity by content hash and
// archived size. Fails with ErrNotFound if either revision number does not
// exist.
func (s *SFTService) Diff(term string, revA, revB int64) (*RevisionDiff, error) {
	latest, err := s.Resolve(term)
	if err != nil {
		return nil, err
	}
	revs, err := s.registry.Revisions(latest.Identity)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	var a, b *model.Revision
	for _, r := range revs {
		switch r.Revision {
		case revA:
			a = r
		case revB:
			b = r
		}
	}
	if a == nil {
		return nil, fmt.Errorf("revision %d of %s: %w", revA, latest.Identity, ErrNotFound)
	}
	if b == nil {
		return nil, fmt.Errorf("revision %d of %s: %w", revB, latest.Identity, ErrNotFound)
	}

	diff := &RevisionDiff{
		Identity:  latest.Identity,
		A:         a,
		B:         b,
		SameBytes: a.ContentHash == b.ContentHash,
	}
	// Sizes are best effort; an archived copy may have been trashed.
	if size, err := s.fsmgr.FileSize(a.ArchivePath); err == nil {
		diff.SizeA = size
	}
	if size, err := s.fsmgr.FileSize(b.ArchivePath); err == nil {
		diff.SizeB = size
	}
	return diff, nil
}
