package sft

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"sft-go/internal/model"
)

// Resolve turns a user-supplied term into the latest revision of exactly
// one identity. The term is either a literal identity (UUID) or a fragment
// matched against the original filenames of latest revisions.
// Fails with ErrNotFound when nothing matches and ErrAmbiguous when the
// fragment matches two or more identities.
func (s *SFTService) Resolve(term string) (*model.Revision, error) {
	if _, err := uuid.Parse(term); err == nil {
		rev, err := s.registry.LatestRevision(term)
		if err != nil {
			return nil, fmt.Errorf("resolving identity: %w", err)
		}
		if rev == nil {
			return nil, fmt.Errorf("identity %s: %w", term, ErrNotFound)
		}
		return rev, nil
	}

	matches, err := s.registry.SearchLatestByFilename(term)
	if err != nil {
		return nil, fmt.Errorf("searching by filename: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no file matches %q: %w", term, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = fmt.Sprintf("%s (%s)", m.OriginalFilename, m.Identity)
		}
		return nil, fmt.Errorf("%q matches %s: %w", term, strings.Join(names, ", "), ErrAmbiguous)
	}
}

// Find returns every latest revision whose filename contains the term, or
// the single identity when the term is a literal identity. Unlike Resolve
// it never fails on multiple matches; the CLI renders the whole list.
func (s *SFTService) Find(term string) ([]*model.Revision, error) {
	if _, err := uuid.Parse(term); err == nil {
		rev, err := s.registry.LatestRevision(term)
		if err != nil {
			return nil, fmt.Errorf("resolving identity: %w", err)
		}
		if rev == nil {
			return nil, nil
		}
		return []*model.Revision{rev}, nil
	}
	matches, err := s.registry.SearchLatestByFilename(term)
	if err != nil {
		return nil, fmt.Errorf("searching by filename: %w", err)
	}
	return matches, nil
}

// List returns the latest revision of every identity. When includeDeleted
// is false, soft-deleted identities are filtered out.
func (s *SFTService) List(includeDeleted bool) ([]*model.Revision, error) {
	revs, err := s.registry.AllLatestRevisions()
	if err != nil {
		return nil, fmt.Errorf("listing identities: %w", err)
	}
	if includeDeleted {
		return revs, nil
	}
	active := revs[:0]
	for _, rev := range revs {
		if !rev.Deleted() {
			active = append(active, rev)
		}
	}
	return active, nil
}
