package sft

import (
	"fmt"

	"sft-go/internal/model"
)

// LinkedRevision pairs a link with the latest revision of its far
// endpoint: the target for outgoing queries, the source for incoming ones.
type LinkedRevision struct {
	Link     *model.Link
	Revision *model.Revision
}

// CreateLink draws a directed edge from the source identity to the target
// identity. Both terms resolve through Resolve, so filename fragments
// work. Fails with ErrSelfLink when both resolve to the same identity and
// ErrDuplicate when the ordered pair is already linked.
func (s *SFTService) CreateLink(sourceTerm, targetTerm, notes string) (*model.Link, error) {
	source, err := s.Resolve(sourceTerm)
	if err != nil {
		return nil, fmt.Errorf("resolving source: %w", err)
	}
	target, err := s.Resolve(targetTerm)
	if err != nil {
		return nil, fmt.Errorf("resolving target: %w", err)
	}
	if source.Identity == target.Identity {
		return nil, fmt.Errorf("%s: %w", source.Identity, ErrSelfLink)
	}

	link := &model.Link{
		Source:    source.Identity,
		Target:    target.Identity,
		Notes:     notes,
		Tags:      []string{},
		CreatedAt: s.clock.Now(),
	}
	if err := s.registry.InsertLink(link); err != nil {
		return nil, fmt.Errorf("creating link: %w", err)
	}

	s.logger.Info("link created", "source", link.Source, "target", link.Target)
	return link, nil
}

// RemoveLink deletes the edge for the ordered (source, target) pair.
// Fails with ErrNotFound if no such edge exists.
func (s *SFTService) RemoveLink(sourceTerm, targetTerm string) error {
	source, err := s.Resolve(sourceTerm)
	if err != nil {
		return fmt.Errorf("resolving source: %w", err)
	}
	target, err := s.Resolve(targetTerm)
	if err != nil {
		return fmt.Errorf("resolving target: %w", err)
	}

	removed, err := s.registry.DeleteLink(source.Identity, target.Identity)
	if err != nil {
		return fmt.Errorf("removing link: %w", err)
	}
	if !removed {
		return fmt.Errorf("no link from %s to %s: %w", source.Identity, target.Identity, ErrNotFound)
	}

	s.logger.Info("link removed", "source", source.Identity, "target", target.Identity)
	return nil
}

// OutgoingLinks returns the edges leaving the resolved identity paired
// with each target's latest revision, most recently created first.
func (s *SFTService) OutgoingLinks(term string) ([]*LinkedRevision, error) {
	rev, err := s.Resolve(term)
	if err != nil {
		return nil, err
	}
	links, err := s.registry.LinksFrom(rev.Identity)
	if err != nil {
		return nil, fmt.Errorf("loading outgoing links: %w", err)
	}
	return s.attachEndpoints(links, func(l *model.Link) string { return l.Target })
}

// IncomingLinks is the inverse query: edges pointing at the resolved
// identity paired with each source's latest revision, newest first.
func (s *SFTService) IncomingLinks(term string) ([]*LinkedRevision, error) {
	rev, err := s.Resolve(term)
	if err != nil {
		return nil, err
	}
	links, err := s.registry.LinksTo(rev.Identity)
	if err != nil {
		return nil, fmt.Errorf("loading incoming links: %w", err)
	}
	return s.attachEndpoints(links, func(l *model.Link) string { return l.Source })
}

// attachEndpoints loads the latest revision of each link's far endpoint.
// A link whose endpoint was soft-deleted stays in the result; the edge
// remains valid even when its endpoint is trashed.
func (s *SFTService) attachEndpoints(links []*model.Link, endpoint func(*model.Link) string) ([]*LinkedRevision, error) {
	out := make([]*LinkedRevision, 0, len(links))
	for _, link := range links {
		rev, err := s.registry.LatestRevision(endpoint(link))
		if err != nil {
			return nil, fmt.Errorf("loading endpoint %s: %w", endpoint(link), err)
		}
		out = append(out, &LinkedRevision{Link: link, Revision: rev})
	}
	return out, nil
}

// SetLinkNotes replaces the notes on an existing link.
func (s *SFTService) SetLinkNotes(sourceTerm, targetTerm, notes string) (*model.Link, error) {
	link, err := s.findLink(sourceTerm, targetTerm)
	if err != nil {
		return nil, err
	}
	if err := s.registry.UpdateLinkNotes(link.Source, link.Target, notes); err != nil {
		return nil, fmt.Errorf("updating link notes: %w", err)
	}
	link.Notes = notes
	return link, nil
}

// TagLink merges tags into an existing link's tag set; duplicates collapse.
func (s *SFTService) TagLink(sourceTerm, targetTerm string, tags []string) (*model.Link, error) {
	link, err := s.findLink(sourceTerm, targetTerm)
	if err != nil {
		return nil, err
	}
	merged := model.MergeTags(link.Tags, tags)
	if err := s.registry.UpdateLinkTags(link.Source, link.Target, merged); err != nil {
		return nil, fmt.Errorf("updating link tags: %w", err)
	}
	link.Tags = merged
	return link, nil
}

// UntagLink removes tags from an existing link's tag set; tags not present
// are silently ignored.
func (s *SFTService) UntagLink(sourceTerm, targetTerm string, tags []string) (*model.Link, error) {
	link, err := s.findLink(sourceTerm, targetTerm)
	if err != nil {
		return nil, err
	}
	remaining := model.SubtractTags(link.Tags, tags)
	if err := s.registry.UpdateLinkTags(link.Source, link.Target, remaining); err != nil {
		return nil, fmt.Errorf("updating link tags: %w", err)
	}
	link.Tags = remaining
	return link, nil
}

func (s *SFTService) findLink(sourceTerm, targetTerm string) (*model.Link, error) {
	source, err := s.Resolve(sourceTerm)
	if err != nil {
		return nil, fmt.Errorf("resolving source: %w", err)
	}
	target, err := s.Resolve(targetTerm)
	if err != nil {
		return nil, fmt.Errorf("resolving target: %w", err)
	}
	link, err := s.registry.FindLink(source.Identity, target.Identity)
	if err != nil {
		return nil, fmt.Errorf("finding link: %w", err)
	}
	if link == nil {
		return nil, fmt.Errorf("no link from %s to %s: %w", source.Identity, target.Identity, ErrNotFound)
	}
	return link, nil
}

// AllLinksFor returns both sides of an identity's neighborhood in one
// call: the edges leaving it and the edges pointing at it, each newest
// first. This is the operation behind the CLI all-links command.
func (s *SFTService) AllLinksFor(term string) (outgoing, incoming []*LinkedRevision, err error) {
	rev, err := s.Resolve(term)
	if err != nil {
		return nil, nil, err
	}

	from, err := s.registry.LinksFrom(rev.Identity)
	if err != nil {
		return nil, nil, fmt.Errorf("loading outgoing links: %w", err)
	}
	outgoing, err = s.attachEndpoints(from, func(l *model.Link) string { return l.Target })
	if err != nil {
		return nil, nil, err
	}

	to, err := s.registry.LinksTo(rev.Identity)
	if err != nil {
		return nil, nil, fmt.Errorf("loading incoming links: %w", err)
	}
	incoming, err = s.attachEndpoints(to, func(l *model.Link) string { return l.Source })
	if err != nil {
		return nil, nil, err
	}

	return outgoing, incoming, nil
}
