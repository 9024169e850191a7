package sft

import (
	"fmt"
	"time"

	"sft-go/internal/model"
)

// maxTraceDepth bounds path search to 10 edges. The graph is small and
// human-curated; anything longer than this has no value as a thread and
// the bound keeps cyclic graphs from exploding the frontier.
const maxTraceDepth = 10

// ThreadEntry is one step of an assembled trace: the identity's latest
// revision plus the notes of the link that led here (empty on the first
// step).
type ThreadEntry struct {
	Step      int
	Identity  string
	Revision  *model.Revision
	LinkNotes string
	LinkTags  []string
	LinkedAt  time.Time
}

// FindPath searches the directed link graph for a simple path from the
// start identity to the end identity using breadth-first search. Each
// frontier entry carries its own path, and a node already on that path is
// never re-entered, so cycles terminate naturally. Paths longer than
// maxTraceDepth edges are abandoned; exhausting the frontier yields
// ErrNotFound rather than a distinct error.
//
// Ties between equally short paths break toward the most recently created
// edge, because LinksFrom returns edges newest first. The order is
// arbitrary but deterministic.
func (s *SFTService) FindPath(startTerm, endTerm string) ([]string, error) {
	start, err := s.Resolve(startTerm)
	if err != nil {
		return nil, fmt.Errorf("resolving start: %w", err)
	}
	end, err := s.Resolve(endTerm)
	if err != nil {
		return nil, fmt.Errorf("resolving end: %w", err)
	}

	if start.Identity == end.Identity {
		return []string{start.Identity}, nil
	}

	type frontierEntry struct {
		identity string
		path     []string
	}

	queue := []frontierEntry{{identity: start.Identity, path: []string{start.Identity}}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if len(current.path)-1 >= maxTraceDepth {
			continue
		}

		links, err := s.registry.LinksFrom(current.identity)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", current.identity, err)
		}

		for _, link := range links {
			if onPath(current.path, link.Target) {
				continue
			}
			next := append(append([]string{}, current.path...), link.Target)
			if link.Target == end.Identity {
				return next, nil
			}
			queue = append(queue, frontierEntry{identity: link.Target, path: next})
		}
	}

	return nil, fmt.Errorf("no path from %s to %s within %d hops: %w",
		start.Identity, end.Identity, maxTraceDepth, ErrNotFound)
}

func onPath(path []string, identity string) bool {
	for _, p := range path {
		if p == identity {
			return true
		}
	}
	return false
}

// AssembleThread turns a path of identities into a chronological thread:
// each step carries the identity's latest revision and, from the second
// step on, the annotation of the link that was traversed to reach it.
func (s *SFTService) AssembleThread(path []string) ([]*ThreadEntry, error) {
	entries := make([]*ThreadEntry, 0, len(path))

	for i, identity := range path {
		rev, err := s.registry.LatestRevision(identity)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", identity, err)
		}
		if rev == nil {
			return nil, fmt.Errorf("identity %s: %w", identity, ErrNotFound)
		}

		entry := &ThreadEntry{
			Step:     i + 1,
			Identity: identity,
			Revision: rev,
		}

		if i > 0 {
			link, err := s.registry.FindLink(path[i-1], identity)
			if err != nil {
				return nil, fmt.Errorf("loading link %s -> %s: %w", path[i-1], identity, err)
			}
			if link == nil {
				return nil, fmt.Errorf("link %s -> %s: %w", path[i-1], identity, ErrNotFound)
			}
			entry.LinkNotes = link.Notes
			entry.LinkTags = link.Tags
			entry.LinkedAt = link.CreatedAt
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Trace finds a path between two files and assembles it into a thread in
// one call. This is the operation behind the CLI trace command.
func (s *SFTService) Trace(startTerm, endTerm string) ([]*ThreadEntry, error) {
	path, err := s.FindPath(startTerm, endTerm)
	if err != nil {
		return nil, err
	}
	return s.AssembleThread(path)
}
