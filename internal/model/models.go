package model

import (
	"sort"
	"time"
)

// Category classifies a file by its extension at ingest time.
// It determines which archive and projection subtree the bytes live under.
type Category string

const (
	CategoryText    Category = "TEXT"
	CategoryImages  Category = "IMAGES"
	CategoryAudio   Category = "AUDIO"
	CategoryBlobs   Category = "BLOBS"
	CategoryUnknown Category = "UNKNOWN"
)

// Categories lists every category that owns a physical subtree.
var Categories = []Category{CategoryText, CategoryImages, CategoryAudio, CategoryBlobs}

// Subtree returns the directory name a category's files live under.
// UNKNOWN has no subtree of its own; its files land in BLOBS.
func (c Category) Subtree() string {
	if c == CategoryUnknown {
		return string(CategoryBlobs)
	}
	return string(c)
}

// Status is the lifecycle state of an identity, recorded on its revisions.
// The only valid transitions are active -> deleted (soft delete) and
// deleted -> active (restore).
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Revision is one immutable, numbered snapshot of a tracked file.
// Identity and Revision together are unique; revision numbers per identity
// are a dense sequence starting at 1. Only Notes and Tags may change after
// the row is written. Status is carried on the row but owned by the
// lifecycle controller.
type Revision struct {
	Identity         string
	Revision         int64
	OriginalFilename string
	Category         Category
	ArchivePath      string
	ContentHash      string // SHA-256, lowercase hex
	Notes            string
	Tags             []string // sorted, unique
	Status           Status
	CreatedAt        time.Time
}

// Deleted reports whether this revision carries the deleted status.
func (r *Revision) Deleted() bool {
	return r.Status == StatusDeleted
}

// Link is a directed, annotated edge between two identities.
// At most one link exists per ordered (Source, Target) pair.
type Link struct {
	Source    string
	Target    string
	Notes     string
	Tags      []string // sorted, unique
	CreatedAt time.Time
}

// Operation is one journal entry for a mutating registry operation.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// RegistryStats summarizes the registry contents.
type RegistryStats struct {
	Identities        int64
	DeletedIdentities int64
	Revisions         int64
	Links             int64
	ByCategory        map[Category]int64 // non-deleted identities per category
}

// MergeTags returns the sorted union of existing and added tags.
// Duplicates collapse; tag sets stay canonical so equality checks are cheap.
func MergeTags(existing, added []string) []string {
	set := make(map[string]struct{}, len(existing)+len(added))
	for _, t := range existing {
		set[t] = struct{}{}
	}
	for _, t := range added {
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return sortedTags(set)
}

// SubtractTags returns existing minus removed, sorted. Tags not present
// are silently ignored.
func SubtractTags(existing, removed []string) []string {
	set := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		set[t] = struct{}{}
	}
	for _, t := range removed {
		delete(set, t)
	}
	return sortedTags(set)
}

// NormalizeTags returns a sorted, de-duplicated copy of tags with empty
// entries dropped.
func NormalizeTags(tags []string) []string {
	return MergeTags(nil, tags)
}

func sortedTags(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
