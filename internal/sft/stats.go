package sft

import (
	"fmt"

	"sft-go/internal/model"
)

// ArchiveStats extends the registry counts with the physical footprint of
// the archived latest revisions.
type ArchiveStats struct {
	*model.RegistryStats
	ArchiveBytes int64 // bytes held by latest revisions still on disk
}

// Stats gathers registry-wide counts plus the archive footprint. The byte
// count walks only the enumerated latest revisions, one stat each, so the
// cost is bounded by the number of identities rather than filesystem size.
func (s *SFTService) Stats() (*ArchiveStats, error) {
	dbStats, err := s.registry.Stats()
	if err != nil {
		return nil, fmt.Errorf("collecting registry stats: %w", err)
	}

	stats := &ArchiveStats{RegistryStats: dbStats}

	revs, err := s.registry.AllLatestRevisions()
	if err != nil {
		return nil, fmt.Errorf("enumerating identities: %w", err)
	}
	for _, rev := range revs {
		if rev.Deleted() {
			continue
		}
		size, err := s.fsmgr.FileSize(rev.ArchivePath)
		if err != nil {
			// Missing archive files show up in the audit, not here.
			continue
		}
		stats.ArchiveBytes += size
	}

	return stats, nil
}
