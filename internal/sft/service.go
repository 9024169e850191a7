package sft

import (
	"fmt"
	"path/filepath"
)

// Layout describes where the registry keeps physical files on disk.
// Each category owns a subtree under ArchiveDir (the bytes of record),
// SymlinkDir (the filesystem projection), and TrashDir (soft-deleted
// files).
type Layout struct {
	ArchiveDir string
	SymlinkDir string
	TrashDir   string
}

// ArchiveSubtree returns the archive directory for a category.
func (l Layout) ArchiveSubtree(subtree string) string {
	return filepath.Join(l.ArchiveDir, subtree)
}

// SymlinkSubtree returns the projection directory for a category.
func (l Layout) SymlinkSubtree(subtree string) string {
	return filepath.Join(l.SymlinkDir, subtree)
}

// TrashSubtree returns the trash directory for a category.
func (l Layout) TrashSubtree(subtree string) string {
	return filepath.Join(l.TrashDir, subtree)
}

// SFTService is the orchestration layer that coordinates the registry,
// the filesystem, and the projection to perform the high-level operations
// needed by the CLI and the ingestion watcher.
type SFTService struct {
	registry Registry
	fsmgr    FilesystemManager
	layout   Layout
	logger   Logger
	clock    Clock
	idgen    IDGenerator
}

// NewSFTService creates a new SFTService with the provided dependencies.
func NewSFTService(registry Registry, fsmgr FilesystemManager, layout Layout, logger Logger, clock Clock, idgen IDGenerator) *SFTService {
	return &SFTService{
		registry: registry,
		fsmgr:    fsmgr,
		layout:   layout,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
	}
}

// Layout returns the physical layout the service operates on.
func (s *SFTService) Layout() Layout {
	return s.layout
}

// archiveDestination builds the archive path for a file being ingested or
// updated: <archive>/<subtree>/<unix-ts>_<original name>.
func (s *SFTService) archiveDestination(subtree, originalName string) string {
	name := fmt.Sprintf("%d_%s", s.clock.Now().Unix(), originalName)
	return filepath.Join(s.layout.ArchiveSubtree(subtree), name)
}
