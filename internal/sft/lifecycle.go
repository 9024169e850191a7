package sft

import (
	"fmt"
	"path/filepath"

	"sft-go/internal/model"
)

// movedFile records one physical move so a failed lifecycle operation can
// be compensated by moving everything back.
type movedFile struct {
	from string
	to   string
}

// SoftDelete trashes an identity: every revision's archived file moves
// into the trash subtree, the projection symlink is removed, and finally
// the status on the latest revision flips active -> deleted.
//
// The database write is the last step. If any filesystem step fails, the
// moves already made are undone and the status is never touched; if the
// status write itself fails, the files move back and the projection is
// recreated. The one state this operation never leaves behind is a
// deleted flag that disagrees with where the bytes actually live.
func (s *SFTService) SoftDelete(term string) error {
	latest, err := s.Resolve(term)
	if err != nil {
		return err
	}
	if latest.Deleted() {
		return fmt.Errorf("identity %s: %w", latest.Identity, ErrAlreadyDeleted)
	}

	revs, err := s.registry.Revisions(latest.Identity)
	if err != nil {
		return fmt.Errorf("loading revisions: %w", err)
	}

	// Phase 1: move every archived revision into the trash.
	var moved []movedFile
	for _, rev := range revs {
		exists, err := s.fsmgr.Exists(rev.ArchivePath)
		if err != nil {
			s.undoMoves(moved)
			return fmt.Errorf("checking %s: %w: %w", rev.ArchivePath, ErrIO, err)
		}
		if !exists {
			// Already gone from the archive; nothing to trash for this
			// revision.
			s.logger.Warn("archive file missing during delete", "identity", rev.Identity, "revision", rev.Revision)
			continue
		}

		dest, err := s.trashDestination(rev)
		if err != nil {
			s.undoMoves(moved)
			return fmt.Errorf("choosing trash location: %w: %w", ErrIO, err)
		}
		if err := s.fsmgr.MoveFile(rev.ArchivePath, dest); err != nil {
			s.undoMoves(moved)
			return fmt.Errorf("moving %s to trash: %w: %w", rev.ArchivePath, ErrIO, err)
		}
		moved = append(moved, movedFile{from: rev.ArchivePath, to: dest})
	}

	// Phase 2: drop the projection.
	entry := s.projectionFor(latest)
	if err := s.removeProjection(entry); err != nil {
		s.undoMoves(moved)
		return err
	}

	// Phase 3: commit the status flip. Compensate everything on failure.
	ok, err := s.registry.UpdateStatus(latest.Identity, latest.Revision, model.StatusActive, model.StatusDeleted)
	if err != nil || !ok {
		s.undoMoves(moved)
		if projErr := s.writeProjection(entry); projErr != nil {
			s.logger.Error("projection not restored after failed delete", "identity", latest.Identity, "error", projErr)
		}
		if err != nil {
			return fmt.Errorf("marking deleted: %w", err)
		}
		return fmt.Errorf("identity %s changed concurrently: %w", latest.Identity, ErrStore)
	}

	s.logger.Info("identity soft-deleted", "identity", latest.Identity, "files", len(moved))
	return nil
}

// Restore is the inverse of SoftDelete: archived files move back out of
// the trash, the status flips deleted -> active, and the projection is
// recreated. Fails with ErrNotDeleted if the identity is not deleted.
func (s *SFTService) Restore(term string) error {
	latest, err := s.Resolve(term)
	if err != nil {
		return err
	}
	if !latest.Deleted() {
		return fmt.Errorf("identity %s: %w", latest.Identity, ErrNotDeleted)
	}

	revs, err := s.registry.Revisions(latest.Identity)
	if err != nil {
		return fmt.Errorf("loading revisions: %w", err)
	}

	var moved []movedFile
	for _, rev := range revs {
		trashPath, err := s.findInTrash(rev)
		if err != nil {
			s.undoMoves(moved)
			return err
		}
		if trashPath == "" {
			s.logger.Warn("trashed file missing during restore", "identity", rev.Identity, "revision", rev.Revision)
			continue
		}
		if err := s.fsmgr.MoveFile(trashPath, rev.ArchivePath); err != nil {
			s.undoMoves(moved)
			return fmt.Errorf("moving %s out of trash: %w: %w", trashPath, ErrIO, err)
		}
		moved = append(moved, movedFile{from: trashPath, to: rev.ArchivePath})
	}

	ok, err := s.registry.UpdateStatus(latest.Identity, latest.Revision, model.StatusDeleted, model.StatusActive)
	if err != nil || !ok {
		s.undoMoves(moved)
		if err != nil {
			return fmt.Errorf("marking active: %w", err)
		}
		return fmt.Errorf("identity %s changed concurrently: %w", latest.Identity, ErrStore)
	}

	if err := s.ensureProjection(latest); err != nil {
		// Status and bytes already agree; the symlink is repairable.
		s.logger.Warn("projection not recreated, run repair", "identity", latest.Identity, "error", err)
	}

	s.logger.Info("identity restored", "identity", latest.Identity, "files", len(moved))
	return nil
}

// undoMoves reverses completed moves, newest first. Failures are logged;
// there is nothing further to fall back to.
func (s *SFTService) undoMoves(moved []movedFile) {
	for i := len(moved) - 1; i >= 0; i-- {
		m := moved[i]
		if err := s.fsmgr.MoveFile(m.to, m.from); err != nil {
			s.logger.Error("compensating move failed", "from", m.to, "to", m.from, "error", err)
		}
	}
}

// trashDestination picks a free trash path for a revision's file,
// appending a numeric suffix when the name is taken.
func (s *SFTService) trashDestination(rev *model.Revision) (string, error) {
	base := filepath.Base(rev.ArchivePath)
	dir := s.layout.TrashSubtree(rev.Category.Subtree())

	candidate := filepath.Join(dir, base)
	for n := 1; ; n++ {
		exists, err := s.fsmgr.Exists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s.%d", base, n))
	}
}

// findInTrash locates a revision's file inside the trash subtree: the
// plain basename first, then the oldest numeric-suffix variant. Returns
// "" when nothing matches.
func (s *SFTService) findInTrash(rev *model.Revision) (string, error) {
	base := filepath.Base(rev.ArchivePath)
	dir := s.layout.TrashSubtree(rev.Category.Subtree())

	exists, err := s.fsmgr.Exists(filepath.Join(dir, base))
	if err != nil {
		return "", fmt.Errorf("checking trash: %w: %w", ErrIO, err)
	}
	if exists {
		return filepath.Join(dir, base), nil
	}

	names, err := s.fsmgr.ListDir(dir)
	if err != nil {
		return "", fmt.Errorf("listing trash: %w: %w", ErrIO, err)
	}
	for _, name := range names {
		if len(name) > len(base) && name[:len(base)+1] == base+"." {
			return filepath.Join(dir, name), nil
		}
	}
	return "", nil
}
