package sft

import (
	"fmt"
	"path/filepath"
	"strings"

	"sft-go/internal/model"
)

// Ingest brings a new file under tracking: mints an identity, moves the
// bytes into the category's archive subtree, writes revision 1, and
// projects the identity into the symlink tree.
//
// The filesystem write happens first and the database insert last; if the
// insert fails the archived copy is moved back so no bytes are stranded
// without a row.
func (s *SFTService) Ingest(src *Path) (*model.Revision, error) {
	if src.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", src.String())
	}

	originalName := filepath.Base(src.String())
	category := CategoryForFilename(originalName)

	hash, _, err := s.fsmgr.HashFile(src.String())
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w: %w", src.String(), ErrIO, err)
	}

	dest := s.archiveDestination(category.Subtree(), originalName)
	if err := s.fsmgr.MoveFile(src.String(), dest); err != nil {
		return nil, fmt.Errorf("moving into archive: %w: %w", ErrIO, err)
	}

	rev := &model.Revision{
		Identity:         s.idgen.New(),
		Revision:         1,
		OriginalFilename: originalName,
		Category:         category,
		ArchivePath:      dest,
		ContentHash:      hash,
		Tags:             []string{},
		Status:           model.StatusActive,
		CreatedAt:        s.clock.Now(),
	}

	if err := s.registry.InsertRevision(rev); err != nil {
		// Put the file back where it came from; a row-less archive copy
		// is invisible to every other component.
		if mvErr := s.fsmgr.MoveFile(dest, src.String()); mvErr != nil {
			s.logger.Error("compensating move failed, file stranded in archive",
				"path", dest, "error", mvErr)
		}
		return nil, fmt.Errorf("recording revision: %w", err)
	}

	if err := s.ensureProjection(rev); err != nil {
		// The row is authoritative; a missing symlink is repairable via
		// the reconciliation engine.
		s.logger.Warn("projection not created, run repair", "identity", rev.Identity, "error", err)
	}

	s.logger.Info("file ingested", "identity", rev.Identity, "filename", originalName, "category", string(category))
	return rev, nil
}

// AddRevision appends a new revision of an existing identity from the file
// at src. The revision number is assigned atomically in the store; the
// identity's filename, category, notes, and tags carry forward.
// Fails with ErrNotFound if the identity is unknown.
func (s *SFTService) AddRevision(identity string, src *Path) (*model.Revision, error) {
	if src.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", src.String())
	}

	latest, err := s.registry.LatestRevision(identity)
	if err != nil {
		return nil, fmt.Errorf("finding latest revision: %w", err)
	}
	if latest == nil {
		return nil, fmt.Errorf("identity %s: %w", identity, ErrNotFound)
	}

	hash, _, err := s.fsmgr.HashFile(src.String())
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w: %w", src.String(), ErrIO, err)
	}

	dest := s.archiveDestination(latest.Category.Subtree(), latest.OriginalFilename)
	if err := s.fsmgr.MoveFile(src.String(), dest); err != nil {
		return nil, fmt.Errorf("moving into archive: %w: %w", ErrIO, err)
	}

	rev, err := s.registry.InsertNextRevision(identity, dest, hash, s.clock.Now())
	if err != nil {
		if mvErr := s.fsmgr.MoveFile(dest, src.String()); mvErr != nil {
			s.logger.Error("compensating move failed, file stranded in archive",
				"path", dest, "error", mvErr)
		}
		return nil, fmt.Errorf("recording revision: %w", err)
	}
	if rev == nil {
		// The identity vanished between the lookup and the insert.
		if mvErr := s.fsmgr.MoveFile(dest, src.String()); mvErr != nil {
			s.logger.Error("compensating move failed, file stranded in archive",
				"path", dest, "error", mvErr)
		}
		return nil, fmt.Errorf("identity %s: %w", identity, ErrNotFound)
	}

	// Re-point the projection at the new revision's bytes.
	if !rev.Deleted() {
		if err := s.ensureProjection(rev); err != nil {
			s.logger.Warn("projection not updated, run repair", "identity", rev.Identity, "error", err)
		}
	}

	s.logger.Info("revision added", "identity", rev.Identity, "revision", rev.Revision)
	return rev, nil
}

// UpdateFromFile appends a revision to the identity whose original
// filename exactly matches the basename of src. This is the update-folder
// flow used by the ingestion watcher. Fails with ErrNotFound when no
// identity carries that filename and ErrAmbiguous when several do.
func (s *SFTService) UpdateFromFile(src *Path) (*model.Revision, error) {
	name := filepath.Base(src.String())

	matches, err := s.registry.SearchLatestByFilename(name)
	if err != nil {
		return nil, fmt.Errorf("searching by filename: %w", err)
	}

	var exact []*model.Revision
	for _, m := range matches {
		if strings.EqualFold(m.OriginalFilename, name) {
			exact = append(exact, m)
		}
	}

	switch len(exact) {
	case 0:
		return nil, fmt.Errorf("no tracked file named %q: %w", name, ErrNotFound)
	case 1:
		return s.AddRevision(exact[0].Identity, src)
	default:
		return nil, fmt.Errorf("%d identities named %q: %w", len(exact), name, ErrAmbiguous)
	}
}

// Checkout copies the latest revision of a file out of the archive into
// destDir under a barcode filename that embeds the identity:
// name._._.<identity>.-.-.ext. Returns the written path.
func (s *SFTService) Checkout(term string, destDir string) (string, error) {
	rev, err := s.Resolve(term)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(destDir, barcodeFilename(rev.OriginalFilename, rev.Identity))
	if err := s.fsmgr.CopyFile(rev.ArchivePath, dest); err != nil {
		return "", fmt.Errorf("copying out of archive: %w: %w", ErrIO, err)
	}

	s.logger.Info("file checked out", "identity", rev.Identity, "dest", dest)
	return dest, nil
}

// barcodeFilename embeds the identity into an exported filename so a later
// re-ingest can be matched back to its identity by eye or by script.
func barcodeFilename(originalName, identity string) string {
	ext := filepath.Ext(originalName)
	if ext == "" {
		return fmt.Sprintf("%s._._.%s", originalName, identity)
	}
	stem := originalName[:len(originalName)-len(ext)]
	return fmt.Sprintf("%s._._.%s.-.-.%s", stem, identity, strings.TrimPrefix(ext, "."))
}
