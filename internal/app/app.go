package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sft-go/internal/config"
	"sft-go/internal/database"
	"sft-go/internal/fs"
	"sft-go/internal/model"
	"sft-go/internal/sft"
)

// migrator is implemented by registries backed by a migratable store.
type migrator interface {
	CheckMigrations() error
	MigrateUp() error
}

// SFTApp is the application layer between the CLI and SFTService.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string arguments, and manages the DB lifecycle on Close.
type SFTApp struct {
	cfg      *config.Config
	registry sft.Registry
	fsmgr    sft.FilesystemManager
	service  *sft.SFTService
	op       *RegistryOperation
	clock    sft.Clock
	logger   sft.Logger
	logFile  *os.File
}

// NewSFTApp creates a fully wired SFTApp from the given config.
// operation identifies the CLI command being run (e.g. "Ingest", "SoftDelete").
// The caller must call Close when done.
func NewSFTApp(cfg *config.Config, operation string) (*SFTApp, error) {
	fsmgr := fs.NewOSFilesystemManager()

	registry, err := database.NewRegistryFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating registry database: %w", err)
	}

	if m, ok := registry.(migrator); ok {
		if err := m.CheckMigrations(); err != nil {
			registry.Close()
			return nil, fmt.Errorf("database schema out of date: %w", err)
		}
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		registry.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	layout := sft.Layout{
		ArchiveDir: cfg.ArchiveDir,
		SymlinkDir: cfg.SymlinkDir,
		TrashDir:   cfg.TrashDir,
	}
	adapter := &slogAdapter{l: logger}
	svc := sft.NewSFTService(registry, fsmgr, layout, adapter, sft.RealClock{}, sft.UUIDv7Generator{})
	op := NewRegistryOperation(operation, "")

	return &SFTApp{
		cfg:      cfg,
		registry: registry,
		fsmgr:    fsmgr,
		service:  svc,
		op:       op,
		clock:    sft.RealClock{},
		logger:   adapter,
		logFile:  logFile,
	}, nil
}

// Logger exposes the app's structured logger for long-running callers
// like the watch command.
func (a *SFTApp) Logger() sft.Logger {
	return a.logger
}

// Service exposes the underlying service for callers that drive it
// directly, such as the ingest watcher.
func (a *SFTApp) Service() *sft.SFTService {
	return a.service
}

// Config returns the configuration the app was built from.
func (a *SFTApp) Config() *config.Config {
	return a.cfg
}

// persistOperation saves the registry operation to the database, giving it
// an auto-increment ID. This should only be called for mutating commands.
func (a *SFTApp) persistOperation(parameters string) error {
	if a.op.Persisted() {
		return nil // already persisted
	}
	a.op.Parameters = parameters
	dbOp, err := a.registry.CreateOperation(a.op.Operation, parameters, a.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("persisting registry operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// MarkFailed records that the current operation ended in error.
func (a *SFTApp) MarkFailed() {
	a.op.Status = "error"
}

// Ingest resolves the given path and brings the file under management.
func (a *SFTApp) Ingest(rawPath string) (*model.Revision, error) {
	if err := a.persistOperation(rawPath); err != nil {
		return nil, err
	}
	p, err := a.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if p.IsDir() {
		return nil, fmt.Errorf("cannot ingest a directory: %s", p.String())
	}
	return a.service.Ingest(p)
}

// AddRevision resolves the given path and archives it as the next revision
// of the identity named by term.
func (a *SFTApp) AddRevision(term, rawPath string) (*model.Revision, error) {
	if err := a.persistOperation(term); err != nil {
		return nil, err
	}
	rev, err := a.service.Resolve(term)
	if err != nil {
		return nil, err
	}
	p, err := a.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if p.IsDir() {
		return nil, fmt.Errorf("cannot archive a directory: %s", p.String())
	}
	return a.service.AddRevision(rev.Identity, p)
}

// UpdateFromFile archives a new revision of the identity whose original
// filename exactly matches the file's name.
func (a *SFTApp) UpdateFromFile(rawPath string) (*model.Revision, error) {
	if err := a.persistOperation(rawPath); err != nil {
		return nil, err
	}
	p, err := a.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if p.IsDir() {
		return nil, fmt.Errorf("cannot archive a directory: %s", p.String())
	}
	return a.service.UpdateFromFile(p)
}

// Checkout copies the latest revision into destDir under a barcode filename
// that carries the identity, and returns the written path.
func (a *SFTApp) Checkout(term, destDir string) (string, error) {
	return a.service.Checkout(term, destDir)
}

// Resolve finds exactly one identity by identity string or filename fragment.
func (a *SFTApp) Resolve(term string) (*model.Revision, error) {
	return a.service.Resolve(term)
}

// Find returns all latest revisions matching the term.
func (a *SFTApp) Find(term string) ([]*model.Revision, error) {
	return a.service.Find(term)
}

// List returns the latest revision of every identity.
func (a *SFTApp) List(includeDeleted bool) ([]*model.Revision, error) {
	return a.service.List(includeDeleted)
}

// History returns every revision of an identity, oldest first.
func (a *SFTApp) History(term string) ([]*model.Revision, error) {
	return a.service.History(term)
}

// Diff compares two revisions of an identity.
func (a *SFTApp) Diff(term string, revA, revB int64) (*sft.RevisionDiff, error) {
	return a.service.Diff(term, revA, revB)
}

// SetNotes replaces the notes on the latest revision of an identity.
func (a *SFTApp) SetNotes(term, notes string) (*model.Revision, error) {
	if err := a.persistOperation(term); err != nil {
		return nil, err
	}
	return a.service.SetNotes(term, notes)
}

// AddTags merges tags into the latest revision's tag set.
func (a *SFTApp) AddTags(term string, tags []string) (*model.Revision, error) {
	if err := a.persistOperation(term); err != nil {
		return nil, err
	}
	return a.service.AddTags(term, tags)
}

// RemoveTags removes tags from the latest revision's tag set.
func (a *SFTApp) RemoveTags(term string, tags []string) (*model.Revision, error) {
	if err := a.persistOperation(term); err != nil {
		return nil, err
	}
	return a.service.RemoveTags(term, tags)
}

// CreateLink records a directed link between two identities.
func (a *SFTApp) CreateLink(sourceTerm, targetTerm, notes string) (*model.Link, error) {
	if err := a.persistOperation(sourceTerm + " -> " + targetTerm); err != nil {
		return nil, err
	}
	return a.service.CreateLink(sourceTerm, targetTerm, notes)
}

// RemoveLink deletes the link between two identities.
func (a *SFTApp) RemoveLink(sourceTerm, targetTerm string) error {
	if err := a.persistOperation(sourceTerm + " -> " + targetTerm); err != nil {
		return err
	}
	return a.service.RemoveLink(sourceTerm, targetTerm)
}

// OutgoingLinks returns links originating at the identity, with the target's
// latest revision attached.
func (a *SFTApp) OutgoingLinks(term string) ([]*sft.LinkedRevision, error) {
	return a.service.OutgoingLinks(term)
}

// IncomingLinks returns links pointing at the identity, with the source's
// latest revision attached.
func (a *SFTApp) IncomingLinks(term string) ([]*sft.LinkedRevision, error) {
	return a.service.IncomingLinks(term)
}

// AllLinksFor returns both the outgoing and incoming links of an identity.
func (a *SFTApp) AllLinksFor(term string) (outgoing, incoming []*sft.LinkedRevision, err error) {
	return a.service.AllLinksFor(term)
}

// SetLinkNotes replaces the notes on a link.
func (a *SFTApp) SetLinkNotes(sourceTerm, targetTerm, notes string) (*model.Link, error) {
	if err := a.persistOperation(sourceTerm + " -> " + targetTerm); err != nil {
		return nil, err
	}
	return a.service.SetLinkNotes(sourceTerm, targetTerm, notes)
}

// TagLink merges tags into a link's tag set.
func (a *SFTApp) TagLink(sourceTerm, targetTerm string, tags []string) (*model.Link, error) {
	if err := a.persistOperation(sourceTerm + " -> " + targetTerm); err != nil {
		return nil, err
	}
	return a.service.TagLink(sourceTerm, targetTerm, tags)
}

// UntagLink removes tags from a link's tag set.
func (a *SFTApp) UntagLink(sourceTerm, targetTerm string, tags []string) (*model.Link, error) {
	if err := a.persistOperation(sourceTerm + " -> " + targetTerm); err != nil {
		return nil, err
	}
	return a.service.UntagLink(sourceTerm, targetTerm, tags)
}

// Trace finds the shortest link path between two identities and assembles
// the annotated thread along it.
func (a *SFTApp) Trace(startTerm, endTerm string) ([]*sft.ThreadEntry, error) {
	return a.service.Trace(startTerm, endTerm)
}

// SoftDelete retires an identity: its files move to trash, its projection
// disappears, and its status flips to deleted.
func (a *SFTApp) SoftDelete(term string) error {
	if err := a.persistOperation(term); err != nil {
		return err
	}
	return a.service.SoftDelete(term)
}

// Restore brings a soft-deleted identity back from trash.
func (a *SFTApp) Restore(term string) error {
	if err := a.persistOperation(term); err != nil {
		return err
	}
	return a.service.Restore(term)
}

// Audit reconciles the projection against the registry without fixing
// anything.
func (a *SFTApp) Audit() (*sft.AuditReport, error) {
	return a.service.Audit()
}

// Repair reconciles the projection and rewrites every divergent symlink.
func (a *SFTApp) Repair() (*sft.AuditReport, error) {
	if err := a.persistOperation(""); err != nil {
		return nil, err
	}
	return a.service.Repair()
}

// Stats returns registry-wide counts and the archive's physical size.
func (a *SFTApp) Stats() (*sft.ArchiveStats, error) {
	return a.service.Stats()
}

// ListOperations returns the most recent journal entries, newest first.
func (a *SFTApp) ListOperations(limit int) ([]*model.Operation, error) {
	return a.registry.ListOperations(limit)
}

// Close finalizes the operation journal entry and closes all resources.
func (a *SFTApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.registry.FinishOperation(a.op.ID, a.op.Status, a.clock.Now().UTC()); err != nil {
			firstErr = fmt.Errorf("finishing registry operation: %w", err)
		}
	}

	if err := a.registry.Close(); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("closing registry database: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

// InitializeBase creates the on-disk layout for a fresh installation and
// brings the database schema up to date.
func InitializeBase(cfg *config.Config) error {
	dirs := []string{
		cfg.BaseDir,
		cfg.ArchiveDir,
		cfg.SymlinkDir,
		cfg.TrashDir,
		cfg.IngestDir,
		cfg.UpdateDir,
		cfg.LogDir,
	}
	if cfg.Database.Type == "sqlite" {
		dirs = append(dirs, cfg.Database.DataDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	// Pre-create the category subtrees so a fresh base is fully laid out
	// before the first ingest.
	for _, cat := range model.Categories {
		for _, root := range []string{cfg.ArchiveDir, cfg.SymlinkDir, cfg.TrashDir} {
			dir := filepath.Join(root, cat.Subtree())
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
		}
	}

	registry, err := database.NewRegistryFromConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("creating registry database: %w", err)
	}
	defer registry.Close()

	if m, ok := registry.(migrator); ok {
		if err := m.MigrateUp(); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
	}
	return nil
}
