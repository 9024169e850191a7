package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sft-go/internal/database/migrations"
	"sft-go/internal/model"
	"sft-go/internal/sft"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// RegistryDatabase implements the sft.Registry interface using SQLite.
type RegistryDatabase struct {
	db   *sql.DB
	path string
}

// NewRegistryDatabase creates a new SQLite registry connection.
// path can be a file path or ":memory:" for an in-memory database.
func NewRegistryDatabase(path string) (*RegistryDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &RegistryDatabase{db: db, path: path}, nil
}

// NewRegistryDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewRegistryDatabaseFromDB(db *sql.DB) *RegistryDatabase {
	return &RegistryDatabase{db: db}
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tools and tests that need a properly configured
// connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Foreign keys are OFF by default in SQLite for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	// Wait for locks instead of failing immediately when the watcher and
	// the CLI touch the registry at the same time.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// storeErr tags a failed statement with both a description and the
// ErrStore kind so callers can branch with errors.Is.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, sft.ErrStore, err)
}

// isConstraintErr reports whether err is a SQLite uniqueness/constraint
// violation.
func isConstraintErr(err error) bool {
	var sqlErr sqlite3.Error
	return errors.As(err, &sqlErr) && sqlErr.Code == sqlite3.ErrConstraint
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(raw), nil
}

func decodeTags(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	return tags, nil
}

// Revision rows

const revisionColumns = `identity, revision, original_filename, category, archive_path, content_hash, notes, tags, status, created_at`

func scanRevision(row interface{ Scan(...any) error }) (*model.Revision, error) {
	var rev model.Revision
	var category, status, tags string
	err := row.Scan(&rev.Identity, &rev.Revision, &rev.OriginalFilename, &category,
		&rev.ArchivePath, &rev.ContentHash, &rev.Notes, &tags, &status, &rev.CreatedAt)
	if err != nil {
		return nil, err
	}
	rev.Category = model.Category(category)
	rev.Status = model.Status(status)
	if rev.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	return &rev, nil
}

func (d *RegistryDatabase) InsertRevision(rev *model.Revision) error {
	tags, err := encodeTags(rev.Tags)
	if err != nil {
		return storeErr("inserting revision", err)
	}
	_, err = d.db.Exec(`
		INSERT INTO identity_revisions (`+revisionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rev.Identity, rev.Revision, rev.OriginalFilename, string(rev.Category),
		rev.ArchivePath, rev.ContentHash, rev.Notes, tags, string(rev.Status), rev.CreatedAt)
	if err != nil {
		if isConstraintErr(err) {
			return fmt.Errorf("revision %d of %s: %w", rev.Revision, rev.Identity, sft.ErrDuplicate)
		}
		return storeErr("inserting revision", err)
	}
	return nil
}

// InsertNextRevision assigns max(revision)+1 and inserts in one statement,
// carrying the identity's filename, category, notes, tags, and status
// forward from the current latest row. The single INSERT..SELECT keeps two
// concurrent callers from ever receiving the same number: the second
// insert sees the first one's row. SQLite's bare-column-with-MAX semantics
// pick the carried values from the max-revision row.
func (d *RegistryDatabase) InsertNextRevision(identity, archivePath, contentHash string, createdAt time.Time) (*model.Revision, error) {
	ctx := context.Background()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("starting transaction", err)
	}
	defer tx.Rollback()

	var assigned int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO identity_revisions (`+revisionColumns+`)
		SELECT identity, MAX(revision) + 1, original_filename, category, ?, ?, notes, tags, status, ?
		FROM identity_revisions
		WHERE identity = ?
		GROUP BY identity
		RETURNING revision`,
		archivePath, contentHash, createdAt, identity).Scan(&assigned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // identity unknown
		}
		return nil, storeErr("inserting next revision", err)
	}

	rev, err := scanRevision(tx.QueryRowContext(ctx, `
		SELECT `+revisionColumns+`
		FROM identity_revisions
		WHERE identity = ? AND revision = ?`, identity, assigned))
	if err != nil {
		return nil, storeErr("reading inserted revision", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("committing transaction", err)
	}
	return rev, nil
}

func (d *RegistryDatabase) LatestRevision(identity string) (*model.Revision, error) {
	rev, err := scanRevision(d.db.QueryRow(`
		SELECT `+revisionColumns+`
		FROM identity_revisions
		WHERE identity = ?
		ORDER BY revision DESC
		LIMIT 1`, identity))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, storeErr("finding latest revision", err)
	}
	return rev, nil
}

// latestQuery selects the max-revision row per identity.
const latestQuery = `
	SELECT r.identity, r.revision, r.original_filename, r.category, r.archive_path,
	       r.content_hash, r.notes, r.tags, r.status, r.created_at
	FROM identity_revisions r
	JOIN (
		SELECT identity, MAX(revision) AS max_revision
		FROM identity_revisions
		GROUP BY identity
	) latest ON r.identity = latest.identity AND r.revision = latest.max_revision`

func (d *RegistryDatabase) AllLatestRevisions() ([]*model.Revision, error) {
	rows, err := d.db.Query(latestQuery + `
	ORDER BY r.identity`)
	if err != nil {
		return nil, storeErr("listing latest revisions", err)
	}
	defer rows.Close()
	return collectRevisions(rows)
}

func (d *RegistryDatabase) SearchLatestByFilename(fragment string) ([]*model.Revision, error) {
	rows, err := d.db.Query(latestQuery+`
	WHERE r.original_filename LIKE ? COLLATE NOCASE
	ORDER BY r.identity`, "%"+fragment+"%")
	if err != nil {
		return nil, storeErr("searching by filename", err)
	}
	defer rows.Close()
	return collectRevisions(rows)
}

func (d *RegistryDatabase) Revisions(identity string) ([]*model.Revision, error) {
	rows, err := d.db.Query(`
		SELECT `+revisionColumns+`
		FROM identity_revisions
		WHERE identity = ?
		ORDER BY revision ASC`, identity)
	if err != nil {
		return nil, storeErr("loading revisions", err)
	}
	defer rows.Close()
	return collectRevisions(rows)
}

func collectRevisions(rows *sql.Rows) ([]*model.Revision, error) {
	var revs []*model.Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, storeErr("scanning revision", err)
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating revisions", err)
	}
	return revs, nil
}

func (d *RegistryDatabase) UpdateNotes(identity string, revision int64, notes string) error {
	res, err := d.db.Exec(`
		UPDATE identity_revisions SET notes = ?
		WHERE identity = ? AND revision = ?`, notes, identity, revision)
	if err != nil {
		return storeErr("updating notes", err)
	}
	return requireRow(res, identity)
}

func (d *RegistryDatabase) UpdateTags(identity string, revision int64, tags []string) error {
	encoded, err := encodeTags(tags)
	if err != nil {
		return storeErr("updating tags", err)
	}
	res, err := d.db.Exec(`
		UPDATE identity_revisions SET tags = ?
		WHERE identity = ? AND revision = ?`, encoded, identity, revision)
	if err != nil {
		return storeErr("updating tags", err)
	}
	return requireRow(res, identity)
}

func (d *RegistryDatabase) UpdateStatus(identity string, revision int64, from, to model.Status) (bool, error) {
	res, err := d.db.Exec(`
		UPDATE identity_revisions SET status = ?
		WHERE identity = ? AND revision = ? AND status = ?`,
		string(to), identity, revision, string(from))
	if err != nil {
		return false, storeErr("updating status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("updating status", err)
	}
	return n == 1, nil
}

func requireRow(res sql.Result, identity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("checking rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("identity %s: %w", identity, sft.ErrNotFound)
	}
	return nil
}

// Link rows

const linkColumns = `source, target, notes, tags, created_at`

func scanLink(row interface{ Scan(...any) error }) (*model.Link, error) {
	var link model.Link
	var tags string
	err := row.Scan(&link.Source, &link.Target, &link.Notes, &tags, &link.CreatedAt)
	if err != nil {
		return nil, err
	}
	if link.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	return &link, nil
}

func (d *RegistryDatabase) InsertLink(link *model.Link) error {
	tags, err := encodeTags(link.Tags)
	if err != nil {
		return storeErr("inserting link", err)
	}
	_, err = d.db.Exec(`
		INSERT INTO links (`+linkColumns+`)
		VALUES (?, ?, ?, ?, ?)`,
		link.Source, link.Target, link.Notes, tags, link.CreatedAt)
	if err != nil {
		if isConstraintErr(err) {
			return fmt.Errorf("link %s -> %s: %w", link.Source, link.Target, sft.ErrDuplicate)
		}
		return storeErr("inserting link", err)
	}
	return nil
}

func (d *RegistryDatabase) DeleteLink(source, target string) (bool, error) {
	res, err := d.db.Exec(`DELETE FROM links WHERE source = ? AND target = ?`, source, target)
	if err != nil {
		return false, storeErr("deleting link", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("deleting link", err)
	}
	return n > 0, nil
}

func (d *RegistryDatabase) FindLink(source, target string) (*model.Link, error) {
	link, err := scanLink(d.db.QueryRow(`
		SELECT `+linkColumns+`
		FROM links
		WHERE source = ? AND target = ?`, source, target))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, storeErr("finding link", err)
	}
	return link, nil
}

func (d *RegistryDatabase) LinksFrom(identity string) ([]*model.Link, error) {
	return d.queryLinks(`
		SELECT `+linkColumns+`
		FROM links
		WHERE source = ?
		ORDER BY created_at DESC, target`, identity)
}

func (d *RegistryDatabase) LinksTo(identity string) ([]*model.Link, error) {
	return d.queryLinks(`
		SELECT `+linkColumns+`
		FROM links
		WHERE target = ?
		ORDER BY created_at DESC, source`, identity)
}

func (d *RegistryDatabase) queryLinks(query, identity string) ([]*model.Link, error) {
	rows, err := d.db.Query(query, identity)
	if err != nil {
		return nil, storeErr("loading links", err)
	}
	defer rows.Close()

	var links []*model.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, storeErr("scanning link", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating links", err)
	}
	return links, nil
}

func (d *RegistryDatabase) UpdateLinkNotes(source, target, notes string) error {
	res, err := d.db.Exec(`
		UPDATE links SET notes = ?
		WHERE source = ? AND target = ?`, notes, source, target)
	if err != nil {
		return storeErr("updating link notes", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("updating link notes", err)
	}
	if n == 0 {
		return fmt.Errorf("link %s -> %s: %w", source, target, sft.ErrNotFound)
	}
	return nil
}

func (d *RegistryDatabase) UpdateLinkTags(source, target string, tags []string) error {
	encoded, err := encodeTags(tags)
	if err != nil {
		return storeErr("updating link tags", err)
	}
	res, err := d.db.Exec(`
		UPDATE links SET tags = ?
		WHERE source = ? AND target = ?`, encoded, source, target)
	if err != nil {
		return storeErr("updating link tags", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("updating link tags", err)
	}
	if n == 0 {
		return fmt.Errorf("link %s -> %s: %w", source, target, sft.ErrNotFound)
	}
	return nil
}

// Operation journal

func (d *RegistryDatabase) CreateOperation(operation, parameters string, startedAt time.Time) (*model.Operation, error) {
	var id int64
	err := d.db.QueryRow(`
		INSERT INTO registry_operations (operation, parameters, status, started_at)
		VALUES (?, ?, 'running', ?)
		RETURNING id`, operation, parameters, startedAt).Scan(&id)
	if err != nil {
		return nil, storeErr("creating operation", err)
	}
	return &model.Operation{
		ID:         id,
		Operation:  operation,
		Parameters: parameters,
		Status:     "running",
		StartedAt:  startedAt,
	}, nil
}

func (d *RegistryDatabase) FinishOperation(id int64, status string, finishedAt time.Time) error {
	_, err := d.db.Exec(`
		UPDATE registry_operations SET status = ?, finished_at = ?
		WHERE id = ?`, status, finishedAt, id)
	if err != nil {
		return storeErr("finishing operation", err)
	}
	return nil
}

func (d *RegistryDatabase) ListOperations(limit int) ([]*model.Operation, error) {
	rows, err := d.db.Query(`
		SELECT id, operation, parameters, status, started_at, finished_at
		FROM registry_operations
		ORDER BY id DESC
		LIMIT ?`, int64(limit))
	if err != nil {
		return nil, storeErr("listing operations", err)
	}
	defer rows.Close()

	var ops []*model.Operation
	for rows.Next() {
		var op model.Operation
		var finished sql.NullTime
		if err := rows.Scan(&op.ID, &op.Operation, &op.Parameters, &op.Status, &op.StartedAt, &finished); err != nil {
			return nil, storeErr("scanning operation", err)
		}
		if finished.Valid {
			t := finished.Time
			op.FinishedAt = &t
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating operations", err)
	}
	return ops, nil
}

// Stats

func (d *RegistryDatabase) Stats() (*model.RegistryStats, error) {
	stats := &model.RegistryStats{ByCategory: make(map[model.Category]int64)}

	err := d.db.QueryRow(`SELECT COUNT(*) FROM identity_revisions`).Scan(&stats.Revisions)
	if err != nil {
		return nil, storeErr("counting revisions", err)
	}
	err = d.db.QueryRow(`SELECT COUNT(DISTINCT identity) FROM identity_revisions`).Scan(&stats.Identities)
	if err != nil {
		return nil, storeErr("counting identities", err)
	}
	err = d.db.QueryRow(`SELECT COUNT(*) FROM links`).Scan(&stats.Links)
	if err != nil {
		return nil, storeErr("counting links", err)
	}

	rows, err := d.db.Query(`
		SELECT r.category, r.status, COUNT(*)
		FROM identity_revisions r
		JOIN (
			SELECT identity, MAX(revision) AS max_revision
			FROM identity_revisions
			GROUP BY identity
		) latest ON r.identity = latest.identity AND r.revision = latest.max_revision
		GROUP BY r.category, r.status`)
	if err != nil {
		return nil, storeErr("counting by category", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category, status string
		var count int64
		if err := rows.Scan(&category, &status, &count); err != nil {
			return nil, storeErr("scanning category counts", err)
		}
		if model.Status(status) == model.StatusDeleted {
			stats.DeletedIdentities += count
			continue
		}
		stats.ByCategory[model.Category(category)] += count
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating category counts", err)
	}

	return stats, nil
}

// Path returns the database file path (or ":memory:").
func (d *RegistryDatabase) Path() string {
	return d.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (d *RegistryDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(d.db)
}

// MigrateUp brings the database schema to the latest version.
func (d *RegistryDatabase) MigrateUp() error {
	return migrations.MigrateUp(d.db)
}

// Close closes the database connection.
func (d *RegistryDatabase) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Compile-time check that RegistryDatabase implements sft.Registry.
var _ sft.Registry = (*RegistryDatabase)(nil)
