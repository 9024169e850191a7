package database

// Schema is the full registry schema as produced by applying every
// migration. It is regenerated by internal/database/tools/generate_schema.go
// and exists so tests can build an in-memory database without running the
// migration machinery.
//
// DO NOT EDIT MANUALLY. Run 'go generate ./internal/database' to regenerate.
const Schema = `
CREATE TABLE identity_revisions (
    identity TEXT NOT NULL,
    revision INTEGER NOT NULL,
    original_filename TEXT NOT NULL,
    category TEXT NOT NULL,
    archive_path TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'deleted')),
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (identity, revision)
);

CREATE TABLE links (
    source TEXT NOT NULL,
    target TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (source, target)
);

CREATE TABLE registry_operations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    operation TEXT NOT NULL,
    parameters TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'running',
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP
);

CREATE INDEX idx_identity_revisions_filename ON identity_revisions (original_filename);

CREATE INDEX idx_identity_revisions_created_at ON identity_revisions (created_at);

CREATE INDEX idx_links_target ON links (target);
`
