package sft_test

import (
	"path/filepath"
	"testing"
	"time"

	"sft-go/internal/model"
	"sft-go/internal/sft"
	"sft-go/internal/testutil"
)

const (
	archiveDir = "/archive"
	symlinkDir = "/links"
	trashDir   = "/trash"
)

// env bundles a fully wired service over an in-memory registry and a mock
// filesystem.
type env struct {
	svc   *sft.SFTService
	reg   sft.Registry
	fs    *testutil.MockFilesystemManager
	clock *testutil.StubClock
}

func newTestEnv(t *testing.T) *env {
	t.Helper()

	reg := testutil.NewTestRegistry(t)
	fsm := testutil.NewMockFilesystemManager()
	clock := testutil.FixedClock()
	layout := sft.Layout{ArchiveDir: archiveDir, SymlinkDir: symlinkDir, TrashDir: trashDir}
	svc := sft.NewSFTService(reg, fsm, layout, sft.NewNopLogger(), clock, testutil.NewStubIDGenerator())

	return &env{svc: svc, reg: reg, fs: fsm, clock: clock}
}

// withService rebuilds the env's service around a different registry,
// keeping the filesystem and clock. Used to inject failing registries.
func (e *env) withRegistry(reg sft.Registry) *sft.SFTService {
	layout := sft.Layout{ArchiveDir: archiveDir, SymlinkDir: symlinkDir, TrashDir: trashDir}
	return sft.NewSFTService(reg, e.fs, layout, sft.NewNopLogger(), e.clock, testutil.NewStubIDGenerator())
}

// ingest drops a file into the mock filesystem and ingests it. The clock
// advances afterwards so archive filenames stay unique.
func (e *env) ingest(t *testing.T, name, content string) *model.Revision {
	t.Helper()

	path := "/inbox/" + name
	e.fs.AddFile(path, []byte(content))
	p, err := e.fs.Resolve(path)
	if err != nil {
		t.Fatalf("resolving %s: %v", path, err)
	}
	rev, err := e.svc.Ingest(p)
	if err != nil {
		t.Fatalf("ingesting %s: %v", name, err)
	}
	e.clock.Advance(time.Second)
	return rev
}

// addRevision drops a file and archives it as the next revision of identity.
func (e *env) addRevision(t *testing.T, identity, name, content string) *model.Revision {
	t.Helper()

	path := "/inbox/" + name
	e.fs.AddFile(path, []byte(content))
	p, err := e.fs.Resolve(path)
	if err != nil {
		t.Fatalf("resolving %s: %v", path, err)
	}
	rev, err := e.svc.AddRevision(identity, p)
	if err != nil {
		t.Fatalf("adding revision to %s: %v", identity, err)
	}
	e.clock.Advance(time.Second)
	return rev
}

// linkPath returns the projection location expected for a revision.
func linkPath(rev *model.Revision) string {
	return filepath.Join(symlinkDir, rev.Category.Subtree(), rev.Identity+filepath.Ext(rev.OriginalFilename))
}
