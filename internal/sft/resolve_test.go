package sft_test

import (
	"errors"
	"testing"

	"sft-go/internal/sft"
)

func TestResolveByIdentity(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	rev := e.ingest(t, "notes.txt", "hello")

	got, err := e.svc.Resolve(rev.Identity)
	if err != nil {
		t.Fatalf("Resolve(%s): %v", rev.Identity, err)
	}
	if got.Identity != rev.Identity || got.OriginalFilename != "notes.txt" {
		t.Errorf("resolved wrong revision: %+v", got)
	}
}

func TestResolveByFragment(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	rev := e.ingest(t, "vacation-photo.jpg", "jpegbytes")
	e.ingest(t, "budget.csv", "1,2,3")

	got, err := e.svc.Resolve("vacation")
	if err != nil {
		t.Fatalf("Resolve(vacation): %v", err)
	}
	if got.Identity != rev.Identity {
		t.Errorf("resolved %s, want %s", got.Identity, rev.Identity)
	}
}

func TestResolveAmbiguousFragment(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	e.ingest(t, "report-2023.pdf", "a")
	e.ingest(t, "report-2024.pdf", "b")

	_, err := e.svc.Resolve("report")
	if !errors.Is(err, sft.ErrAmbiguous) {
		t.Errorf("Resolve(report) = %v, want ErrAmbiguous", err)
	}
}

func TestResolveNotFound(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	if _, err := e.svc.Resolve("nothing-here"); !errors.Is(err, sft.ErrNotFound) {
		t.Errorf("fragment miss = %v, want ErrNotFound", err)
	}

	// A well-formed identity that is not in the registry.
	if _, err := e.svc.Resolve("11111111-2222-7333-8444-555555555555"); !errors.Is(err, sft.ErrNotFound) {
		t.Errorf("identity miss = %v, want ErrNotFound", err)
	}
}

func TestFindNeverAmbiguous(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	e.ingest(t, "report-2023.pdf", "a")
	e.ingest(t, "report-2024.pdf", "b")

	revs, err := e.svc.Find("report")
	if err != nil {
		t.Fatalf("Find(report): %v", err)
	}
	if len(revs) != 2 {
		t.Errorf("Find(report) returned %d revisions, want 2", len(revs))
	}
}

func TestListExcludesDeleted(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	keep := e.ingest(t, "keep.txt", "k")
	gone := e.ingest(t, "gone.txt", "g")

	if err := e.svc.SoftDelete(gone.Identity); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	active, err := e.svc.List(false)
	if err != nil {
		t.Fatalf("List(false): %v", err)
	}
	if len(active) != 1 || active[0].Identity != keep.Identity {
		t.Errorf("List(false) = %d entries, want only %s", len(active), keep.Identity)
	}

	all, err := e.svc.List(true)
	if err != nil {
		t.Fatalf("List(true): %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List(true) = %d entries, want 2", len(all))
	}
}
