package sft_test

import (
	"errors"
	"reflect"
	"testing"

	"sft-go/internal/sft"
)

func TestSetNotesPersists(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	rev := e.ingest(t, "idea.md", "an idea")
	if _, err := e.svc.SetNotes(rev.Identity, "keeper"); err != nil {
		t.Fatalf("SetNotes: %v", err)
	}

	got, err := e.svc.Resolve(rev.Identity)
	if err != nil {
		t.Fatal(err)
	}
	if got.Notes != "keeper" {
		t.Errorf("notes = %q, want %q", got.Notes, "keeper")
	}
}

func TestTagLifecycle(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	rev := e.ingest(t, "song.mp3", "audio")

	if _, err := e.svc.AddTags(rev.Identity, []string{"music", "live"}); err != nil {
		t.Fatal(err)
	}
	// Re-adding an existing tag is a no-op.
	if _, err := e.svc.AddTags(rev.Identity, []string{"music"}); err != nil {
		t.Fatal(err)
	}

	got, err := e.svc.Resolve(rev.Identity)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Tags, []string{"live", "music"}) {
		t.Errorf("tags = %v, want [live music]", got.Tags)
	}

	if _, err := e.svc.RemoveTags(rev.Identity, []string{"live", "absent"}); err != nil {
		t.Fatal(err)
	}
	got, err = e.svc.Resolve(rev.Identity)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Tags, []string{"music"}) {
		t.Errorf("tags after removal = %v, want [music]", got.Tags)
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	rev := e.ingest(t, "data.csv", "1,2,3")
	e.addRevision(t, rev.Identity, "data.csv", "1,2,3,4,5")
	e.addRevision(t, rev.Identity, "data.csv", "1,2,3")

	d, err := e.svc.Diff(rev.Identity, 1, 2)
	if err != nil {
		t.Fatalf("Diff(1, 2): %v", err)
	}
	if d.SameBytes {
		t.Error("revisions 1 and 2 reported identical")
	}
	if d.SizeA != 5 || d.SizeB != 9 {
		t.Errorf("sizes = %d/%d, want 5/9", d.SizeA, d.SizeB)
	}

	// Revision 3 re-archived the original content.
	d, err = e.svc.Diff(rev.Identity, 1, 3)
	if err != nil {
		t.Fatalf("Diff(1, 3): %v", err)
	}
	if !d.SameBytes {
		t.Error("revisions 1 and 3 reported different")
	}
}

func TestDiffMissingRevision(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	rev := e.ingest(t, "only-one.txt", "x")
	if _, err := e.svc.Diff(rev.Identity, 1, 9); !errors.Is(err, sft.ErrNotFound) {
		t.Errorf("Diff with missing revision = %v, want ErrNotFound", err)
	}
}
