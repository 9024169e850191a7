package sft_test

import (
	"errors"
	"fmt"
	"testing"

	"sft-go/internal/model"
	"sft-go/internal/sft"
)

func TestTraceLinearChain(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	voice := e.ingest(t, "voice-memo.mp3", "audio")
	transcript := e.ingest(t, "transcript.txt", "text")
	article := e.ingest(t, "article.md", "markdown")

	if _, err := e.svc.CreateLink(voice.Identity, transcript.Identity, "transcribed"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.CreateLink(transcript.Identity, article.Identity, "expanded into"); err != nil {
		t.Fatal(err)
	}

	thread, err := e.svc.Trace(voice.Identity, article.Identity)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(thread) != 3 {
		t.Fatalf("thread length = %d, want 3", len(thread))
	}

	wantIdentities := []string{voice.Identity, transcript.Identity, article.Identity}
	for i, entry := range thread {
		if entry.Step != i+1 {
			t.Errorf("thread[%d].Step = %d", i, entry.Step)
		}
		if entry.Identity != wantIdentities[i] {
			t.Errorf("thread[%d].Identity = %s, want %s", i, entry.Identity, wantIdentities[i])
		}
		if entry.Revision == nil {
			t.Errorf("thread[%d] missing revision", i)
		}
	}

	// Link annotations ride on the entry they lead to; step 1 has none.
	if thread[0].LinkNotes != "" {
		t.Errorf("first step carries link notes %q", thread[0].LinkNotes)
	}
	if thread[1].LinkNotes != "transcribed" || thread[2].LinkNotes != "expanded into" {
		t.Errorf("link notes = [%q, %q]", thread[1].LinkNotes, thread[2].LinkNotes)
	}
}

func TestTraceSameStartAndEnd(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	rev := e.ingest(t, "solo.txt", "s")

	thread, err := e.svc.Trace(rev.Identity, rev.Identity)
	if err != nil {
		t.Fatalf("Trace to self: %v", err)
	}
	if len(thread) != 1 || thread[0].Identity != rev.Identity {
		t.Errorf("self trace = %+v", thread)
	}
}

func TestTraceThroughCycle(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	a := e.ingest(t, "a.txt", "a")
	b := e.ingest(t, "b.txt", "b")
	c := e.ingest(t, "c.txt", "c")

	// a -> b -> a is a cycle; b -> c is the way out.
	for _, pair := range [][2]string{{a.Identity, b.Identity}, {b.Identity, a.Identity}, {b.Identity, c.Identity}} {
		if _, err := e.svc.CreateLink(pair[0], pair[1], ""); err != nil {
			t.Fatal(err)
		}
	}

	path, err := e.svc.FindPath(a.Identity, c.Identity)
	if err != nil {
		t.Fatalf("FindPath through cycle: %v", err)
	}
	want := []string{a.Identity, b.Identity, c.Identity}
	if len(path) != 3 || path[0] != want[0] || path[1] != want[1] || path[2] != want[2] {
		t.Errorf("path = %v, want %v", path, want)
	}
}

func TestTraceShortestPathWins(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	a := e.ingest(t, "a.txt", "a")
	b := e.ingest(t, "b.txt", "b")
	c := e.ingest(t, "c.txt", "c")

	// Long way round plus a direct edge.
	for _, pair := range [][2]string{{a.Identity, b.Identity}, {b.Identity, c.Identity}, {a.Identity, c.Identity}} {
		if _, err := e.svc.CreateLink(pair[0], pair[1], ""); err != nil {
			t.Fatal(err)
		}
	}

	path, err := e.svc.FindPath(a.Identity, c.Identity)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 2 {
		t.Errorf("path length = %d, want the direct edge", len(path))
	}
}

func TestTraceNoPath(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	a := e.ingest(t, "a.txt", "a")
	b := e.ingest(t, "b.txt", "b")

	// Edge points the wrong way.
	if _, err := e.svc.CreateLink(b.Identity, a.Identity, ""); err != nil {
		t.Fatal(err)
	}

	if _, err := e.svc.FindPath(a.Identity, b.Identity); !errors.Is(err, sft.ErrNotFound) {
		t.Errorf("FindPath without path = %v, want ErrNotFound", err)
	}
}

func TestTraceDepthBound(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	// A chain of 12 identities needs 11 hops, one past the bound.
	var revs []*model.Revision
	for i := 0; i < 12; i++ {
		revs = append(revs, e.ingest(t, fmt.Sprintf("step-%02d.txt", i), fmt.Sprintf("%d", i)))
	}
	for i := 0; i < 11; i++ {
		if _, err := e.svc.CreateLink(revs[i].Identity, revs[i+1].Identity, ""); err != nil {
			t.Fatal(err)
		}
	}

	// Ten hops resolve.
	if _, err := e.svc.FindPath(revs[0].Identity, revs[10].Identity); err != nil {
		t.Errorf("10-hop path failed: %v", err)
	}
	// Eleven do not.
	if _, err := e.svc.FindPath(revs[0].Identity, revs[11].Identity); !errors.Is(err, sft.ErrNotFound) {
		t.Errorf("11-hop path = %v, want ErrNotFound", err)
	}
}
