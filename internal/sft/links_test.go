package sft_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"sft-go/internal/sft"
)

func TestCreateLink(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	src := e.ingest(t, "interview.mp3", "audio")
	dst := e.ingest(t, "transcript.txt", "text")

	link, err := e.svc.CreateLink(src.Identity, dst.Identity, "transcribed from")
	if err != nil {
		t.Fatalf("CreateLink: %v", err)
	}
	if link.Source != src.Identity || link.Target != dst.Identity {
		t.Errorf("link endpoints = %s -> %s", link.Source, link.Target)
	}
	if link.Notes != "transcribed from" {
		t.Errorf("link notes = %q", link.Notes)
	}
}

func TestCreateLinkByFragment(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	e.ingest(t, "interview.mp3", "audio")
	e.ingest(t, "transcript.txt", "text")

	link, err := e.svc.CreateLink("interview", "transcript", "")
	if err != nil {
		t.Fatalf("CreateLink by fragments: %v", err)
	}
	if link.Source == link.Target {
		t.Error("fragments resolved to the same identity")
	}
}

func TestCreateLinkDuplicate(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	a := e.ingest(t, "a.txt", "a")
	b := e.ingest(t, "b.txt", "b")

	if _, err := e.svc.CreateLink(a.Identity, b.Identity, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.CreateLink(a.Identity, b.Identity, "again"); !errors.Is(err, sft.ErrDuplicate) {
		t.Errorf("duplicate link = %v, want ErrDuplicate", err)
	}

	// The reverse direction is a distinct edge.
	if _, err := e.svc.CreateLink(b.Identity, a.Identity, ""); err != nil {
		t.Errorf("reverse link rejected: %v", err)
	}
}

func TestCreateSelfLink(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	a := e.ingest(t, "self.txt", "s")

	// Identity and filename fragment resolve to the same file.
	if _, err := e.svc.CreateLink(a.Identity, "self", ""); !errors.Is(err, sft.ErrSelfLink) {
		t.Errorf("self link = %v, want ErrSelfLink", err)
	}
}

func TestRemoveLink(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	a := e.ingest(t, "a.txt", "a")
	b := e.ingest(t, "b.txt", "b")

	if _, err := e.svc.CreateLink(a.Identity, b.Identity, ""); err != nil {
		t.Fatal(err)
	}
	if err := e.svc.RemoveLink(a.Identity, b.Identity); err != nil {
		t.Fatalf("RemoveLink: %v", err)
	}
	if err := e.svc.RemoveLink(a.Identity, b.Identity); !errors.Is(err, sft.ErrNotFound) {
		t.Errorf("removing absent link = %v, want ErrNotFound", err)
	}
}

func TestOutgoingAndIncomingLinks(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	hub := e.ingest(t, "hub.md", "hub")
	first := e.ingest(t, "first.txt", "1")
	second := e.ingest(t, "second.txt", "2")

	if _, err := e.svc.CreateLink(hub.Identity, first.Identity, "older"); err != nil {
		t.Fatal(err)
	}
	e.clock.Advance(time.Minute)
	if _, err := e.svc.CreateLink(hub.Identity, second.Identity, "newer"); err != nil {
		t.Fatal(err)
	}

	out, err := e.svc.OutgoingLinks(hub.Identity)
	if err != nil {
		t.Fatalf("OutgoingLinks: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("outgoing count = %d, want 2", len(out))
	}
	// Newest first.
	if out[0].Link.Notes != "newer" || out[1].Link.Notes != "older" {
		t.Errorf("outgoing order = [%s, %s], want [newer, older]", out[0].Link.Notes, out[1].Link.Notes)
	}
	if out[0].Revision == nil || out[0].Revision.Identity != second.Identity {
		t.Error("far endpoint revision not attached")
	}

	in, err := e.svc.IncomingLinks(first.Identity)
	if err != nil {
		t.Fatalf("IncomingLinks: %v", err)
	}
	if len(in) != 1 || in[0].Revision.Identity != hub.Identity {
		t.Errorf("incoming links for first = %+v", in)
	}
}

func TestAllLinksFor(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	hub := e.ingest(t, "hub.md", "hub")
	out1 := e.ingest(t, "out-one.txt", "1")
	out2 := e.ingest(t, "out-two.txt", "2")
	in1 := e.ingest(t, "in-one.txt", "3")
	e.ingest(t, "unrelated.txt", "4")

	if _, err := e.svc.CreateLink(hub.Identity, out1.Identity, "first"); err != nil {
		t.Fatal(err)
	}
	e.clock.Advance(time.Minute)
	if _, err := e.svc.CreateLink(hub.Identity, out2.Identity, "second"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.CreateLink(in1.Identity, hub.Identity, "inbound"); err != nil {
		t.Fatal(err)
	}

	outgoing, incoming, err := e.svc.AllLinksFor(hub.Identity)
	if err != nil {
		t.Fatalf("AllLinksFor: %v", err)
	}

	if len(outgoing) != 2 {
		t.Fatalf("outgoing count = %d, want 2", len(outgoing))
	}
	// Newest first, same ordering contract as OutgoingLinks.
	if outgoing[0].Link.Notes != "second" || outgoing[1].Link.Notes != "first" {
		t.Errorf("outgoing order = [%s, %s], want [second, first]", outgoing[0].Link.Notes, outgoing[1].Link.Notes)
	}
	if outgoing[0].Revision == nil || outgoing[0].Revision.Identity != out2.Identity {
		t.Error("outgoing far endpoint revision not attached")
	}

	if len(incoming) != 1 {
		t.Fatalf("incoming count = %d, want 1", len(incoming))
	}
	if incoming[0].Link.Notes != "inbound" || incoming[0].Revision.Identity != in1.Identity {
		t.Errorf("incoming = %+v", incoming[0])
	}

	// Filename fragments resolve the same way other link queries do.
	fragOut, fragIn, err := e.svc.AllLinksFor("hub")
	if err != nil {
		t.Fatalf("AllLinksFor by fragment: %v", err)
	}
	if len(fragOut) != 2 || len(fragIn) != 1 {
		t.Errorf("fragment lookup = %d out, %d in", len(fragOut), len(fragIn))
	}
}

func TestAllLinksForUnlinkedIdentity(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	lone := e.ingest(t, "lone.txt", "x")
	outgoing, incoming, err := e.svc.AllLinksFor(lone.Identity)
	if err != nil {
		t.Fatalf("AllLinksFor: %v", err)
	}
	if len(outgoing) != 0 || len(incoming) != 0 {
		t.Errorf("unlinked identity has %d out, %d in", len(outgoing), len(incoming))
	}
}

func TestLinksSurviveEndpointDeletion(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	a := e.ingest(t, "a.txt", "a")
	b := e.ingest(t, "b.txt", "b")
	if _, err := e.svc.CreateLink(a.Identity, b.Identity, ""); err != nil {
		t.Fatal(err)
	}

	if err := e.svc.SoftDelete(b.Identity); err != nil {
		t.Fatal(err)
	}

	out, err := e.svc.OutgoingLinks(a.Identity)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("link vanished with its endpoint")
	}
	if out[0].Revision == nil || !out[0].Revision.Deleted() {
		t.Error("deleted endpoint not reported as deleted")
	}
}

func TestLinkAnnotations(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	a := e.ingest(t, "a.txt", "a")
	b := e.ingest(t, "b.txt", "b")
	if _, err := e.svc.CreateLink(a.Identity, b.Identity, ""); err != nil {
		t.Fatal(err)
	}

	if _, err := e.svc.SetLinkNotes(a.Identity, b.Identity, "related"); err != nil {
		t.Fatalf("SetLinkNotes: %v", err)
	}
	if _, err := e.svc.TagLink(a.Identity, b.Identity, []string{"thread", "q3"}); err != nil {
		t.Fatalf("TagLink: %v", err)
	}
	link, err := e.svc.UntagLink(a.Identity, b.Identity, []string{"q3"})
	if err != nil {
		t.Fatalf("UntagLink: %v", err)
	}
	if !reflect.DeepEqual(link.Tags, []string{"thread"}) {
		t.Errorf("link tags = %v, want [thread]", link.Tags)
	}

	out, err := e.svc.OutgoingLinks(a.Identity)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Link.Notes != "related" {
		t.Errorf("persisted link notes = %q", out[0].Link.Notes)
	}
	if !reflect.DeepEqual(out[0].Link.Tags, []string{"thread"}) {
		t.Errorf("persisted link tags = %v", out[0].Link.Tags)
	}
}

func TestLinkAnnotationsMissingLink(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	a := e.ingest(t, "a.txt", "a")
	b := e.ingest(t, "b.txt", "b")

	if _, err := e.svc.SetLinkNotes(a.Identity, b.Identity, "x"); !errors.Is(err, sft.ErrNotFound) {
		t.Errorf("SetLinkNotes on absent link = %v, want ErrNotFound", err)
	}
}
