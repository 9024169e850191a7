package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sft-go/internal/model"
	"sft-go/internal/sft"
)

// recordingIngestor captures which paths were routed to which operation.
type recordingIngestor struct {
	mu       sync.Mutex
	ingested []string
	updated  []string
}

func (r *recordingIngestor) Ingest(rawPath string) (*model.Revision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingested = append(r.ingested, rawPath)
	return &model.Revision{Identity: "stub", Revision: 1}, nil
}

func (r *recordingIngestor) UpdateFromFile(rawPath string) (*model.Revision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, rawPath)
	return &model.Revision{Identity: "stub", Revision: 2}, nil
}

func (r *recordingIngestor) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ingested), len(r.updated)
}

func testOptions() Options {
	return Options{SettleDelay: 50 * time.Millisecond, PollInterval: 20 * time.Millisecond}
}

func startWatcher(t *testing.T, ingestor Ingestor) (ingestDir, updateDir string) {
	t.Helper()

	base := t.TempDir()
	ingestDir = filepath.Join(base, "ingest")
	updateDir = filepath.Join(base, "update")

	w, err := NewDirWatcher(ingestDir, updateDir, ingestor, sft.NewNopLogger(), testOptions())
	if err != nil {
		t.Fatalf("NewDirWatcher: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)
	return ingestDir, updateDir
}

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func drop(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWatcherRoutesByDirectory(t *testing.T) {
	ingestor := &recordingIngestor{}
	ingestDir, updateDir := startWatcher(t, ingestor)

	ingestPath := drop(t, ingestDir, "new.txt", "fresh")
	updatePath := drop(t, updateDir, "known.txt", "revised")

	waitFor(t, func() bool {
		in, up := ingestor.counts()
		return in == 1 && up == 1
	}, "dropped files never processed")

	ingestor.mu.Lock()
	defer ingestor.mu.Unlock()
	if ingestor.ingested[0] != ingestPath {
		t.Errorf("ingested %s, want %s", ingestor.ingested[0], ingestPath)
	}
	if ingestor.updated[0] != updatePath {
		t.Errorf("updated %s, want %s", ingestor.updated[0], updatePath)
	}
}

func TestWatcherPicksUpExistingFiles(t *testing.T) {
	base := t.TempDir()
	ingestDir := filepath.Join(base, "ingest")
	updateDir := filepath.Join(base, "update")
	if err := os.MkdirAll(ingestDir, 0755); err != nil {
		t.Fatal(err)
	}

	// Already sitting there before the watcher starts.
	stranded := drop(t, ingestDir, "stranded.txt", "left behind")

	ingestor := &recordingIngestor{}
	w, err := NewDirWatcher(ingestDir, updateDir, ingestor, sft.NewNopLogger(), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)

	waitFor(t, func() bool {
		in, _ := ingestor.counts()
		return in == 1
	}, "pre-existing file never ingested")

	ingestor.mu.Lock()
	defer ingestor.mu.Unlock()
	if ingestor.ingested[0] != stranded {
		t.Errorf("ingested %s, want %s", ingestor.ingested[0], stranded)
	}
}

func TestWatcherSkipsHiddenAndTempFiles(t *testing.T) {
	ingestor := &recordingIngestor{}
	ingestDir, _ := startWatcher(t, ingestor)

	drop(t, ingestDir, ".partial", "x")
	drop(t, ingestDir, "draft.txt~", "x")
	drop(t, ingestDir, "movie.part", "x")
	drop(t, ingestDir, "real.txt", "x")

	waitFor(t, func() bool {
		in, _ := ingestor.counts()
		return in >= 1
	}, "visible file never ingested")

	// Give the watcher a little longer to prove the hidden files stay out.
	time.Sleep(150 * time.Millisecond)
	in, _ := ingestor.counts()
	if in != 1 {
		ingestor.mu.Lock()
		defer ingestor.mu.Unlock()
		t.Errorf("ingested %v, want only real.txt", ingestor.ingested)
	}
}

func TestWatcherIgnoresRemovedPendingFile(t *testing.T) {
	ingestor := &recordingIngestor{}
	ingestDir, _ := startWatcher(t, ingestor)

	path := drop(t, ingestDir, "vanishing.txt", "x")
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	drop(t, ingestDir, "staying.txt", "x")

	waitFor(t, func() bool {
		in, _ := ingestor.counts()
		return in >= 1
	}, "surviving file never ingested")

	ingestor.mu.Lock()
	defer ingestor.mu.Unlock()
	for _, p := range ingestor.ingested {
		if p == path {
			t.Error("removed file was ingested")
		}
	}
}

func TestIsHidden(t *testing.T) {
	t.Parallel()

	hidden := []string{".DS_Store", "file.txt~", "edit.swp", "dl.part", "dl.crdownload"}
	for _, name := range hidden {
		if !isHidden(name) {
			t.Errorf("isHidden(%q) = false", name)
		}
	}
	for _, name := range []string{"file.txt", "archive.tar.gz", "partial"} {
		if isHidden(name) {
			t.Errorf("isHidden(%q) = true", name)
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	ingestor := &recordingIngestor{}
	base := t.TempDir()

	w, err := NewDirWatcher(filepath.Join(base, "in"), filepath.Join(base, "up"), ingestor, sft.NewNopLogger(), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop() // second call is a no-op
}
