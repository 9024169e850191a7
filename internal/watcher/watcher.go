package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"sft-go/internal/model"
	"sft-go/internal/sft"
)

// Ingestor is the subset of application operations the watcher drives.
type Ingestor interface {
	Ingest(rawPath string) (*model.Revision, error)
	UpdateFromFile(rawPath string) (*model.Revision, error)
}

// Options control the watcher's timing behavior.
type Options struct {
	// SettleDelay is how long a file must go without events before it is
	// considered fully written.
	SettleDelay time.Duration
	// PollInterval bounds how often pending files are re-checked.
	PollInterval time.Duration
}

// DefaultOptions returns the timing defaults used when a field is zero.
func DefaultOptions() Options {
	return Options{
		SettleDelay:  2 * time.Second,
		PollInterval: 500 * time.Millisecond,
	}
}

// DirWatcher monitors the ingest and update drop directories and feeds
// settled files into the registry. Files dropped into the ingest directory
// become new identities; files dropped into the update directory become new
// revisions of the identity whose filename matches.
type DirWatcher struct {
	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	ingestor  Ingestor
	logger    sft.Logger
	ingestDir string
	updateDir string
	opts      Options
	pending   map[string]time.Time
	stopCh    chan struct{}
	doneCh    chan struct{}
	running   bool
}

// NewDirWatcher creates a watcher over the two drop directories.
func NewDirWatcher(ingestDir, updateDir string, ingestor Ingestor, logger sft.Logger, opts Options) (*DirWatcher, error) {
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultOptions().SettleDelay
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultOptions().PollInterval
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &DirWatcher{
		watcher:   w,
		ingestor:  ingestor,
		logger:    logger,
		ingestDir: filepath.Clean(ingestDir),
		updateDir: filepath.Clean(updateDir),
		opts:      opts,
		pending:   make(map[string]time.Time),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Start begins watching. It is non-blocking; processing happens in a
// goroutine until Stop is called or the context is cancelled.
func (w *DirWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, dir := range []string{w.ingestDir, w.updateDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating watch directory %s: %w", dir, err)
		}
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	// Pick up files that were already sitting in the drop directories.
	w.scanExisting()

	w.logger.Info("watcher started", "ingest_dir", w.ingestDir, "update_dir", w.updateDir)
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to drain.
func (w *DirWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("closing fsnotify watcher", "error", err)
	}
	w.logger.Info("watcher stopped")
}

// scanExisting queues every regular file already present in the drop
// directories so a restart does not strand them.
func (w *DirWatcher) scanExisting() {
	now := time.Now()
	for _, dir := range []string{w.ingestDir, w.updateDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			w.logger.Warn("scanning drop directory", "dir", dir, "error", err)
			continue
		}
		w.mu.Lock()
		for _, entry := range entries {
			if entry.IsDir() || !entry.Type().IsRegular() {
				continue
			}
			if isHidden(entry.Name()) {
				continue
			}
			w.pending[filepath.Join(dir, entry.Name())] = now
		}
		w.mu.Unlock()
	}
}

func (w *DirWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)

		case <-ticker.C:
			w.processSettled()
		}
	}
}

// handleEvent records write activity for a file so processing waits until
// the writer has finished.
func (w *DirWatcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if isHidden(filepath.Base(event.Name)) {
		return
	}

	info, err := os.Lstat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// processSettled ingests every pending file whose last event is older than
// the settle delay.
func (w *DirWatcher) processSettled() {
	now := time.Now()

	w.mu.Lock()
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.opts.SettleDelay {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		w.process(path)
	}
}

func (w *DirWatcher) process(path string) {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return // removed before it settled
		}
		w.logger.Warn("stat pending file", "path", path, "error", err)
		return
	}

	switch filepath.Dir(path) {
	case w.ingestDir:
		rev, err := w.ingestor.Ingest(path)
		if err != nil {
			w.logger.Error("ingest failed", "path", path, "error", err)
			return
		}
		w.logger.Info("ingested", "path", path, "identity", rev.Identity)
	case w.updateDir:
		rev, err := w.ingestor.UpdateFromFile(path)
		if err != nil {
			w.logger.Error("update failed", "path", path, "error", err)
			return
		}
		w.logger.Info("updated", "path", path, "identity", rev.Identity, "revision", rev.Revision)
	default:
		w.logger.Warn("event outside watched directories", "path", path)
	}
}

// isHidden reports whether a filename is a dotfile or an editor temp file
// that should never be ingested.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") || strings.HasSuffix(name, ".part") ||
		strings.HasSuffix(name, ".crdownload")
}
