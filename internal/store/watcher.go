package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"agentlee/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CORPUS WATCHER - LIVE RE-INDEXING
// =============================================================================

// watchedExtensions limits re-indexing to file types the chunkers handle.
var watchedExtensions = []string{".csv", ".xlsx", ".xls", ".txt", ".md", ".go", ".js", ".jsx", ".ts", ".tsx", ".py", ".java", ".c", ".h", ".sql"}

// CorpusWatcher watches a corpus directory and re-indexes files as they
// change, so the evidence store tracks the data directory without restarts.
type CorpusWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	store       *DocumentStore
	dir         string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewCorpusWatcher creates a watcher over dir feeding the given store.
func NewCorpusWatcher(store *DocumentStore, dir string) (*CorpusWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &CorpusWatcher{
		watcher:     watcher,
		store:       store,
		dir:         dir,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; events are handled in a goroutine.
func (cw *CorpusWatcher) Start(ctx context.Context) error {
	cw.mu.Lock()
	if cw.running {
		cw.mu.Unlock()
		return nil
	}
	cw.running = true
	cw.mu.Unlock()

	if err := cw.watcher.Add(cw.dir); err != nil {
		logging.StoreWarn("CorpusWatcher: initial watch of %s failed: %v", cw.dir, err)
	} else {
		logging.Store("CorpusWatcher: watching %s", cw.dir)
	}

	go cw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to drain.
func (cw *CorpusWatcher) Stop() {
	cw.mu.Lock()
	if !cw.running {
		cw.mu.Unlock()
		return
	}
	cw.running = false
	cw.mu.Unlock()

	close(cw.stopCh)
	<-cw.doneCh

	if err := cw.watcher.Close(); err != nil {
		logging.Get(logging.CategoryStore).Error("CorpusWatcher: error closing watcher: %v", err)
	}
	logging.Store("CorpusWatcher: stopped")
}

func (cw *CorpusWatcher) run(ctx context.Context) {
	defer close(cw.doneCh)

	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-cw.stopCh:
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handleEvent(ctx, event)

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryStore).Error("CorpusWatcher error: %v", err)

		case <-debounceTicker.C:
			cw.processDebouncedEvents(ctx)
		}
	}
}

func (cw *CorpusWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !isWatchedFile(event.Name) {
		return
	}

	switch {
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		logging.StoreDebug("CorpusWatcher: remove event for %s", event.Name)
		if err := cw.store.RemoveDocument(ctx, DocIDForPath(event.Name)); err != nil {
			logging.StoreWarn("CorpusWatcher: failed to remove %s: %v", event.Name, err)
		}
	case event.Op&fsnotify.Create != 0, event.Op&fsnotify.Write != 0:
		logging.StoreDebug("CorpusWatcher: change event for %s", event.Name)
		cw.mu.Lock()
		cw.debounceMap[event.Name] = time.Now()
		cw.mu.Unlock()
	}
}

// processDebouncedEvents re-indexes files whose events have settled past
// the debounce window, batching rapid saves into one ingest.
func (cw *CorpusWatcher) processDebouncedEvents(ctx context.Context) {
	cw.mu.Lock()
	now := time.Now()
	var toProcess []string
	for path, eventTime := range cw.debounceMap {
		if now.Sub(eventTime) >= cw.debounceDur {
			toProcess = append(toProcess, path)
			delete(cw.debounceMap, path)
		}
	}
	cw.mu.Unlock()

	for _, path := range toProcess {
		if err := cw.store.IngestFile(ctx, path); err != nil {
			logging.StoreWarn("CorpusWatcher: failed to re-index %s: %v", path, err)
			continue
		}
		logging.Store("CorpusWatcher: re-indexed %s", path)
	}
}

func isWatchedFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range watchedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
