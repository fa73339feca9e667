package translate

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gosqlrender/sqlrender/internal/renderlog"
)

// TableWatcher watches a pattern table CSV file on disk and hot-reloads
// it whenever it changes, atomically swapping the table an in-flight
// caller sees. Modeled on the procedure hot-reload watcher this
// translator's teacher codebase uses for stored procedure directories:
// same fsnotify event loop and debounce-timer shape, applied here to a
// single file instead of a directory tree.
type TableWatcher struct {
	mu sync.RWMutex

	path   string
	table  *Table
	logger *renderlog.Logger

	fsWatcher *fsnotify.Watcher
	stopCh    chan struct{}
	doneCh    chan struct{}

	debounce   time.Duration
	pending    bool
	pendingMu  sync.Mutex
	eventTimer *time.Timer

	onReload func(*LoadResult)
	onError  func(error)
}

// TableWatcherOption configures a TableWatcher.
type TableWatcherOption func(*TableWatcher)

// WithDebounce overrides the default 100ms debounce delay between a
// file-change event and the reload attempt it triggers.
func WithDebounce(d time.Duration) TableWatcherOption {
	return func(w *TableWatcher) { w.debounce = d }
}

// WithOnReload registers a callback invoked after a successful reload.
func WithOnReload(fn func(*LoadResult)) TableWatcherOption {
	return func(w *TableWatcher) { w.onReload = fn }
}

// WithOnError registers a callback invoked when a reload attempt fails;
// the previously loaded table remains active.
func WithOnError(fn func(error)) TableWatcherOption {
	return func(w *TableWatcher) { w.onError = fn }
}

// NewTableWatcher loads path once synchronously and returns a watcher
// ready to Start. logger may be nil.
func NewTableWatcher(path string, logger *renderlog.Logger, opts ...TableWatcherOption) (*TableWatcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	res, err := LoadTable(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &TableWatcher{
		path:      path,
		table:     res.Table,
		logger:    logger,
		fsWatcher: fsw,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		debounce:  100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Table returns the currently loaded table. Safe for concurrent use
// while the watcher is running.
func (w *TableWatcher) Table() *Table {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.table
}

// Start begins watching for changes in the background.
func (w *TableWatcher) Start() error {
	if err := w.fsWatcher.Add(w.path); err != nil {
		return err
	}
	if w.logger != nil {
		w.logger.Info(renderlog.CategoryTranslate, "pattern table watcher started", map[string]interface{}{"path": w.path})
	}
	go w.loop()
	return nil
}

// Stop stops watching and releases the underlying fsnotify handle.
func (w *TableWatcher) Stop() error {
	close(w.stopCh)
	<-w.doneCh
	return w.fsWatcher.Close()
}

func (w *TableWatcher) loop() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			if w.eventTimer != nil {
				w.eventTimer.Stop()
			}
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(strings.ToLower(event.Name), ".csv") {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *TableWatcher) scheduleReload() {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	if w.eventTimer != nil {
		w.eventTimer.Stop()
	}
	w.eventTimer = time.AfterFunc(w.debounce, w.reload)
}

func (w *TableWatcher) reload() {
	f, err := os.Open(w.path)
	if err != nil {
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	defer f.Close()

	res, err := LoadTable(f)
	if err != nil {
		if w.onError != nil {
			w.onError(err)
		}
		return
	}

	w.mu.Lock()
	w.table = res.Table
	w.mu.Unlock()

	if w.logger != nil {
		w.logger.Info(renderlog.CategoryTranslate, "pattern table reloaded", map[string]interface{}{
			"path":         w.path,
			"rules_loaded": res.RulesLoaded,
			"rows_skipped": res.RowsSkipped,
		})
	}
	if w.onReload != nil {
		w.onReload(&res)
	}
}
