package archive

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher drives live rescans off real filesystem change notifications
// (fsnotify), debouncing bursts of events into a single Scanner.Rescan call
// so that a git checkout or an editor's save-as-rename-plus-write doesn't
// trigger one rescan per touched file. Every rescan republishes through the
// Scanner's bus (C8), so Watcher itself has no subscribers of its own.
type Watcher struct {
	scanner *Scanner
	fsw     *fsnotify.Watcher
	log     *zap.Logger
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending bool
	timer   *time.Timer
}

// NewWatcher constructs a Watcher over scanner's known archives. debounce
// defaults to 300ms when zero.
func NewWatcher(scanner *Scanner, logger *zap.Logger, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{scanner: scanner, fsw: fsw, log: logger, debounce: debounce, ctx: ctx, cancel: cancel}, nil
}

// Start adds recursive watches under every archive's source/ directory known
// to the Scanner at call time, then begins processing events. Archives added
// later (e.g. by a subsequent Scan) are not picked up automatically; call
// Start again is unnecessary since AddRoot can be used for that instead.
func (w *Watcher) Start() error {
	for _, a := range w.scanner.archives {
		if err := w.AddRoot(a.SourceRoot()); err != nil {
			w.log.Warn("watch: failed to add archive root", zap.String("path", a.SourceRoot()), zap.Error(err))
		}
	}
	w.wg.Add(1)
	go w.loop()
	return nil
}

// AddRoot recursively registers fsnotify watches for every directory under
// root (an archive's source/ tree). Missing roots are silently skipped: a
// freshly-declared archive whose source/ directory doesn't exist yet simply
// has nothing to watch until it's created.
func (w *Watcher) AddRoot(root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if addErr := w.fsw.Add(p); addErr != nil {
			w.log.Warn("watch: add failed", zap.String("path", p), zap.Error(addErr))
		}
		return nil
	})
}

// Stop halts event processing and releases the underlying fsnotify watcher.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch: fsnotify error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if addErr := w.fsw.Add(ev.Name); addErr != nil {
				w.log.Warn("watch: add new directory failed", zap.String("path", ev.Name), zap.Error(addErr))
			}
		}
	}
	w.scheduleRescan()
}

// scheduleRescan coalesces a burst of events into one Rescan call, fired
// debounce after the last observed event.
func (w *Watcher) scheduleRescan() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fireRescan)
}

func (w *Watcher) fireRescan() {
	w.mu.Lock()
	if !w.pending {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.mu.Unlock()

	if err := w.scanner.Rescan(); err != nil {
		w.log.Warn("watch: rescan failed", zap.Error(err))
	}
}
