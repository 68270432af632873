package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/plantbased/recipebook/pkg/log"
)

const defaultDebounceDelay = 250 * time.Millisecond

// Watcher monitors the recipes directory and reloads the store when recipe
// files change. Events are debounced so a burst of writes triggers a single
// reload.
type Watcher struct {
	mu sync.Mutex

	store         *Store
	logger        log.Logger
	debounceDelay time.Duration

	fsw      *fsnotify.Watcher
	debounce *time.Timer
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWatcher creates a watcher for the store's directory.
func NewWatcher(s *Store, logger log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.Nop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(s.Dir()); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		store:         s,
		logger:        logger,
		debounceDelay: defaultDebounceDelay,
		fsw:           fsw,
	}, nil
}

// Start begins watching in a background goroutine until ctx is canceled or
// Close is called.
func (w *Watcher) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)
}

// Close stops the watcher and waits for the background goroutine to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("recipe watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.debounceDelay, func() {
		if err := w.store.Reload(); err != nil {
			w.logger.Error("failed to reload recipes", log.Err(err))
		}
	})
}
