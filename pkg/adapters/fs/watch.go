package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/pinboard/pkg/core"
)

// DebounceInterval is the quiet period after which pending changes are emitted.
const DebounceInterval = 50 * time.Millisecond

// Watch emits an event for every key matching pattern whose file is changed
// by someone other than this backend. An empty pattern matches every key.
// The returned channel is closed when ctx is done.
func (b *Backend) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	keys, err := b.Keys(ctx)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(b.path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", b.path, err)
	}

	w := &watchWorker{
		backend: b,
		pattern: pattern,
		watcher: watcher,
		events:  make(chan core.Event),
		known:   make(map[string]bool, len(keys)),
		pending: make(map[string]bool),
	}
	for _, k := range keys {
		w.known[k] = true
	}

	b.setWatchers(1)
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		b.config.Logger.Error("watcher failed", "path", b.path, "error", err)
	}))

	return w.events, nil
}

type watchWorker struct {
	backend *Backend
	pattern string
	watcher *fsnotify.Watcher
	events  chan core.Event

	known   map[string]bool // keys whose file existed at the last emit
	pending map[string]bool // keys touched since the last flush
}

func (w *watchWorker) run(ctx context.Context) error {
	defer w.backend.setWatchers(-1)
	defer close(w.events)
	defer w.watcher.Close()

	timer := time.NewTimer(DebounceInterval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.accept(event) {
				continue
			}
			timer.Reset(DebounceInterval)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.backend.config.Logger.Error("fsnotify error", "error", err)

		case <-timer.C:
			if !w.flush(ctx) {
				return nil
			}
		}
	}
}

// accept records the key of a relevant event.
func (w *watchWorker) accept(event fsnotify.Event) bool {
	if filepath.Dir(event.Name) != w.backend.path {
		return false
	}
	key, ok := w.backend.keyOf(filepath.Base(event.Name))
	if !ok {
		return false
	}
	if match, err := doublestar.Match(w.pattern, key); err != nil || !match {
		return false
	}
	w.backend.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())
	w.pending[key] = true
	return true
}

// flush emits the pending keys in order. It returns false once ctx is done.
func (w *watchWorker) flush(ctx context.Context) bool {
	keys := make([]string, 0, len(w.pending))
	for k := range w.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	clear(w.pending)

	for _, key := range keys {
		event, ok := w.resolve(key)
		if !ok {
			continue
		}
		select {
		case w.events <- event:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// resolve turns the current state of a key's file into an event.
// Changes made by the backend itself produce none.
func (w *watchWorker) resolve(key string) (core.Event, bool) {
	filename, err := w.backend.filename(key)
	if err != nil {
		return core.Event{}, false
	}

	data, err := os.ReadFile(filename)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		w.backend.config.Logger.Debug("watcher read failed", "file", filename, "error", err)
		return core.Event{}, false
	}

	wasKnown := w.known[key]
	if exists {
		w.known[key] = true
	} else {
		delete(w.known, key)
	}

	if w.backend.ownWrite(key, data, exists) {
		return core.Event{}, false
	}

	event := core.Event{Key: key, Timestamp: time.Now().Unix()}
	switch {
	case !exists && !wasKnown:
		return core.Event{}, false
	case !exists:
		event.Type = core.EventDelete
	case wasKnown:
		event.Type = core.EventModify
	default:
		event.Type = core.EventCreate
	}
	return event, true
}
