// Package watch reports writes to the persisted desktop made by other processes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const watchDirMode = 0o700

type Options struct {
	// Settle coalesces a burst of events into one callback. Zero disables it.
	Settle time.Duration
	Clock  clockwork.Clock
	Logger *zerolog.Logger
	// Companions are extra file names in the same directory that also count,
	// such as the SQLite write-ahead log.
	Companions []string
}

// Watcher observes the directory holding a file, because atomic replaces
// swap the inode and a watch on the file itself would be lost.
type Watcher struct {
	dir     string
	primary string
	names   map[string]struct{}
	settle  time.Duration
	clock   clockwork.Clock
	log     zerolog.Logger
}

func New(path string, opts Options) *Watcher {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	cleaned := filepath.Clean(path)
	names := map[string]struct{}{filepath.Base(cleaned): {}}
	for _, companion := range opts.Companions {
		names[companion] = struct{}{}
	}

	return &Watcher{
		dir:     filepath.Dir(cleaned),
		primary: filepath.Base(cleaned),
		names:   names,
		settle:  opts.Settle,
		clock:   opts.Clock,
		log:     log,
	}
}

// Run blocks until ctx is done, calling onChange with the file name after
// each relevant change. Callbacks never run concurrently with each other,
// and none runs after Run returns.
func (w *Watcher) Run(ctx context.Context, onChange func(name string)) error {
	if err := os.MkdirAll(w.dir, watchDirMode); err != nil {
		return fmt.Errorf("create watched directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.log.Debug().Str("dir", w.dir).Msg("watching for external writes")

	var (
		callbackMu sync.Mutex
		stopped    bool
		timerMu    sync.Mutex
		timer      clockwork.Timer
	)
	deliver := func(name string) {
		callbackMu.Lock()
		defer callbackMu.Unlock()
		if stopped {
			return
		}
		onChange(name)
	}
	// No callback may run once Run has returned: wait out one in flight and
	// drop a settle timer that already fired but has not started delivering.
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()

		callbackMu.Lock()
		stopped = true
		callbackMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Trace().Str("op", event.Op.String()).Str("file", event.Name).Msg("external write detected")

			name := filepath.Base(event.Name)
			if w.settle <= 0 {
				deliver(name)
				continue
			}
			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = w.clock.AfterFunc(w.settle, func() { deliver(name) })
			timerMu.Unlock()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn().Err(err).Msg("file watcher overflowed, forcing reload")
				deliver(w.primary)
				continue
			}
			w.log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	_, ok := w.names[filepath.Base(event.Name)]
	return ok
}
