// Package autosave coalesces desktop snapshots into infrequent durable writes.
//
// Every mutation hands the Autosaver a full snapshot. Only the most recent
// one is kept, and it is written once the debounce window elapses without a
// newer snapshot arriving. Teardown and hidden signals force the pending
// snapshot out immediately.
package autosave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/desk/internal/domain"
	"github.com/bnema/desk/internal/ports"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const DefaultDebounce = time.Second

// StatusSink receives the write lifecycle. *savestatus.Broadcaster satisfies it.
type StatusSink interface {
	MarkSaving()
	MarkSaved()
	MarkIdle()
}

type Options struct {
	Clock    clockwork.Clock
	Debounce time.Duration
	Status   StatusSink
	Logger   *zerolog.Logger
}

type Autosaver struct {
	repo     ports.DesktopRepository
	clock    clockwork.Clock
	debounce time.Duration
	status   StatusSink
	log      zerolog.Logger

	mu       sync.Mutex
	timer    clockwork.Timer
	timerGen uint64
	pending  *domain.Desktop
	closed   bool
	writes   int

	// writeMu serializes repository writes so an older snapshot can never
	// land after a newer one.
	writeMu sync.Mutex
}

func New(repo ports.DesktopRepository, opts Options) *Autosaver {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Status == nil {
		opts.Status = noopStatus{}
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &Autosaver{
		repo:     repo,
		clock:    opts.Clock,
		debounce: opts.Debounce,
		status:   opts.Status,
		log:      log,
	}
}

// Schedule records snapshot as the pending write and restarts the debounce
// timer. After Close the snapshot is written synchronously instead.
func (a *Autosaver) Schedule(snapshot domain.Desktop) {
	a.mu.Lock()
	a.pending = &snapshot
	a.status.MarkSaving()

	if a.closed {
		a.mu.Unlock()
		if err := a.flush(context.Background(), "closed"); err != nil {
			a.log.Error().Err(err).Msg("write after close failed")
		}
		return
	}

	a.stopTimerLocked()
	gen := a.timerGen
	a.timer = a.clock.AfterFunc(a.debounce, func() { a.onTimer(gen) })
	a.mu.Unlock()

	a.log.Trace().Dur("debounce", a.debounce).Msg("snapshot scheduled")
}

// Flush writes the pending snapshot now. Flushing with nothing pending is a no-op.
func (a *Autosaver) Flush(ctx context.Context) error {
	return a.flush(ctx, "forced")
}

// OnTeardown is the process-exit signal.
func (a *Autosaver) OnTeardown(ctx context.Context) error {
	return a.flush(ctx, "teardown")
}

// OnHidden is the backgrounded signal; the session keeps running afterwards.
func (a *Autosaver) OnHidden(ctx context.Context) error {
	return a.flush(ctx, "hidden")
}

// Close flushes and stops the timer for good.
func (a *Autosaver) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.stopTimerLocked()
	a.mu.Unlock()

	return a.flush(ctx, "teardown")
}

func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.pending != nil
}

// Writes counts successful repository writes.
func (a *Autosaver) Writes() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.writes
}

func (a *Autosaver) onTimer(gen uint64) {
	a.mu.Lock()
	stale := gen != a.timerGen
	a.mu.Unlock()
	if stale {
		return
	}

	if err := a.flush(context.Background(), "debounce"); err != nil {
		a.log.Error().Err(err).Msg("debounced write failed")
	}
}

func (a *Autosaver) flush(ctx context.Context, reason string) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	a.stopTimerLocked()
	snapshot := a.pending
	a.pending = nil
	a.mu.Unlock()

	if snapshot == nil {
		return nil
	}

	startedAt := a.clock.Now()
	err := a.repo.Save(ctx, *snapshot)

	a.mu.Lock()
	defer a.mu.Unlock()

	// A newer snapshot arrived mid-write: stay in saving until it lands.
	superseded := a.pending != nil

	if err != nil {
		a.log.Error().Err(err).Str("reason", reason).Msg("desktop write failed")
		if !superseded {
			a.status.MarkIdle()
		}
		return fmt.Errorf("save desktop: %w", err)
	}

	a.writes++
	a.log.Debug().
		Str("reason", reason).
		Int("workspaces", len(snapshot.Workspaces)).
		Int("windows", snapshot.CountWindows()).
		Dur("took", a.clock.Since(startedAt)).
		Msg("desktop saved")

	if !superseded {
		a.status.MarkSaved()
	}

	return nil
}

func (a *Autosaver) stopTimerLocked() {
	a.timerGen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

type noopStatus struct{}

func (noopStatus) MarkSaving() {}
func (noopStatus) MarkSaved()  {}
func (noopStatus) MarkIdle()   {}
