// Package savestatus exposes the persistence lifecycle as an observable
// {idle, saving, saved} value. It sits beside the store, never inside the
// mutation path, so status changes can never trigger a write.
package savestatus

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/desk/internal/domain"
	"github.com/jonboulle/clockwork"
)

const DefaultIdleAfter = 2 * time.Second

type Listener func(domain.SaveStatus)

type Broadcaster struct {
	clock     clockwork.Clock
	idleAfter time.Duration

	mu        sync.Mutex
	status    domain.SaveStatus
	revert    clockwork.Timer
	revertGen uint64
	listeners map[int]Listener
	nextID    int

	// notifyMu keeps listener delivery in transition order.
	notifyMu sync.Mutex
}

func New(clock clockwork.Clock, idleAfter time.Duration) *Broadcaster {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if idleAfter <= 0 {
		idleAfter = DefaultIdleAfter
	}

	return &Broadcaster{
		clock:     clock,
		idleAfter: idleAfter,
		status:    domain.SaveStatusIdle,
		listeners: map[int]Listener{},
	}
}

func (b *Broadcaster) Status() domain.SaveStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.status
}

// Subscribe registers fn for every status transition. Listeners run on the
// goroutine that caused the transition and must not call back into the
// Broadcaster.
func (b *Broadcaster) Subscribe(fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = fn

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// Watch streams transitions until ctx is done. Slow readers miss
// intermediate values rather than stall the writer.
func (b *Broadcaster) Watch(ctx context.Context) <-chan domain.SaveStatus {
	ch := make(chan domain.SaveStatus, 8)
	unsubscribe := b.Subscribe(func(status domain.SaveStatus) {
		select {
		case ch <- status:
		default:
		}
	})

	go func() {
		<-ctx.Done()
		unsubscribe()
	}()

	return ch
}

// MarkSaving enters saving and cancels a pending return to idle.
func (b *Broadcaster) MarkSaving() {
	b.mu.Lock()
	b.stopRevertLocked()
	b.setLocked(domain.SaveStatusSaving)
}

// MarkSaved enters saved and schedules the cosmetic return to idle.
func (b *Broadcaster) MarkSaved() {
	b.mu.Lock()
	b.stopRevertLocked()
	gen := b.revertGen
	b.revert = b.clock.AfterFunc(b.idleAfter, func() { b.revertToIdle(gen) })
	b.setLocked(domain.SaveStatusSaved)
}

// MarkIdle drops straight back to idle, used when a write failed.
func (b *Broadcaster) MarkIdle() {
	b.mu.Lock()
	b.stopRevertLocked()
	b.setLocked(domain.SaveStatusIdle)
}

// Stop cancels the idle revert timer.
func (b *Broadcaster) Stop() {
	b.mu.Lock()
	b.stopRevertLocked()
	b.mu.Unlock()
}

func (b *Broadcaster) revertToIdle(gen uint64) {
	b.mu.Lock()
	if gen != b.revertGen || b.status != domain.SaveStatusSaved {
		b.mu.Unlock()
		return
	}
	b.revert = nil
	b.setLocked(domain.SaveStatusIdle)
}

func (b *Broadcaster) stopRevertLocked() {
	b.revertGen++
	if b.revert != nil {
		b.revert.Stop()
		b.revert = nil
	}
}

// setLocked must be called with b.mu held; it releases the lock before
// notifying listeners.
func (b *Broadcaster) setLocked(status domain.SaveStatus) {
	if b.status == status {
		b.mu.Unlock()
		return
	}
	b.status = status

	listeners := make([]Listener, 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	b.notifyMu.Lock()
	b.mu.Unlock()
	defer b.notifyMu.Unlock()

	for _, fn := range listeners {
		fn(status)
	}
}
