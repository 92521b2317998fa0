// Package jsonslot persists the desktop as one JSON document inside a slot
// store, using the {"state": ..., "version": 0} envelope that browser-side
// persistence middleware writes.
package jsonslot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/desk/internal/domain"
	"github.com/bnema/desk/internal/ports"
)

const (
	DefaultSlot    = "window-store"
	currentVersion = 0
)

type envelope struct {
	State   *domain.Desktop `json:"state"`
	Version int             `json:"version"`
}

type Repository struct {
	slots ports.SlotStore
	slot  string
}

var (
	_ ports.DesktopRepository = (*Repository)(nil)
	_ ports.DesktopResetter   = (*Repository)(nil)
)

func NewRepository(slots ports.SlotStore, slot string) *Repository {
	if slot == "" {
		slot = DefaultSlot
	}

	return &Repository{slots: slots, slot: slot}
}

func (r *Repository) Slot() string {
	return r.slot
}

func (r *Repository) Load(ctx context.Context) (domain.Desktop, error) {
	data, err := r.slots.Get(ctx, r.slot)
	if err != nil {
		if errors.Is(err, domain.ErrSlotNotFound) {
			return domain.Desktop{}, domain.ErrSlotNotFound
		}
		return domain.Desktop{}, fmt.Errorf("read slot %q: %w", r.slot, err)
	}

	var stored envelope
	if err := json.Unmarshal(data, &stored); err != nil {
		return domain.Desktop{}, fmt.Errorf("decode slot %q: %w", r.slot, err)
	}
	if stored.Version > currentVersion {
		return domain.Desktop{}, fmt.Errorf("%w: slot %q version %d (current %d)", domain.ErrUnsupportedVersion, r.slot, stored.Version, currentVersion)
	}
	if stored.State == nil {
		return domain.Desktop{}, nil
	}

	return *stored.State, nil
}

func (r *Repository) Save(ctx context.Context, desktop domain.Desktop) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(envelope{State: &desktop, Version: currentVersion})
	if err != nil {
		return fmt.Errorf("encode slot %q: %w", r.slot, err)
	}

	if err := r.slots.Put(ctx, r.slot, data); err != nil {
		return fmt.Errorf("write slot %q: %w", r.slot, err)
	}

	return nil
}

// Reset deletes the slot, so the next Load reports domain.ErrSlotNotFound.
func (r *Repository) Reset(ctx context.Context) error {
	if err := r.slots.Delete(ctx, r.slot); err != nil {
		return fmt.Errorf("delete slot %q: %w", r.slot, err)
	}

	return nil
}
