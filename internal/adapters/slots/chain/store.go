// Package chain layers a primary slot store over a legacy one. Reads fall
// through to the fallback only when the primary has never seen the slot, so a
// record written by an earlier backend is picked up once and then migrated
// by the next write. Writes always go to the primary.
package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/desk/internal/domain"
	"github.com/bnema/desk/internal/ports"
)

type Store struct {
	primary  ports.SlotStore
	fallback ports.SlotStore
}

var _ ports.SlotStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary slot store is nil")
	errNilFallbackStore = errors.New("fallback slot store is nil")
)

func NewStore(primary ports.SlotStore, fallback ports.SlotStore) *Store {
	store, err := NewStoreChecked(primary, fallback)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(primary ports.SlotStore, fallback ports.SlotStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, domain.ErrSlotNotFound) {
		return nil, err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}
	if errors.Is(fallbackErr, domain.ErrSlotNotFound) {
		return nil, fallbackErr
	}

	return nil, fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	return s.primary.Put(ctx, key, value)
}

// Delete clears both layers so a deleted slot cannot resurface from the fallback.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.primary.Delete(ctx, key); err != nil {
		return err
	}
	if shouldSkipFallback(ctx.Err()) {
		return ctx.Err()
	}

	if err := s.fallback.Delete(ctx, key); err != nil {
		return fmt.Errorf("fallback backend delete failed: %w", err)
	}

	return nil
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
