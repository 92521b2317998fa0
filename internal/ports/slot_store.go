package ports

import "context"

// SlotStore is a durable key-value slot. Get returns domain.ErrSlotNotFound
// when nothing was ever written under key.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
