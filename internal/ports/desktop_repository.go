package ports

import (
	"context"

	"github.com/bnema/desk/internal/domain"
)

// DesktopRepository persists the whole desktop record. Load returns
// domain.ErrSlotNotFound when no record exists yet; Save replaces the record.
type DesktopRepository interface {
	Load(ctx context.Context) (domain.Desktop, error)
	Save(ctx context.Context, desktop domain.Desktop) error
}

// DesktopResetter is implemented by repositories that can drop the stored
// record entirely.
type DesktopResetter interface {
	Reset(ctx context.Context) error
}
