package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/desk/internal/autosave"
	"github.com/bnema/desk/internal/domain"
	"github.com/bnema/desk/internal/ports"
	"github.com/bnema/desk/internal/savestatus"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

type RehydrateOptions struct {
	Clock     clockwork.Clock
	Debounce  time.Duration
	IdleAfter time.Duration
	IDs       ports.IDGenerator
	Logger    *zerolog.Logger
}

// Session bundles a rehydrated store with the machinery that persists it.
type Session struct {
	Store     *Store
	Autosaver *autosave.Autosaver
	Status    *savestatus.Broadcaster
	Report    domain.RepairReport
}

// Rehydrate loads the persisted desktop, repairs it and wires a store to a
// fresh autosaver. A missing record yields the default workspace. The
// repaired state is not written back until the next mutation.
func Rehydrate(ctx context.Context, repo ports.DesktopRepository, opts RehydrateOptions) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.IDs == nil {
		opts.IDs = ports.UUIDGenerator{}
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	raw, err := repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSlotNotFound) {
			return nil, fmt.Errorf("load desktop: %w", err)
		}
		log.Debug().Msg("no persisted desktop, starting empty")
		raw = domain.Desktop{}
	}

	desktop, report := domain.Repair(raw, opts.IDs)
	if report.Changed() {
		log.Info().
			Int("raised_max_zindex", len(report.RaisedMaxZIndex)).
			Int("repaired_windows", len(report.RepairedWindows)).
			Int("added_default_projects", len(report.AddedDefaultProjects)).
			Bool("created_default_workspace", report.CreatedDefaultWorkspace).
			Bool("cleared_dangling_selection", report.ClearedDanglingSelected).
			Bool("activated_first_workspace", report.ActivatedFirstWorkspace).
			Bool("reset_active_project", report.ResetActiveProject).
			Msg("repaired persisted desktop")
	}

	status := savestatus.New(opts.Clock, opts.IdleAfter)
	saver := autosave.New(repo, autosave.Options{
		Clock:    opts.Clock,
		Debounce: opts.Debounce,
		Status:   status,
		Logger:   opts.Logger,
	})

	return &Session{
		Store:     NewStore(desktop, saver, opts.IDs, opts.Logger),
		Autosaver: saver,
		Status:    status,
		Report:    report,
	}, nil
}

// Close forces out any pending write and stops the status timer.
func (s *Session) Close(ctx context.Context) error {
	err := s.Autosaver.Close(ctx)
	s.Status.Stop()
	return err
}
