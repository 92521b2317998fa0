package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	desktoprender "github.com/bnema/desk/internal/adapters/render/desktop"
	"github.com/bnema/desk/internal/adapters/repo/jsonslot"
	tomlrepo "github.com/bnema/desk/internal/adapters/repo/toml"
	chainstore "github.com/bnema/desk/internal/adapters/slots/chain"
	filestore "github.com/bnema/desk/internal/adapters/slots/file"
	sqlitestore "github.com/bnema/desk/internal/adapters/slots/sqlite"
	"github.com/bnema/desk/internal/application"
	"github.com/bnema/desk/internal/config"
	"github.com/bnema/desk/internal/domain"
	"github.com/bnema/desk/internal/logging"
	"github.com/bnema/desk/internal/ports"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type app struct {
	cfg      config.Config
	logger   zerolog.Logger
	clock    clockwork.Clock
	ids      ports.IDGenerator
	renderer func(domain.Desktop, desktoprender.RenderOptions) (string, error)

	// shared is set while `desk batch` runs so every line mutates one session.
	shared *application.Session
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logging.NewFromSettings(cfg.LogLevel, cfg.LogFormat, os.Stderr),
		clock:    clockwork.NewRealClock(),
		ids:      ports.UUIDGenerator{},
		renderer: desktoprender.Render,
	}, nil
}

// openRepository builds the configured backend. The returned closer
// releases backend resources and is never nil.
func (a *app) openRepository(ctx context.Context) (ports.DesktopRepository, func() error, error) {
	noop := func() error { return nil }

	switch a.cfg.Backend {
	case config.BackendFile:
		return jsonslot.NewRepository(filestore.NewStore(a.cfg.SlotDir), a.cfg.Slot), noop, nil
	case config.BackendSQLite:
		db, err := sqlitestore.Open(logging.WithContext(ctx, a.logger), a.cfg.SQLitePath, a.clock)
		if err != nil {
			return nil, noop, fmt.Errorf("wire sqlite slot store: %w", err)
		}
		// Records written by the file backend are picked up on first load.
		slots := chainstore.NewStore(db, filestore.NewStore(a.cfg.SlotDir))
		return jsonslot.NewRepository(slots, a.cfg.Slot), db.Close, nil
	default:
		repo, err := tomlrepo.NewRepository(a.cfg.StatePath, a.clock)
		if err != nil {
			return nil, noop, fmt.Errorf("wire desktop repository: %w", err)
		}
		return repo, noop, nil
	}
}

// watchPath is the file the configured backend rewrites on every save.
func (a *app) watchPath() (string, error) {
	switch a.cfg.Backend {
	case config.BackendFile:
		return filestore.NewStore(a.cfg.SlotDir).PathForKey(a.cfg.Slot)
	case config.BackendSQLite:
		return a.cfg.SQLitePath, nil
	default:
		return a.cfg.StatePath, nil
	}
}

type openedSession struct {
	*application.Session
	close func(ctx context.Context) error
}

func (a *app) openSession(ctx context.Context) (*openedSession, error) {
	repo, closeRepo, err := a.openRepository(ctx)
	if err != nil {
		return nil, err
	}

	session, err := application.Rehydrate(ctx, repo, application.RehydrateOptions{
		Clock:     a.clock,
		Debounce:  a.cfg.Debounce,
		IdleAfter: a.cfg.IdleAfter,
		IDs:       a.ids,
		Logger:    &a.logger,
	})
	if err != nil {
		return nil, errors.Join(err, closeRepo())
	}

	return &openedSession{
		Session: session,
		close: func(ctx context.Context) error {
			// Process exit is the teardown signal.
			flushErr := session.Close(ctx)
			if flushErr != nil {
				flushErr = fmt.Errorf("persist desktop on exit: %w", flushErr)
			}
			return errors.Join(flushErr, closeRepo())
		},
	}, nil
}

// withSession runs fn against the shared batch session when there is one,
// otherwise against a fresh session that is flushed before returning.
func (a *app) withSession(ctx context.Context, fn func(*application.Session) error) error {
	if a.shared != nil {
		return fn(a.shared)
	}

	session, err := a.openSession(ctx)
	if err != nil {
		return err
	}

	runErr := fn(session.Session)
	return errors.Join(runErr, session.close(ctx))
}
