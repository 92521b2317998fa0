package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	desktoprender "github.com/bnema/desk/internal/adapters/render/desktop"
	"github.com/bnema/desk/internal/adapters/watch"
	"github.com/bnema/desk/internal/config"
	"github.com/bnema/desk/internal/domain"
	"github.com/bnema/desk/internal/logging"
	"github.com/bnema/desk/internal/ports"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const watchSettle = 150 * time.Millisecond

func newWatchCmd(app *app) *cobra.Command {
	var (
		showTree  bool
		maxEvents int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow changes written by other desk processes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			logger := logging.WithComponent(app.logger, "watch")

			var companions []string
			if app.cfg.Backend == config.BackendSQLite {
				companions = append(companions, filepath.Base(app.cfg.SQLitePath)+"-wal")
			}
			path, err := app.watchPath()
			if err != nil {
				return err
			}
			watcher := watch.New(path, watch.Options{
				Settle:     watchSettle,
				Clock:      app.clock,
				Logger:     &logger,
				Companions: companions,
			})

			// One repository for the whole run: reopening SQLite would checkpoint
			// on close and wake the watcher again.
			repo, closeRepo, err := app.openRepository(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = closeRepo() }()

			show := func() error {
				desktop, err := loadRepaired(ctx, repo, app.ids)
				if err != nil {
					return err
				}
				if showTree {
					return writeDesktopOutput(cmd, app, desktop, desktoprender.RenderOptions{}, false)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s  %d workspaces, %d windows\n",
					app.clock.Now().Format(time.TimeOnly), len(desktop.Workspaces), desktop.CountWindows())
				return err
			}

			if err := show(); err != nil {
				return err
			}

			events := 0
			group, groupCtx := errgroup.WithContext(ctx)
			group.Go(func() error {
				return watcher.Run(groupCtx, func(name string) {
					logger.Debug().Str("file", name).Msg("desktop changed on disk")
					if err := show(); err != nil {
						logger.Warn().Err(err).Msg("reload desktop")
					}

					events++
					if maxEvents > 0 && events >= maxEvents {
						cancel()
					}
				})
			})

			if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTree, "tree", false, "print the whole tree on every change")
	cmd.Flags().IntVar(&maxEvents, "max-events", 0, "exit after this many changes")
	_ = cmd.Flags().MarkHidden("max-events")

	return cmd
}

// loadRepaired reads the stored desktop without starting a session, so the
// watcher never writes.
func loadRepaired(ctx context.Context, repo ports.DesktopRepository, ids domain.IDSource) (domain.Desktop, error) {
	raw, err := repo.Load(ctx)
	if errors.Is(err, domain.ErrSlotNotFound) {
		raw, err = domain.Desktop{}, nil
	}
	if err != nil {
		return domain.Desktop{}, fmt.Errorf("load desktop: %w", err)
	}

	repaired, _ := domain.Repair(raw, ids)
	return repaired, nil
}
