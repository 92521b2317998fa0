package cmd

import (
	"errors"
	"fmt"

	"github.com/bnema/desk/internal/ports"
	"github.com/spf13/cobra"
)

var errResetNotConfirmed = errors.New("refusing to clear the stored desktop without --force")

func newResetCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored desktop so the next command starts empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return errResetNotConfirmed
			}

			repo, closeRepo, err := app.openRepository(cmd.Context())
			if err != nil {
				return err
			}

			resetter, ok := repo.(ports.DesktopResetter)
			if !ok {
				return errors.Join(fmt.Errorf("state backend %q cannot be reset", app.cfg.Backend), closeRepo())
			}
			if err := resetter.Reset(cmd.Context()); err != nil {
				return errors.Join(fmt.Errorf("reset desktop: %w", err), closeRepo())
			}
			if err := closeRepo(); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "stored desktop cleared")
			return err
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "confirm the reset")

	return cmd
}
