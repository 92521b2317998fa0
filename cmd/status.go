package cmd

import (
	"encoding/json"
	"fmt"

	desktoprender "github.com/bnema/desk/internal/adapters/render/desktop"
	"github.com/bnema/desk/internal/application"
	"github.com/bnema/desk/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var (
		asJSON      bool
		showContent bool
		activeOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the workspace tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd.Context(), func(s *application.Session) error {
				if s.Report.Changed() {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "stored desktop was repaired on load")
				}

				return writeDesktopOutput(cmd, app, s.Store.Snapshot(), desktoprender.RenderOptions{
					Status:      s.Status.Status(),
					ShowContent: showContent,
					ActiveOnly:  activeOnly,
				}, asJSON)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the desktop record as JSON")
	cmd.Flags().BoolVar(&showContent, "content", false, "include a preview of each window's content")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only show the active workspace")

	return cmd
}

func writeDesktopOutput(cmd *cobra.Command, app *app, desktop domain.Desktop, opts desktoprender.RenderOptions, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(desktop)
	}

	rendered, err := app.renderer(desktop, opts)
	if err != nil {
		return fmt.Errorf("render desktop: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
