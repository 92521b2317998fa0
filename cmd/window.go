package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bnema/desk/internal/application"
	"github.com/bnema/desk/internal/domain"
	"github.com/spf13/cobra"
)

func newWindowCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "window",
		Aliases: []string{"win"},
		Short:   "Manage windows of the active project",
	}

	cmd.AddCommand(
		newWindowOpenCmd(app),
		newWindowMoveCmd(app),
		newWindowResizeCmd(app),
		newWindowMaximizeCmd(app),
		newWindowFocusCmd(app),
		newWindowCloseCmd(app),
		newWindowContentCmd(app),
		newWindowSetCmd(app),
		newWindowListCmd(app),
	)

	return cmd
}

var errNonFiniteGeometry = errors.New("window geometry must be a finite number")

type windowOpenOptions struct {
	id        string
	title     string
	x, y      float64
	w, h      float64
	content   string
	url       string
	maximized bool
}

func newWindowOpenCmd(app *app) *cobra.Command {
	opts := windowOpenOptions{}

	cmd := &cobra.Command{
		Use:   "open <type>",
		Short: "Open a widget window on top of the active project",
		Long:  "Open a widget window on top of the active project.\n\nKnown types: " + widgetTypeList(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseWidgetType(args[0])
			if err != nil {
				return err
			}

			draft := application.NewWindowFromTemplate(kind)
			if err := applyOpenFlags(cmd, &draft, opts); err != nil {
				return err
			}

			return app.withSession(cmd.Context(), func(s *application.Session) error {
				if _, ok := s.Store.ActiveProject(); !ok {
					return domain.ErrNoActiveProject
				}

				id := s.Store.AddWindow(draft)
				if id == "" {
					return fmt.Errorf("window id %q is already taken", draft.ID)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), id)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&opts.id, "id", "", "window id (default: generated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "window title (default: widget title)")
	cmd.Flags().Float64Var(&opts.x, "x", 0, "left edge")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "top edge")
	cmd.Flags().Float64Var(&opts.w, "width", 0, "width")
	cmd.Flags().Float64Var(&opts.h, "height", 0, "height")
	cmd.Flags().StringVar(&opts.content, "content", "", "initial content as a JSON object, merged over the widget defaults")
	cmd.Flags().StringVar(&opts.url, "url", "", "address for iframe windows")
	cmd.Flags().BoolVar(&opts.maximized, "maximized", false, "open maximized")

	return cmd
}

func applyOpenFlags(cmd *cobra.Command, draft *application.NewWindow, opts windowOpenOptions) error {
	flags := cmd.Flags()

	draft.ID = domain.WindowID(strings.TrimSpace(opts.id))
	if flags.Changed("title") {
		draft.Title = opts.title
	}
	if flags.Changed("x") {
		draft.Position.X = opts.x
	}
	if flags.Changed("y") {
		draft.Position.Y = opts.y
	}
	if flags.Changed("width") {
		draft.Size.W = opts.w
	}
	if flags.Changed("height") {
		draft.Size.H = opts.h
	}
	for _, value := range []float64{draft.Position.X, draft.Position.Y, draft.Size.W, draft.Size.H} {
		if err := checkFinite(value); err != nil {
			return err
		}
	}
	if draft.Size.W < 0 || draft.Size.H < 0 {
		return errors.New("window size must not be negative")
	}
	draft.IsMaximized = opts.maximized

	if opts.content != "" {
		partial, err := parseContentJSON(opts.content)
		if err != nil {
			return err
		}
		draft.Content = draft.Content.Merge(partial)
	}
	if flags.Changed("url") {
		if draft.Type != domain.WidgetIframe {
			return fmt.Errorf("--url only applies to %s windows", domain.WidgetIframe)
		}
		draft.Content = draft.Content.Merge(domain.Content{"url": domain.NormalizeURL(opts.url)})
	}

	return nil
}

func newWindowMoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <window> <x> <y>",
		Short: "Move a window",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parsePair(args[1], args[2])
			if err != nil {
				return fmt.Errorf("position: %w", err)
			}

			return app.withSession(cmd.Context(), func(s *application.Session) error {
				window, err := resolveWindow(s.Store, args[0])
				if err != nil {
					return err
				}

				changed := s.Store.UpdateWindowPosition(window.ID, domain.Position{X: x, Y: y})
				reportChange(cmd, changed, "moved %s to %s,%s", window.ID, args[1], args[2])
				return nil
			})
		},
	}
}

func newWindowResizeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resize <window> <w> <h>",
		Short: "Resize a window",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := parsePair(args[1], args[2])
			if err != nil {
				return fmt.Errorf("size: %w", err)
			}
			if w < 0 || h < 0 {
				return errors.New("window size must not be negative")
			}

			return app.withSession(cmd.Context(), func(s *application.Session) error {
				window, err := resolveWindow(s.Store, args[0])
				if err != nil {
					return err
				}

				changed := s.Store.UpdateWindowSize(window.ID, domain.Size{W: w, H: h})
				reportChange(cmd, changed, "resized %s to %sx%s", window.ID, args[1], args[2])
				return nil
			})
		},
	}
}

func newWindowMaximizeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "max <window>",
		Short: "Toggle a window between maximized and its previous geometry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd.Context(), func(s *application.Session) error {
				window, err := resolveWindow(s.Store, args[0])
				if err != nil {
					return err
				}

				state := "maximized"
				if window.IsMaximized {
					state = "restored"
				}
				reportChange(cmd, s.Store.ToggleMaximize(window.ID), "%s %s", state, window.ID)
				return nil
			})
		},
	}
}

func newWindowFocusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "focus <window>",
		Short: "Bring a window to the front",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd.Context(), func(s *application.Session) error {
				window, err := resolveWindow(s.Store, args[0])
				if err != nil {
					return err
				}

				reportChange(cmd, s.Store.FocusWindow(window.ID), "focused %s", window.ID)
				return nil
			})
		},
	}
}

func newWindowCloseCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "close <window>",
		Aliases: []string{"rm"},
		Short:   "Close a window and discard its content",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd.Context(), func(s *application.Session) error {
				window, err := resolveWindow(s.Store, args[0])
				if err != nil {
					return err
				}

				reportChange(cmd, s.Store.CloseWindow(window.ID), "closed %s", window.ID)
				return nil
			})
		},
	}
}

func newWindowContentCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "content <window>",
		Short: "Print a window's content as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd.Context(), func(s *application.Session) error {
				window, err := resolveWindow(s.Store, args[0])
				if err != nil {
					return err
				}

				content, _ := s.Store.WindowContent(window.ID)
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(content)
			})
		},
	}
}

func newWindowSetCmd(app *app) *cobra.Command {
	var raw string

	cmd := &cobra.Command{
		Use:   "set <window> [key=value...]",
		Short: "Merge keys into a window's content",
		Long: "Merge keys into a window's content. Values are parsed as JSON when they can be,\n" +
			"otherwise they are stored as strings. Keys not named keep their value.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partial, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			if raw != "" {
				fromJSON, err := parseContentJSON(raw)
				if err != nil {
					return err
				}
				partial = fromJSON.Merge(partial)
			}
			if len(partial) == 0 {
				return errors.New("nothing to set: pass key=value pairs or --json")
			}

			return app.withSession(cmd.Context(), func(s *application.Session) error {
				window, err := resolveWindow(s.Store, args[0])
				if err != nil {
					return err
				}

				reportChange(cmd, s.Store.UpdateWindowContent(window.ID, partial), "updated %s", window.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&raw, "json", "", "partial content as a JSON object")

	return cmd
}

func newWindowListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List windows of the active project, back to front",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd.Context(), func(s *application.Session) error {
				if _, ok := s.Store.ActiveProject(); !ok {
					return domain.ErrNoActiveProject
				}

				windows := s.Store.WindowsByStackingOrder()
				if asJSON {
					encoder := json.NewEncoder(cmd.OutOrStdout())
					encoder.SetIndent("", "  ")
					return encoder.Encode(windows)
				}

				for _, window := range windows {
					marker := ""
					if window.IsMaximized {
						marker = "\tmax"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s%s\n", window.ZIndex, window.ID, window.Type, window.Title, marker)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print windows as JSON")

	return cmd
}

func parsePair(a, b string) (float64, float64, error) {
	first, err := parseGeometry(a)
	if err != nil {
		return 0, 0, err
	}
	second, err := parseGeometry(b)
	if err != nil {
		return 0, 0, err
	}

	return first, second, nil
}

func parseGeometry(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", raw, err)
	}
	if err := checkFinite(value); err != nil {
		return 0, fmt.Errorf("parse %q: %w", raw, err)
	}

	return value, nil
}

// checkFinite keeps NaN and infinities out of the record; JSON cannot encode them.
func checkFinite(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errNonFiniteGeometry
	}

	return nil
}

func parseContentJSON(raw string) (domain.Content, error) {
	var content domain.Content
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if content == nil {
		return nil, errors.New("parse content: expected a JSON object")
	}

	return content, nil
}

func parseAssignments(pairs []string) (domain.Content, error) {
	content := domain.Content{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", pair)
		}

		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			parsed = value
		}
		content[key] = parsed
	}

	return content, nil
}

func widgetTypeList() string {
	kinds := domain.WidgetTypes()
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = string(kind)
	}

	return strings.Join(names, ", ")
}
