package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bnema/desk/internal/logging"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type batchLine struct {
	number int
	text   string
}

type batchResult struct {
	operations int
	failed     int
}

func newBatchCmd(app *app) *cobra.Command {
	var (
		indicator   bool
		stopOnError bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Apply workspace, project and window commands read from stdin in one session",
		Long: "Apply commands read from stdin, one per line, in one session so edits are\n" +
			"coalesced by the debounced writer. Lines use the same syntax as the CLI without\n" +
			"the leading `desk`, for example `window open sticky-note --title Groceries`.\n" +
			"Blank lines and lines starting with # are skipped.\n\n" +
			"SIGINT and SIGTERM stop reading and flush pending edits before exiting.\n" +
			"SIGHUP flushes pending edits and keeps going.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			session, err := app.openSession(ctx)
			if err != nil {
				return err
			}

			app.shared = session.Session
			defer func() { app.shared = nil }()

			hidden := make(chan os.Signal, 1)
			signal.Notify(hidden, syscall.SIGHUP)
			defer signal.Stop(hidden)

			readCtx, stopReading := context.WithCancel(ctx)
			defer stopReading()
			lines := readBatchLines(readCtx, bufio.NewScanner(cmd.InOrStdin()))
			logger := logging.WithComponent(app.logger, "batch")

			indicatorCtx, stopIndicator := context.WithCancel(ctx)
			defer stopIndicator()

			group, groupCtx := errgroup.WithContext(ctx)
			if indicator {
				updates := session.Status.Watch(indicatorCtx)
				group.Go(func() error {
					return runSaveIndicator(indicatorCtx, cmd.ErrOrStderr(), updates)
				})
			}

			var result batchResult
			group.Go(func() error {
				defer stopIndicator()

				for {
					select {
					case <-groupCtx.Done():
						return nil
					case <-hidden:
						if err := session.Autosaver.OnHidden(groupCtx); err != nil {
							logger.Warn().Err(err).Msg("flush on hangup failed")
						}
					case line, ok := <-lines:
						if !ok {
							return nil
						}
						result.operations++
						if err := runBatchLine(logging.WithContext(groupCtx, logger), app, cmd, line); err != nil {
							result.failed++
							_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %v\n", line.number, err)
							if stopOnError {
								return fmt.Errorf("line %d: %w", line.number, err)
							}
						}
					}
				}
			})

			runErr := group.Wait()
			interrupted := ctx.Err() != nil
			stopReading()

			// Teardown flush must outlive the signal that canceled ctx.
			closeErr := session.close(context.WithoutCancel(ctx))

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d operations, %d failed, %d writes\n",
				result.operations, result.failed, session.Autosaver.Writes())
			if interrupted {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "interrupted, pending edits flushed")
			}

			return errors.Join(runErr, closeErr)
		},
	}

	cmd.Flags().BoolVar(&indicator, "indicator", false, "draw the save status on stderr")
	cmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "stop at the first failing line")

	return cmd
}

// readBatchLines feeds non-empty, non-comment lines until input ends or ctx
// is done. The reader may stay blocked on input after ctx is done.
func readBatchLines(ctx context.Context, scanner *bufio.Scanner) <-chan batchLine {
	lines := make(chan batchLine)

	go func() {
		defer close(lines)

		number := 0
		for scanner.Scan() {
			number++
			text := strings.TrimSpace(scanner.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}

			select {
			case lines <- batchLine{number: number, text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return lines
}

func runBatchLine(ctx context.Context, app *app, parent *cobra.Command, line batchLine) error {
	args, err := splitBatchLine(line.text)
	if err != nil {
		return err
	}
	if len(args) > 0 && args[0] == "desk" {
		args = args[1:]
	}
	if len(args) == 0 {
		return errors.New("empty command")
	}

	lineCmd := &cobra.Command{
		Use:           "desk",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	lineCmd.AddCommand(newStateCmds(app)...)
	lineCmd.SetArgs(args)
	lineCmd.SetIn(strings.NewReader(""))
	lineCmd.SetOut(parent.OutOrStdout())
	lineCmd.SetErr(parent.ErrOrStderr())

	return lineCmd.ExecuteContext(ctx)
}

// splitBatchLine splits a line the way a POSIX shell would, without expansion.
func splitBatchLine(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("split line: %w", err)
	}

	return args, nil
}
