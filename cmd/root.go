package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "desk",
		Short:         "desk: a persistent workspace, project and window layout store",
		Long:          "desk keeps a tree of workspaces, projects and widget windows, saves it with a debounced writer and repairs it on load.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newStateCmds(app)...)
	rootCmd.AddCommand(
		newStatusCmd(app),
		newBatchCmd(app),
		newWatchCmd(app),
		newResetCmd(app),
	)

	return rootCmd
}

// newStateCmds builds the commands that mutate or list the tree. Batch mode
// reuses them for every input line.
func newStateCmds(app *app) []*cobra.Command {
	return []*cobra.Command{
		newWorkspaceCmd(app),
		newProjectCmd(app),
		newWindowCmd(app),
	}
}
