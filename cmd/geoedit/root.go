package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/geoedit/internal/app"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	var root rootOptions
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "geoedit",
		Short: "Draw and edit map geometries in the terminal",
		Long: `geoedit draws and edits markers, lines and polygons with the mouse in a
terminal. Press l, p or m to start a line, a polygon or a marker, click to
add vertices and press Enter to finish. Run "geoedit keys" for every binding.

Configuration is read from the file given by --config and from environment
variables named GEOEDIT_<SECTION>_<KEY>, e.g. GEOEDIT_EDITING_VERTEX_SIZE.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ConfigPath = root.configPath
			return runEditor(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&root.configPath, "config", "c", "", "configuration file")
	cmd.Flags().StringVarP(&opts.ScriptPath, "script", "s", "", "Lua script run at startup")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "file receiving log output")
	cmd.Flags().BoolVarP(&opts.Debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "reload the configuration file when it changes")

	cmd.AddCommand(
		newRenderCmd(&root),
		newKeysCmd(),
		newVersionCmd(),
	)
	return cmd
}

// runEditor runs the terminal editor until the user quits or the command
// context is cancelled.
func runEditor(cmd *cobra.Command, opts app.Options) error {
	application, err := app.New(opts)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	go func() {
		<-cmd.Context().Done()
		application.Shutdown()
	}()

	if err := application.Run(); err != nil && !errors.Is(err, app.ErrQuit) {
		return err
	}
	return nil
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the key bindings",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			b := app.DefaultBindings()
			for _, a := range b.Actions() {
				keys := strings.Join(b.KeysFor(a.Name), " ")
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-24s %s\n", keys, a.Name, a.Help)
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "geoedit %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
