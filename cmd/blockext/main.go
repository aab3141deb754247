package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/blockext/internal/app"
)

var version = "0.1.0"

type rootFlags struct {
	configPath string
	prefsPath  string
}

func (f *rootFlags) options() app.Options {
	return app.Options{ConfigPath: f.configPath, PrefsPath: f.prefsPath}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "blockext",
		Short: "Manage blocked file extensions",
		Long: "blockext edits the set of blocked file extensions on an extension policy server. " +
			"Without a subcommand it opens an interactive terminal UI that stays in sync with other clients.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/blockext/config.toml)")
	root.PersistentFlags().StringVar(&flags.prefsPath, "prefs", "", "prefs file (default ~/.config/blockext/prefs.toml)")

	root.AddCommand(
		newListCmd(flags),
		newAddCmd(flags),
		newRmCmd(flags),
		newLogsCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Show version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "blockext %s\n", version)
			},
		},
	)
	return root
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "blockext: %v\n", err)
		return 1
	}
	return 0
}
