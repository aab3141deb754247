package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/blockext/internal/app"
	"github.com/five82/blockext/internal/extension"
)

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print blocked fixed extensions and custom extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Open(flags.options())
			if err != nil {
				return err
			}
			defer env.Close()

			snap, err := env.Client.FetchSnapshot(cmd.Context())
			if err != nil {
				env.Logger.Error("fetch snapshot failed", "error", err)
				return fmt.Errorf("fetch extensions: %w", err)
			}
			printSnapshot(cmd.OutOrStdout(), env.Config.Catalog(), snap)
			return nil
		},
	}
}

func printSnapshot(w io.Writer, catalog extension.Catalog, snap extension.Snapshot) {
	blocked := make(map[string]bool, len(snap.Fixed))
	for _, name := range snap.Fixed {
		blocked[name] = true
	}

	fmt.Fprintln(w, "Fixed extensions:")
	for _, name := range catalog.Names() {
		box := "[ ]"
		if blocked[name] {
			box = "[x]"
		}
		fmt.Fprintf(w, "  %s %s\n", box, name)
	}

	fmt.Fprintf(w, "Custom extensions (%d/%d):\n", snap.Count, extension.MaxCustom)
	if len(snap.Custom) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(snap.Custom, ", "))
}
