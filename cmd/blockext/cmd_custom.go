package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/blockext/internal/app"
	"github.com/five82/blockext/internal/extapi"
	"github.com/five82/blockext/internal/extension"
)

func newAddCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Add a custom blocked extension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := extension.NormalizeName(args[0])
			if err != nil {
				var verr *extension.ValidationError
				if errors.As(err, &verr) {
					return errors.New(verr.Warning())
				}
				return err
			}

			env, err := app.Open(flags.options())
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.Client.AddCustom(cmd.Context(), name); err != nil {
				env.Logger.Warn("add custom extension failed", "name", name, "error", err)
				return errors.New(extapi.Message(err, "An error occurred while processing."))
			}
			env.Logger.Info("custom extension added", "name", name)
			fmt.Fprintln(cmd.OutOrStdout(), "Custom extension saved.")
			return nil
		},
	}
}

func newRmCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"delete"},
		Short:   "Delete a custom blocked extension",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Open(flags.options())
			if err != nil {
				return err
			}
			defer env.Close()

			name := args[0]
			if err := env.Client.DeleteCustom(cmd.Context(), name); err != nil {
				env.Logger.Warn("delete custom extension failed", "name", name, "error", err)
				return errors.New(extapi.Message(err, "Failed to delete."))
			}
			env.Logger.Info("custom extension deleted", "name", name)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted '%s'.\n", name)
			return nil
		},
	}
}
