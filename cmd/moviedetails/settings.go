package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change plugin settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-key <api-key>",
		Short: "Save the OMDb API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			defer a.Close()

			if err := a.Plugin.UpdateAPIKey(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key saved")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show whether an API key is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			defer a.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "api key configured: %t\n", a.Plugin.Settings().Configured())
			return nil
		},
	})

	return cmd
}
