package main

import (
	"fmt"

	"github.com/aretw0/quizflow/internal/cli"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every recorded submission",
	Long:  `Irreversibly removes all submissions from the configured store. Asks for confirmation unless --yes is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		store, err := cli.OpenStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := cli.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
				fmt.Sprintf("Delete ALL submissions from the %s store?", cfg.Store.Driver))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		if err := store.DeleteAll(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All submissions deleted.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}
