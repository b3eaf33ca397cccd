package main

import (
	"fmt"
	"os"

	"github.com/aretw0/quizflow/internal/cli"
	"github.com/aretw0/quizflow/internal/dashboard"
	"github.com/aretw0/quizflow/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the dashboard: totals per result and recent submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := cli.NewLogger(cfg)
		ctx := cmd.Context()

		store, err := cli.OpenStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := dashboard.NewService(store, nil, dashboard.WithLogger(logger)).Refresh(ctx)
		if err != nil {
			return fmt.Errorf("could not load submissions (try again): %w", err)
		}

		recent, _ := cmd.Flags().GetInt("recent")
		md := cli.StatsMarkdown(summary, recent)

		if term.IsTerminal(int(os.Stdout.Fd())) {
			if render, err := tui.NewRenderer(100); err == nil {
				if out, err := render(md); err == nil {
					md = out
				}
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntP("recent", "n", 10, "number of recent submissions to list (0 for none)")
}
