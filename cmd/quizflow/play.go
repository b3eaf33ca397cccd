package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/quizflow"
	"github.com/aretw0/quizflow/internal/cli"
	"github.com/aretw0/quizflow/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Take the quiz in the terminal",
	Long: `Asks for a nickname, then presents each question with numbered options.
Answer with the option number or id; type "quit" to leave. The completed run
is recorded in the configured store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := cli.NewLogger(cfg)

		// No signal trapping: a blocked stdin read cannot be interrupted, so
		// Ctrl-C keeps its default behavior.
		ctx := cmd.Context()

		app, err := cli.Bootstrap(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		runner := &quizflow.Runner{Input: os.Stdin, Output: os.Stdout}
		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(os.Stdout, "HackHope")
			if render, err := tui.NewRenderer(80); err == nil {
				runner.Renderer = render
			} else {
				logger.Warn("markdown renderer unavailable", "error", err)
			}
		}

		_, err = runner.Run(ctx, app.Engine)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, quizflow.ErrQuit), errors.Is(err, io.ErrUnexpectedEOF):
			fmt.Println("\nBye!")
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
