package main

import (
	"fmt"

	"github.com/aretw0/quizflow/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [graph-file]",
	Short: "Validate a quiz graph",
	Long: `Loads a graph file and reports every structural problem: dangling
references, options with zero or two destinations, cycles and unreachable
questions. Without an argument the configured (or built-in) graph is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := v.GetString("graph")
		if len(args) > 0 {
			path = args[0]
		}

		g, err := cli.LoadGraph(path)
		if err != nil {
			return err
		}

		name := path
		if name == "" {
			name = "built-in graph"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid: %d questions, %d results, max depth %d\n",
			name, len(g.Questions()), len(g.Results()), g.MaxDepth())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
