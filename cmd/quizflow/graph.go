package main

import (
	"fmt"

	"github.com/aretw0/quizflow/internal/cli"
	"github.com/aretw0/quizflow/internal/presentation/graph"
	"github.com/aretw0/quizflow/pkg/catalog"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [graph-file]",
	Short: "Export the quiz graph",
	Long:  `Outputs the quiz as a Mermaid diagram (graph TD), or re-encodes it as YAML or JSON.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := v.GetString("graph")
		if len(args) > 0 {
			path = args[0]
		}
		g, err := cli.LoadGraph(path)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "mermaid":
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, nil))
		case "yaml", "json":
			data, err := catalog.Encode(g, catalog.Format(format))
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(data)
		default:
			return fmt.Errorf("unknown format %q (want mermaid, yaml or json)", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "mermaid", "output format: mermaid, yaml or json")
}
