package main

import (
	"fmt"
	"os"

	"github.com/aretw0/quizflow/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	v       = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "quizflow",
	Short: "quizflow runs a branching personality quiz",
	Long: `quizflow walks participants through a decision graph of questions to a result
category, records every completed run and serves an administrator dashboard.

Settings come from flags, QUIZFLOW_* environment variables, an optional config
file (quizflow.yaml) and built-in defaults, in that order.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./quizflow.yaml if present)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")
	flags.String("graph", "", "quiz graph file (YAML or JSON); built-in quiz when empty")
	flags.String("store", "", "result store: memory, sqlite or redis")
	flags.String("sqlite-path", "", "SQLite database file")
	flags.String("redis-addr", "", "Redis address")

	bind("log_level", "log-level")
	bind("log_format", "log-format")
	bind("graph", "graph")
	bind("store.driver", "store")
	bind("store.sqlite_path", "sqlite-path")
	bind("store.redis.addr", "redis-addr")
}

func bind(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(v, cfgFile)
}
