package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/layerhash/pkg/layerhash"
)

// --- Global Command Variables ---
var (
	configPath  string
	logLevel    string
	noPushState bool
	showMetrics bool

	rootCmd = &cobra.Command{
		Use:           "layerhash",
		Short:         "Inspect and simulate layered hash-mode history",
		SilenceUsage:  true,
	}

	decodeCmd = &cobra.Command{
		Use:   "decode [url]",
		Short: "Print the decoded fragment of a URL",
		Args:  cobra.ExactArgs(1),
		RunE:  runDecode,
	}

	simulateCmd = &cobra.Command{
		Use:   "simulate [script.yaml]",
		Short: "Run a navigation script against an in-memory browser",
		Long: `Loads routes and navigation steps from a YAML script, runs them
against an in-memory browser and prints the address and layer stack after
every step.`,
		Args: cobra.ExactArgs(1),
		RunE: runSimulate,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML or YAML adapter config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(decodeCmd)

	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().BoolVar(&noPushState, "no-pushstate", false, "Simulate a browser without native history push")
	simulateCmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print navigation counters after the run")
}

func runDecode(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), layerhash.DecodeFragment(args[0]))
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := layerhash.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	script, err := loadScript(args[0])
	if err != nil {
		return err
	}

	run := simulation{
		out:         cmd.OutOrStdout(),
		cfg:         cfg,
		logger:      newLogger(cfg),
		noPushState: noPushState,
		metrics:     showMetrics,
	}
	return run.execute(script)
}

// newLogger keeps log output on stderr so simulation output stays parseable.
// A configured log file takes over instead.
func newLogger(cfg layerhash.Config) *slog.Logger {
	if cfg.LogPath != "" {
		return nil
	}
	return layerhash.NewLogger(os.Stderr, cfg.LogLevel)
}
