package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/topicmap"
	"github.com/hupe1980/topicmap/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
	quiet      bool
	jsonOut    bool

	cfg    *config.Config
	logger *topicmap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "topicmap",
	Short: "Build and query static topic ID maps",
	Long: `topicmap assigns dense numeric topic IDs to upstream identifiers
(exchange symbols, on-chain pool IDs) and persists them as static lookup
structures that are loaded once and queried without allocation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./topicmap.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Log errors only")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger.
func setup(stderr io.Writer) error {
	var err error
	if cfg, err = config.Load(configPath); err != nil {
		return err
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		logger = topicmap.NewLogger(slog.NewJSONHandler(stderr, opts))
	} else {
		logger = topicmap.NewLogger(slog.NewTextHandler(stderr, opts))
	}
	return nil
}

// printJSON outputs data as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := codecJSON(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
