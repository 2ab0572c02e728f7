package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hupe1980/topicmap/build"
	"github.com/hupe1980/topicmap/source"
	"github.com/spf13/cobra"
)

var (
	buildCombined  bool
	buildTimestamp bool
	buildStrict    bool
)

func init() {
	cmd := newBuildCmd()
	cmd.Flags().BoolVar(&buildCombined, "combined", false, "Also write topic.map over all sources with global IDs")
	cmd.Flags().BoolVar(&buildTimestamp, "timestamp", false, "Record created_at in the manifest")
	cmd.Flags().BoolVar(&buildStrict, "strict", false, "Fail when a compiled perfect-hash table is stale")
	rootCmd.AddCommand(cmd)
}

func newBuildCmd() *cobra.Command {
	names := make([]string, 0, source.Default.Len())
	for _, s := range source.Default.Sources() {
		names = append(names, "<"+s.Name+".json>")
	}
	cmd := &cobra.Command{
		Use:   "build <out_dir> " + joinArgs(names),
		Short: "Build the topic map of upstream snapshots",
		Long: `The build command extracts the keys of one JSON snapshot per source,
assigns local IDs in byte order and writes the ordered-index artifacts and
the manifest into out_dir. Snapshots are given in source registry order.

Example:
  topicmap build ./out binance.json uniswap.json
  topicmap build ./out binance.json uniswap.json --combined`,
		Args: cobra.ExactArgs(1 + source.Default.Len()),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args)
		},
	}
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	dir := args[0]
	inputs := make(map[string][]byte, len(args)-1)
	for i, s := range source.Default.Sources() {
		data, err := os.ReadFile(args[i+1])
		if err != nil {
			return fmt.Errorf("read %s input: %w", s.Name, err)
		}
		inputs[s.Name] = data
	}

	opts := []build.Option{
		build.WithCombined(buildCombined),
		build.WithStrictCompiled(buildStrict),
		build.WithLogger(logger.Logger),
	}
	if buildTimestamp {
		opts = append(opts, build.WithTimestamp(time.Now))
	}
	m, err := build.Run(cmd.Context(), dir, inputs, opts...)
	logger.LogBuild(cmd.Context(), dir, buildID(m), len(inputs), err)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), map[string]any{"dir": dir, "build_id": m.BuildID})
	}
	for _, name := range m.SourceNames() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d keys\n", name, m.Sources[name].Count)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "build %s written to %s\n", m.BuildID, dir)
	return nil
}
