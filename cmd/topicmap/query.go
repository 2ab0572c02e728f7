package main

import (
	"errors"
	"fmt"

	"github.com/hupe1980/topicmap"
	"github.com/hupe1980/topicmap/keys"
	"github.com/hupe1980/topicmap/source"
	"github.com/spf13/cobra"
)

var queryDir string

// errNoMapping is returned when a key resolves to no topic.
var errNoMapping = errors.New("no mapping")

func init() {
	cmd := newQueryCmd()
	cmd.Flags().StringVar(&queryDir, "dir", "", "Artifact directory (default: $TOPIC_MAP_DIR)")
	rootCmd.AddCommand(cmd)
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <source> <channel> <key>",
		Short: "Resolve one key to its topic ID",
		Long: `The query command opens the topic map like a service would and resolves
one key. Pool keys must be 0x-prefixed 64-digit hex literals.

Example:
  topicmap query binance book_ticker ETHBTC
  TOPIC_MAP_DIR=./out topicmap query uniswap swap 0x0003be...`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args)
		},
	}
}

func runQuery(cmd *cobra.Command, args []string) error {
	src, ch, err := source.Default.Resolve(args[0], args[1])
	if err != nil {
		return err
	}
	key := []byte(args[2])
	if src.Keys == source.Pool32 {
		pool, err := keys.ParsePoolID(args[2])
		if err != nil {
			return err
		}
		key = pool.Bytes()
	}

	dir := queryDir
	if dir == "" {
		dir = cfg.Dir
	}
	r, err := topicmap.Open(cmd.Context(),
		topicmap.WithDir(dir),
		topicmap.WithManifestCheck(cfg.ManifestCheck),
		topicmap.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer r.Close()

	id, ok := r.Lookup(src.ID, ch.ID, key)
	if jsonOut {
		out := map[string]any{"source": src.Name, "channel": ch.Name, "key": args[2], "found": ok}
		if ok {
			out["topic_id"] = id
		}
		if err := printJSON(cmd.OutOrStdout(), out); err != nil {
			return err
		}
	} else if ok {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	if !ok {
		return fmt.Errorf("%s.%s %s: %w", src.Name, ch.Name, args[2], errNoMapping)
	}
	return nil
}
