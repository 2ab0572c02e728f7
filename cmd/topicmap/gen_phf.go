package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/hupe1980/topicmap/alloc"
	ifs "github.com/hupe1980/topicmap/internal/fs"
	"github.com/hupe1980/topicmap/keys"
	"github.com/hupe1980/topicmap/source"
	"github.com/hupe1980/topicmap/staticmap/phf"
	"github.com/spf13/cobra"
)

var (
	genSource  string
	genChannel string
	genPackage string
	genVar     string
	genOut     string
)

func init() {
	cmd := newGenPHFCmd()
	cmd.Flags().StringVar(&genSource, "source", "binance", "Source of the keys")
	cmd.Flags().StringVar(&genChannel, "channel", "book_ticker", "Perfect-hash channel")
	cmd.Flags().StringVar(&genPackage, "package", "backend", "Package of the generated file")
	cmd.Flags().StringVar(&genVar, "var", "", "Variable name of the table (required)")
	cmd.Flags().StringVarP(&genOut, "out", "o", "", "Output file (default: stdout)")
	_ = cmd.MarkFlagRequired("var")
	rootCmd.AddCommand(cmd)
}

func newGenPHFCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-phf <input.json>",
		Short: "Generate a compiled perfect-hash table",
		Long: `The gen-phf command builds a minimal perfect-hash table over the keys of
a source snapshot and writes it as Go source. Local IDs are assigned in byte
order, exactly as the build command assigns them.

Example:
  topicmap gen-phf --var binanceBookTicker -o binance_book_ticker_gen.go data/binance.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenPHF(cmd, args)
		},
	}
}

func runGenPHF(cmd *cobra.Command, args []string) error {
	src, ch, err := source.Default.Resolve(genSource, genChannel)
	if err != nil {
		return err
	}
	if ch.Structure != source.PerfectHash {
		return fmt.Errorf("channel %s.%s is %s, not phf", src.Name, ch.Name, ch.Structure)
	}

	doc, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	ks, err := keys.Extract(src.Keys, doc)
	if err != nil {
		return err
	}
	a := alloc.Assign(ks)
	if uint64(a.Len()) > uint64(src.Interval.Size) {
		return &alloc.OverflowError{Source: src.Name, Count: a.Len(), Interval: src.Interval}
	}

	names := make([]string, a.Len())
	values := make([]uint32, a.Len())
	for i, k := range a.Keys() {
		names[i] = string(k)
		values[i] = uint32(i) //nolint:gosec // bounded by interval size
	}
	table, err := phf.Build(names, values)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = phf.Generate(&buf, phf.GenerateConfig{
		Package:   genPackage,
		Var:       genVar,
		Doc:       fmt.Sprintf("%s maps %s %s symbols to local IDs.", genVar, src.Name, ch.Name),
		Generator: "topicmap gen-phf",
	}, table)
	if err != nil {
		return err
	}
	logger.DebugContext(cmd.Context(), "perfect-hash table generated",
		"source", src.Name, "channel", ch.Name, "keys", table.Len(), "buckets", len(table.Seeds))

	if genOut == "" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	return ifs.WriteFileAtomic(ifs.Default, genOut, buf.Bytes())
}
