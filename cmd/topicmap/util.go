package main

import (
	"strings"

	"github.com/hupe1980/topicmap/codec"
	"github.com/hupe1980/topicmap/manifest"
)

func joinArgs(args []string) string { return strings.Join(args, " ") }

func buildID(m *manifest.Manifest) string {
	if m == nil {
		return ""
	}
	return m.BuildID
}

func codecJSON(v any) ([]byte, error) {
	data, err := codec.Default.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func artifactCount(m *manifest.Manifest) int {
	if m == nil {
		return 0
	}
	return len(m.Artifacts())
}
