package manifest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/topicmap/blobstore"
	"github.com/hupe1980/topicmap/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Manifest {
	m := New()
	m.Sources["binance"] = Source{
		Count: 2, Base: 0, Size: 10_000,
		Channels: map[string]Artifact{"book_ticker": {Count: 2, Structure: "phf"}},
	}
	m.Sources["uniswap"] = Source{
		Count: 2, Base: 10_000, Size: 25_000,
		Channels: map[string]Artifact{"swap": {Count: 2, Structure: "fst", File: "uniswap.swap.map", Size: 120, CRC32C: 42}},
	}
	return m
}

func TestEncodeDecode(t *testing.T) {
	m := sample()
	require.NoError(t, m.Seal())
	m.CreatedAt = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	data, err := m.Encode()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
	assert.Contains(t, string(data), `"version": 1`)
	assert.Contains(t, string(data), `"created_at": "2026-10-17T12:00:00Z"`)

	back, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, m, back)
	require.NoError(t, back.Validate(source.Default))
}

func TestDecode_OriginalShape(t *testing.T) {
	m, err := Decode([]byte(`{"binance": {"count": 2}, "uniswap": {"count": 7}, "version": 1}`))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Version)
	assert.Equal(t, 7, m.Sources["uniswap"].Count)
	assert.Equal(t, []string{"binance", "uniswap"}, m.SourceNames())
}

func TestDecode_Malformed(t *testing.T) {
	for _, doc := range []string{
		`[]`,
		`{"binance": {"count": 2}}`,
		`{"version": 1, "binance": {"base": 0}}`,
		`{"version": 1, "binance": 3}`,
		`{"version": "one"}`,
		`{"version": 1, "created_at": "yesterday"}`,
	} {
		_, err := Decode([]byte(doc))
		assert.ErrorIs(t, err, ErrMalformed, doc)
	}
}

func TestSeal_Deterministic(t *testing.T) {
	a, b := sample(), sample()
	b.CreatedAt = time.Now()
	require.NoError(t, a.Seal())
	require.NoError(t, b.Seal())
	assert.Equal(t, a.BuildID, b.BuildID, "created_at does not contribute")

	c := sample()
	c.Sources["uniswap"].Channels["swap"] = Artifact{Count: 2, Structure: "fst", File: "uniswap.swap.map", Size: 120, CRC32C: 43}
	require.NoError(t, c.Seal())
	assert.NotEqual(t, a.BuildID, c.BuildID)
}

func TestValidate(t *testing.T) {
	m := sample()
	m.Version = 99
	assert.ErrorIs(t, m.Validate(source.Default), ErrIncompatibleVersion)

	m = sample()
	m.Sources["kraken"] = Source{Count: 1}
	assert.ErrorIs(t, m.Validate(source.Default), ErrMismatch)

	m = sample()
	s := m.Sources["binance"]
	s.Count = 10_001
	m.Sources["binance"] = s
	assert.ErrorIs(t, m.Validate(source.Default), ErrMismatch)

	m = sample()
	m.Sources["uniswap"].Channels["swap"] = Artifact{Count: 2, Structure: "phf"}
	assert.ErrorIs(t, m.Validate(source.Default), ErrMismatch)

	m = sample()
	m.Sources["uniswap"].Channels["swap"] = Artifact{Count: 2, Structure: "fst", File: "swap.fst"}
	assert.ErrorIs(t, m.Validate(source.Default), ErrMismatch)
}

func TestArtifacts(t *testing.T) {
	m := sample()
	m.Combined = &Artifact{Count: 4, Structure: "fst", File: source.CombinedArtifactName}
	files := []string{}
	for _, a := range m.Artifacts() {
		files = append(files, a.File)
	}
	assert.Equal(t, []string{"topic.map", "uniswap.swap.map"}, files)
}

func TestEncode_ReservedName(t *testing.T) {
	m := New()
	m.Sources["version"] = Source{Count: 1}
	_, err := m.Encode()
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := ReadCurrent(ctx, store)
	require.ErrorIs(t, err, ErrNoRelease)

	m := sample()
	require.NoError(t, m.Seal())
	require.NoError(t, Write(ctx, store, m.BuildID, m))
	require.NoError(t, WriteCurrent(ctx, store, m.BuildID))

	id, err := ReadCurrent(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, m.BuildID, id)

	back, err := Read(ctx, store, id)
	require.NoError(t, err)
	assert.Equal(t, m.BuildID, back.BuildID)

	require.NoError(t, store.Put(ctx, CurrentFileName, []byte("../etc\n")))
	_, err = ReadCurrent(ctx, store)
	assert.ErrorIs(t, err, ErrMalformed)
}
