package artlens_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artlens/artlens"
	"github.com/artlens/artlens/application/service"
	"github.com/artlens/artlens/domain/catalog"
	"github.com/artlens/artlens/internal/config"
)

func newClient(t *testing.T, opts ...artlens.Option) *artlens.Client {
	t.Helper()

	dir := t.TempDir()
	base := []artlens.Option{
		artlens.WithDataDir(dir),
		artlens.WithSQLite(filepath.Join(dir, "test.db")),
		artlens.WithDiskCache(config.NewDiskCacheConfig().WithEnabled(false)),
		artlens.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	client, err := artlens.New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClient_UpsertAndMatch(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)
	require.NoError(t, client.Start(ctx))

	artwork := catalog.NewArtwork("mona-lisa",
		catalog.WithTitle("Mona Lisa"),
		catalog.WithArtist("Leonardo da Vinci"),
	)
	result, err := client.Catalog.Upsert(ctx, artwork, []service.DescriptorInput{
		{Embedding: []float64{3, 4}},
	})
	require.NoError(t, err)
	assert.False(t, result.Degraded())

	matches, err := client.Matcher.Match([]float64{3, 4})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "mona-lisa", matches[0].Artwork().ID())
	assert.InDelta(t, 1.0, matches[0].Score(), 1e-9)
}

func TestClient_StartRecoversWarmCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "warm.json")
	diskCache := config.NewDiskCacheConfig().WithEnabled(true).WithPath(cachePath)

	client := newClient(t, artlens.WithDiskCache(diskCache))
	require.NoError(t, client.Start(ctx))

	_, err := client.Catalog.Upsert(ctx,
		catalog.NewArtwork("a", catalog.WithTitle("A")),
		[]service.DescriptorInput{{Embedding: []float64{1, 0}}},
	)
	require.NoError(t, err)
	require.NoError(t, client.Close())

	// A second client over the same cache file serves the corpus without
	// needing the refresh to have run.
	restored := newClient(t, artlens.WithDiskCache(diskCache))
	require.NoError(t, restored.Start(ctx))

	s := restored.Catalog.Snapshot()
	assert.Equal(t, 1, s.ArtworkCount())
	assert.Equal(t, 1, s.DescriptorCount())
	assert.Equal(t, 2, s.Dim())
}

func TestClient_CloseTwice(t *testing.T) {
	client := newClient(t)
	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.Close(), artlens.ErrClientClosed)
}
