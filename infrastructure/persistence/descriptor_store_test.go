package persistence_test

import (
	"context"
	"testing"

	"github.com/artlens/artlens/domain/catalog"
	"github.com/artlens/artlens/infrastructure/persistence"
	"github.com/artlens/artlens/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorStore_AllOrdered(t *testing.T) {
	db := testdb.New(t)
	artStore := persistence.NewArtworkStore(db, noRetry())
	descStore := persistence.NewDescriptorStore(db, noRetry())
	ctx := context.Background()

	// Insert out of order to prove the read path sorts.
	b := catalog.NewArtwork("starry-night")
	require.NoError(t, artStore.Upsert(ctx, b, []catalog.Descriptor{
		catalog.NewDescriptor("starry-night", "main#1", []float64{0, 1}),
		catalog.NewDescriptor("starry-night", "main#0", []float64{1, 0}),
	}))
	a := catalog.NewArtwork("mona-lisa")
	require.NoError(t, artStore.Upsert(ctx, a, []catalog.Descriptor{
		catalog.NewDescriptor("mona-lisa", "main#0", []float64{0, 1}),
	}))

	all, err := descStore.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	keys := make([][2]string, len(all))
	for i, d := range all {
		keys[i] = [2]string{d.ArtworkID(), d.DescriptorID()}
	}
	assert.Equal(t, [][2]string{
		{"mona-lisa", "main#0"},
		{"starry-night", "main#0"},
		{"starry-night", "main#1"},
	}, keys)
}

func TestDescriptorStore_PreservesImagePath(t *testing.T) {
	db := testdb.New(t)
	artStore := persistence.NewArtworkStore(db, noRetry())
	descStore := persistence.NewDescriptorStore(db, noRetry())
	ctx := context.Background()

	art := catalog.NewArtwork("mona-lisa")
	desc := catalog.NewDescriptor("mona-lisa", "main#0", []float64{1, 0}).WithImagePath("/img/a.jpg")
	require.NoError(t, artStore.Upsert(ctx, art, []catalog.Descriptor{desc}))

	all, err := descStore.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "/img/a.jpg", all[0].ImagePath())
}

func TestDescriptorStore_Delete(t *testing.T) {
	db := testdb.New(t)
	artStore := persistence.NewArtworkStore(db, noRetry())
	descStore := persistence.NewDescriptorStore(db, noRetry())
	ctx := context.Background()

	art := catalog.NewArtwork("mona-lisa")
	require.NoError(t, artStore.Upsert(ctx, art, []catalog.Descriptor{
		catalog.NewDescriptor("mona-lisa", "main#0", []float64{1, 0}),
		catalog.NewDescriptor("mona-lisa", "main#1", []float64{0, 1}),
	}))

	require.NoError(t, descStore.Delete(ctx, "mona-lisa", "main#0"))

	all, err := descStore.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "main#1", all[0].DescriptorID())
}

func TestDescriptorStore_DeleteMissingReturnsNotFound(t *testing.T) {
	db := testdb.New(t)
	descStore := persistence.NewDescriptorStore(db, noRetry())

	err := descStore.Delete(context.Background(), "mona-lisa", "main#9")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}
