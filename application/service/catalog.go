// Package service provides application layer services that orchestrate
// domain operations: the catalog coordinator owning the snapshot lifecycle,
// and the matcher serving similarity queries from it.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/artlens/artlens/domain/catalog"
	"github.com/artlens/artlens/internal/database"
)

// DescriptorInput is one incoming visual descriptor of an upsert request,
// before normalization. An empty ID is defaulted to "main#<index>".
type DescriptorInput struct {
	ID        string
	Embedding []float64
	ImagePath string
}

// UpsertResult reports what an upsert did.
type UpsertResult struct {
	id          string
	observedDim int
	degraded    bool
	descriptors []catalog.Descriptor
}

// ID returns the artwork ID the mutation applied to.
func (r UpsertResult) ID() string { return r.id }

// ObservedDim returns the embedding dimension of the request's descriptors,
// 0 when the request carried none.
func (r UpsertResult) ObservedDim() int { return r.observedDim }

// Degraded reports whether durable persistence failed and the mutation was
// applied to the snapshot and warm cache only.
func (r UpsertResult) Degraded() bool { return r.degraded }

// Descriptors returns the normalized descriptors the mutation carried.
func (r UpsertResult) Descriptors() []catalog.Descriptor {
	out := make([]catalog.Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Catalog coordinates the snapshot with the durable store and the warm
// cache: startup population, full refreshes, and the write path with its
// degraded fallback. Mutations are serialized with a mutex; reads go through
// the holder's atomic pointer and never block.
type Catalog struct {
	artworks     catalog.ArtworkStore
	descriptors  catalog.DescriptorStore
	settings     catalog.SettingStore
	warm         catalog.WarmCache
	holder       *catalog.Holder
	startupRetry database.RetryPolicy
	logger       *slog.Logger

	mu sync.Mutex
}

// NewCatalog creates a Catalog coordinator.
func NewCatalog(
	artworks catalog.ArtworkStore,
	descriptors catalog.DescriptorStore,
	settings catalog.SettingStore,
	warm catalog.WarmCache,
	holder *catalog.Holder,
	startupRetry database.RetryPolicy,
	logger *slog.Logger,
) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		artworks:     artworks,
		descriptors:  descriptors,
		settings:     settings,
		warm:         warm,
		holder:       holder,
		startupRetry: startupRetry,
		logger:       logger,
	}
}

// Snapshot returns the current snapshot.
func (c *Catalog) Snapshot() catalog.Snapshot {
	return c.holder.Snapshot()
}

// Start populates the snapshot: warm cache first, then the durable store
// with retries at the refresh granularity. When every attempt fails the
// process still comes up serving an empty snapshot; the match path then
// reports an empty corpus instead of the service crash-looping.
func (c *Catalog) Start(ctx context.Context) error {
	if s, ok := c.warm.Load(); ok {
		c.holder.Replace(s)
		return nil
	}

	// Any refresh failure is retried here, not just connectivity: a slow
	// managed database coming up can fail in several ways during deploys.
	err := database.Retry(ctx, c.startupRetry, nil, func(ctx context.Context) error {
		return c.Refresh(ctx)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Error("startup refresh failed, serving empty snapshot", "error", err)
		c.holder.Replace(catalog.EmptySnapshot())
	}
	return nil
}

// Refresh rebuilds the snapshot wholesale from the durable store, swaps it
// in atomically, and persists the warm cache as a best-effort side effect.
func (c *Catalog) Refresh(ctx context.Context) error {
	artworks, err := c.artworks.All(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	descriptors, err := c.descriptors.All(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	s := catalog.NewSnapshot(artworks, descriptors)
	c.holder.Replace(s)
	c.warm.Save(s)

	c.logger.InfoContext(ctx, "snapshot refreshed",
		"artworks", s.ArtworkCount(),
		"descriptors", s.DescriptorCount(),
		"dim", s.Dim(),
	)
	return nil
}

// Upsert validates and persists an artwork with its descriptors.
//
// Embeddings are normalized up front; a dimension disagreement inside the
// request, or with the established corpus dimension, aborts before any
// write. On durable success the snapshot is rebuilt from the store; when
// that refresh fails the mutation is merged into the snapshot locally so
// matches reflect it immediately. On durable failure the mutation is applied
// to the snapshot and warm cache only and the result is marked degraded.
func (c *Catalog) Upsert(ctx context.Context, artwork catalog.Artwork, inputs []DescriptorInput) (UpsertResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	descriptors, observedDim, err := c.normalizeInputs(artwork.ID(), inputs)
	if err != nil {
		return UpsertResult{}, err
	}

	result := UpsertResult{
		id:          artwork.ID(),
		observedDim: observedDim,
		descriptors: descriptors,
	}

	persistErr := c.persist(ctx, artwork, descriptors, observedDim)
	if persistErr == nil {
		if err := c.Refresh(ctx); err != nil {
			c.logger.WarnContext(ctx, "refresh failed after upsert, merging into snapshot",
				"artwork_id", artwork.ID(), "error", err)
			c.applyLocally(artwork, descriptors)
		}
		return result, nil
	}

	if isValidation(persistErr) {
		return UpsertResult{}, persistErr
	}

	// Degraded write: durability failed for an operational reason, keep
	// serving the caller's intended data from the snapshot and warm cache.
	if err := c.validateAgainstSnapshot(observedDim); err != nil {
		return UpsertResult{}, err
	}
	c.logger.ErrorContext(ctx, "store upsert failed, applying degraded write",
		"artwork_id", artwork.ID(), "error", persistErr)
	c.applyLocally(artwork, descriptors)

	result.degraded = true
	return result, nil
}

// DeleteArtwork removes an artwork and its descriptors from the durable
// store, then refreshes the snapshot best-effort.
func (c *Catalog) DeleteArtwork(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.artworks.Delete(ctx, id); err != nil {
		return err
	}
	if err := c.Refresh(ctx); err != nil {
		c.logger.WarnContext(ctx, "refresh failed after delete", "artwork_id", id, "error", err)
	}
	return nil
}

// DeleteDescriptor removes a single descriptor from the durable store, then
// refreshes the snapshot best-effort.
func (c *Catalog) DeleteDescriptor(ctx context.Context, artworkID, descriptorID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.descriptors.Delete(ctx, artworkID, descriptorID); err != nil {
		return err
	}
	if err := c.Refresh(ctx); err != nil {
		c.logger.WarnContext(ctx, "refresh failed after descriptor delete",
			"artwork_id", artworkID, "descriptor_id", descriptorID, "error", err)
	}
	return nil
}

// PingStore verifies durable store reachability by counting artwork rows.
func (c *Catalog) PingStore(ctx context.Context) (int64, error) {
	return c.artworks.Count(ctx)
}

// ResolveID returns the artwork ID an upsert should use: the requested ID
// when given, otherwise a slug of the title made unique against both the
// durable store and the snapshot ("-2", "-3", ... suffixes). A store probe
// failure falls back to snapshot-only uniqueness so a degraded write can
// still proceed.
func (c *Catalog) ResolveID(ctx context.Context, requestedID, title string) string {
	if requestedID != "" {
		return requestedID
	}

	base := Slugify(title)
	candidate := base
	snapshot := c.holder.Snapshot()
	for suffix := 2; ; suffix++ {
		taken, err := c.artworks.Exists(ctx, candidate)
		if err != nil {
			c.logger.WarnContext(ctx, "store probe failed during id resolution, using snapshot only",
				"candidate", candidate, "error", err)
			taken = false
		}
		if !taken {
			if _, inSnapshot := snapshot.Artwork(candidate); !inSnapshot {
				return candidate
			}
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}

// normalizeInputs normalizes every non-empty embedding and enforces that the
// request is dimensionally homogeneous. The first descriptor fixes the
// request's observed dimension.
func (c *Catalog) normalizeInputs(artworkID string, inputs []DescriptorInput) ([]catalog.Descriptor, int, error) {
	descriptors := make([]catalog.Descriptor, 0, len(inputs))
	observedDim := 0

	for idx, in := range inputs {
		if len(in.Embedding) == 0 {
			continue
		}
		vec := catalog.Normalize(in.Embedding)
		if observedDim == 0 {
			observedDim = len(vec)
		} else if len(vec) != observedDim {
			return nil, 0, fmt.Errorf("descriptor %d: got %d, expected %d: %w",
				idx, len(vec), observedDim, catalog.ErrDimensionMismatch)
		}

		id := in.ID
		if id == "" {
			id = fmt.Sprintf("main#%d", idx)
		}
		d := catalog.NewDescriptor(artworkID, id, vec)
		if in.ImagePath != "" {
			d = d.WithImagePath(in.ImagePath)
		}
		descriptors = append(descriptors, d)
	}

	return descriptors, observedDim, nil
}

// persist writes the mutation to the durable store, establishing the corpus
// dimension on first use and rejecting disagreement with it.
func (c *Catalog) persist(ctx context.Context, artwork catalog.Artwork, descriptors []catalog.Descriptor, observedDim int) error {
	if observedDim > 0 {
		dbDim, err := c.settings.Dim(ctx)
		if err != nil {
			return err
		}
		if dbDim == 0 {
			if err := c.settings.EnsureDim(ctx, observedDim); err != nil {
				return err
			}
		} else if observedDim != dbDim {
			return fmt.Errorf("got %d, expected %d: %w", observedDim, dbDim, catalog.ErrDimensionMismatch)
		}
	}

	return c.artworks.Upsert(ctx, artwork, descriptors)
}

// validateAgainstSnapshot enforces corpus dimension homogeneity on the
// degraded path, where the settings table is unreachable.
func (c *Catalog) validateAgainstSnapshot(observedDim int) error {
	snapDim := c.holder.Snapshot().Dim()
	if observedDim > 0 && snapDim > 0 && observedDim != snapDim {
		return fmt.Errorf("got %d, expected %d: %w", observedDim, snapDim, catalog.ErrDimensionMismatch)
	}
	return nil
}

// applyLocally merges the mutation into the snapshot and persists the warm
// cache.
func (c *Catalog) applyLocally(artwork catalog.Artwork, descriptors []catalog.Descriptor) {
	s := catalog.ApplyMutation(c.holder.Snapshot(), artwork, descriptors)
	c.holder.Replace(s)
	c.warm.Save(s)
}

func isValidation(err error) bool {
	return errors.Is(err, catalog.ErrValidation) || errors.Is(err, catalog.ErrDimensionMismatch)
}
