package catalog

import "context"

// ArtworkStore persists artworks and their descriptors in the durable store.
type ArtworkStore interface {
	// All returns every artwork row.
	All(ctx context.Context) ([]Artwork, error)

	// Exists reports whether an artwork with the given ID exists.
	Exists(ctx context.Context, id string) (bool, error)

	// Count returns the number of artwork rows.
	Count(ctx context.Context) (int64, error)

	// Upsert persists the artwork and its descriptors as one logical unit.
	// Existing descriptors with the same (artwork ID, descriptor ID) are
	// replaced; others are left untouched.
	Upsert(ctx context.Context, artwork Artwork, descriptors []Descriptor) error

	// Delete removes an artwork and, cascading, all of its descriptors.
	// Returns ErrNotFound when no row was deleted.
	Delete(ctx context.Context, id string) error
}

// DescriptorStore reads and deletes descriptor rows.
type DescriptorStore interface {
	// All returns every descriptor row ordered by (artwork ID, descriptor ID)
	// for deterministic snapshot iteration.
	All(ctx context.Context) ([]Descriptor, error)

	// Delete removes a single descriptor. Returns ErrNotFound when no row
	// was deleted.
	Delete(ctx context.Context, artworkID, descriptorID string) error
}

// SettingStore persists corpus-wide settings, currently only the embedding
// dimension established by the first ingested descriptor.
type SettingStore interface {
	// Dim returns the persisted corpus dimension, 0 when not yet set.
	Dim(ctx context.Context) (int, error)

	// EnsureDim records the corpus dimension if not already set. An existing
	// value is never overwritten.
	EnsureDim(ctx context.Context, dim int) error
}

// WarmCache persists the snapshot to local disk so a restart can serve
// matches without a cold database read. It is an optimization, never
// required for correctness: implementations swallow save failures and
// report corrupt documents as absent.
type WarmCache interface {
	// Save writes the snapshot atomically. Failures are logged, not returned.
	Save(s Snapshot)

	// Load reads the persisted snapshot. ok is false when the document is
	// absent or structurally invalid.
	Load() (s Snapshot, ok bool)
}
