package catalog

// Snapshot is the complete in-process copy of the catalog: every artwork,
// the flat list of descriptors in (artwork ID, descriptor ID) order, and the
// corpus-wide embedding dimension (0 when not yet established).
//
// A Snapshot is immutable once built. Writers replace the current snapshot
// wholesale through a Holder; they never mutate one in place.
type Snapshot struct {
	artworks    map[string]Artwork
	descriptors []Descriptor
	dim         int
}

// EmptySnapshot returns a snapshot with no artworks and an unknown dimension.
func EmptySnapshot() Snapshot {
	return Snapshot{artworks: map[string]Artwork{}}
}

// NewSnapshot builds a snapshot from freshly loaded rows. The first
// descriptor with a non-empty embedding establishes the dimension; any later
// descriptor whose length disagrees is skipped, never truncated or padded.
// Descriptor order is preserved, so iteration order is the caller's load
// order (artwork ID, then descriptor ID).
func NewSnapshot(artworks []Artwork, descriptors []Descriptor) Snapshot {
	byID := make(map[string]Artwork, len(artworks))
	for _, a := range artworks {
		byID[a.ID()] = a
	}

	dim := 0
	kept := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if d.Dim() == 0 {
			continue
		}
		if dim == 0 {
			dim = d.Dim()
		} else if d.Dim() != dim {
			continue
		}
		kept = append(kept, d)
	}

	return Snapshot{artworks: byID, descriptors: kept, dim: dim}
}

// Restore rebuilds a snapshot from a previously persisted state, trusting
// the stored dimension. Used by the warm cache codec, where the document was
// produced from an already-valid snapshot (a degraded write may leave dim
// set with no descriptors, which NewSnapshot could not reproduce).
func Restore(artworks []Artwork, descriptors []Descriptor, dim int) Snapshot {
	byID := make(map[string]Artwork, len(artworks))
	for _, a := range artworks {
		byID[a.ID()] = a
	}
	kept := make([]Descriptor, len(descriptors))
	copy(kept, descriptors)
	return Snapshot{artworks: byID, descriptors: kept, dim: dim}
}

// Artwork looks up an artwork by ID.
func (s Snapshot) Artwork(id string) (Artwork, bool) {
	a, ok := s.artworks[id]
	return a, ok
}

// Artworks returns all artworks in unspecified order.
func (s Snapshot) Artworks() []Artwork {
	out := make([]Artwork, 0, len(s.artworks))
	for _, a := range s.artworks {
		out = append(out, a)
	}
	return out
}

// Descriptors returns the flat descriptor list in snapshot order.
func (s Snapshot) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.descriptors))
	copy(out, s.descriptors)
	return out
}

// ArtworkCount returns the number of artworks.
func (s Snapshot) ArtworkCount() int { return len(s.artworks) }

// DescriptorCount returns the number of descriptors.
func (s Snapshot) DescriptorCount() int { return len(s.descriptors) }

// Dim returns the corpus embedding dimension, 0 when unknown.
func (s Snapshot) Dim() int { return s.dim }

// IsEmpty reports whether the snapshot holds no descriptors.
func (s Snapshot) IsEmpty() bool { return len(s.descriptors) == 0 }

// ApplyMutation returns a new snapshot with the given artwork merged in:
// the artwork's metadata replaces any previous version, descriptors sharing
// an incoming (artwork ID, descriptor ID) pair are removed, and the incoming
// descriptors are appended. The input snapshot is never mutated, preserving
// the atomic-swap discipline. The dimension is established from the incoming
// descriptors when previously unknown.
func ApplyMutation(s Snapshot, artwork Artwork, descriptors []Descriptor) Snapshot {
	artworks := make(map[string]Artwork, len(s.artworks)+1)
	for id, a := range s.artworks {
		artworks[id] = a
	}
	artworks[artwork.ID()] = artwork

	incoming := make(map[string]struct{}, len(descriptors))
	for _, d := range descriptors {
		incoming[d.DescriptorID()] = struct{}{}
	}

	kept := make([]Descriptor, 0, len(s.descriptors)+len(descriptors))
	for _, d := range s.descriptors {
		if d.ArtworkID() == artwork.ID() {
			if _, replaced := incoming[d.DescriptorID()]; replaced {
				continue
			}
		}
		kept = append(kept, d)
	}
	kept = append(kept, descriptors...)

	dim := s.dim
	if dim == 0 {
		for _, d := range descriptors {
			if d.Dim() > 0 {
				dim = d.Dim()
				break
			}
		}
	}

	return Snapshot{artworks: artworks, descriptors: kept, dim: dim}
}
