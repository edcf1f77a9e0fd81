package catalog

// Descriptor is one visual descriptor of an artwork: an L2-normalized
// embedding vector, optionally tied to a reference image. Its identity is
// the (artwork ID, descriptor ID) pair.
type Descriptor struct {
	artworkID    string
	descriptorID string
	embedding    []float64
	imagePath    string
}

// NewDescriptor creates a Descriptor. The embedding is copied; callers are
// expected to pass an already-normalized vector (see Normalize).
func NewDescriptor(artworkID, descriptorID string, embedding []float64) Descriptor {
	vec := make([]float64, len(embedding))
	copy(vec, embedding)
	return Descriptor{
		artworkID:    artworkID,
		descriptorID: descriptorID,
		embedding:    vec,
	}
}

// WithImagePath returns a copy of the descriptor with the reference image path set.
func (d Descriptor) WithImagePath(path string) Descriptor {
	d.imagePath = path
	return d
}

// ArtworkID returns the owning artwork's identifier.
func (d Descriptor) ArtworkID() string { return d.artworkID }

// DescriptorID returns the descriptor identifier, unique within the artwork.
func (d Descriptor) DescriptorID() string { return d.descriptorID }

// Embedding returns a copy of the embedding vector.
func (d Descriptor) Embedding() []float64 {
	out := make([]float64, len(d.embedding))
	copy(out, d.embedding)
	return out
}

// Dim returns the embedding length.
func (d Descriptor) Dim() int { return len(d.embedding) }

// ImagePath returns the reference image path, or "" if none.
func (d Descriptor) ImagePath() string { return d.imagePath }

// dot scores the descriptor against a query without copying the embedding.
func (d Descriptor) dot(query []float64) float64 {
	return Dot(query, d.embedding)
}
