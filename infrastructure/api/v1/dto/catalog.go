// Package dto defines the request and response shapes of the HTTP API.
package dto

// CatalogItem is one artwork's display metadata in the catalog listing.
type CatalogItem struct {
	ID           string            `json:"id"`
	Title        string            `json:"title,omitempty"`
	Artist       string            `json:"artist,omitempty"`
	Year         string            `json:"year,omitempty"`
	Museum       string            `json:"museum,omitempty"`
	Location     string            `json:"location,omitempty"`
	Descriptions map[string]string `json:"descriptions,omitempty"`
	ImageCount   *int              `json:"image_count,omitempty"`
}

// DescriptorRef identifies one descriptor of an artwork, without its
// embedding.
type DescriptorRef struct {
	DescriptorID string `json:"descriptor_id"`
	ImagePath    string `json:"image_path,omitempty"`
}

// ArtworkDetail is the full artwork view with its descriptor references.
type ArtworkDetail struct {
	CatalogItem
	Descriptors []DescriptorRef `json:"descriptors"`
}

// DescriptorMeta is one descriptor with its embedding, as served by the
// bulk metadata endpoint.
type DescriptorMeta struct {
	ArtworkID    string    `json:"artwork_id"`
	DescriptorID string    `json:"descriptor_id"`
	ImagePath    string    `json:"image_path,omitempty"`
	Embedding    []float64 `json:"embedding"`
}
