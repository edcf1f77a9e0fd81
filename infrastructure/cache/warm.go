// Package cache implements the disk-backed warm cache: a single JSON
// document holding the full snapshot, written atomically so a restart can
// serve matches without a cold database read.
package cache

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/artlens/artlens/domain/catalog"
)

// documentVersion tags the on-disk format.
const documentVersion = 1

// document is the on-disk shape. db_dim is a pointer so "dimension not yet
// established" round-trips as null rather than 0.
type document struct {
	Version         int                     `json:"version"`
	DBDim           *int                    `json:"db_dim"`
	Artworks        map[string]artworkEntry `json:"artworks"`
	FlatDescriptors []descriptorEntry       `json:"flat_descriptors"`
}

type artworkEntry struct {
	ID           string            `json:"id"`
	Title        string            `json:"title,omitempty"`
	Artist       string            `json:"artist,omitempty"`
	Year         string            `json:"year,omitempty"`
	Museum       string            `json:"museum,omitempty"`
	Location     string            `json:"location,omitempty"`
	Descriptions map[string]string `json:"descriptions,omitempty"`
}

type descriptorEntry struct {
	ArtworkID    string    `json:"artwork_id"`
	DescriptorID string    `json:"descriptor_id"`
	Embedding    []float64 `json:"embedding"`
	ImagePath    string    `json:"image_path,omitempty"`
}

// WarmCache persists snapshots to a JSON file. Disk I/O is serialized with a
// mutex so concurrent writers never interleave on the temp path. A disabled
// cache is a no-op on save and always reports absent on load.
type WarmCache struct {
	path    string
	enabled bool
	logger  *slog.Logger
	mu      sync.Mutex
}

// NewWarmCache creates a WarmCache writing to path.
func NewWarmCache(path string, enabled bool, logger *slog.Logger) *WarmCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &WarmCache{path: path, enabled: enabled, logger: logger}
}

var _ catalog.WarmCache = (*WarmCache)(nil)

// Path returns the cache file path.
func (c *WarmCache) Path() string { return c.path }

// Save writes the snapshot atomically: serialize to a temp file in the same
// directory, then rename over the canonical path. Failures are logged and
// swallowed; the warm cache is an optimization, never required for
// correctness.
func (c *WarmCache) Save(s catalog.Snapshot) {
	if !c.enabled {
		return
	}

	doc := toDocument(s)
	data, err := json.Marshal(doc)
	if err != nil {
		c.logger.Warn("warm cache save failed", "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tmpPath := c.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		c.logger.Warn("warm cache save failed", "path", c.path, "error", err)
		return
	}
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		c.logger.Warn("warm cache save failed", "path", tmpPath, "error", err)
		return
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		c.logger.Warn("warm cache save failed", "path", c.path, "error", err)
		return
	}

	c.logger.Info("warm cache saved",
		"path", c.path,
		"bytes", len(data),
		"artworks", s.ArtworkCount(),
		"descriptors", s.DescriptorCount(),
	)
}

// Load reads the persisted snapshot. A missing file, unreadable JSON, or a
// document failing structural validation all report absent; a corrupt cache
// must never feed the matching engine partial data.
func (c *WarmCache) Load() (catalog.Snapshot, bool) {
	if !c.enabled {
		return catalog.Snapshot{}, false
	}

	c.mu.Lock()
	data, err := os.ReadFile(c.path)
	c.mu.Unlock()
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("warm cache read failed", "path", c.path, "error", err)
		}
		return catalog.Snapshot{}, false
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		c.logger.Warn("warm cache corrupt, treating as absent", "path", c.path, "error", err)
		return catalog.Snapshot{}, false
	}
	if doc.Artworks == nil || doc.FlatDescriptors == nil {
		c.logger.Warn("warm cache missing required keys, treating as absent", "path", c.path)
		return catalog.Snapshot{}, false
	}

	s := fromDocument(doc)
	c.logger.Info("warm cache loaded",
		"path", c.path,
		"artworks", s.ArtworkCount(),
		"descriptors", s.DescriptorCount(),
		"dim", s.Dim(),
	)
	return s, true
}

func toDocument(s catalog.Snapshot) document {
	artworks := make(map[string]artworkEntry, s.ArtworkCount())
	for _, a := range s.Artworks() {
		artworks[a.ID()] = artworkEntry{
			ID:           a.ID(),
			Title:        a.Title(),
			Artist:       a.Artist(),
			Year:         a.Year(),
			Museum:       a.Museum(),
			Location:     a.Location(),
			Descriptions: a.Descriptions(),
		}
	}

	descriptors := make([]descriptorEntry, 0, s.DescriptorCount())
	for _, d := range s.Descriptors() {
		descriptors = append(descriptors, descriptorEntry{
			ArtworkID:    d.ArtworkID(),
			DescriptorID: d.DescriptorID(),
			Embedding:    d.Embedding(),
			ImagePath:    d.ImagePath(),
		})
	}

	doc := document{
		Version:         documentVersion,
		Artworks:        artworks,
		FlatDescriptors: descriptors,
	}
	if dim := s.Dim(); dim > 0 {
		doc.DBDim = &dim
	}
	return doc
}

func fromDocument(doc document) catalog.Snapshot {
	artworks := make([]catalog.Artwork, 0, len(doc.Artworks))
	for id, e := range doc.Artworks {
		if e.ID == "" {
			e.ID = id
		}
		artworks = append(artworks, catalog.NewArtwork(e.ID,
			catalog.WithTitle(e.Title),
			catalog.WithArtist(e.Artist),
			catalog.WithYear(e.Year),
			catalog.WithMuseum(e.Museum),
			catalog.WithLocation(e.Location),
			catalog.WithDescriptions(e.Descriptions),
		))
	}

	descriptors := make([]catalog.Descriptor, 0, len(doc.FlatDescriptors))
	for _, e := range doc.FlatDescriptors {
		d := catalog.NewDescriptor(e.ArtworkID, e.DescriptorID, e.Embedding)
		if e.ImagePath != "" {
			d = d.WithImagePath(e.ImagePath)
		}
		descriptors = append(descriptors, d)
	}

	dim := 0
	if doc.DBDim != nil {
		dim = *doc.DBDim
	}
	return catalog.Restore(artworks, descriptors, dim)
}
