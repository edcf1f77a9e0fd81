package v1

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/artlens/artlens"
	"github.com/artlens/artlens/domain/catalog"
	"github.com/artlens/artlens/infrastructure/api/middleware"
	"github.com/artlens/artlens/infrastructure/api/v1/dto"
)

// CatalogRouter serves catalog metadata and descriptor listings from the
// snapshot.
type CatalogRouter struct {
	client *artlens.Client
	logger *slog.Logger
}

// NewCatalogRouter creates a new CatalogRouter.
func NewCatalogRouter(client *artlens.Client) *CatalogRouter {
	return &CatalogRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Catalog handles GET /catalog: every artwork's metadata, sorted by title
// with untitled entries last. ?with_image_counts=true adds per-artwork
// descriptor counts.
func (r *CatalogRouter) Catalog(w http.ResponseWriter, req *http.Request) {
	s := r.client.Catalog.Snapshot()

	withCounts, _ := strconv.ParseBool(req.URL.Query().Get("with_image_counts"))
	var counts map[string]int
	if withCounts {
		counts = make(map[string]int, s.ArtworkCount())
		for _, d := range s.Descriptors() {
			counts[d.ArtworkID()]++
		}
	}

	artworks := s.Artworks()
	items := make([]dto.CatalogItem, 0, len(artworks))
	for _, a := range artworks {
		item := catalogItem(a)
		if withCounts {
			n := counts[a.ID()]
			item.ImageCount = &n
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		ti, tj := strings.TrimSpace(items[i].Title), strings.TrimSpace(items[j].Title)
		if (ti == "") != (tj == "") {
			return tj == ""
		}
		return strings.ToLower(ti) < strings.ToLower(tj)
	})

	middleware.WriteJSON(w, http.StatusOK, items)
}

// Descriptors handles GET /descriptors: the first embedding of each artwork,
// keyed by artwork ID. Kept for clients that assume one descriptor per
// artwork.
func (r *CatalogRouter) Descriptors(w http.ResponseWriter, req *http.Request) {
	out := map[string][]float64{}
	for _, d := range r.client.Catalog.Snapshot().Descriptors() {
		if _, seen := out[d.ArtworkID()]; seen {
			continue
		}
		out[d.ArtworkID()] = d.Embedding()
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

// DescriptorsV2 handles GET /descriptors_v2: all embeddings grouped by
// artwork ID.
func (r *CatalogRouter) DescriptorsV2(w http.ResponseWriter, req *http.Request) {
	out := map[string][][]float64{}
	for _, d := range r.client.Catalog.Snapshot().Descriptors() {
		out[d.ArtworkID()] = append(out[d.ArtworkID()], d.Embedding())
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

// DescriptorsMeta handles GET /descriptors_meta_v2: the flat descriptor list
// with embeddings and image paths, in snapshot order.
func (r *CatalogRouter) DescriptorsMeta(w http.ResponseWriter, req *http.Request) {
	descriptors := r.client.Catalog.Snapshot().Descriptors()
	out := make([]dto.DescriptorMeta, len(descriptors))
	for i, d := range descriptors {
		out[i] = dto.DescriptorMeta{
			ArtworkID:    d.ArtworkID(),
			DescriptorID: d.DescriptorID(),
			ImagePath:    d.ImagePath(),
			Embedding:    d.Embedding(),
		}
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

func catalogItem(a catalog.Artwork) dto.CatalogItem {
	return dto.CatalogItem{
		ID:           a.ID(),
		Title:        a.Title(),
		Artist:       a.Artist(),
		Year:         a.Year(),
		Museum:       a.Museum(),
		Location:     a.Location(),
		Descriptions: a.Descriptions(),
	}
}
