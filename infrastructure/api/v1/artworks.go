package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/artlens/artlens"
	"github.com/artlens/artlens/application/service"
	"github.com/artlens/artlens/domain/catalog"
	"github.com/artlens/artlens/infrastructure/api/middleware"
	"github.com/artlens/artlens/infrastructure/api/v1/dto"
)

// ArtworksRouter handles artwork reads and admin mutations.
type ArtworksRouter struct {
	client *artlens.Client
	auth   middleware.AuthConfig
	logger *slog.Logger
}

// NewArtworksRouter creates a new ArtworksRouter. The admin token comes
// from the client's configuration.
func NewArtworksRouter(client *artlens.Client) *ArtworksRouter {
	return &ArtworksRouter{
		client: client,
		auth:   middleware.NewAuthConfig(client.Config().AdminToken()),
		logger: client.Logger(),
	}
}

// Routes returns the chi router for artwork endpoints. Reads are open;
// mutations require the admin token.
func (r *ArtworksRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{id}", r.Detail)

	router.Group(func(g chi.Router) {
		g.Use(middleware.AdminAuth(r.auth))
		g.Post("/", r.Upsert)
		g.Delete("/{id}", r.Delete)
		g.Delete("/{id}/descriptors/{descriptorID}", r.DeleteDescriptor)
	})

	return router
}

// Detail handles GET /artworks/{id}: metadata plus descriptor references,
// served from the snapshot.
func (r *ArtworksRouter) Detail(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")

	s := r.client.Catalog.Snapshot()
	artwork, ok := s.Artwork(id)
	if !ok {
		middleware.WriteError(w, req, fmt.Errorf("artwork %q: %w", id, catalog.ErrNotFound), r.logger)
		return
	}

	refs := make([]dto.DescriptorRef, 0)
	for _, d := range s.Descriptors() {
		if d.ArtworkID() != id {
			continue
		}
		refs = append(refs, dto.DescriptorRef{
			DescriptorID: d.DescriptorID(),
			ImagePath:    d.ImagePath(),
		})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].DescriptorID < refs[j].DescriptorID })

	middleware.WriteJSON(w, http.StatusOK, dto.ArtworkDetail{
		CatalogItem: catalogItem(artwork),
		Descriptors: refs,
	})
}

// Upsert handles POST /artworks: creates or replaces an artwork with its
// descriptors. An absent ID is derived from the title as a unique slug.
func (r *ArtworksRouter) Upsert(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.ArtworkUpsertRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("malformed body: %w", catalog.ErrValidation), r.logger)
		return
	}

	id := strings.TrimSpace(body.ID)
	id = r.client.Catalog.ResolveID(ctx, id, body.Title)

	artwork := catalog.NewArtwork(id,
		catalog.WithTitle(body.Title),
		catalog.WithArtist(body.Artist),
		catalog.WithYear(body.Year),
		catalog.WithMuseum(body.Museum),
		catalog.WithLocation(body.Location),
		catalog.WithDescriptions(body.Descriptions),
	)

	inputs := make([]service.DescriptorInput, len(body.VisualDescriptors))
	for i, vd := range body.VisualDescriptors {
		inputs[i] = service.DescriptorInput{
			ID:        vd.ID,
			Embedding: vd.Embedding,
			ImagePath: vd.ImagePath,
		}
	}

	result, err := r.client.Catalog.Upsert(ctx, artwork, inputs)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if result.Degraded() {
		r.logger.Warn("artwork persisted to snapshot only", "artwork_id", result.ID())
	}
	middleware.WriteJSON(w, http.StatusOK, dto.UpsertResponse{Status: "ok", ID: result.ID()})
}

// Delete handles DELETE /artworks/{id}: removes the artwork and all its
// descriptors from the durable store.
func (r *ArtworksRouter) Delete(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")

	if err := r.client.Catalog.DeleteArtwork(req.Context(), id); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.DeleteResponse{Status: "ok", Deleted: id})
}

// DeleteDescriptor handles DELETE /artworks/{id}/descriptors/{descriptorID}:
// removes a single descriptor, keeping the artwork.
func (r *ArtworksRouter) DeleteDescriptor(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	descriptorID := chi.URLParam(req, "descriptorID")

	if err := r.client.Catalog.DeleteDescriptor(req.Context(), id, descriptorID); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.DeleteResponse{Status: "ok", Deleted: descriptorID})
}
