package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/artlens/artlens"
	"github.com/artlens/artlens/application/service"
	"github.com/artlens/artlens/domain/catalog"
	"github.com/artlens/artlens/infrastructure/api/middleware"
	"github.com/artlens/artlens/infrastructure/api/v1/dto"
	"github.com/artlens/artlens/internal/config"
)

// MatchRouter handles similarity queries.
type MatchRouter struct {
	client *artlens.Client
	logger *slog.Logger
}

// NewMatchRouter creates a new MatchRouter.
func NewMatchRouter(client *artlens.Client) *MatchRouter {
	return &MatchRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Match handles POST /match: scores the query embedding against the
// snapshot and returns the best match per artwork, ranked by confidence.
func (r *MatchRouter) Match(w http.ResponseWriter, req *http.Request) {
	var body dto.MatchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("malformed body: %w", catalog.ErrValidation), r.logger)
		return
	}

	opts, err := matchOptions(body)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	matches, err := r.client.Matcher.Match(body.Embedding, opts...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, buildMatchResponse(matches, langCode(body.Lang)))
}

// matchOptions validates the request's tuning parameters. Out-of-range
// values are rejected rather than clamped.
func matchOptions(body dto.MatchRequest) ([]service.MatchOption, error) {
	if len(body.Embedding) == 0 {
		return nil, fmt.Errorf("embedding is required: %w", catalog.ErrValidation)
	}

	var opts []service.MatchOption
	if body.TopK != nil {
		if *body.TopK < 1 || *body.TopK > config.MaxMatchTopK {
			return nil, fmt.Errorf("top_k must be between 1 and %d: %w", config.MaxMatchTopK, catalog.ErrValidation)
		}
		opts = append(opts, service.WithTopK(*body.TopK))
	}
	if body.Threshold != nil {
		if *body.Threshold < -1 || *body.Threshold > 1 {
			return nil, fmt.Errorf("threshold must be between -1 and 1: %w", catalog.ErrValidation)
		}
		opts = append(opts, service.WithThreshold(*body.Threshold))
	}
	return opts, nil
}

func buildMatchResponse(matches []catalog.Match, lang string) dto.MatchResponse {
	items := make([]dto.MatchItem, len(matches))
	for i, m := range matches {
		a := m.Artwork()
		description, _ := a.Description(lang)
		items[i] = dto.MatchItem{
			ArtworkID:    m.Descriptor().ArtworkID(),
			DescriptorID: m.Descriptor().DescriptorID(),
			Title:        a.Title(),
			Artist:       a.Artist(),
			Description:  description,
			Confidence:   m.Score(),
			ImagePath:    m.Descriptor().ImagePath(),
		}
	}
	return dto.MatchResponse{Matches: items}
}

// langCode reduces a language tag to its lowercase 2-letter code.
func langCode(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if len(lang) > 2 {
		lang = lang[:2]
	}
	return lang
}
