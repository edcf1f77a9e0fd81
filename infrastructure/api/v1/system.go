// Package v1 implements the HTTP API handlers.
package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/artlens/artlens"
	"github.com/artlens/artlens/infrastructure/api/middleware"
	"github.com/artlens/artlens/infrastructure/api/v1/dto"
)

// SystemRouter handles health and operational endpoints.
type SystemRouter struct {
	client *artlens.Client
	logger *slog.Logger
}

// NewSystemRouter creates a new SystemRouter.
func NewSystemRouter(client *artlens.Client) *SystemRouter {
	return &SystemRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Health handles GET /health: snapshot size and dimension. It never touches
// the durable store.
func (r *SystemRouter) Health(w http.ResponseWriter, req *http.Request) {
	s := r.client.Catalog.Snapshot()
	middleware.WriteJSON(w, http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Count:     s.DescriptorCount(),
		Dim:       s.Dim(),
		BackendDB: r.client.Driver(),
	})
}

// HealthDB handles GET /health_db: a live durable store probe. A store
// failure is reported in the body with status 200, so monitoring can tell
// "store down" from "service down".
func (r *SystemRouter) HealthDB(w http.ResponseWriter, req *http.Request) {
	count, err := r.client.Catalog.PingStore(req.Context())
	if err != nil {
		msg := err.Error()
		if len(msg) > 200 {
			msg = msg[:200]
		}
		middleware.WriteJSON(w, http.StatusOK, dto.HealthDBResponse{
			DB:    r.client.Driver(),
			Error: msg,
		})
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.HealthDBResponse{
		DB:       r.client.Driver(),
		Artworks: &count,
	})
}

// LogPerf handles POST /log_perf: frontend performance batches, summarized
// into a single log line.
func (r *SystemRouter) LogPerf(w http.ResponseWriter, req *http.Request) {
	var payload dto.PerfPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, middleware.ErrorResponse{Detail: "invalid payload"})
		return
	}

	samples := len(payload.Data.T)
	r.logger.Info("perf batch",
		"session", payload.SessionID,
		"seq", payload.Seq,
		"reason", payload.Reason,
		"samples", samples,
		"mean_crop_ms", mean(payload.Data.Crop),
		"mean_embed_ms", mean(payload.Data.Embed),
		"mean_match_ms", mean(payload.Data.Match),
		"tf_backend", payload.Meta.TFBackend,
	)

	middleware.WriteJSON(w, http.StatusOK, dto.PerfAck{Status: "ok", Accepted: samples})
}

func mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}
