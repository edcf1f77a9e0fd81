package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artlens/artlens"
	"github.com/artlens/artlens/infrastructure/api"
	"github.com/artlens/artlens/infrastructure/api/v1/dto"
	"github.com/artlens/artlens/internal/config"
)

const testToken = "secret"

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	client, err := artlens.New(
		artlens.WithDataDir(dir),
		artlens.WithSQLite(filepath.Join(dir, "test.db")),
		artlens.WithAdminToken(testToken),
		artlens.WithDiskCache(config.NewDiskCacheConfig().WithEnabled(false)),
		artlens.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Start(context.Background()))

	return api.NewAPIServer(client).Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-Admin-Token", token)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func upsertBody(id, title string, embeddings ...[]float64) map[string]any {
	vds := make([]map[string]any, len(embeddings))
	for i, e := range embeddings {
		vds[i] = map[string]any{"embedding": e}
	}
	return map[string]any{
		"id":    id,
		"title": title,
		"descriptions": map[string]string{
			"it": "descrizione",
			"en": "description",
		},
		"visual_descriptors": vds,
	}
}

func TestHealth_EmptyCorpus(t *testing.T) {
	handler := newTestHandler(t)

	w := doJSON(t, handler, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	health := decodeBody[dto.HealthResponse](t, w)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 0, health.Count)
	assert.Equal(t, 0, health.Dim)
	assert.Equal(t, "sqlite", health.BackendDB)
}

func TestHealthDB_ReportsCount(t *testing.T) {
	handler := newTestHandler(t)

	w := doJSON(t, handler, http.MethodPost, "/artworks", upsertBody("mona-lisa", "Mona Lisa", []float64{1, 0}), testToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, http.MethodGet, "/health_db", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	health := decodeBody[dto.HealthDBResponse](t, w)
	assert.Equal(t, "sqlite", health.DB)
	require.NotNil(t, health.Artworks)
	assert.Equal(t, int64(1), *health.Artworks)
	assert.Empty(t, health.Error)
}

func TestUpsert_RequiresAdminToken(t *testing.T) {
	handler := newTestHandler(t)
	body := upsertBody("mona-lisa", "Mona Lisa", []float64{1, 0})

	w := doJSON(t, handler, http.MethodPost, "/artworks", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, handler, http.MethodPost, "/artworks", body, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpsert_ThenMatch(t *testing.T) {
	handler := newTestHandler(t)

	w := doJSON(t, handler, http.MethodPost, "/artworks", upsertBody("mona-lisa", "Mona Lisa", []float64{3, 4}), testToken)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[dto.UpsertResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "mona-lisa", resp.ID)

	w = doJSON(t, handler, http.MethodPost, "/match", map[string]any{
		"embedding": []float64{3, 4},
		"lang":      "en",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	matches := decodeBody[dto.MatchResponse](t, w)
	require.Len(t, matches.Matches, 1)
	m := matches.Matches[0]
	assert.Equal(t, "mona-lisa", m.ArtworkID)
	assert.Equal(t, "main#0", m.DescriptorID)
	assert.Equal(t, "Mona Lisa", m.Title)
	assert.Equal(t, "description", m.Description)
	assert.InDelta(t, 1.0, m.Confidence, 1e-6)
}

func TestUpsert_SlugFromTitle(t *testing.T) {
	handler := newTestHandler(t)

	w := doJSON(t, handler, http.MethodPost, "/artworks", upsertBody("", "The Starry Night", []float64{1, 0}), testToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "the-starry-night", decodeBody[dto.UpsertResponse](t, w).ID)

	// Same title again gets a suffixed slug.
	w = doJSON(t, handler, http.MethodPost, "/artworks", upsertBody("", "The Starry Night", []float64{0, 1}), testToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "the-starry-night-2", decodeBody[dto.UpsertResponse](t, w).ID)
}

func TestUpsert_AcceptsObjectShapedEmbedding(t *testing.T) {
	handler := newTestHandler(t)

	body := map[string]any{
		"id":    "night-watch",
		"title": "The Night Watch",
		"visual_descriptors": []map[string]any{
			{"embedding": map[string]float64{"0": 0, "1": 1}},
		},
	}
	w := doJSON(t, handler, http.MethodPost, "/artworks", body, testToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, http.MethodPost, "/match", map[string]any{"embedding": []float64{0, 1}}, "")
	require.Equal(t, http.StatusOK, w.Code)
	matches := decodeBody[dto.MatchResponse](t, w)
	require.Len(t, matches.Matches, 1)
	assert.Equal(t, "night-watch", matches.Matches[0].ArtworkID)
}

func TestUpsert_RejectsCorpusDimensionMismatch(t *testing.T) {
	handler := newTestHandler(t)

	w := doJSON(t, handler, http.MethodPost, "/artworks", upsertBody("a", "A", []float64{1, 0}), testToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, http.MethodPost, "/artworks", upsertBody("b", "B", []float64{1, 0, 0}), testToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMatch_EmptyCorpus(t *testing.T) {
	handler := newTestHandler(t)

	w := doJSON(t, handler, http.MethodPost, "/match", map[string]any{"embedding": []float64{1, 0}}, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMatch_Validation(t *testing.T) {
	handler := newTestHandler(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing embedding", map[string]any{"top_k": 1}},
		{"top_k too small", map[string]any{"embedding": []float64{1, 0}, "top_k": 0}},
		{"top_k too large", map[string]any{"embedding": []float64{1, 0}, "top_k": 51}},
		{"threshold out of range", map[string]any{"embedding": []float64{1, 0}, "threshold": 2.0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, handler, http.MethodPost, "/match", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestMatch_TopKAndThreshold(t *testing.T) {
	handler := newTestHandler(t)

	w := doJSON(t, handler, http.MethodPost, "/artworks", upsertBody("a", "A", []float64{1, 0}), testToken)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, handler, http.MethodPost, "/artworks", upsertBody("b", "B", []float64{0, 1}), testToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, http.MethodPost, "/match", map[string]any{
		"embedding": []float64{1, 0},
		"top_k":     2,
		"threshold": -1.0,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	matches := decodeBody[dto.MatchResponse](t, w)
	require.Len(t, matches.Matches, 2)
	assert.Equal(t, "a", matches.Matches[0].ArtworkID)

	w = doJSON(t, handler, http.MethodPost, "/match", map[string]any{
		"embedding": []float64{1, 0},
		"top_k":     2,
		"threshold": 0.5,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	matches = decodeBody[dto.MatchResponse](t, w)
	assert.Len(t, matches.Matches, 1)
}

func TestCatalog_SortedByTitle(t *testing.T) {
	handler := newTestHandler(t)

	for _, art := range []struct{ id, title string }{
		{"z", "Zebra Study"},
		{"a", "Annunciation"},
		{"untitled", ""},
	} {
		w := doJSON(t, handler, http.MethodPost, "/artworks", upsertBody(art.id, art.title, []float64{1, 0}), testToken)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, handler, http.MethodGet, "/catalog", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	items := decodeBody[[]dto.CatalogItem](t, w)
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "z", items[1].ID)
	assert.Equal(t, "untitled", items[2].ID)
	assert.Nil(t, items[0].ImageCount)
}

func TestCatalog_WithImageCounts(t *testing.T) {
	handler := newTestHandler(t)

	w := doJSON(t, handler, http.MethodPost, "/artworks", upsertBody("a", "A", []float64{1, 0}, []float64{0, 1}), testToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, http.MethodGet, "/catalog?with_image_counts=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	items := decodeBody[[]dto.CatalogItem](t, w)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].ImageCount)
	assert.Equal(t, 2, *items[0].ImageCount)
}

func TestArtworkDetail(t *testing.T) {
	handler := newTestHandler(t)

	w := doJSON(t, handler, http.MethodPost, "/artworks", upsertBody("a", "A", []float64{1, 0}, []float64{0, 1}), testToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, http.MethodGet, "/artworks/a", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	detail := decodeBody[dto.ArtworkDetail](t, w)
	assert.Equal(t, "a", detail.ID)
	assert.Equal(t, "A", detail.Title)
	require.Len(t, detail.Descriptors, 2)
	assert.Equal(t, "main#0", detail.Descriptors[0].DescriptorID)
	assert.Equal(t, "main#1", detail.Descriptors[1].DescriptorID)
}

func TestArtworkDetail_NotFound(t *testing.T) {
	handler := newTestHandler(t)

	w := doJSON(t, handler, http.MethodGet, "/artworks/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDescriptors_FirstPerArtwork(t *testing.T) {
	handler := newTestHandler(t)

	w := doJSON(t, handler, http.MethodPost, "/artworks", upsertBody("a", "A", []float64{1, 0}, []float64{0, 1}), testToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, http.MethodGet, "/descriptors", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	flat := decodeBody[map[string][]float64](t, w)
	require.Len(t, flat, 1)
	assert.Equal(t, []float64{1, 0}, flat["a"])

	w = doJSON(t, handler, http.MethodGet, "/descriptors_v2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	grouped := decodeBody[map[string][][]float64](t, w)
	require.Len(t, grouped["a"], 2)

	w = doJSON(t, handler, http.MethodGet, "/descriptors_meta_v2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	meta := decodeBody[[]dto.DescriptorMeta](t, w)
	require.Len(t, meta, 2)
	assert.Equal(t, "a", meta[0].ArtworkID)
	assert.Equal(t, "main#0", meta[0].DescriptorID)
}

func TestDeleteArtwork(t *testing.T) {
	handler := newTestHandler(t)

	w := doJSON(t, handler, http.MethodPost, "/artworks", upsertBody("a", "A", []float64{1, 0}), testToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, http.MethodDelete, "/artworks/a", nil, testToken)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[dto.DeleteResponse](t, w)
	assert.Equal(t, "a", resp.Deleted)

	w = doJSON(t, handler, http.MethodGet, "/artworks/a", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, handler, http.MethodDelete, "/artworks/a", nil, testToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteArtwork_RequiresAdminToken(t *testing.T) {
	handler := newTestHandler(t)

	w := doJSON(t, handler, http.MethodDelete, "/artworks/a", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteDescriptor(t *testing.T) {
	handler := newTestHandler(t)

	body := map[string]any{
		"id":    "a",
		"title": "A",
		"visual_descriptors": []map[string]any{
			{"id": "front", "embedding": []float64{1, 0}},
			{"id": "side", "embedding": []float64{0, 1}},
		},
	}
	w := doJSON(t, handler, http.MethodPost, "/artworks", body, testToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, http.MethodDelete, "/artworks/a/descriptors/front", nil, testToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "front", decodeBody[dto.DeleteResponse](t, w).Deleted)

	w = doJSON(t, handler, http.MethodGet, "/artworks/a", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeBody[dto.ArtworkDetail](t, w)
	require.Len(t, detail.Descriptors, 1)
	assert.Equal(t, "side", detail.Descriptors[0].DescriptorID)

	w = doJSON(t, handler, http.MethodDelete, "/artworks/a/descriptors/nope", nil, testToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogPerf(t *testing.T) {
	handler := newTestHandler(t)

	payload := map[string]any{
		"sessionId": "s1",
		"seq":       1,
		"data": map[string]any{
			"t":     []float64{1, 2, 3},
			"crop":  []float64{4.5, 5.5, 6.5},
			"embed": []float64{10, 20, 30},
			"match": []float64{0.5, 0.5, 0.5},
		},
	}
	w := doJSON(t, handler, http.MethodPost, "/log_perf", payload, "")
	require.Equal(t, http.StatusOK, w.Code)

	ack := decodeBody[dto.PerfAck](t, w)
	assert.Equal(t, "ok", ack.Status)
	assert.Equal(t, 3, ack.Accepted)
}

func TestLogPerf_InvalidPayload(t *testing.T) {
	handler := newTestHandler(t)

	w := doJSON(t, handler, http.MethodPost, "/log_perf", []int{1, 2, 3}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
