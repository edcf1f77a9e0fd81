package dto

// HealthResponse reports the state of the in-process snapshot.
type HealthResponse struct {
	Status    string `json:"status"`
	Count     int    `json:"count"`
	Dim       int    `json:"dim"`
	BackendDB string `json:"backend_db"`
}

// HealthDBResponse reports durable store reachability. Exactly one of
// Artworks and Error is set.
type HealthDBResponse struct {
	DB       string `json:"db"`
	Artworks *int64 `json:"artworks,omitempty"`
	Error    string `json:"error,omitempty"`
}

// PerfMeta carries client-side context of a perf batch.
type PerfMeta struct {
	Config    any    `json:"config"`
	TFBackend string `json:"tfBackend"`
}

// PerfData carries per-frame timing samples in milliseconds, plus the
// corpus size and dimension observed by the client.
type PerfData struct {
	T      []float64 `json:"t"`
	Crop   []float64 `json:"crop"`
	Embed  []float64 `json:"embed"`
	Match  []float64 `json:"match"`
	DBSize []float64 `json:"dbSize"`
	Dim    []float64 `json:"dim"`
}

// PerfPayload is one batch of frontend performance samples.
type PerfPayload struct {
	Meta      PerfMeta `json:"meta"`
	Data      PerfData `json:"data"`
	SessionID string   `json:"sessionId"`
	Seq       int      `json:"seq"`
	Reason    string   `json:"reason"`
}

// PerfAck acknowledges a perf batch with the number of accepted samples.
type PerfAck struct {
	Status   string `json:"status"`
	Accepted int    `json:"accepted"`
}
