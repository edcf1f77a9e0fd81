package dto

import (
	"encoding/json"
	"sort"
	"strconv"
)

// VisualDescriptor is one incoming descriptor of an upsert request.
type VisualDescriptor struct {
	ID        string          `json:"id"`
	ImagePath string          `json:"image_path"`
	Embedding EmbeddingVector `json:"embedding"`
}

// ArtworkUpsertRequest is the body of an artwork upsert. Every metadata
// field is optional; an absent ID is derived from the title.
type ArtworkUpsertRequest struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Artist            string             `json:"artist"`
	Year              string             `json:"year"`
	Museum            string             `json:"museum"`
	Location          string             `json:"location"`
	Descriptions      map[string]string  `json:"descriptions"`
	VisualDescriptors []VisualDescriptor `json:"visual_descriptors"`
}

// UpsertResponse acknowledges an upsert with the resolved artwork ID.
type UpsertResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// DeleteResponse acknowledges a delete.
type DeleteResponse struct {
	Status  string `json:"status"`
	Deleted string `json:"deleted"`
}

// EmbeddingVector decodes an embedding sent either as a JSON array or as an
// object with numeric string keys, which is what a JSON-serialized
// TypedArray looks like. Keys that are not numeric are ignored; remaining
// entries are ordered by their numeric key.
type EmbeddingVector []float64

// UnmarshalJSON implements json.Unmarshaler.
func (v *EmbeddingVector) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err == nil {
		*v = arr
		return nil
	}

	var obj map[string]float64
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	type entry struct {
		idx int
		val float64
	}
	entries := make([]entry, 0, len(obj))
	for k, val := range obj {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 {
			continue
		}
		entries = append(entries, entry{idx: idx, val: val})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })

	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.val
	}
	*v = out
	return nil
}
