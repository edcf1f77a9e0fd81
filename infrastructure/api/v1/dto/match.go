package dto

// MatchRequest is the body of a similarity query. TopK and Threshold are
// pointers so absent fields can be told apart from zero values.
type MatchRequest struct {
	Embedding []float64 `json:"embedding"`
	TopK      *int      `json:"top_k"`
	Threshold *float64  `json:"threshold"`
	Lang      string    `json:"lang"`
}

// MatchItem is one ranked result: the best-scoring descriptor of an artwork.
type MatchItem struct {
	ArtworkID    string  `json:"artwork_id"`
	DescriptorID string  `json:"descriptor_id"`
	Title        string  `json:"title,omitempty"`
	Artist       string  `json:"artist,omitempty"`
	Description  string  `json:"description,omitempty"`
	Confidence   float64 `json:"confidence"`
	ImagePath    string  `json:"image_path,omitempty"`
}

// MatchResponse wraps the ranked match list.
type MatchResponse struct {
	Matches []MatchItem `json:"matches"`
}
