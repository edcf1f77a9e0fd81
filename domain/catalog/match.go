package catalog

import (
	"fmt"
	"sort"
)

// Match pairs an artwork with its best-scoring descriptor for one query.
type Match struct {
	artwork    Artwork
	descriptor Descriptor
	score      float64
}

// Artwork returns the matched artwork.
func (m Match) Artwork() Artwork { return m.artwork }

// Descriptor returns the best-scoring descriptor for the artwork.
func (m Match) Descriptor() Descriptor { return m.descriptor }

// Score returns the cosine similarity between query and descriptor.
func (m Match) Score() float64 { return m.score }

// TopMatches scores every descriptor in the snapshot against the query and
// returns at most topK results, one best descriptor per artwork, sorted by
// score descending. Scores strictly below threshold are discarded; a score
// equal to the threshold is kept. The query is normalized before scoring, so
// with the stored vectors already unit length the dot product is cosine
// similarity.
//
// Ties among a single artwork's descriptors keep the first descriptor seen
// at the maximum score; iteration order is the snapshot's (artwork ID,
// descriptor ID) order, which makes the outcome deterministic but not
// semantically meaningful.
func TopMatches(s Snapshot, query []float64, topK int, threshold float64) ([]Match, error) {
	if s.IsEmpty() {
		return nil, ErrEmptyCorpus
	}
	if s.dim == 0 {
		return nil, ErrUnknownDimension
	}
	if len(query) != s.dim {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(query), s.dim)
	}

	q := Normalize(query)

	type best struct {
		index int
		score float64
	}
	bestPerArtwork := map[string]best{}
	order := make([]string, 0, len(s.artworks))

	for i, d := range s.descriptors {
		score := d.dot(q)
		if score < threshold {
			continue
		}
		cur, seen := bestPerArtwork[d.ArtworkID()]
		if !seen {
			order = append(order, d.ArtworkID())
		}
		if !seen || score > cur.score {
			bestPerArtwork[d.ArtworkID()] = best{index: i, score: score}
		}
	}

	matches := make([]Match, 0, len(order))
	for _, artworkID := range order {
		b := bestPerArtwork[artworkID]
		artwork, ok := s.artworks[artworkID]
		if !ok {
			// Descriptor without a catalog row; nothing to present.
			continue
		}
		matches = append(matches, Match{
			artwork:    artwork,
			descriptor: s.descriptors[b.index],
			score:      b.score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if topK > 0 && topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}
