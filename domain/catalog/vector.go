package catalog

import "math"

// Normalize returns the L2-normalized copy of v. A zero-norm vector cannot
// be normalized and is returned unchanged (as a copy), so callers must
// tolerate a non-unit vector in that degenerate case.
func Normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)

	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return out
	}

	norm := math.Sqrt(sum)
	for i := range out {
		out[i] /= norm
	}
	return out
}

// Dot computes the dot product of two equal-length vectors. For unit vectors
// this is their cosine similarity. Mismatched lengths yield 0.
func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
