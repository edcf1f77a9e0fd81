package catalog

import "errors"

// Sentinel errors for catalog operations. The API layer maps these to HTTP
// statuses with errors.Is; none of them are retried.
var (
	// ErrNotFound indicates the requested artwork or descriptor does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a malformed or inconsistent client payload.
	ErrValidation = errors.New("validation failed")

	// ErrDimensionMismatch indicates an embedding whose length disagrees with
	// the corpus dimension or with other embeddings in the same request.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmptyCorpus indicates a match was requested against an empty snapshot.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrUnknownDimension indicates the corpus embedding dimension has not
	// been established yet.
	ErrUnknownDimension = errors.New("corpus dimension unknown")
)
