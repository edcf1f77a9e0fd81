package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingVector_Array(t *testing.T) {
	var v EmbeddingVector
	require.NoError(t, json.Unmarshal([]byte(`[0.1, 0.2, 0.3]`), &v))
	assert.Equal(t, EmbeddingVector{0.1, 0.2, 0.3}, v)
}

func TestEmbeddingVector_NumericKeyObject(t *testing.T) {
	var v EmbeddingVector
	require.NoError(t, json.Unmarshal([]byte(`{"1": 2, "0": 1, "2": 3}`), &v))
	assert.Equal(t, EmbeddingVector{1, 2, 3}, v)
}

func TestEmbeddingVector_IgnoresNonNumericKeys(t *testing.T) {
	var v EmbeddingVector
	require.NoError(t, json.Unmarshal([]byte(`{"0": 1, "length": 2}`), &v))
	assert.Equal(t, EmbeddingVector{1}, v)
}

func TestEmbeddingVector_RejectsOtherShapes(t *testing.T) {
	var v EmbeddingVector
	assert.Error(t, json.Unmarshal([]byte(`"not a vector"`), &v))
}
