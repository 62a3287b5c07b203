package embedding

import (
	"context"
	"math"
)

// =============================================================================
// HASH EMBEDDING ENGINE (DETERMINISTIC FALLBACK)
// =============================================================================

// hashDimensions is the fixed bucket count for the fallback embedding.
const hashDimensions = 64

// HashEngine produces deterministic character-bucket embeddings.
// Each character code is summed into bucket i mod 64 and the vector is
// L2-normalized. Quality is crude but retrieval stays functional with no
// model server at all, and identical text always embeds identically.
type HashEngine struct{}

// NewHashEngine creates the fallback engine.
func NewHashEngine() *HashEngine {
	return &HashEngine{}
}

// Embed generates a deterministic embedding for the text. Never fails.
func (e *HashEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	return HashVector(text), nil
}

// EmbedBatch generates embeddings for multiple texts.
func (e *HashEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = HashVector(t)
	}
	return out, nil
}

// Dimensions returns the dimensionality of embeddings.
func (e *HashEngine) Dimensions() int {
	return hashDimensions
}

// Name returns the engine name.
func (e *HashEngine) Name() string {
	return "hash:charcode-64"
}

// HashVector computes the character-bucket vector directly.
// Buckets by rune position, not rune value, so word order matters.
func HashVector(text string) []float32 {
	vec := make([]float32, hashDimensions)

	i := 0
	for _, r := range text {
		vec[i%hashDimensions] += float32(r)
		i++
	}

	var mag float64
	for _, v := range vec {
		mag += float64(v) * float64(v)
	}
	if mag == 0 {
		return vec
	}

	norm := float32(math.Sqrt(mag))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
