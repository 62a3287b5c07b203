package embedding

import (
	"context"
	"sync"

	"agentlee/internal/logging"
)

// =============================================================================
// PROVIDER - ENGINE WITH GUARANTEED FALLBACK
// =============================================================================

// Provider wraps an engine so that Embed never fails: when the primary
// engine errors, the deterministic hash fallback is used instead. Retrieval
// quality degrades but the store and search paths stay operational.
type Provider struct {
	primary  Engine
	fallback *HashEngine

	warnOnce sync.Once
}

// NewProvider creates a provider over the given primary engine.
// A nil primary means hash-only mode.
func NewProvider(primary Engine) *Provider {
	return &Provider{
		primary:  primary,
		fallback: NewHashEngine(),
	}
}

// Embed returns an embedding for the text, falling back to the hash engine
// on any primary failure.
func (p *Provider) Embed(ctx context.Context, text string) []float32 {
	if p.primary != nil {
		vec, err := p.primary.Embed(ctx, text)
		if err == nil && len(vec) > 0 {
			return vec
		}
		if err != nil {
			p.warnOnce.Do(func() {
				logging.Get(logging.CategoryEmbedding).Warn("primary engine %s failed, using hash fallback: %v", p.primary.Name(), err)
			})
		}
	}
	return HashVector(text)
}

// EmbedBatch embeds multiple texts with the same fallback guarantee.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = p.Embed(ctx, t)
	}
	return out
}

// Name returns the active primary engine name, or the fallback's.
func (p *Provider) Name() string {
	if p.primary != nil {
		return p.primary.Name()
	}
	return p.fallback.Name()
}
