package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"agentlee/internal/deck"
	"agentlee/internal/hub"
	"agentlee/internal/logging"
)

// =============================================================================
// EVIDENCE ASSEMBLER
// =============================================================================

// Evidence is the retrieval bundle handed to the ensemble: a text
// preview of the top chunks, numbered citations, and the current
// slide's chart context.
type Evidence struct {
	Preview      string
	Citations    []hub.Citation
	ChartContext string
	ChartJSON    string
}

const snippetLimit = 240

// gatherEvidence searches the store and reads the chart registry. A
// failed search degrades to chart-only evidence rather than failing the
// whole message.
func (a *Agent) gatherEvidence(ctx context.Context, message string, current *deck.Slide) Evidence {
	var ev Evidence

	if current != nil {
		ev.ChartContext = a.registry.ContextForSlide(current.ID)
		ev.ChartJSON = ChartJSONForSlide(a.registry, current.ID)
	}

	if a.retriever == nil {
		return ev
	}
	results, err := a.retriever.Search(ctx, message, a.cfg.Store.TopK)
	if err != nil {
		logging.AgentWarn("Evidence search failed: %v", err)
		return ev
	}

	var lines []string
	for i, r := range results {
		snippet := r.Text
		if len(snippet) > snippetLimit {
			snippet = snippet[:snippetLimit]
		}
		snippet = strings.ReplaceAll(snippet, "\n", " ")
		lines = append(lines, fmt.Sprintf("[%d] %s (score=%.3f): %s", i+1, r.DocID, r.Score, snippet))

		cite := hub.Citation{
			ID:      i + 1,
			DocID:   r.DocID,
			Score:   r.Score,
			Snippet: snippet,
			Path:    r.Metadata["path"],
			Type:    r.Metadata["type"],
		}
		if v, err := strconv.Atoi(r.Metadata["lineStart"]); err == nil {
			cite.LineStart = v
		}
		if v, err := strconv.Atoi(r.Metadata["lineEnd"]); err == nil {
			cite.LineEnd = v
		}
		ev.Citations = append(ev.Citations, cite)
	}
	ev.Preview = strings.Join(lines, "\n")
	logging.AgentDebug("Evidence assembled: %d citations, chart context %t", len(ev.Citations), ev.ChartContext != "")
	return ev
}
