package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"agentlee/internal/logging"
)

// =============================================================================
// ENSEMBLE RUNNERS - PLANNER, BRAIN, VOICE, COMPANION, SINGLE-MODEL
// =============================================================================

// PlannerInput feeds the planning pass.
type PlannerInput struct {
	UserMessage     string
	SlideTitle      string
	SlideID         string
	SlideSummary    string
	EvidencePreview string
	ChartContext    string
}

// PlannerResult is the parsed plan. RawText keeps the unparsed output so
// downstream passes can fall back to it when the JSON is mangled.
type PlannerResult struct {
	Plan             string
	FocusPoints      []string
	NavigationTarget string
	AnswerDraft      string
	RawText          string
}

type plannerEnvelope struct {
	Plan             string   `json:"plan"`
	Summary          string   `json:"summary"`
	FocusPoints      []string `json:"focusPoints"`
	NavigationTarget string   `json:"navigationTarget"`
	AnswerDraft      string   `json:"answerDraft"`
}

// RunPlanner asks the planner slot for a small JSON plan covering how to
// answer, what to focus on, and whether to navigate.
func (h *Hub) RunPlanner(ctx context.Context, input PlannerInput) (*PlannerResult, error) {
	prompt := fmt.Sprintf(`You orchestrate Retrieval-Augmented Generation (RAG) for Agent Lee. Build a small plan.
User question: %s
Slide: %s (%s)
Slide summary: %s
Chart context: %s
Evidence preview:
%s

Respond in JSON with the following shape:
{
  "plan": "one paragraph summarizing how you will answer",
  "focusPoints": ["short bullet", "another"],
  "navigationTarget": "optional slide id/number or null",
  "answerDraft": "short draft paragraph"
}`,
		input.UserMessage,
		orDefault(input.SlideTitle, "Unknown"),
		orDefault(input.SlideID, "n/a"),
		orDefault(input.SlideSummary, "None provided."),
		orDefault(input.ChartContext, "Not provided."),
		orDefault(input.EvidencePreview, "No local evidence available."))

	raw, err := h.Generate(ctx, SlotPlanner, prompt, &GenerationSettings{MaxNewTokens: 360, Temperature: 0.33})
	if err != nil {
		return nil, err
	}

	result := &PlannerResult{RawText: strings.TrimSpace(raw)}
	var env plannerEnvelope
	if jsonStr := extractJSON(raw); jsonStr != "" {
		if err := json.Unmarshal([]byte(jsonStr), &env); err != nil {
			logging.HubDebug("planner JSON did not parse: %v", err)
		}
	}
	result.Plan = strings.TrimSpace(env.Plan)
	if result.Plan == "" {
		result.Plan = strings.TrimSpace(env.Summary)
	}
	if result.Plan == "" {
		result.Plan = result.RawText
	}
	for _, p := range env.FocusPoints {
		if p = strings.TrimSpace(p); p != "" {
			result.FocusPoints = append(result.FocusPoints, p)
		}
	}
	result.NavigationTarget = strings.TrimSpace(env.NavigationTarget)
	if strings.EqualFold(result.NavigationTarget, "null") {
		result.NavigationTarget = ""
	}
	result.AnswerDraft = strings.TrimSpace(env.AnswerDraft)
	return result, nil
}

// BrainInput feeds the main narration pass.
type BrainInput struct {
	UserMessage     string
	SlideTitle      string
	SlideID         string
	SlideNarrative  string
	EvidencePreview string
	Planner         *PlannerResult
	DeckPrompt      string
}

// RunBrain produces the main spoken narration, grounded in the deck
// prompt, the evidence summary, and the planner's notes.
func (h *Hub) RunBrain(ctx context.Context, input BrainInput) (string, error) {
	focusBlock := "1. Highlight safety, cost, and growth impacts."
	navHint := "Navigation target optional."
	plan := "No plan available."
	if input.Planner != nil {
		if len(input.Planner.FocusPoints) > 0 {
			var sb strings.Builder
			for i, p := range input.Planner.FocusPoints {
				if i > 0 {
					sb.WriteString("\n")
				}
				fmt.Fprintf(&sb, "%d. %s", i+1, p)
			}
			focusBlock = sb.String()
		}
		if input.Planner.NavigationTarget != "" {
			navHint = "Preferred navigation target: " + input.Planner.NavigationTarget
		}
		if input.Planner.Plan != "" {
			plan = input.Planner.Plan
		}
	}

	prompt := fmt.Sprintf(`%s

=== USER QUESTION ===
%s

=== CURRENT SLIDE ===
Title: %s (ID: %s)
Narrative: %s

=== LOCAL EVIDENCE SUMMARY ===
%s

=== PLANNER NOTES ===
Plan: %s
Focus points:
%s
%s

Write a confident spoken narration (3-4 short paragraphs, 250-320 words). Speak as Agent Lee. Mention data only when grounded in the evidence above. If a navigation change is required, include [[NAVIGATE: target]] once.`,
		input.DeckPrompt,
		input.UserMessage,
		orDefault(input.SlideTitle, "Unknown"),
		orDefault(input.SlideID, "n/a"),
		orDefault(input.SlideNarrative, "Not provided."),
		orDefault(input.EvidencePreview, "No local evidence indexed yet."),
		plan,
		focusBlock,
		navHint)

	return h.Generate(ctx, SlotBrain, prompt, &GenerationSettings{MaxNewTokens: 440, Temperature: 0.55})
}

// VoiceStylerInput feeds the narration-polish pass.
type VoiceStylerInput struct {
	FinalAnswer string
	SlideTitle  string
	PlanFocus   []string
}

// RunVoiceStyler rewrites an answer as spoken narration. On failure the
// unstyled answer is returned as-is; styling is never load-bearing.
func (h *Hub) RunVoiceStyler(ctx context.Context, input VoiceStylerInput) string {
	focus := "Highlight safety, cost per foot, operational excellence, and growth thesis."
	if len(input.PlanFocus) > 0 {
		focus = strings.Join(input.PlanFocus, "; ")
	}
	prompt := fmt.Sprintf(`Rewrite the following answer as a natural spoken narration for a live presentation.
Slide: %s
Focus: %s
Tone: Warm, confident, actionable. Keep references to slides intact. Preserve any [[NAVIGATE: ...]] tokens.

Answer:
%s`,
		orDefault(input.SlideTitle, "Unknown"),
		focus,
		input.FinalAnswer)

	styled, err := h.Generate(ctx, SlotVoice, prompt, nil)
	if err != nil || strings.TrimSpace(styled) == "" {
		return input.FinalAnswer
	}
	return styled
}

// CompanionInput feeds the follow-up sentence pass.
type CompanionInput struct {
	UserMessage string
	FinalAnswer string
	SlideTitle  string
}

// RunCompanion asks for one short follow-up sentence. Errors yield an
// empty string; the main narration stands on its own.
func (h *Hub) RunCompanion(ctx context.Context, input CompanionInput) string {
	prompt := fmt.Sprintf(`You are Agent Lee's companion voice.
The audience asked: %s
Slide: %s
Main narration:
%s

Respond with ONE friendly follow-up sentence inviting the audience to ask about charts, evidence, or next steps. Keep it under 25 words.`,
		input.UserMessage,
		orDefault(input.SlideTitle, "Unknown"),
		input.FinalAnswer)

	out, err := h.Generate(ctx, SlotCompanion, prompt, nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// Citation is one evidence item offered to the single-model answer.
type Citation struct {
	ID        int
	DocID     string
	Score     float64
	Snippet   string
	Path      string
	LineStart int
	LineEnd   int
	Type      string
}

// SingleModelInput feeds the unified single-pass answer.
type SingleModelInput struct {
	Question        string
	SlideTitle      string
	ChartContext    string
	Citations       []Citation
	ForceChartFocus bool
	ChartJSON       string
}

// RunSingleModel produces one grounded, citation-bearing answer through
// the brain slot alone, for single mode.
func (h *Hub) RunSingleModel(ctx context.Context, input SingleModelInput) (string, error) {
	cites := input.Citations
	if len(cites) > 6 {
		cites = cites[:6]
	}
	var citeLines []string
	for _, c := range cites {
		src := c.DocID
		if src == "" {
			src = "source"
		}
		if c.Path != "" {
			src = c.Path
			if c.LineStart > 0 && c.LineEnd > 0 {
				src = fmt.Sprintf("%s:%d-%d", c.Path, c.LineStart, c.LineEnd)
			}
		}
		line := fmt.Sprintf("[%d] %s", c.ID, src)
		if c.Type != "" {
			line += fmt.Sprintf(" (%s)", c.Type)
		}
		if c.Score != 0 {
			line += fmt.Sprintf(" score=%.3f", c.Score)
		}
		citeLines = append(citeLines, line+": "+c.Snippet)
	}
	citeBlock := strings.Join(citeLines, "\n\n")
	if citeBlock == "" {
		citeBlock = "(no local evidence)"
	}

	var header strings.Builder
	if input.SlideTitle != "" {
		fmt.Fprintf(&header, "Slide: %s\n", input.SlideTitle)
	}
	if input.ChartContext != "" {
		fmt.Fprintf(&header, "Chart context: %s\n", input.ChartContext)
	}
	if input.ChartJSON != "" {
		chartJSON := input.ChartJSON
		if len(chartJSON) > 6000 {
			chartJSON = chartJSON[:6000]
		}
		fmt.Fprintf(&header, "\nChart Data (JSON):\n%s", chartJSON)
	}

	chartFocus := ""
	if input.ForceChartFocus && input.ChartContext != "" {
		chartFocus = "\n- USER ASKED ABOUT A CHART. FOCUS PRIMARILY ON THE CHART CONTEXT ABOVE. Describe what the chart shows, trends, comparisons, and the key takeaway. Do not discuss unrelated acquisitions or slides."
	}

	prompt := fmt.Sprintf(`You are Agent Lee. Answer succinctly and only with supported facts.

Question:
%s

%s
Top Evidence:
%s

Instructions:
- Produce a clear 3-4 paragraph answer (about 250-320 words).
- Use inline citations like [1], [2] that refer to the evidence list above when a claim is supported.
- Do not invent citations; only cite when grounded.
- If a navigation change is appropriate, include one token [[NAVIGATE: target]] exactly once.
- If evidence is insufficient, state what is missing and suggest what to check.
- STRICT GROUNDING: Use ONLY the information from Top Evidence and the Chart context provided above. If a claim cannot be supported by those, say so explicitly and do not introduce unrelated topics.%s`,
		input.Question,
		header.String(),
		citeBlock,
		chartFocus)

	return h.Generate(ctx, SlotBrain, prompt, &GenerationSettings{MaxNewTokens: 420, Temperature: 0.35, TopP: 0.9})
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

var jsonFenceRe = regexp.MustCompile("(?is)```json(.*?)```")

// stripPrompt removes a leading prompt echo from generated text. Some
// completion backends return the prompt followed by the continuation.
func stripPrompt(prompt, generated string) string {
	if generated == "" {
		return ""
	}
	if prompt != "" && strings.HasPrefix(generated, prompt) {
		return strings.TrimSpace(generated[len(prompt):])
	}
	return strings.TrimSpace(generated)
}

// extractJSON pulls a JSON object out of model output, trying a ```json
// fence first and falling back to the outermost brace span.
func extractJSON(text string) string {
	if text == "" {
		return ""
	}
	if m := jsonFenceRe.FindStringSubmatch(text); m != nil {
		candidate := strings.TrimSpace(m[1])
		if json.Valid([]byte(candidate)) {
			return candidate
		}
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate
		}
	}
	return ""
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
