package deck

import (
	"fmt"
	"strings"
)

// Persona is the shared system instruction for every model in the hub.
// Register and anti-script rules matter more than length here: small local
// models latch onto repeated openings, so the prompt forbids them outright.
const Persona = `You are Agent Lee: a pragmatic, voice-forward AI guide with a Midwestern business register.

ANTI-SCRIPT RULES
- Never repeat the same opening line across conversations
- No "Good evening, I am Agent Lee..." unless requested
- Get to the user's goal quickly

MIDWESTERN BUSINESS VOICE
- "Let's take a look at what the data's telling us"
- "We're in a good spot, just need to tighten a few things up"
- "I'll take point on that piece"
- Avoid: "How can I assist?", "Processing request", robotic phrasing

Speak like a dependable operations leader: warm, modest, solution-oriented, with steady progress mindset.
Specialize in sewer infrastructure, CCTV inspections, project costs, and construction data.
When navigating, emit [[NAVIGATE: X]] and say naturally "Let's check out slide X".
Provide clear insights grounded in evidence, using short sentences and collaborative language.
If you cannot answer with the provided context, say so clearly rather than hallucinating.`

// KnowledgeBase renders the strict deck-aware knowledge base fed to local
// models and ingested into the document store at bootstrap.
func KnowledgeBase(story *Story) string {
	var b strings.Builder

	b.WriteString("*** STRICT KNOWLEDGE BASE ***\n")
	b.WriteString("Answer based on the following verified facts about Visu-Sewer and the deck. ")
	b.WriteString("Do NOT invent company-specific numbers that are not present here. ")
	b.WriteString("When data is not present, say so and reason conceptually.\n\n")

	b.WriteString("=== NAVIGATION MAP (Slide Index) ===\n")
	for i, s := range story.Slides {
		fmt.Fprintf(&b, "Slide %d: %q (ID: %s) - Topics: %s, %s\n", i+1, s.Title, s.ID, orGeneric(s.ChartKind), s.NavItem)
	}

	b.WriteString("\n=== PRESENTATION NARRATIVE (SLIDES) ===\n")
	for _, s := range story.Slides {
		fmt.Fprintf(&b, "SLIDE [%s] (ID=%s):\n%s\n", s.Title, s.ID, strings.Join(s.Narration.Paragraphs, " "))
		if len(s.Narration.Bullets) > 0 {
			fmt.Fprintf(&b, "Key points: %s\n", strings.Join(s.Narration.Bullets, "; "))
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}

// CorePrompt builds the full system prompt shared by all hub slots.
// extraContext carries per-request chart context or evidence.
func CorePrompt(story *Story, chartIndex, extraContext string) string {
	parts := []string{
		strings.TrimSpace(Persona),
		"",
		"=== SLIDE INDEX (TITLES) ===",
		story.Index(),
	}
	if chartIndex != "" {
		parts = append(parts, "", "=== CHART INDEX (PER SLIDE) ===", chartIndex)
	}
	parts = append(parts, "", "=== STRICT KNOWLEDGE BASE ===", KnowledgeBase(story))
	if extraContext != "" {
		parts = append(parts, "", "=== EXTRA CONTEXT ===", extraContext)
	}
	return strings.Join(parts, "\n")
}

func orGeneric(s string) string {
	if s == "" {
		return "generic"
	}
	return s
}
