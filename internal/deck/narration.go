package deck

import (
	"fmt"
	"strings"
)

// LocalNarration assembles a templated narration from the slide's scripted
// blocks. This is the last-resort narrator: no model output involved, so it
// can never be garbled.
func LocalNarration(slide *Slide, evidencePreview string) string {
	var segments []string

	if slide != nil && slide.Title != "" {
		segments = append(segments, fmt.Sprintf("Let me walk you through: %s.", slide.Title))
	}
	if evidencePreview != "" {
		preview := evidencePreview
		if len(preview) > 120 {
			preview = preview[:120]
		}
		segments = append(segments, fmt.Sprintf("Supporting data: %s.", preview))
	}
	if slide != nil {
		if len(slide.Narration.Paragraphs) > 0 {
			paras := slide.Narration.Paragraphs
			if len(paras) > 2 {
				paras = paras[:2]
			}
			segments = append(segments, strings.Join(paras, " "))
		}
		if len(slide.Narration.Bullets) > 0 {
			bullets := slide.Narration.Bullets
			if len(bullets) > 4 {
				bullets = bullets[:4]
			}
			segments = append(segments, "Key points: "+strings.Join(bullets, "; "))
		}
	}

	return strings.TrimSpace(strings.Join(segments, " "))
}

// NarrativeText flattens a slide's narration into a one-line summary (first
// paragraph) and a combined narrative string for prompting.
func NarrativeText(slide *Slide) (summary, narrative string) {
	if slide == nil {
		return "", ""
	}

	var paragraphs, bullets []string
	for _, p := range slide.Narration.Paragraphs {
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	for _, b := range slide.Narration.Bullets {
		if b != "" {
			bullets = append(bullets, b)
		}
	}

	if len(paragraphs) > 0 {
		summary = paragraphs[0]
	}

	parts := []string{strings.Join(paragraphs, " ")}
	if len(bullets) > 0 {
		parts = append(parts, "Bullets: "+strings.Join(bullets, "; "))
	}
	narrative = strings.TrimSpace(strings.Join(parts, "\n"))
	return summary, narrative
}
