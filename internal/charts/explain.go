package charts

import (
	"fmt"
	"strings"
)

// Highlight is one observation about a chart.
type Highlight struct {
	Type string // trend, peak, low
	Text string
}

// Explanation is a deterministic, data-grounded chart walkthrough. No model
// output is involved, so it never needs quality gating.
type Explanation struct {
	Narrative  string
	Highlights []Highlight
	Confidence string // low, medium, high
}

// Explain builds an explanation for the slide's charts. Returns a
// low-confidence placeholder when no chart data is registered.
func (r *Registry) Explain(idOrTitle string) Explanation {
	charts := r.DataForSlide(idOrTitle)
	if len(charts) == 0 {
		return Explanation{
			Narrative:  "I have the slide context, but chart data is still loading. Tell me which part you want first, and I will summarize by year, series, and peaks.",
			Confidence: "low",
		}
	}

	var highlights []Highlight
	var parts []string

	for _, chart := range charts {
		yLabel := chart.AxisY
		if yLabel == "" {
			yLabel = "Y"
		}
		yUnit := ""
		if chart.UnitY != "" {
			yUnit = " " + chart.UnitY
		}

		parts = append(parts, fmt.Sprintf("%s: %s", chart.Title, chart.Description))

		if len(chart.Series) == 0 || len(chart.Series[0].Points) == 0 {
			continue
		}
		pts := chart.Series[0].Points

		low, high := pts[0], pts[0]
		for _, p := range pts {
			if p.Y > high.Y {
				high = p
			}
			if p.Y < low.Y {
				low = p
			}
		}
		highlights = append(highlights,
			Highlight{Type: "peak", Text: fmt.Sprintf("Highest %s%s occurs at %s with %g.", yLabel, yUnit, high.X, high.Y)},
			Highlight{Type: "low", Text: fmt.Sprintf("Lowest %s%s occurs at %s with %g.", yLabel, yUnit, low.X, low.Y)},
		)

		first, last := pts[0], pts[len(pts)-1]
		if last.Y > first.Y {
			highlights = append(highlights, Highlight{Type: "trend", Text: fmt.Sprintf("Series %s rises from %s to %s.", chart.Series[0].Name, first.X, last.X)})
		} else if last.Y < first.Y {
			highlights = append(highlights, Highlight{Type: "trend", Text: fmt.Sprintf("Series %s declines from %s to %s.", chart.Series[0].Name, first.X, last.X)})
		}

		for _, kp := range chart.KeyPoints {
			if kp.Takeaway != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", kp.Label, kp.Takeaway))
			}
		}
	}

	confidence := "medium"
	if len(highlights) > 0 {
		confidence = "high"
	}

	return Explanation{
		Narrative:  strings.Join(parts, " "),
		Highlights: highlights,
		Confidence: confidence,
	}
}

// Text flattens an explanation into the narration string the orchestrator
// speaks: narrative first, then bulleted highlights.
func (e Explanation) Text() string {
	lines := []string{e.Narrative}
	for _, h := range e.Highlights {
		lines = append(lines, "- "+h.Text)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// SuggestForKind returns a gentle follow-up suggestion for vague queries,
// tailored to the slide's chart kind.
func SuggestForKind(chartKind string) string {
	switch strings.ToLower(chartKind) {
	case "timeline":
		return "We can walk the timeline highlights and connect the dots to the story."
	case "contractorschedule", "velocity":
		return "We can step through crew capacity and regional growth at your pace."
	case "growthbridge":
		return "We can cover the financial bridge components and how they stack up."
	case "cctv":
		return "We can touch on inspection methods and what they mean in practice."
	case "projectcosts":
		return "We can cover methods, costs, and impact in plain language."
	case "techstack":
		return "We can outline speed, risk, and optimization without jargon."
	case "evidence":
		return "We can open the Evidence Locker and keep it simple."
	default:
		return "We can stay on this page or move to ROI, the map, or the timeline whenever you want."
	}
}

// IsVagueQuery reports whether the message lacks any specific hook (year,
// number, or chart vocabulary) that the models could anchor on.
func IsVagueQuery(message string) bool {
	m := strings.ToLower(message)
	for _, kw := range []string{"year", "series", "component", "chart", "timeline", "bridge", "crew", "cctv", "cost", "roi", "method", "region", "phase"} {
		if strings.Contains(m, kw) {
			return false
		}
	}
	for _, r := range m {
		if r >= '0' && r <= '9' {
			return false
		}
	}
	return true
}
