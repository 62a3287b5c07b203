// Package charts holds structured per-slide chart knowledge: series data,
// axes, and key points. The orchestrator grounds chart answers here instead
// of letting small models guess at numbers.
package charts

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"agentlee/internal/logging"
)

// Point is one data point of a chart series. X stays a string so years,
// phases, and category labels all fit one shape.
type Point struct {
	X     string
	Y     float64
	Label string
}

// Series is a named sequence of points.
type Series struct {
	Name   string
	Points []Point
}

// KeyPoint is a curated callout on a chart.
type KeyPoint struct {
	Label    string
	X        string
	Y        float64
	Takeaway string
}

// Knowledge is the structured description of one chart.
type Knowledge struct {
	ID          string
	Title       string
	Description string
	AxisX       string
	AxisY       string
	UnitY       string
	Series      []Series
	KeyPoints   []KeyPoint
}

// Registry maps slide keys to their charts. Safe for concurrent use:
// CSV bootstrap upserts while the orchestrator reads.
type Registry struct {
	mu     sync.RWMutex
	charts map[string]map[string]*Knowledge
	// slide ID and title lookups, normalized
	keys map[string]string
}

var nonIDCharsRe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// NormalizeID strips whitespace and non-alphanumerics from an identifier.
func NormalizeID(v string) string {
	s := strings.Join(strings.Fields(v), "")
	return nonIDCharsRe.ReplaceAllString(s, "")
}

// titleAliases map normalized shorthand titles to canonical slide keys.
var titleAliases = map[string]string{
	"throughthetunnels":     "throughTheTunnels",
	"mastersofthemain":      "mastersOfMain",
	"engineeringtomorrow":   "engineeringTomorrow",
	"eyeonunderground":      "eyeOnUnderground",
	"eyeontheunderground":   "eyeOnUnderground",
	"savingcities":          "savingCities",
	"savingcitiesmoney":     "savingCities",
	"wiredforfuture":        "wiredForFuture",
	"wiredforthefuture":     "wiredForFuture",
	"visionariesbelow":      "visionariesBelow",
	"innovationbelowground": "innovationBelowGround",
	"stewardsofsewers":      "stewardsOfSewers",
	"evidencelocker":        "evidenceLocker",
	"closingchapter":        "closingChapter",
}

// NewRegistry returns a registry seeded with the deck's default charts.
func NewRegistry() *Registry {
	r := &Registry{
		charts: make(map[string]map[string]*Knowledge),
		keys:   make(map[string]string),
	}
	r.seedDefaults()
	return r
}

// RegisterSlide teaches the registry a slide's ID and title so either can
// resolve chart lookups.
func (r *Registry) RegisterSlide(id, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[strings.ToLower(NormalizeID(id))] = id
	r.keys[strings.ToLower(NormalizeID(title))] = id
}

// resolveKey maps a slide ID or title to the canonical registry key.
func (r *Registry) resolveKey(idOrTitle string) string {
	raw := NormalizeID(idOrTitle)
	needle := strings.ToLower(raw)

	if id, ok := r.keys[needle]; ok {
		return id
	}
	if _, ok := r.charts[raw]; ok {
		return raw
	}
	if alias, ok := titleAliases[needle]; ok {
		return alias
	}
	for k := range r.charts {
		if strings.ToLower(k) == needle {
			return k
		}
	}
	return ""
}

// Upsert adds or merges a chart under the given slide.
func (r *Registry) Upsert(slideID, chartID string, k *Knowledge) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := NormalizeID(slideID)
	if r.charts[key] == nil {
		r.charts[key] = make(map[string]*Knowledge)
	}

	existing := r.charts[key][chartID]
	if existing == nil {
		k.ID = chartID
		r.charts[key][chartID] = k
		logging.Charts("registered chart %s/%s (%d series)", key, chartID, len(k.Series))
		return
	}

	if k.Title != "" {
		existing.Title = k.Title
	}
	if k.Description != "" {
		existing.Description = k.Description
	}
	if k.AxisX != "" {
		existing.AxisX = k.AxisX
	}
	if k.AxisY != "" {
		existing.AxisY = k.AxisY
	}
	if k.UnitY != "" {
		existing.UnitY = k.UnitY
	}
	if len(k.Series) > 0 {
		existing.Series = k.Series
	}
	if len(k.KeyPoints) > 0 {
		existing.KeyPoints = k.KeyPoints
	}
	logging.Charts("updated chart %s/%s", key, chartID)
}

// ContextForSlide renders a one-line chart context string for prompts, or
// "" when the slide has no charts.
func (r *Registry) ContextForSlide(idOrTitle string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := r.resolveKey(idOrTitle)
	charts := r.charts[key]
	if len(charts) == 0 {
		return ""
	}

	first := firstChart(charts)
	names := make([]string, 0, len(first.Series))
	for _, s := range first.Series {
		names = append(names, s.Name)
	}
	return fmt.Sprintf("%s — %s Series: %s.", first.Title, first.Description, strings.Join(names, ", "))
}

// DataForSlide returns all charts registered for the slide.
func (r *Registry) DataForSlide(idOrTitle string) []*Knowledge {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := r.resolveKey(idOrTitle)
	charts := r.charts[key]
	if len(charts) == 0 {
		return nil
	}

	ids := make([]string, 0, len(charts))
	for id := range charts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*Knowledge, 0, len(charts))
	for _, id := range ids {
		out = append(out, charts[id])
	}
	return out
}

// IndexSummary renders a per-slide chart index for the system prompt.
func (r *Registry) IndexSummary() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.charts) == 0 {
		return "No chart registry entries available."
	}

	keys := make([]string, 0, len(r.charts))
	for k := range r.charts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		first := firstChart(r.charts[key])
		fmt.Fprintf(&b, "Slide %s — %q (X=%s / Y=%s)\n", key, first.Title, first.AxisX, first.AxisY)
	}
	return strings.TrimRight(b.String(), "\n")
}

// firstChart returns the chart with the lexically first ID, for stable output.
func firstChart(charts map[string]*Knowledge) *Knowledge {
	ids := make([]string, 0, len(charts))
	for id := range charts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return charts[ids[0]]
}
