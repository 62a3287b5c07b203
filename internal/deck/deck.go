// Package deck holds the slide definitions for the narrated presentation:
// titles, narration blocks, chart bindings, and navigation metadata. The
// orchestrator resolves navigation targets against this package and the
// templated fallback narrator reads straight from the narration blocks.
package deck

import (
	"fmt"
	"strconv"
	"strings"
)

// NarrationBlock is the scripted narration attached to a slide.
type NarrationBlock struct {
	Title      string
	Subtitle   string
	Paragraphs []string
	Bullets    []string
}

// Slide describes one page of the presentation.
type Slide struct {
	ID         string
	NavItem    string
	Title      string
	Subtitle   string
	Narration  NarrationBlock
	ChartKind  string
	PromptHint string
}

// NavItem is a top-level navigation section.
type NavItem struct {
	ID    string
	Label string
}

// Story is the full presentation configuration.
type Story struct {
	AppTitle string
	Tagline  string
	NavItems []NavItem
	Slides   []Slide
}

// SlideByNumber returns the 1-based slide, or nil when out of range.
func (s *Story) SlideByNumber(n int) *Slide {
	if n < 1 || n > len(s.Slides) {
		return nil
	}
	return &s.Slides[n-1]
}

// SlideByID returns the slide with the given ID, or nil.
func (s *Story) SlideByID(id string) *Slide {
	for i := range s.Slides {
		if s.Slides[i].ID == id {
			return &s.Slides[i]
		}
	}
	return nil
}

// SlideByTitle returns the slide with the given title, case-insensitive.
func (s *Story) SlideByTitle(title string) *Slide {
	for i := range s.Slides {
		if strings.EqualFold(s.Slides[i].Title, title) {
			return &s.Slides[i]
		}
	}
	return nil
}

// SlideNumber returns the 1-based position of the slide, or 0.
func (s *Story) SlideNumber(slide *Slide) int {
	if slide == nil {
		return 0
	}
	for i := range s.Slides {
		if s.Slides[i].ID == slide.ID {
			return i + 1
		}
	}
	return 0
}

// ResolveTarget maps a navigation target to a slide. Targets may be a page
// number ("8"), a slide title ("Through the Tunnels"), a chart kind
// ("AcquisitionMap"), or a slide ID.
func (s *Story) ResolveTarget(target string) *Slide {
	t := strings.TrimSpace(target)
	if t == "" {
		return nil
	}
	if n, err := strconv.Atoi(t); err == nil {
		return s.SlideByNumber(n)
	}
	if sl := s.SlideByTitle(t); sl != nil {
		return sl
	}
	for i := range s.Slides {
		if strings.EqualFold(s.Slides[i].ChartKind, t) {
			return &s.Slides[i]
		}
	}
	return s.SlideByID(t)
}

// Index renders a one-line-per-slide summary for prompts and logs.
func (s *Story) Index() string {
	var b strings.Builder
	for i, sl := range s.Slides {
		fmt.Fprintf(&b, "Slide %d: %q (ID=%s)\n", i+1, sl.Title, sl.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}
