package deck

import (
	"strings"
	"testing"
)

func TestDefaultStory_FifteenSlides(t *testing.T) {
	story := DefaultStory()
	if len(story.Slides) != 15 {
		t.Fatalf("expected 15 slides, got %d", len(story.Slides))
	}
	for i, s := range story.Slides {
		if s.Title == "" {
			t.Errorf("slide %d has no title", i+1)
		}
		if len(s.Narration.Paragraphs) == 0 {
			t.Errorf("slide %q has no narration", s.Title)
		}
	}
}

func TestSlideByNumber(t *testing.T) {
	story := DefaultStory()
	if s := story.SlideByNumber(1); s == nil || s.Title != "Innovation Below Ground" {
		t.Errorf("slide 1 lookup failed: %+v", s)
	}
	if s := story.SlideByNumber(12); s == nil || s.Title != "Evidence Locker" {
		t.Errorf("slide 12 should be Evidence Locker, got %+v", s)
	}
	if story.SlideByNumber(0) != nil || story.SlideByNumber(99) != nil {
		t.Error("out-of-range slide numbers should return nil")
	}
}

func TestResolveTarget(t *testing.T) {
	story := DefaultStory()

	cases := map[string]string{
		"8":                    "Engineering Tomorrow",
		"Through the Tunnels":  "Through the Tunnels",
		"AcquisitionMap":       "Stewards of Sewers",
		"evidenceLocker":       "Evidence Locker",
		"masters of the main":  "Masters of the Main",
	}
	for target, wantTitle := range cases {
		s := story.ResolveTarget(target)
		if s == nil {
			t.Errorf("ResolveTarget(%q) returned nil", target)
			continue
		}
		if s.Title != wantTitle {
			t.Errorf("ResolveTarget(%q) = %q, want %q", target, s.Title, wantTitle)
		}
	}

	if story.ResolveTarget("") != nil {
		t.Error("empty target should resolve to nil")
	}
	if story.ResolveTarget("nonsense") != nil {
		t.Error("unknown target should resolve to nil")
	}
}

func TestSlideNumber(t *testing.T) {
	story := DefaultStory()
	s := story.SlideByTitle("Closing Chapter")
	if n := story.SlideNumber(s); n != 14 {
		t.Errorf("expected Closing Chapter at 14, got %d", n)
	}
	if story.SlideNumber(nil) != 0 {
		t.Error("nil slide should number 0")
	}
}

func TestLocalNarration(t *testing.T) {
	story := DefaultStory()
	slide := story.SlideByTitle("Through the Tunnels")

	got := LocalNarration(slide, "")
	if !strings.HasPrefix(got, "Let me walk you through: Through the Tunnels.") {
		t.Errorf("narration should open with the slide title: %q", got)
	}
	if !strings.Contains(got, "Fort Point Capital") {
		t.Errorf("narration should include slide paragraphs: %q", got)
	}
	// Third paragraph is beyond the two-paragraph cap
	if strings.Contains(got, "steady, not random") {
		t.Errorf("narration should cap at two paragraphs: %q", got)
	}
}

func TestLocalNarration_EvidenceTruncated(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := LocalNarration(nil, long)
	if !strings.Contains(got, "Supporting data: ") {
		t.Fatalf("expected evidence segment: %q", got)
	}
	if len(got) > 160 {
		t.Errorf("evidence preview should cap at 120 chars, got %d total", len(got))
	}
}

func TestLocalNarration_Bullets(t *testing.T) {
	story := DefaultStory()
	slide := story.SlideByTitle("AI Financial Analyst")
	got := LocalNarration(slide, "")
	if !strings.Contains(got, "Key points: Ask about Revenue Trajectory") {
		t.Errorf("bullets missing: %q", got)
	}
}

func TestNarrativeText(t *testing.T) {
	story := DefaultStory()
	slide := story.SlideByTitle("Evidence Locker")
	summary, narrative := NarrativeText(slide)
	if summary == "" || !strings.HasPrefix(narrative, summary) {
		t.Errorf("narrative should start with the summary paragraph")
	}
	if s, n := NarrativeText(nil); s != "" || n != "" {
		t.Error("nil slide should yield empty narrative")
	}
}

func TestKnowledgeBase_ContainsAllSlides(t *testing.T) {
	story := DefaultStory()
	kb := KnowledgeBase(story)
	for _, s := range story.Slides {
		if !strings.Contains(kb, "SLIDE ["+s.Title+"]") {
			t.Errorf("knowledge base missing slide %q", s.Title)
		}
	}
	if !strings.Contains(kb, "NAVIGATION MAP") {
		t.Error("knowledge base missing navigation map")
	}
}

func TestCorePrompt(t *testing.T) {
	story := DefaultStory()
	p := CorePrompt(story, "chart index here", "extra evidence")
	for _, want := range []string{"Agent Lee", "SLIDE INDEX", "CHART INDEX", "STRICT KNOWLEDGE BASE", "EXTRA CONTEXT", "extra evidence"} {
		if !strings.Contains(p, want) {
			t.Errorf("core prompt missing %q", want)
		}
	}

	noExtra := CorePrompt(story, "", "")
	if strings.Contains(noExtra, "EXTRA CONTEXT") || strings.Contains(noExtra, "CHART INDEX") {
		t.Error("empty sections should be omitted")
	}
}
