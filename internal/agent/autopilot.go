package agent

import (
	"context"
	"time"

	"agentlee/internal/deck"
	"agentlee/internal/hub"
	"agentlee/internal/logging"
)

// =============================================================================
// AUTOPILOT - SEQUENTIAL DECK NARRATOR
// =============================================================================

// Autopilot walks the deck slide by slide, narrating each one and
// pausing between slides. Narration comes from the deck itself, so the
// walk works even when no model backend is reachable.
type Autopilot struct {
	agent   *Agent
	delay   time.Duration
	narrate func(ctx context.Context, slide *deck.Slide) string
}

// NewAutopilot creates a narrator over the agent's story. delay <= 0
// falls back to the configured autopilot delay.
func NewAutopilot(a *Agent, delay time.Duration) *Autopilot {
	if delay <= 0 {
		delay = a.cfg.GetAutopilotDelay()
	}
	ap := &Autopilot{agent: a, delay: delay}
	ap.narrate = ap.defaultNarrate
	return ap
}

// defaultNarrate styles the slide's own narration through the voice slot
// when a hub is available, and falls back to the plain template.
func (ap *Autopilot) defaultNarrate(ctx context.Context, slide *deck.Slide) string {
	base := deck.LocalNarration(slide, "")
	if ap.agent.hub == nil {
		return base
	}
	styled := ap.agent.hub.RunVoiceStyler(ctx, hub.VoiceStylerInput{
		FinalAnswer: base,
		SlideTitle:  slide.Title,
	})
	if styled == "" {
		return base
	}
	return styled
}

// Run narrates from the given 1-based slide number to the end of the
// deck, invoking fn per slide. It stops early when ctx is cancelled or
// fn returns false.
func (ap *Autopilot) Run(ctx context.Context, fromSlide int, fn func(slide *deck.Slide, narration string) bool) error {
	story := ap.agent.story
	if fromSlide < 1 {
		fromSlide = 1
	}
	logging.Autopilot("Starting autopilot at slide %d of %d", fromSlide, len(story.Slides))

	for n := fromSlide; n <= len(story.Slides); n++ {
		slide := story.SlideByNumber(n)
		narration := ap.narrate(ctx, slide)
		logging.Autopilot("Slide %d (%s): %d chars", n, slide.ID, len(narration))
		if !fn(slide, narration) {
			logging.Autopilot("Stopped by caller at slide %d", n)
			return nil
		}
		// Speaking finishes before the advance timer starts, keeping
		// narration and slide changes in lockstep.
		if spk := ap.agent.currentSpeaker(); spk != nil && narration != "" {
			spk.Speak(narration)
		}
		if n == len(story.Slides) {
			break
		}
		select {
		case <-ctx.Done():
			logging.Autopilot("Cancelled at slide %d", n)
			return ctx.Err()
		case <-time.After(ap.delay):
		}
	}
	logging.Autopilot("Autopilot reached the end of the deck")
	return nil
}
