// Package hub manages the local model ensemble behind Agent Lee. Each
// slot (planner, brain, companion, voice, librarian) carries its own
// generation settings and resolves to the first working backend in its
// candidate list: the local Ollama server first, then Gemini when an
// API key is configured.
package hub

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"agentlee/internal/logging"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// =============================================================================
// SLOT REGISTRY
// =============================================================================

// Slot identifies one member of the ensemble.
type Slot string

const (
	SlotPlanner   Slot = "planner"
	SlotBrain     Slot = "brain"
	SlotCompanion Slot = "companion"
	SlotVoice     Slot = "voice"
	SlotLibrarian Slot = "librarian"
)

// GenerationSettings are the decoding parameters for a slot. Zero values
// mean "backend default".
type GenerationSettings struct {
	MaxNewTokens int
	Temperature  float64
	TopP         float64
}

type slotConfig struct {
	label      string
	generation GenerationSettings
}

var slotConfigs = map[Slot]slotConfig{
	SlotPlanner:   {label: "Planner", generation: GenerationSettings{MaxNewTokens: 320, Temperature: 0.35, TopP: 0.92}},
	SlotBrain:     {label: "Brain", generation: GenerationSettings{MaxNewTokens: 420, Temperature: 0.55, TopP: 0.9}},
	SlotCompanion: {label: "Companion", generation: GenerationSettings{MaxNewTokens: 120, Temperature: 0.5, TopP: 0.9}},
	SlotVoice:     {label: "Voice Styler", generation: GenerationSettings{MaxNewTokens: 220, Temperature: 0.55, TopP: 0.9}},
	SlotLibrarian: {label: "Librarian"},
}

// GenerationSlots are the text-producing slots, in warm-up order.
var GenerationSlots = []Slot{SlotPlanner, SlotBrain, SlotVoice, SlotCompanion}

// Status describes one slot's backend readiness. Progress walks from 0
// to 1 as the candidate chain is tried; 1 means the resolved model
// answered.
type Status struct {
	Slot     Slot
	Label    string
	ModelID  string
	Ready    bool
	Loading  bool
	Progress float64
	Error    string
}

// =============================================================================
// HUB
// =============================================================================

// Config wires the hub to its backends. SlotModels overrides the ranked
// candidate model IDs per slot; slots without an entry use OllamaModel.
type Config struct {
	OllamaEndpoint string
	OllamaModel    string
	SlotModels     map[Slot][]string
	GeminiAPIKey   string
	GeminiModel    string
	Timeout        time.Duration
}

// generator is one backend capable of serving a slot.
type generator interface {
	Generate(ctx context.Context, prompt string, settings GenerationSettings) (string, error)
	ModelID() string
}

// Hub resolves slots to backends and tracks their status.
type Hub struct {
	cfg    Config
	chains map[Slot][]generator
	gated  bool

	// first-load probes are shared across concurrent callers
	warm singleflight.Group

	mu        sync.Mutex
	status    map[Slot]*Status
	gatedOnce map[Slot]bool
}

// New creates a hub. Each slot gets its own candidate chain: the slot's
// ranked open models first, the gated backend last. A missing Gemini key
// is not an error; the gated candidate is simply left out and noted once
// per slot on first use.
func New(cfg Config) *Hub {
	if cfg.OllamaModel == "" {
		cfg.OllamaModel = "gemma3:1b"
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	h := &Hub{
		cfg:       cfg,
		chains:    make(map[Slot][]generator),
		status:    make(map[Slot]*Status),
		gatedOnce: make(map[Slot]bool),
	}

	var gated generator
	if cfg.GeminiAPIKey != "" {
		gem, err := newGeminiGenerator(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logging.HubWarn("Gemini backend unavailable: %v", err)
		} else {
			gated = gem
			h.gated = true
		}
	}

	for slot, sc := range slotConfigs {
		models := cfg.SlotModels[slot]
		if len(models) == 0 {
			models = []string{cfg.OllamaModel}
		}
		chain := make([]generator, 0, len(models)+1)
		for _, m := range models {
			chain = append(chain, newOllamaGenerator(cfg.OllamaEndpoint, m, cfg.Timeout))
		}
		if gated != nil {
			chain = append(chain, gated)
		}
		h.chains[slot] = chain
		h.status[slot] = &Status{Slot: slot, Label: sc.label}
	}
	return h
}

// Settings returns the slot's default generation settings.
func Settings(slot Slot) GenerationSettings {
	return slotConfigs[slot].generation
}

// Generate runs the prompt through the slot's candidate chain, returning
// the first successful completion with any prompt echo stripped.
func (h *Hub) Generate(ctx context.Context, slot Slot, prompt string, overrides *GenerationSettings) (string, error) {
	timer := logging.StartTimer(logging.CategoryHub, string(slot))
	defer timer.StopWithThreshold(2 * time.Second)

	settings := slotConfigs[slot].generation
	if overrides != nil {
		if overrides.MaxNewTokens > 0 {
			settings.MaxNewTokens = overrides.MaxNewTokens
		}
		if overrides.Temperature > 0 {
			settings.Temperature = overrides.Temperature
		}
		if overrides.TopP > 0 {
			settings.TopP = overrides.TopP
		}
	}

	h.ensureWarm(ctx, slot)
	return h.run(ctx, slot, prompt, settings)
}

// run executes one prompt through the candidate chain and records the
// slot's status transitions.
func (h *Hub) run(ctx context.Context, slot Slot, prompt string, settings GenerationSettings) (string, error) {
	h.noteGatedSkip(slot)
	h.setStatus(slot, func(s *Status) { s.Loading = true; s.Error = ""; s.Progress = 0 })

	chain := h.chains[slot]
	var lastErr error
	for i, cand := range chain {
		frac := float64(i) / float64(len(chain))
		h.setStatus(slot, func(s *Status) { s.Progress = frac })
		out, err := cand.Generate(ctx, prompt, settings)
		if err != nil {
			lastErr = err
			logging.HubWarn("%s: backend %s failed: %v", slot, cand.ModelID(), err)
			continue
		}
		h.setStatus(slot, func(s *Status) {
			s.Loading = false
			s.Ready = true
			s.Progress = 1
			s.ModelID = cand.ModelID()
		})
		return stripPrompt(prompt, out), nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no backends configured")
	}
	h.setStatus(slot, func(s *Status) {
		s.Loading = false
		s.Ready = false
		s.Error = lastErr.Error()
	})
	return "", fmt.Errorf("%s generation failed: %w", slot, lastErr)
}

// ensureWarm forces the slot's first model load with a tiny probe.
// Concurrent callers before the first success share one in-flight probe;
// once the slot is ready the check is free. A failed probe does not
// block the caller's generation, and a failed slot retries on next use.
func (h *Hub) ensureWarm(ctx context.Context, slot Slot) {
	if h.isReady(slot) {
		return
	}
	_, _, _ = h.warm.Do(string(slot), func() (interface{}, error) {
		if h.isReady(slot) {
			return nil, nil
		}
		if _, err := h.run(ctx, slot, "Reply with OK.", GenerationSettings{MaxNewTokens: 8}); err != nil {
			logging.HubWarn("first load for %s failed: %v", slot, err)
		}
		return nil, nil
	})
}

func (h *Hub) isReady(slot Slot) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.status[slot]
	return ok && s.Ready
}

// WarmUp primes the generation slots in parallel. Failures are recorded
// in the status snapshot but do not abort the warm-up.
func (h *Hub) WarmUp(ctx context.Context, slots ...Slot) {
	if len(slots) == 0 {
		slots = GenerationSlots
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, slot := range slots {
		g.Go(func() error {
			h.ensureWarm(ctx, slot)
			return nil
		})
	}
	_ = g.Wait()
	logging.Hub("Warm-up complete for %d slots", len(slots))
}

// StatusSnapshot returns the current status of every slot, in a stable
// order.
func (h *Hub) StatusSnapshot() []Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Status, 0, len(h.status))
	for _, s := range h.status {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// HasGated reports whether the gated Gemini backend is in the chains.
func (h *Hub) HasGated() bool {
	return h.gated
}

func (h *Hub) setStatus(slot Slot, update func(*Status)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.status[slot]; ok {
		update(s)
	}
}

// noteGatedSkip logs once per slot when the gated backend is absent, so
// operators know why only the open model is answering.
func (h *Hub) noteGatedSkip(slot Slot) {
	if h.HasGated() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gatedOnce[slot] {
		return
	}
	h.gatedOnce[slot] = true
	logging.Hub("Skipping gated Gemini backend for %s; set GEMINI_API_KEY to enable it", slot)
}
