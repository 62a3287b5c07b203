package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeOllama answers /api/generate with respond(prompt) and records the
// last request it saw. respondModel, when set, wins and also sees the
// requested model ID.
type fakeOllama struct {
	mu           sync.Mutex
	lastReq      ollamaGenerateRequest
	respond      func(prompt string) (string, int)
	respondModel func(model, prompt string) (string, int)
}

func (f *fakeOllama) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.lastReq = req
		f.mu.Unlock()

		var text string
		var status int
		if f.respondModel != nil {
			text, status = f.respondModel(req.Model, req.Prompt)
		} else {
			text, status = f.respond(req.Prompt)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: text})
	}
}

func (f *fakeOllama) last() ollamaGenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

func newTestHub(t *testing.T, respond func(prompt string) (string, int)) (*Hub, *fakeOllama) {
	t.Helper()
	fake := &fakeOllama{respond: respond}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	h := New(Config{
		OllamaEndpoint: srv.URL,
		OllamaModel:    "testmodel",
		Timeout:        5 * time.Second,
	})
	return h, fake
}

func TestGenerate_AppliesSlotSettings(t *testing.T) {
	h, fake := newTestHub(t, func(prompt string) (string, int) {
		return "a fine answer", http.StatusOK
	})

	out, err := h.Generate(context.Background(), SlotBrain, "tell me about pipes", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "a fine answer" {
		t.Errorf("Generate = %q", out)
	}

	req := fake.last()
	if req.Model != "testmodel" {
		t.Errorf("model = %q", req.Model)
	}
	if req.Options.NumPredict != 420 || req.Options.Temperature != 0.55 || req.Options.TopP != 0.9 {
		t.Errorf("brain settings not applied: %+v", req.Options)
	}
}

func TestGenerate_OverridesSettings(t *testing.T) {
	h, fake := newTestHub(t, func(string) (string, int) { return "ok", http.StatusOK })

	_, err := h.Generate(context.Background(), SlotPlanner, "plan it", &GenerationSettings{MaxNewTokens: 360, Temperature: 0.33})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	req := fake.last()
	if req.Options.NumPredict != 360 || req.Options.Temperature != 0.33 {
		t.Errorf("overrides not applied: %+v", req.Options)
	}
	// TopP keeps the slot default when the override leaves it zero.
	if req.Options.TopP != 0.92 {
		t.Errorf("top_p = %v, want planner default 0.92", req.Options.TopP)
	}
}

func TestGenerate_StripsPromptEcho(t *testing.T) {
	h, _ := newTestHub(t, func(prompt string) (string, int) {
		return prompt + " and here is the continuation", http.StatusOK
	})

	out, err := h.Generate(context.Background(), SlotCompanion, "say hi", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "and here is the continuation" {
		t.Errorf("prompt echo not stripped: %q", out)
	}
}

func TestGenerate_BackendFailure(t *testing.T) {
	h, _ := newTestHub(t, func(string) (string, int) { return "", http.StatusInternalServerError })

	_, err := h.Generate(context.Background(), SlotBrain, "anything", nil)
	if err == nil {
		t.Fatal("expected error when the only backend fails")
	}

	var brain *Status
	for _, s := range h.StatusSnapshot() {
		if s.Slot == SlotBrain {
			brain = &s
			break
		}
	}
	if brain == nil {
		t.Fatal("brain slot missing from snapshot")
	}
	if brain.Ready || brain.Error == "" {
		t.Errorf("failed slot should carry error, got %+v", brain)
	}
}

func TestGenerate_PerSlotCandidateChain(t *testing.T) {
	fake := &fakeOllama{respondModel: func(model, prompt string) (string, int) {
		if model == "brain-primary" {
			return "", http.StatusInternalServerError
		}
		return "answer from " + model, http.StatusOK
	}}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	h := New(Config{
		OllamaEndpoint: srv.URL,
		OllamaModel:    "shared-default",
		SlotModels: map[Slot][]string{
			SlotPlanner: {"planner-special"},
			SlotBrain:   {"brain-primary", "brain-backup"},
		},
		Timeout: 5 * time.Second,
	})

	out, err := h.Generate(context.Background(), SlotPlanner, "plan it", nil)
	if err != nil {
		t.Fatalf("planner Generate failed: %v", err)
	}
	if out != "answer from planner-special" {
		t.Errorf("planner answer = %q", out)
	}

	// Brain's first-ranked model fails; the chain falls to its backup.
	out, err = h.Generate(context.Background(), SlotBrain, "narrate", nil)
	if err != nil {
		t.Fatalf("brain Generate failed: %v", err)
	}
	if out != "answer from brain-backup" {
		t.Errorf("brain answer = %q", out)
	}

	// Slots without an entry run on the shared default model.
	out, err = h.Generate(context.Background(), SlotVoice, "style it", nil)
	if err != nil {
		t.Fatalf("voice Generate failed: %v", err)
	}
	if out != "answer from shared-default" {
		t.Errorf("voice answer = %q", out)
	}

	for _, s := range h.StatusSnapshot() {
		switch s.Slot {
		case SlotBrain:
			if s.ModelID != "ollama:brain-backup" {
				t.Errorf("brain model = %q", s.ModelID)
			}
		case SlotPlanner:
			if s.ModelID != "ollama:planner-special" {
				t.Errorf("planner model = %q", s.ModelID)
			}
		}
	}
}

func TestGenerate_RecoversAfterFailure(t *testing.T) {
	var mu sync.Mutex
	var calls int
	h, _ := newTestHub(t, func(string) (string, int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls <= 2 {
			return "", http.StatusInternalServerError
		}
		return "back online", http.StatusOK
	})

	if _, err := h.Generate(context.Background(), SlotBrain, "first try", nil); err == nil {
		t.Fatal("expected error while the backend is down")
	}

	out, err := h.Generate(context.Background(), SlotBrain, "second try", nil)
	if err != nil {
		t.Fatalf("Generate after recovery failed: %v", err)
	}
	if out != "back online" {
		t.Errorf("Generate = %q", out)
	}
	for _, s := range h.StatusSnapshot() {
		if s.Slot == SlotBrain && (!s.Ready || s.Error != "") {
			t.Errorf("recovered slot status = %+v", s)
		}
	}
}

func TestStatusSnapshot_ReadyAfterSuccess(t *testing.T) {
	h, _ := newTestHub(t, func(string) (string, int) { return "done", http.StatusOK })

	if _, err := h.Generate(context.Background(), SlotVoice, "style this", nil); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, s := range h.StatusSnapshot() {
		if s.Slot == SlotVoice {
			if !s.Ready || s.Loading || s.ModelID != "ollama:testmodel" {
				t.Errorf("voice status = %+v", s)
			}
			if s.Progress != 1 {
				t.Errorf("ready slot progress = %v, want 1", s.Progress)
			}
			return
		}
	}
	t.Fatal("voice slot missing from snapshot")
}

func TestNew_Defaults(t *testing.T) {
	h := New(Config{})
	if h.HasGated() {
		t.Error("hub without a Gemini key should have no gated backend")
	}
	if len(h.StatusSnapshot()) != 5 {
		t.Errorf("expected 5 slots, got %d", len(h.StatusSnapshot()))
	}
}

func TestRunPlanner_ParsesJSON(t *testing.T) {
	reply := "```json\n" + `{"plan":"walk the bridge","focusPoints":["organic growth"," tech "],"navigationTarget":"8","answerDraft":"We grow from $37M."}` + "\n```"
	h, fake := newTestHub(t, func(string) (string, int) { return reply, http.StatusOK })

	res, err := h.RunPlanner(context.Background(), PlannerInput{UserMessage: "how do we hit seventy"})
	if err != nil {
		t.Fatalf("RunPlanner failed: %v", err)
	}
	if res.Plan != "walk the bridge" {
		t.Errorf("plan = %q", res.Plan)
	}
	if len(res.FocusPoints) != 2 || res.FocusPoints[1] != "tech" {
		t.Errorf("focus points = %v", res.FocusPoints)
	}
	if res.NavigationTarget != "8" {
		t.Errorf("navigation target = %q", res.NavigationTarget)
	}
	if res.AnswerDraft != "We grow from $37M." {
		t.Errorf("answer draft = %q", res.AnswerDraft)
	}

	prompt := fake.last().Prompt
	if !strings.Contains(prompt, "User question: how do we hit seventy") {
		t.Errorf("planner prompt missing question: %q", prompt)
	}
	if !strings.Contains(prompt, "No local evidence available.") {
		t.Errorf("planner prompt should default empty evidence: %q", prompt)
	}
}

func TestRunPlanner_FallsBackToRawText(t *testing.T) {
	h, _ := newTestHub(t, func(string) (string, int) { return "no json here, just vibes", http.StatusOK })

	res, err := h.RunPlanner(context.Background(), PlannerInput{UserMessage: "hm"})
	if err != nil {
		t.Fatalf("RunPlanner failed: %v", err)
	}
	if res.Plan != "no json here, just vibes" {
		t.Errorf("plan should fall back to raw text, got %q", res.Plan)
	}
	if res.NavigationTarget != "" || len(res.FocusPoints) != 0 {
		t.Errorf("unparsed plan should leave fields empty: %+v", res)
	}
}

func TestRunPlanner_NullNavigationTarget(t *testing.T) {
	h, _ := newTestHub(t, func(string) (string, int) {
		return `{"plan":"stay put","navigationTarget":"null"}`, http.StatusOK
	})
	res, err := h.RunPlanner(context.Background(), PlannerInput{UserMessage: "stay"})
	if err != nil {
		t.Fatalf("RunPlanner failed: %v", err)
	}
	if res.NavigationTarget != "" {
		t.Errorf("literal null target should be cleared, got %q", res.NavigationTarget)
	}
}

func TestRunBrain_IncludesPlannerNotes(t *testing.T) {
	h, fake := newTestHub(t, func(string) (string, int) { return "narration", http.StatusOK })

	_, err := h.RunBrain(context.Background(), BrainInput{
		UserMessage: "what about costs",
		SlideTitle:  "Saving Cities Money",
		DeckPrompt:  "DECK PROMPT HERE",
		Planner: &PlannerResult{
			Plan:             "ground in project_costs",
			FocusPoints:      []string{"cost per foot", "variance"},
			NavigationTarget: "5",
		},
	})
	if err != nil {
		t.Fatalf("RunBrain failed: %v", err)
	}
	prompt := fake.last().Prompt
	for _, want := range []string{
		"DECK PROMPT HERE",
		"=== PLANNER NOTES ===",
		"Plan: ground in project_costs",
		"1. cost per foot",
		"2. variance",
		"Preferred navigation target: 5",
		"[[NAVIGATE: target]]",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("brain prompt missing %q", want)
		}
	}
}

func TestRunVoiceStyler_FallsBackOnError(t *testing.T) {
	h, _ := newTestHub(t, func(string) (string, int) { return "", http.StatusInternalServerError })

	out := h.RunVoiceStyler(context.Background(), VoiceStylerInput{FinalAnswer: "the original answer"})
	if out != "the original answer" {
		t.Errorf("styler failure should return the input, got %q", out)
	}
}

func TestRunCompanion_EmptyOnError(t *testing.T) {
	h, _ := newTestHub(t, func(string) (string, int) { return "", http.StatusInternalServerError })
	if out := h.RunCompanion(context.Background(), CompanionInput{UserMessage: "hi"}); out != "" {
		t.Errorf("companion failure should yield empty string, got %q", out)
	}
}

func TestRunSingleModel_PromptShape(t *testing.T) {
	h, fake := newTestHub(t, func(string) (string, int) { return "grounded answer [1]", http.StatusOK })

	_, err := h.RunSingleModel(context.Background(), SingleModelInput{
		Question:     "what does the chart show",
		SlideTitle:   "Masters of the Main",
		ChartContext: "Crew Capacity Chart",
		Citations: []Citation{
			{ID: 1, DocID: "project_costs", Score: 0.91, Snippet: "Row 1: year=2023"},
			{ID: 2, Path: "data/main.go", LineStart: 1, LineEnd: 160, Type: "code", Snippet: "package main"},
		},
		ForceChartFocus: true,
	})
	if err != nil {
		t.Fatalf("RunSingleModel failed: %v", err)
	}
	prompt := fake.last().Prompt
	for _, want := range []string{
		"[1] project_costs score=0.910: Row 1: year=2023",
		"[2] data/main.go:1-160 (code): package main",
		"Chart context: Crew Capacity Chart",
		"USER ASKED ABOUT A CHART",
		"STRICT GROUNDING",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("single-model prompt missing %q", want)
		}
	}
	req := fake.last()
	if req.Options.NumPredict != 420 || req.Options.Temperature != 0.35 {
		t.Errorf("single-model settings = %+v", req.Options)
	}
}

func TestRunSingleModel_NoEvidence(t *testing.T) {
	h, fake := newTestHub(t, func(string) (string, int) { return "thin answer", http.StatusOK })

	if _, err := h.RunSingleModel(context.Background(), SingleModelInput{Question: "q"}); err != nil {
		t.Fatalf("RunSingleModel failed: %v", err)
	}
	if !strings.Contains(fake.last().Prompt, "(no local evidence)") {
		t.Errorf("empty citation list should render placeholder")
	}
}

func TestStripPrompt(t *testing.T) {
	if got := stripPrompt("abc", "abc def"); got != "def" {
		t.Errorf("stripPrompt = %q", got)
	}
	if got := stripPrompt("abc", "xyz abc"); got != "xyz abc" {
		t.Errorf("mid-string prompt should not strip, got %q", got)
	}
	if got := stripPrompt("", "  plain  "); got != "plain" {
		t.Errorf("stripPrompt = %q", got)
	}
	if got := stripPrompt("abc", ""); got != "" {
		t.Errorf("stripPrompt = %q", got)
	}
}

func TestExtractJSON(t *testing.T) {
	fenced := "prefix\n```json\n{\"a\": 1}\n```\nsuffix"
	if got := extractJSON(fenced); got != `{"a": 1}` {
		t.Errorf("fenced = %q", got)
	}
	bare := `noise {"plan": "x", "nested": {"y": 2}} trailing`
	if got := extractJSON(bare); got != `{"plan": "x", "nested": {"y": 2}}` {
		t.Errorf("bare = %q", got)
	}
	if got := extractJSON("no braces at all"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
	if got := extractJSON("{broken"); got != "" {
		t.Errorf("invalid JSON should be rejected, got %q", got)
	}
}

func TestGenerate_SharedFirstLoad(t *testing.T) {
	var mu sync.Mutex
	requests := 0
	h, _ := newTestHub(t, func(string) (string, int) {
		mu.Lock()
		requests++
		mu.Unlock()
		return "fine", http.StatusOK
	})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.Generate(context.Background(), SlotBrain, "q", nil); err != nil {
				t.Errorf("Generate failed: %v", err)
			}
		}()
	}
	wg.Wait()

	// One shared probe plus one real request per caller. A duplicated
	// probe would make it four.
	mu.Lock()
	defer mu.Unlock()
	if requests != 3 {
		t.Errorf("requests = %d, want 3", requests)
	}
}

func TestWarmUp_DoesNotFailOnBackendErrors(t *testing.T) {
	h, _ := newTestHub(t, func(string) (string, int) { return "", http.StatusInternalServerError })
	// Must return even when every slot fails.
	h.WarmUp(context.Background())
	for _, s := range h.StatusSnapshot() {
		if s.Slot == SlotLibrarian {
			continue
		}
		if s.Error == "" {
			t.Errorf("slot %s should record warm-up error", s.Slot)
		}
	}
}
