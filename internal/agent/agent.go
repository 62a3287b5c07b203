// Package agent is the orchestration core behind Agent Lee. Every
// message runs through the same layers: a deterministic front engine
// for navigation and scripted answers, the evidence assembler, the
// local model ensemble, and a quality gate that rejects garbled output
// in favor of templated narration built from the deck itself.
package agent

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"sync"
	"time"

	"agentlee/internal/charts"
	"agentlee/internal/config"
	"agentlee/internal/deck"
	"agentlee/internal/hub"
	"agentlee/internal/logging"
	"agentlee/internal/quality"
	"agentlee/internal/store"
)

// =============================================================================
// AGENT
// =============================================================================

// Response is one answer from Agent Lee. NavigationTarget, when set, is a
// slide number, title, or chart alias the presentation layer resolves.
type Response struct {
	Text             string
	NavigationTarget string
}

// Retriever supplies local evidence chunks for a query.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]store.SearchResult, error)
}

// Observer receives orchestrator events. All callbacks run on the
// request's goroutine after internal state is updated.
type Observer interface {
	OnAnswer(Response)
	OnNavigate(target string)
	OnStatusChange(Status)
}

// Speaker is the text-to-speech sink. The orchestrator only supplies
// final narration text; voice selection and playback live elsewhere.
type Speaker interface {
	Speak(text string)
}

// ModelHub is the slice of the ensemble the agent drives.
type ModelHub interface {
	RunPlanner(ctx context.Context, input hub.PlannerInput) (*hub.PlannerResult, error)
	RunBrain(ctx context.Context, input hub.BrainInput) (string, error)
	RunVoiceStyler(ctx context.Context, input hub.VoiceStylerInput) string
	RunCompanion(ctx context.Context, input hub.CompanionInput) string
	RunSingleModel(ctx context.Context, input hub.SingleModelInput) (string, error)
	StatusSnapshot() []hub.Status
}

// Status mirrors the agent's health for diagnostics surfaces.
type Status struct {
	Initialized bool
	Online      bool
	Model       string
	LastError   string
}

// Exchange is one turn of conversation history.
type Exchange struct {
	Message  string
	Response Response
	At       time.Time
}

// Agent wires the deterministic engine, the evidence store, the chart
// registry, and the model hub into one conversational pipeline.
type Agent struct {
	cfg        *config.Config
	story      *deck.Story
	registry   *charts.Registry
	retriever  Retriever
	hub        ModelHub
	basePrompt string

	mu       sync.Mutex
	status   Status
	history  []Exchange
	lastDiag *Diagnostic
	observer Observer
	speaker  Speaker
}

// New assembles the agent. The deck prompt is built once; the chart
// index inside it reflects the registry at construction time.
func New(cfg *config.Config, story *deck.Story, registry *charts.Registry, retriever Retriever, modelHub ModelHub) *Agent {
	return &Agent{
		cfg:        cfg,
		story:      story,
		registry:   registry,
		retriever:  retriever,
		hub:        modelHub,
		basePrompt: deck.CorePrompt(story, registry.IndexSummary(), ""),
		status:     Status{Initialized: true, Online: true, Model: "local-model-hub"},
	}
}

// SetObserver registers the event sink notified of answers, navigation,
// and status changes.
func (a *Agent) SetObserver(obs Observer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observer = obs
}

// SetSpeaker registers the speech sink. Every final answer is handed to
// it after observers fire.
func (a *Agent) SetSpeaker(s Speaker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.speaker = s
}

func (a *Agent) currentSpeaker() Speaker {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.speaker
}

// Status returns a copy of the agent's health.
func (a *Agent) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// History returns a copy of the recorded exchanges.
func (a *Agent) History() []Exchange {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Exchange, len(a.history))
	copy(out, a.history)
	return out
}

var (
	chartIntentRe  = regexp.MustCompile(`(explain|describe|walk|talk)\s+(the\s+)?(chart|graph|visual|figure)|\b(chart|graph|figure)\b`)
	chartMentionRe = regexp.MustCompile(`(?i)\b(chart|charts|graph|graphs|plot|figure|visual|visualization)\b`)
	navigateRe     = regexp.MustCompile(`\[\[NAVIGATE:\s*(.*?)\]\]`)
)

// SendMessage runs one message through the full pipeline and returns the
// narration plus an optional navigation target.
func (a *Agent) SendMessage(ctx context.Context, message string, current *deck.Slide) Response {
	resp := a.answer(ctx, message, current)
	a.record(message, resp)
	return resp
}

func (a *Agent) answer(ctx context.Context, message string, current *deck.Slide) Response {
	// High-priority chart intent: explain the chart without requiring a
	// button press. With no registered chart data the question falls
	// through to the model path, where scope and grounding rules apply.
	chartAsked := chartIntentRe.MatchString(strings.ToLower(message))
	if chartAsked {
		key := ""
		if current != nil {
			key = current.ID
		}
		if len(a.registry.DataForSlide(key)) > 0 {
			logging.Agent("Chart explanation served for %q", key)
			return Response{Text: a.registry.Explain(key).Text()}
		}
	}

	// First layer: deterministic engine. Chart questions skip it so the
	// scripted slide answer cannot shadow the chart scope rules.
	if !chartAsked {
		slideTitle := ""
		if current != nil {
			slideTitle = current.Title
		}
		deterministic := DetermineResponse(message, slideTitle)
		if IsDeterministicSpecific(deterministic) {
			logging.Agent("Deterministic engine answered: nav=%q", deterministic.NavigationTarget)
			return deterministic
		}
	}

	start := time.Now()
	evidence := a.gatherEvidence(ctx, message, current)
	evidenceText := evidence.Preview
	if len(evidenceText) > 2000 {
		evidenceText = evidenceText[:2000]
	}

	a.setStatus(func(s *Status) { s.Online = true; s.Model = "local-model-hub"; s.LastError = "" })

	var narration, navigationTarget string
	var err error
	switch a.cfg.Agent.Mode {
	case config.ModeDisabled:
		narration = deck.LocalNarration(current, evidenceText)
		logging.AgentWarn("Local narration disabled via config; using templated narration only.")
	case config.ModeSingle:
		narration, navigationTarget, err = a.answerSingleModel(ctx, message, current, evidence)
		if err == errChartScope {
			return Response{Text: chartScopeMessage}
		}
	default:
		narration, navigationTarget, err = a.answerEnsemble(ctx, message, current, evidenceText, evidence.ChartContext)
	}
	if err != nil {
		return a.failureResponse(current, err)
	}

	narration = quality.Sanitize(narration)

	// Proactive follow-up for vague queries, tailored to the slide's
	// chart kind.
	if charts.IsVagueQuery(message) {
		kind := ""
		if current != nil {
			kind = current.ChartKind
		}
		suggestion := charts.SuggestForKind(kind)
		if narration != "" {
			narration = narration + "\n\n" + suggestion
		} else {
			narration = suggestion
		}
	}

	// Final gate: refuse garbled output and name-echo loops. One retry
	// with a stripped-down prompt, then the templated slide narration,
	// then the fixed redirect.
	if narration == "" || quality.IsGarbled(narration) || quality.IsAgentNameVariant(narration) {
		if quality.IsAgentNameVariant(narration) {
			logging.Quality("Rejected final narration: garbled Agent Lee name variants.")
		}
		if quality.IsGarbled(narration) {
			logging.Quality("Rejected final narration: output is garbled or repetitive.")
		}
		narration = a.retrySimplified(ctx, message, current)
		if narration == "" {
			narration = deck.LocalNarration(current, "")
		}
		if narration == "" {
			safeTitle := ""
			if current != nil {
				safeTitle = ` for "` + current.Title + `"`
			}
			narration = "I hit a snag generating a clean response" + safeTitle + ". We can stick with this slide or move to ROI, the map, or the timeline when you want."
		}
	}

	a.recordDiagnostic(&Diagnostic{
		Timestamp:   start,
		DurationMs:  time.Since(start).Milliseconds(),
		TextPreview: preview(narration, 300),
		Success:     true,
		Models:      a.modelsLabel(),
	})
	return Response{Text: narration, NavigationTarget: navigationTarget}
}

// modelsLabel names the slots that served the response for diagnostics.
func (a *Agent) modelsLabel() string {
	switch a.cfg.Agent.Mode {
	case config.ModeSingle:
		return "single"
	case config.ModeDisabled:
		return "local-narration"
	default:
		return "planner+brain+voice+companion"
	}
}

// answerEnsemble runs Planner then Brain then Voice plus Companion.
func (a *Agent) answerEnsemble(ctx context.Context, message string, current *deck.Slide, evidenceText, chartContext string) (string, string, error) {
	var slideTitle, slideID, summary, narrative string
	if current != nil {
		slideTitle = current.Title
		slideID = current.ID
		summary, narrative = deck.NarrativeText(current)
	}

	planner, err := a.hub.RunPlanner(ctx, hub.PlannerInput{
		UserMessage:     message,
		SlideTitle:      slideTitle,
		SlideID:         slideID,
		SlideSummary:    summary,
		EvidencePreview: evidenceText,
		ChartContext:    chartContext,
	})
	if err != nil {
		return "", "", err
	}

	deckPrompt := a.basePrompt + "\n\n=== REQUEST CONTEXT ===\nUser: " + message

	brainAnswer, err := a.hub.RunBrain(ctx, hub.BrainInput{
		UserMessage:     message,
		SlideTitle:      slideTitle,
		SlideID:         slideID,
		SlideNarrative:  narrative,
		EvidencePreview: evidenceText,
		Planner:         planner,
		DeckPrompt:      deckPrompt,
	})
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(brainAnswer) == "" {
		brainAnswer = deck.LocalNarration(current, evidenceText)
		if brainAnswer == "" {
			brainAnswer = "I am still collecting the necessary local evidence. Ask me about another slide while this one loads."
		}
	}

	styled := a.hub.RunVoiceStyler(ctx, hub.VoiceStylerInput{
		FinalAnswer: brainAnswer,
		SlideTitle:  slideTitle,
		PlanFocus:   planner.FocusPoints,
	})
	if strings.TrimSpace(styled) == "" {
		styled = brainAnswer
	}

	companion := a.hub.RunCompanion(ctx, hub.CompanionInput{
		UserMessage: message,
		FinalAnswer: styled,
		SlideTitle:  slideTitle,
	})

	parts := []string{styled}
	if companion != "" {
		parts = append(parts, companion)
	}
	narration := strings.TrimSpace(strings.Join(parts, "\n\n"))
	if narration == "" {
		narration = deck.LocalNarration(current, evidenceText)
		if narration == "" {
			narration = "Agent Lee is reviewing the latest evidence for that slide. Please try again in a few moments."
		}
	}

	narration, target := extractNavigation(narration)
	return narration, target, nil
}

const chartScopeMessage = "I can only discuss charts and evidence included in this presentation. I don't have the context for a chart on this page yet. Try switching to a slide with a visible chart or open the Evidence Locker."

var errChartScope = &chartScopeError{}

type chartScopeError struct{}

func (*chartScopeError) Error() string { return "chart requested without chart context" }

// answerSingleModel runs the unified single-pass path.
func (a *Agent) answerSingleModel(ctx context.Context, message string, current *deck.Slide, evidence Evidence) (string, string, error) {
	wantsChart := chartMentionRe.MatchString(message)
	if wantsChart && evidence.ChartContext == "" {
		logging.AgentWarn("Chart requested but no chart context available; returning scope message.")
		return "", "", errChartScope
	}

	slideTitle := ""
	if current != nil {
		slideTitle = current.Title
	}
	answer, err := a.hub.RunSingleModel(ctx, hub.SingleModelInput{
		Question:        message,
		SlideTitle:      slideTitle,
		ChartContext:    evidence.ChartContext,
		Citations:       evidence.Citations,
		ChartJSON:       evidence.ChartJSON,
		ForceChartFocus: wantsChart,
	})
	if err != nil {
		return "", "", err
	}
	narration, target := extractNavigation(answer)
	return narration, target, nil
}

// retrySimplified makes one more attempt at a clean answer after the
// quality gate rejects the first. The prompt drops evidence and plan
// context and asks for two plain sentences, which reins in small models
// that loop on the richer prompt. Returns "" when the retry is also
// rejected or models are disabled.
func (a *Agent) retrySimplified(ctx context.Context, message string, current *deck.Slide) string {
	if a.cfg.Agent.Mode == config.ModeDisabled {
		return ""
	}
	slideTitle := ""
	if current != nil {
		slideTitle = current.Title
	}
	logging.Quality("Retrying with simplified prompt after gate rejection.")
	answer, err := a.hub.RunBrain(ctx, hub.BrainInput{
		UserMessage: message,
		SlideTitle:  slideTitle,
		DeckPrompt:  "You are Agent Lee, a calm presentation narrator. Answer the user's question in one or two plain sentences. Do not repeat words and do not mention your own name.\n\nUser: " + message,
	})
	if err != nil {
		logging.Quality("Simplified retry failed: %v", err)
		return ""
	}
	answer = quality.Sanitize(answer)
	if answer == "" || quality.IsGarbled(answer) || quality.IsAgentNameVariant(answer) {
		logging.Quality("Simplified retry also rejected by the quality gate.")
		return ""
	}
	answer, _ = extractNavigation(answer)
	return answer
}

// failureResponse falls back to the slide's own narration when the
// ensemble fails outright.
func (a *Agent) failureResponse(current *deck.Slide, err error) Response {
	logging.Get(logging.CategoryAgent).Error("Ensemble pipeline failed: %v", err)
	a.setStatus(func(s *Status) { s.Online = false; s.LastError = err.Error() })

	fallback := "Agent Lee encountered an error while running the local narration stack. Check the logs for details."
	if current != nil {
		var parts []string
		paragraphs := current.Narration.Paragraphs
		if len(paragraphs) > 3 {
			paragraphs = paragraphs[:3]
		}
		parts = append(parts, paragraphs...)
		if len(current.Narration.Bullets) > 0 {
			bullets := current.Narration.Bullets
			if len(bullets) > 5 {
				bullets = bullets[:5]
			}
			parts = append(parts, "Key takeaways: "+strings.Join(bullets, "; "))
		}
		if joined := strings.TrimSpace(strings.Join(parts, " ")); joined != "" {
			fallback = joined
		}
	}

	a.recordDiagnostic(&Diagnostic{
		Timestamp:   time.Now(),
		TextPreview: preview(fallback, 300),
		Success:     false,
		Error:       err.Error(),
	})
	return Response{Text: fallback}
}

func extractNavigation(text string) (string, string) {
	m := navigateRe.FindStringSubmatch(text)
	if m == nil {
		return strings.TrimSpace(text), ""
	}
	target := strings.TrimSpace(m[1])
	return strings.TrimSpace(strings.Replace(text, m[0], "", 1)), target
}

func (a *Agent) record(message string, resp Response) {
	a.mu.Lock()
	a.history = append(a.history, Exchange{Message: message, Response: resp, At: time.Now()})
	if max := a.cfg.Agent.MaxHistory; max > 0 && len(a.history) > max {
		a.history = a.history[len(a.history)-max:]
	}
	obs, spk := a.observer, a.speaker
	a.mu.Unlock()

	if obs != nil {
		obs.OnAnswer(resp)
		if resp.NavigationTarget != "" {
			obs.OnNavigate(resp.NavigationTarget)
		}
	}
	if spk != nil && resp.Text != "" {
		spk.Speak(resp.Text)
	}
}

func (a *Agent) setStatus(update func(*Status)) {
	a.mu.Lock()
	update(&a.status)
	snapshot := a.status
	obs := a.observer
	a.mu.Unlock()

	if obs != nil {
		obs.OnStatusChange(snapshot)
	}
}

func preview(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// ChartJSONForSlide serializes the registry's chart data for a slide, for
// the single-model prompt and diagnostics surfaces.
func ChartJSONForSlide(registry *charts.Registry, idOrTitle string) string {
	data := registry.DataForSlide(idOrTitle)
	if len(data) == 0 {
		return ""
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return string(raw)
}
