// Command agentlee is the CLI front end for the Agent Lee narration stack.
//
// It wires the document store, the embedding engine, the chart registry,
// and the local model hub into the conversational orchestrator, and
// exposes one-shot questions, an interactive chat loop, corpus indexing,
// and the autopilot deck narrator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agentlee/internal/agent"
	"agentlee/internal/charts"
	"agentlee/internal/config"
	"agentlee/internal/deck"
	"agentlee/internal/embedding"
	"agentlee/internal/hub"
	"agentlee/internal/logging"
	"agentlee/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	workspace  string
	mode       string
	timeout    time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "agentlee",
	Short: "Agent Lee - local RAG narrator for the Visu-Sewer story deck",
	Long: `Agent Lee narrates a slide deck using only local resources: a SQLite
document store for retrieval, a chart knowledge registry for grounded
numbers, and an Ollama-backed model ensemble (planner, brain, voice
styler, companion) for generation. A deterministic engine answers
navigation and scripted questions before any model runs.

Run without arguments to start the interactive chat loop.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".agentlee/config.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "Workspace directory")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "", "Orchestrator mode override (ensemble, single, disabled)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(autopilotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// stack bundles every initialized component for one CLI invocation.
type stack struct {
	cfg      *config.Config
	story    *deck.Story
	registry *charts.Registry
	store    *store.DocumentStore
	hub      *hub.Hub
	agent    *agent.Agent
	watcher  *store.CorpusWatcher
}

// buildStack loads config and assembles the full pipeline: embedding
// engine, document store, chart registry, model hub, orchestrator.
func buildStack(ctx context.Context) (*stack, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if mode != "" {
		cfg.Agent.Mode = mode
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := logging.Initialize(workspace); err != nil {
		logger.Warn("File logging unavailable", zap.Error(err))
	}

	engine, err := embedding.NewEngine(embedding.Config{
		Provider:       cfg.Embedding.Provider,
		OllamaEndpoint: cfg.Embedding.Endpoint,
		OllamaModel:    cfg.Embedding.Model,
		Dimensions:     cfg.Embedding.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding engine: %w", err)
	}
	provider := embedding.NewProvider(engine)

	docStore, err := store.Open(cfg.Store.DatabasePath, provider)
	if err != nil {
		return nil, fmt.Errorf("document store: %w", err)
	}

	story := deck.DefaultStory()
	registry := charts.NewRegistry()
	for i := range story.Slides {
		registry.RegisterSlide(story.Slides[i].ID, story.Slides[i].Title)
	}
	registry.BootstrapFromDir(cfg.Store.CorpusDir)

	slotModels := make(map[hub.Slot][]string, len(cfg.Hub.SlotModels))
	for name, models := range cfg.Hub.SlotModels {
		slotModels[hub.Slot(name)] = models
	}
	modelHub := hub.New(hub.Config{
		OllamaEndpoint: cfg.Hub.OllamaEndpoint,
		OllamaModel:    cfg.Hub.OllamaModel,
		SlotModels:     slotModels,
		GeminiAPIKey:   cfg.Hub.GeminiAPIKey,
		GeminiModel:    cfg.Hub.GeminiModel,
		Timeout:        cfg.GetHubTimeout(),
	})

	s := &stack{
		cfg:      cfg,
		story:    story,
		registry: registry,
		store:    docStore,
		hub:      modelHub,
		agent:    agent.New(cfg, story, registry, docStore, modelHub),
	}

	if cfg.Store.WatchCorpus {
		watcher, err := store.NewCorpusWatcher(docStore, cfg.Store.CorpusDir)
		if err != nil {
			logger.Warn("Corpus watcher unavailable", zap.Error(err))
		} else if err := watcher.Start(ctx); err != nil {
			logger.Warn("Corpus watcher failed to start", zap.Error(err))
		} else {
			s.watcher = watcher
		}
	}

	return s, nil
}

func (s *stack) close() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.store != nil {
		_ = s.store.Close()
	}
}

// commandContext returns a context bounded by the global timeout that is
// cancelled on SIGINT or SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// resolveSlide maps a --slide flag value (1-based number, slide ID, or
// title) to a slide, or nil for an empty value.
func resolveSlide(story *deck.Story, v string) (*deck.Slide, error) {
	if v == "" {
		return nil, nil
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
		if slide := story.SlideByNumber(n); slide != nil {
			return slide, nil
		}
		return nil, fmt.Errorf("slide %d is out of range (deck has %d slides)", n, len(story.Slides))
	}
	if slide := story.SlideByID(v); slide != nil {
		return slide, nil
	}
	if slide := story.SlideByTitle(v); slide != nil {
		return slide, nil
	}
	return nil, fmt.Errorf("unknown slide %q", v)
}
