// Package config loads and validates Agent Lee configuration from YAML,
// with environment overrides for secrets and endpoints.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all Agent Lee configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Document store and corpus ingestion
	Store StoreConfig `yaml:"store"`

	// Embedding engine
	Embedding EmbeddingConfig `yaml:"embedding"`

	// Model hub (slots, endpoints, cloud fallback)
	Hub HubConfig `yaml:"hub"`

	// Orchestrator behavior
	Agent AgentConfig `yaml:"agent"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig configures the document store and corpus sources.
type StoreConfig struct {
	DatabasePath string   `yaml:"database_path"`
	CorpusDir    string   `yaml:"corpus_dir"`
	Sources      []string `yaml:"sources"`
	TopK         int      `yaml:"top_k"`
	WatchCorpus  bool     `yaml:"watch_corpus"`
}

// EmbeddingConfig configures the embedding engine.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // ollama, hash
	Endpoint   string `yaml:"endpoint"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	Timeout    string `yaml:"timeout"`
}

// HubConfig configures the model hub. SlotModels maps a slot name to its
// ranked candidate model IDs; slots without an entry use OllamaModel.
type HubConfig struct {
	OllamaEndpoint string              `yaml:"ollama_endpoint"`
	OllamaModel    string              `yaml:"ollama_model"`
	SlotModels     map[string][]string `yaml:"slot_models,omitempty"`
	GeminiAPIKey   string              `yaml:"gemini_api_key"`
	GeminiModel    string              `yaml:"gemini_model"`
	Timeout        string              `yaml:"timeout"`
}

// Orchestrator modes.
const (
	ModeEnsemble = "ensemble"
	ModeSingle   = "single"
	ModeDisabled = "disabled"
)

// AgentConfig configures the orchestrator.
type AgentConfig struct {
	Mode           string `yaml:"mode"` // ensemble, single, disabled
	AutopilotDelay string `yaml:"autopilot_delay"`
	MaxHistory     int    `yaml:"max_history"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "Agent Lee",
		Version: "1.0.0",

		Store: StoreConfig{
			DatabasePath: "data/agentlee.db",
			CorpusDir:    "corpus",
			TopK:         5,
			WatchCorpus:  false,
		},

		Embedding: EmbeddingConfig{
			Provider:   "ollama",
			Endpoint:   "http://localhost:11434",
			Model:      "all-minilm",
			Dimensions: 384,
			Timeout:    "30s",
		},

		Hub: HubConfig{
			OllamaEndpoint: "http://localhost:11434",
			OllamaModel:    "gemma3:1b",
			GeminiModel:    "gemini-2.0-flash",
			Timeout:        "120s",
		},

		Agent: AgentConfig{
			Mode:           ModeEnsemble,
			AutopilotDelay: "2s",
			MaxHistory:     40,
		},

		Logging: LoggingConfig{
			Level:     "info",
			DebugMode: false,
		},
	}
}

// Load loads configuration from a YAML file.
// Missing file returns defaults; environment variables override secrets.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Env vars win over file values so secrets never need to live on disk.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Hub.GeminiAPIKey = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.Hub.OllamaEndpoint = v
		c.Embedding.Endpoint = v
	}
	if v := os.Getenv("AGENTLEE_DB"); v != "" {
		c.Store.DatabasePath = v
	}
	if v := os.Getenv("AGENTLEE_MODE"); v != "" {
		c.Agent.Mode = v
	}
}

// GetEmbeddingTimeout returns the embedding timeout as a duration.
func (c *Config) GetEmbeddingTimeout() time.Duration {
	d, err := time.ParseDuration(c.Embedding.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetHubTimeout returns the hub generation timeout as a duration.
func (c *Config) GetHubTimeout() time.Duration {
	d, err := time.ParseDuration(c.Hub.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// GetAutopilotDelay returns the pause between autopilot slides.
func (c *Config) GetAutopilotDelay() time.Duration {
	d, err := time.ParseDuration(c.Agent.AutopilotDelay)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Store.DatabasePath == "" {
		return fmt.Errorf("store.database_path is required")
	}
	if c.Store.TopK <= 0 {
		return fmt.Errorf("store.top_k must be positive, got %d", c.Store.TopK)
	}
	switch c.Agent.Mode {
	case ModeEnsemble, ModeSingle, ModeDisabled:
	default:
		return fmt.Errorf("agent.mode must be ensemble, single, or disabled, got %q", c.Agent.Mode)
	}
	switch c.Embedding.Provider {
	case "ollama", "hash":
	default:
		return fmt.Errorf("embedding.provider must be ollama or hash, got %q", c.Embedding.Provider)
	}
	return nil
}

// HasGeminiKey reports whether a cloud API key is configured.
// Gated model candidates are skipped without one.
func (c *Config) HasGeminiKey() bool {
	return c.Hub.GeminiAPIKey != ""
}
