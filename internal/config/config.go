// Package config provides configuration types and loading for gradtrack.
package config

import "time"

// Config is the root configuration struct.
// Top-level groups: Paths, Model, Providers, Server, Memory, Agent.
type Config struct {
	Paths     PathsConfig     `json:"paths"`
	Model     ModelConfig     `json:"model"`
	Providers ProvidersConfig `json:"providers"`
	Server    ServerConfig    `json:"server"`
	Memory    MemoryConfig    `json:"memory"`
	Agent     AgentConfig     `json:"agent"`
}

// PathsConfig groups all filesystem path settings.
type PathsConfig struct {
	DataDir string `json:"dataDir" envconfig:"DATA_DIR"`
	DBPath  string `json:"dbPath" envconfig:"DB_PATH"`
}

// ModelConfig groups LLM model settings.
// Name uses the "provider/model" form, e.g. "openai/gpt-4o".
type ModelConfig struct {
	Name                string  `json:"name" envconfig:"MODEL"`
	MaxTokens           int     `json:"maxTokens" envconfig:"MAX_TOKENS"`
	Temperature         float64 `json:"temperature" envconfig:"TEMPERATURE"`
	DecisionTemperature float64 `json:"decisionTemperature" envconfig:"DECISION_TEMPERATURE"`
	DecisionMaxTokens   int     `json:"decisionMaxTokens" envconfig:"DECISION_MAX_TOKENS"`
}

// ProvidersConfig contains LLM provider configurations.
type ProvidersConfig struct {
	OpenAI     ProviderConfig `json:"openai"`
	Anthropic  ProviderConfig `json:"anthropic"`
	OpenRouter ProviderConfig `json:"openrouter"`
}

// ProviderConfig contains settings for a single LLM provider.
type ProviderConfig struct {
	APIKey  string `json:"apiKey" envconfig:"API_KEY"`
	APIBase string `json:"apiBase,omitempty" envconfig:"API_BASE"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host    string        `json:"host" envconfig:"HOST"`
	Port    int           `json:"port" envconfig:"PORT"`
	Timeout time.Duration `json:"timeout" envconfig:"TIMEOUT"`
}

// MemoryConfig contains vector memory settings.
type MemoryConfig struct {
	EmbeddingModel string `json:"embeddingModel" envconfig:"EMBEDDING_MODEL"`
	RecallLimit    int    `json:"recallLimit" envconfig:"RECALL_LIMIT"`
}

// AgentConfig contains agent loop settings.
type AgentConfig struct {
	HistoryMessages  int     `json:"historyMessages" envconfig:"HISTORY_MESSAGES"`
	ImportConfidence float64 `json:"importConfidence" envconfig:"IMPORT_CONFIDENCE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir: "~/.gradtrack",
			DBPath:  "~/.gradtrack/gradtrack.db",
		},
		Model: ModelConfig{
			Name:                "openai/gpt-4o",
			MaxTokens:           1000,
			Temperature:         0.7,
			DecisionTemperature: 0.1,
			DecisionMaxTokens:   500,
		},
		Server: ServerConfig{
			Host:    "127.0.0.1", // Secure default
			Port:    8000,
			Timeout: 60 * time.Second,
		},
		Memory: MemoryConfig{
			EmbeddingModel: "text-embedding-3-small",
			RecallLimit:    5,
		},
		Agent: AgentConfig{
			HistoryMessages:  20,
			ImportConfidence: 0.6,
		},
	}
}
