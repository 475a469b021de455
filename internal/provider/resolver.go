package provider

import (
	"fmt"
	"strings"

	"github.com/gradtrack/gradtrack/internal/config"
)

// providerAliases maps common aliases to canonical provider IDs.
var providerAliases = map[string]string{
	"anthropic": "claude",
}

// NormalizeProviderID resolves aliases and normalizes the provider ID.
func NormalizeProviderID(id string) string {
	lower := strings.ToLower(strings.TrimSpace(id))
	if canonical, ok := providerAliases[lower]; ok {
		return canonical
	}
	return lower
}

// ParseModelString splits a "provider/model" string into provider ID and model name.
// For OpenRouter, the format is "openrouter/vendor/model" (three segments).
func ParseModelString(s string) (providerID, modelName string) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, "/", 2)
	if len(parts) < 2 {
		return "", s
	}
	providerID = strings.ToLower(parts[0])
	modelName = parts[1]
	return
}

// Resolve creates the LLMProvider for the configured model string.
// A bare model name (no provider prefix) uses the OpenAI credentials.
func Resolve(cfg *config.Config) (LLMProvider, error) {
	provID, model := ParseModelString(cfg.Model.Name)
	if provID == "" {
		if cfg.Providers.OpenAI.APIKey == "" {
			return nil, &ProviderError{Provider: "openai", Hint: "set providers.openai.apiKey in config or export OPENAI_API_KEY"}
		}
		return NewOpenAIProvider(cfg.Providers.OpenAI.APIKey, cfg.Providers.OpenAI.APIBase, model), nil
	}
	return buildProvider(cfg, NormalizeProviderID(provID), model)
}

// ResolveEmbedder returns an Embedder if the config carries OpenAI credentials.
// Embeddings always go through the OpenAI endpoint regardless of the chat
// provider; returns nil (not an error) when no key is set, so callers can
// degrade to keyword recall.
func ResolveEmbedder(cfg *config.Config) Embedder {
	if cfg.Providers.OpenAI.APIKey == "" {
		return nil
	}
	return NewOpenAIProvider(cfg.Providers.OpenAI.APIKey, cfg.Providers.OpenAI.APIBase, "")
}

// buildProvider constructs a provider from its canonical ID and model name.
func buildProvider(cfg *config.Config, providerID, model string) (LLMProvider, error) {
	switch providerID {
	case "claude":
		key := cfg.Providers.Anthropic.APIKey
		base := cfg.Providers.Anthropic.APIBase
		if key == "" {
			return nil, &ProviderError{Provider: "claude", Hint: "set providers.anthropic.apiKey in config or export ANTHROPIC_API_KEY"}
		}
		if base == "" {
			base = "https://api.anthropic.com/v1"
		}
		return NewOpenAIProvider(key, base, model), nil

	case "openai":
		key := cfg.Providers.OpenAI.APIKey
		base := cfg.Providers.OpenAI.APIBase
		if key == "" {
			return nil, &ProviderError{Provider: "openai", Hint: "set providers.openai.apiKey in config or export OPENAI_API_KEY"}
		}
		return NewOpenAIProvider(key, base, model), nil

	case "openrouter":
		key := cfg.Providers.OpenRouter.APIKey
		base := cfg.Providers.OpenRouter.APIBase
		if key == "" {
			return nil, &ProviderError{Provider: "openrouter", Hint: "set providers.openrouter.apiKey in config or export OPENROUTER_API_KEY"}
		}
		if base == "" {
			base = "https://openrouter.ai/api/v1"
		}
		return NewOpenAIProvider(key, base, model), nil

	default:
		return nil, &ProviderError{Provider: providerID, Hint: fmt.Sprintf("unknown provider ID %q — supported: claude, openai, openrouter", providerID)}
	}
}

// ProviderError is returned when a provider cannot be constructed.
type ProviderError struct {
	Provider string
	Hint     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %q: %s", e.Provider, e.Hint)
}
