package provider

import (
	"errors"
	"testing"

	"github.com/gradtrack/gradtrack/internal/config"
)

func TestParseModelString(t *testing.T) {
	tests := []struct {
		in           string
		wantProvider string
		wantModel    string
	}{
		{"openai/gpt-4o", "openai", "gpt-4o"},
		{"claude/claude-sonnet-4-5", "claude", "claude-sonnet-4-5"},
		{"anthropic/claude-sonnet-4-5", "anthropic", "claude-sonnet-4-5"},
		{"openrouter/anthropic/claude-sonnet-4-5", "openrouter", "anthropic/claude-sonnet-4-5"},
		{"gpt-4o", "", "gpt-4o"},
		{"  openai/gpt-4o  ", "openai", "gpt-4o"},
	}
	for _, tt := range tests {
		gotProv, gotModel := ParseModelString(tt.in)
		if gotProv != tt.wantProvider || gotModel != tt.wantModel {
			t.Errorf("ParseModelString(%q) = (%q, %q), want (%q, %q)",
				tt.in, gotProv, gotModel, tt.wantProvider, tt.wantModel)
		}
	}
}

func TestNormalizeProviderID(t *testing.T) {
	if got := NormalizeProviderID("Anthropic"); got != "claude" {
		t.Errorf("anthropic alias = %q, want claude", got)
	}
	if got := NormalizeProviderID("openai"); got != "openai" {
		t.Errorf("openai = %q", got)
	}
}

func TestResolveMissingKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Model.Name = "claude/claude-sonnet-4-5"

	_, err := Resolve(cfg)
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *ProviderError", err)
	}
	if pe.Provider != "claude" {
		t.Errorf("provider = %q, want claude", pe.Provider)
	}
	if pe.Hint == "" {
		t.Error("hint is empty")
	}
}

func TestResolveUnknownProvider(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Model.Name = "mistral/mistral-large"

	_, err := Resolve(cfg)
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
	if pe.Provider != "mistral" {
		t.Errorf("provider = %q, want mistral", pe.Provider)
	}
}

func TestResolveOpenAI(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Model.Name = "openai/gpt-4o"
	cfg.Providers.OpenAI.APIKey = "sk-test"

	prov, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if prov.DefaultModel() != "gpt-4o" {
		t.Errorf("default model = %q, want gpt-4o", prov.DefaultModel())
	}
}

func TestResolveBareModelName(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Model.Name = "gpt-4o-mini"
	cfg.Providers.OpenAI.APIKey = "sk-test"

	prov, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if prov.DefaultModel() != "gpt-4o-mini" {
		t.Errorf("default model = %q", prov.DefaultModel())
	}
}

func TestResolveEmbedder(t *testing.T) {
	cfg := config.DefaultConfig()
	if emb := ResolveEmbedder(cfg); emb != nil {
		t.Error("expected nil embedder without an OpenAI key")
	}

	cfg.Providers.OpenAI.APIKey = "sk-test"
	if emb := ResolveEmbedder(cfg); emb == nil {
		t.Error("expected embedder with OpenAI key set")
	}
}
