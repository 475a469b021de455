package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Model.Name != "openai/gpt-4o" {
		t.Errorf("default model = %q, want openai/gpt-4o", cfg.Model.Name)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("default port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Memory.RecallLimit != 5 {
		t.Errorf("default recall limit = %d, want 5", cfg.Memory.RecallLimit)
	}
}

func TestConfigPathExplicit(t *testing.T) {
	t.Setenv("GRADTRACK_CONFIG", "/tmp/custom-config.json")
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	if path != "/tmp/custom-config.json" {
		t.Errorf("path = %q, want /tmp/custom-config.json", path)
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := []byte(`{"model": {"name": "openrouter/meta-llama/llama-3-70b", "maxTokens": 2000}, "server": {"port": 9001}}`)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GRADTRACK_CONFIG", path)
	t.Setenv("GRADTRACK_SERVER_PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model.Name != "openrouter/meta-llama/llama-3-70b" {
		t.Errorf("model from file = %q", cfg.Model.Name)
	}
	if cfg.Model.MaxTokens != 2000 {
		t.Errorf("maxTokens from file = %d", cfg.Model.MaxTokens)
	}
	// env beats file
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want env override 9100", cfg.Server.Port)
	}
	// untouched fields keep defaults
	if cfg.Model.Temperature != 0.7 {
		t.Errorf("temperature = %v, want default 0.7", cfg.Model.Temperature)
	}
}

func TestLoadAPIKeyFallback(t *testing.T) {
	t.Setenv("GRADTRACK_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("OPENAI_API_KEY", "sk-test-fallback")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Providers.OpenAI.APIKey != "sk-test-fallback" {
		t.Errorf("OpenAI key = %q, want OPENAI_API_KEY fallback", cfg.Providers.OpenAI.APIKey)
	}
}
