package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskman.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: http://tasks.example.com:3002
llm:
  provider: openai
  model: gpt-4o-mini
  api_key: sk-test
cache:
  ttl_seconds: 120
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.BaseURL != "http://tasks.example.com:3002" {
		t.Errorf("Unexpected base URL: %s", cfg.Server.BaseURL)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("Unexpected LLM config: %+v", cfg.LLM)
	}
	if cfg.Cache.TTL() != 120*time.Second {
		t.Errorf("Unexpected TTL: %v", cfg.Cache.TTL())
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.BaseURL != DefaultServerURL {
		t.Errorf("Expected default server URL, got %s", cfg.Server.BaseURL)
	}
	if cfg.LLM.Provider != DefaultProvider || cfg.LLM.Model != DefaultModel {
		t.Errorf("Expected default LLM config, got %+v", cfg.LLM)
	}
	if cfg.Cache.TTLSeconds != DefaultCacheTTL {
		t.Errorf("Expected default TTL, got %d", cfg.Cache.TTLSeconds)
	}
}

func TestLoad_ExpandsAPIKeyEnv(t *testing.T) {
	t.Setenv("TEST_TASKMAN_KEY", "secret-123")

	cfg, err := Load(writeConfig(t, `
llm:
  api_key: ${TEST_TASKMAN_KEY}
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.APIKey != "secret-123" {
		t.Errorf("API key not expanded, got %q", cfg.LLM.APIKey)
	}
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	_, err := Load(writeConfig(t, `
llm:
  provider: cohere
`))
	if err == nil {
		t.Error("Unknown provider should fail validation")
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "value")

	cases := map[string]string{
		"${TEST_VAR}":        "value",
		"$TEST_VAR":          "value",
		"prefix-${TEST_VAR}": "prefix-value",
		"${UNSET_VAR_XYZ}":   "",
		"no vars here":       "no vars here",
	}

	for input, want := range cases {
		if got := ExpandEnv(input); got != want {
			t.Errorf("ExpandEnv(%q) = %q, want %q", input, got, want)
		}
	}
}
