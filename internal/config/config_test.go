package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
llm:
  provider: openai
  base_url: "https://openrouter.ai/api/v1"
  model: "primary-model"
  fallback_models: ["second", "primary-model", "", "third"]
rag:
  knowledge_dir: "./kb"
  db_path: "/var/lib/claimflow"
  snapshot_path: "../snapshots/kb.gob"
  top_k: 5
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "primary-model" {
		t.Errorf("unexpected llm config: %+v", cfg.LLM)
	}
	if cfg.RAG.TopK != 5 {
		t.Errorf("top_k = %d, want 5", cfg.RAG.TopK)
	}
	if want := filepath.Join(dir, "kb"); cfg.RAG.KnowledgeDir != want {
		t.Errorf("knowledge_dir = %s, want %s", cfg.RAG.KnowledgeDir, want)
	}
	if want := filepath.Join(filepath.Dir(dir), "snapshots", "kb.gob"); cfg.RAG.SnapshotPath != want {
		t.Errorf("snapshot_path = %s, want %s", cfg.RAG.SnapshotPath, want)
	}
	if cfg.RAG.DBPath != "/var/lib/claimflow" {
		t.Errorf("absolute db_path should be unchanged, got %s", cfg.RAG.DBPath)
	}
	if cfg.RAG.CollectionName != "insurance_kb" {
		t.Errorf("collection name = %s", cfg.RAG.CollectionName)
	}
}

func TestLoadConfig_keyFromEnv(t *testing.T) {
	t.Setenv("CLAIMFLOW_TEST_KEY", "secret")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
llm:
  provider: googleai
  key_env: CLAIMFLOW_TEST_KEY
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.Key != "secret" {
		t.Errorf("key = %q, want value from env", cfg.LLM.Key)
	}
}

func TestLoadConfig_explicitZero(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
llm:
  temperature: 0
rag:
  min_similarity: 0
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.Temperature == nil || *cfg.LLM.Temperature != 0 {
		t.Errorf("temperature = %v, want explicit 0 kept", cfg.LLM.Temperature)
	}
	if cfg.RAG.MinSimilarity == nil || *cfg.RAG.MinSimilarity != 0 {
		t.Errorf("min_similarity = %v, want explicit 0 kept", cfg.RAG.MinSimilarity)
	}
}

func TestLoadConfig_missingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.RAG.CollectionName != DefaultCollectionName {
		t.Errorf("collection: got %s", cfg.RAG.CollectionName)
	}
	if cfg.RAG.MinWords >= cfg.RAG.MaxWords {
		t.Errorf("min words %d should be below max words %d", cfg.RAG.MinWords, cfg.RAG.MaxWords)
	}
	if cfg.LLM.Temperature == nil || *cfg.LLM.Temperature <= 0 || *cfg.LLM.Temperature > 0.5 {
		t.Errorf("temperature should default low, got %v", cfg.LLM.Temperature)
	}
	if cfg.RAG.MinSimilarity == nil || *cfg.RAG.MinSimilarity != 0.3 {
		t.Errorf("min similarity: got %v", cfg.RAG.MinSimilarity)
	}
	if len(cfg.LLM.FallbackModels) == 0 {
		t.Error("fallback models should be set by default")
	}
	if cfg.RAG.Backend != "chromem" {
		t.Errorf("backend: got %s", cfg.RAG.Backend)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
}

func TestLLMConfig_Models(t *testing.T) {
	c := LLMConfig{Model: "a", FallbackModels: []string{"b", "a", " ", "c", "b"}}
	got := c.Models()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Models() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Models()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
