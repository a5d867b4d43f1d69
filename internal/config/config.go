package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      LogConfig      `yaml:"log"`
	EmbedLLM LLMConfig      `yaml:"embed_llm"`
	LLM      LLMConfig      `yaml:"llm"`
	RAG      RAGConfig      `yaml:"rag"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// LLMConfig describes one provider endpoint. The same shape is used for the
// embedding model and the chat model.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // openai, ollama, googleai, hash
	BaseURL   string `yaml:"base_url"`
	Key       string `yaml:"key"`
	KeyEnv    string `yaml:"key_env"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"` // hash embedder only

	FallbackModels []string `yaml:"fallback_models"`
	Temperature    *float64 `yaml:"temperature"` // nil means unset; 0 is allowed
	MaxTokens      int      `yaml:"max_tokens"`
}

// Models returns the primary model followed by the fallbacks, without
// duplicates or blanks.
func (c *LLMConfig) Models() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range append([]string{c.Model}, c.FallbackModels...) {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

type RAGConfig struct {
	KnowledgeDir        string   `yaml:"knowledge_dir"`
	Extensions          []string `yaml:"extensions"`
	Backend             string   `yaml:"backend"` // chromem or pgvector
	DBPath              string   `yaml:"db_path"`
	CollectionName      string   `yaml:"collection_name"`
	InMemory            bool     `yaml:"in_memory"`
	Compress            bool     `yaml:"compress"`
	SnapshotPath        string   `yaml:"snapshot_path"`
	EncryptionKey       string   `yaml:"encryption_key"`
	MinWords            int      `yaml:"min_words"`
	MaxWords            int      `yaml:"max_words"`
	BatchSize           int      `yaml:"batch_size"`
	TopK                int      `yaml:"top_k"`
	MinSimilarity       *float64 `yaml:"min_similarity"` // nil means unset; 0 disables the threshold
	CandidateMultiplier int      `yaml:"candidate_multiplier"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Driver   string `yaml:"driver"` // pgdriver or postgres (lib/pq)
	Debug    bool   `yaml:"debug"`
}

type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LoadConfig reads the YAML file at path, applies defaults, resolves API keys
// from the environment and expands "./" paths relative to the config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	resolveKey(&cfg.EmbedLLM)
	resolveKey(&cfg.LLM)

	dir := filepath.Dir(path)
	cfg.RAG.KnowledgeDir = expandPath(cfg.RAG.KnowledgeDir, dir)
	cfg.RAG.DBPath = expandPath(cfg.RAG.DBPath, dir)
	cfg.RAG.SnapshotPath = expandPath(cfg.RAG.SnapshotPath, dir)

	return &cfg, nil
}

func resolveKey(c *LLMConfig) {
	if c.Key == "" && c.KeyEnv != "" {
		c.Key = os.Getenv(c.KeyEnv)
	}
}

// expandPath resolves "./" and "../" prefixed paths against configDir. Other
// paths are returned unchanged.
func expandPath(path, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") || path == "." {
		return filepath.Join(configDir, path)
	}
	return path
}
