package config

const (
	DefaultCollectionName = "insurance_kb"
	DefaultConfigPath     = "./configs/config.yaml"
)

// Float returns a pointer to v, for optional config values.
func Float(v float64) *float64 {
	return &v
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}

	if cfg.EmbedLLM.Provider == "" {
		cfg.EmbedLLM.Provider = "ollama"
	}
	if cfg.EmbedLLM.BaseURL == "" && cfg.EmbedLLM.Provider == "ollama" {
		cfg.EmbedLLM.BaseURL = "http://localhost:11434"
	}
	if cfg.EmbedLLM.Model == "" {
		cfg.EmbedLLM.Model = "nomic-embed-text"
	}
	if cfg.EmbedLLM.Dimension == 0 {
		cfg.EmbedLLM.Dimension = 384
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "googleai"
	}
	if cfg.LLM.KeyEnv == "" && cfg.LLM.Provider == "googleai" {
		cfg.LLM.KeyEnv = "GEMINI_API_KEY"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gemini-2.0-flash"
	}
	if cfg.LLM.FallbackModels == nil {
		cfg.LLM.FallbackModels = []string{"gemini-1.5-flash", "gemini-1.5-flash-8b"}
	}
	if cfg.LLM.Temperature == nil {
		cfg.LLM.Temperature = Float(0.2)
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 600
	}

	if cfg.RAG.KnowledgeDir == "" {
		cfg.RAG.KnowledgeDir = "./knowledge_base"
	}
	if cfg.RAG.Extensions == nil {
		cfg.RAG.Extensions = []string{".txt", ".md", ".pdf", ".docx", ".pptx", ".xlsx", ".xlsm", ".xltx"}
	}
	if cfg.RAG.Backend == "" {
		cfg.RAG.Backend = "chromem"
	}
	if cfg.RAG.DBPath == "" {
		cfg.RAG.DBPath = "./vector_db"
	}
	if cfg.RAG.CollectionName == "" {
		cfg.RAG.CollectionName = DefaultCollectionName
	}
	if cfg.RAG.MinWords == 0 {
		cfg.RAG.MinWords = 25
	}
	if cfg.RAG.MaxWords == 0 {
		cfg.RAG.MaxWords = 180
	}
	if cfg.RAG.BatchSize == 0 {
		cfg.RAG.BatchSize = 32
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 3
	}
	if cfg.RAG.MinSimilarity == nil {
		cfg.RAG.MinSimilarity = Float(0.3)
	}
	if cfg.RAG.CandidateMultiplier == 0 {
		cfg.RAG.CandidateMultiplier = 3
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "pgdriver"
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.TimeoutSeconds == 0 {
		cfg.Server.TimeoutSeconds = 60
	}
}
