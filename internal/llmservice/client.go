package llmservice

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"claimflow-rag/internal/config"
	"claimflow-rag/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

var thinkTag = regexp.MustCompile(models.ThinkTag)

// Request is one model invocation.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Provider generates text. Implementations return errors that Classify can
// map to a Class.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Client is a Provider backed by a langchaingo model. The model name of each
// request overrides the configured default.
type Client struct {
	llm llms.Model
}

// NewClient builds the chat model selected by cfg.Provider.
func NewClient(ctx context.Context, cfg *config.LLMConfig) (*Client, error) {
	log.Debug().Interface("llm", map[string]any{
		"provider": cfg.Provider,
		"base_url": cfg.BaseURL,
		"models":   cfg.Models(),
	}).Msg("Creating llm client")

	var (
		llm llms.Model
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err = openai.New(opts...)
	case "ollama":
		llm, err = ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
	case "googleai":
		if cfg.Key == "" {
			return nil, fmt.Errorf("googleai: %w: no api key", ErrCredential)
		}
		llm, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.Key),
			googleai.WithDefaultModel(cfg.Model),
		)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("error initializing %s llm: %w", cfg.Provider, err)
	}
	return NewClientFromModel(llm), nil
}

// NewClientFromModel wraps an existing langchaingo model.
func NewClientFromModel(llm llms.Model) *Client {
	return &Client{llm: llm}
}

func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, req.System),
		llms.TextParts(schema.ChatMessageTypeHuman, req.Prompt),
	}
	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	log.Debug().Str("model", req.Model).Int("prompt_len", len(req.Prompt)).Msg("Generating content")
	resp, err := c.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", wrapProviderError(req.Model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", req.Model, ErrEmptyResponse)
	}
	return CleanOutput(resp.Choices[0].Content), nil
}

// CleanOutput removes reasoning blocks and surrounding whitespace.
func CleanOutput(text string) string {
	return strings.TrimSpace(thinkTag.ReplaceAllString(text, ""))
}

type unavailable struct{ err error }

// Unavailable returns a Provider that fails every request with err. It lets
// the assistant answer with a mapped message when no client could be built.
func Unavailable(err error) Provider {
	return unavailable{err: err}
}

func (u unavailable) Generate(context.Context, Request) (string, error) {
	return "", u.err
}
