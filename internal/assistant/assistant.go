package assistant

import (
	"context"
	"fmt"
	"strings"

	"claimflow-rag/internal/helper"
	"claimflow-rag/internal/intent"
	"claimflow-rag/internal/llmservice"
	"claimflow-rag/internal/models"
	"claimflow-rag/internal/rag"
	"claimflow-rag/internal/safety"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// State is a stage of one answer.
type State string

const (
	StateReceived      State = "RECEIVED"
	StateSafetyChecked State = "SAFETY_CHECKED"
	StateRetrieved     State = "RETRIEVED"
	StatePrompted      State = "PROMPTED"
	StateModelCalled   State = "MODEL_CALLED"
	StateValidated     State = "VALIDATED"
	StateDone          State = "DONE"
	StateError         State = "ERROR"
)

// Retriever supplies grounding context. An empty string means nothing was
// found; it is never an error.
type Retriever interface {
	RetrieveWith(ctx context.Context, query string, opts rag.Options) string
}

type Config struct {
	// Models is the primary model followed by the fallbacks.
	Models        []string
	Temperature   float64
	MaxTokens     int
	TopK          int
	MinSimilarity float64
}

// Options tune a single answer.
type Options struct {
	K             int
	MinSimilarity float64
	Language      string
	// Speech renders the final text for text to speech.
	Speech bool
}

// Response is the answer with the diagnostics gathered on the way.
type Response struct {
	RequestID  string         `json:"request_id"`
	Text       string         `json:"text"`
	State      State          `json:"state"`
	Intent     intent.Result  `json:"intent"`
	IntentInfo intent.Info    `json:"intent_info"`
	Verdict    safety.Verdict `json:"verdict"`
	Model      string         `json:"model,omitempty"`
	Attempts   int            `json:"attempts"`
	// Marker is the guardrail phrase found in a discarded model answer.
	Marker string `json:"marker,omitempty"`
}

// Assistant turns a user question into a safe answer. It keeps no per
// request state and may be shared between goroutines.
type Assistant struct {
	retriever  Retriever
	provider   llmservice.Provider
	classifier *intent.Classifier
	filter     *safety.Filter
	cfg        Config
}

func New(retriever Retriever, provider llmservice.Provider, cfg Config) *Assistant {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	return &Assistant{
		retriever:  retriever,
		provider:   provider,
		classifier: intent.Default(),
		filter:     safety.Default(),
		cfg:        cfg,
	}
}

// Answer returns the text of Respond with default options. It never returns
// an empty string.
func (a *Assistant) Answer(ctx context.Context, query string) string {
	return a.Respond(ctx, query, Options{}).Text
}

func (a *Assistant) Respond(ctx context.Context, query string, opts Options) (resp Response) {
	resp = Response{RequestID: helper.RequestID(), State: StateReceived}
	logger := log.With().Str("request_id", resp.RequestID).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Str("state", string(resp.State)).Msg("Answer aborted")
			resp.Text = MsgUnavailable
			resp.State = StateError
		}
		if opts.Speech && resp.Text != "" {
			resp.Text = rag.SpeechText(resp.Text)
		}
	}()

	q := rag.NormalizeQuery(query)
	if q == "" {
		logger.Debug().Msg("Empty query")
		return a.finish(resp, MsgEmptyQuery)
	}

	logger.Debug().Str("query", helper.Truncate(q, 80)).Msg("Received query")

	resp.Verdict = a.filter.Check(q)
	resp.State = StateSafetyChecked
	if !resp.Verdict.Safe {
		logger.Info().Str("category", string(resp.Verdict.Category)).Msg("Query blocked by safety filter")
		return a.finish(resp, resp.Verdict.Message)
	}

	resp.Intent = a.classifier.Classify(q)
	resp.IntentInfo = intent.Describe(resp.Intent.Label)
	logger.Debug().
		Str("intent", string(resp.Intent.Label)).
		Float64("confidence", resp.Intent.Confidence).
		Msg("Classified query")

	clean := Sanitize(q)
	if clean != q {
		logger.Warn().Str("sanitized", clean).Msg("Removed prompt injection phrasing")
	}

	k, minSim := a.cfg.TopK, a.cfg.MinSimilarity
	if opts.K > 0 {
		k = opts.K
	}
	if opts.MinSimilarity > 0 {
		minSim = opts.MinSimilarity
	}
	grounding := a.retriever.RetrieveWith(ctx, clean, rag.Options{K: k, MinSimilarity: minSim, Language: opts.Language})
	resp.State = StateRetrieved
	logger.Debug().Int("context_len", len(grounding)).Msg("Retrieved context")

	if !HasDomainHint(clean) && !HasDomainHint(grounding) {
		logger.Info().Msg("Query out of scope")
		return a.finish(resp, MsgOutOfScope)
	}
	if grounding == "" {
		grounding = models.GenericWorkflowContext
	}

	prompt := fmt.Sprintf(models.PromptTemplate, grounding, clean)
	resp.State = StatePrompted

	text, attempts, err := llmservice.Cascade(a.cfg.Models, func(model string) (string, error) {
		resp.Model = model
		return a.provider.Generate(ctx, llmservice.Request{
			Model:       model,
			System:      models.SystemInstruction,
			Prompt:      prompt,
			Temperature: a.cfg.Temperature,
			MaxTokens:   a.cfg.MaxTokens,
		})
	}, llmservice.IsRetryable)
	resp.Attempts = attempts
	resp.State = StateModelCalled
	if err != nil {
		class := llmservice.Classify(err)
		logger.Error().Err(err).Str("class", class.String()).Int("attempts", attempts).Msg("Model call failed")
		resp.Text = errorMessage(class)
		resp.State = StateError
		return resp
	}

	return a.validate(resp, text, logger)
}

func (a *Assistant) validate(resp Response, text string, logger zerolog.Logger) Response {
	resp.State = StateValidated
	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn().Str("model", resp.Model).Msg("Model returned no text")
		return a.finish(resp, MsgInsufficient)
	}
	if marker, violated := safety.ScanOutput(text); violated {
		logger.Warn().Str("model", resp.Model).Str("marker", marker).Msg("Model answer violated a guardrail, substituting refusal")
		resp.Marker = marker
		return a.finish(resp, safety.Message(safety.ClaimApproval))
	}
	logger.Info().Str("model", resp.Model).Int("attempts", resp.Attempts).Msg("Answered")
	return a.finish(resp, text)
}

func (a *Assistant) finish(resp Response, text string) Response {
	resp.Text = text
	resp.State = StateDone
	return resp
}

func errorMessage(class llmservice.Class) string {
	switch class {
	case llmservice.ClassCredential:
		return MsgCredential
	case llmservice.ClassQuota:
		return MsgQuota
	default:
		return MsgUnavailable
	}
}
