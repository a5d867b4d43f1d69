package llmservice

import "github.com/rs/zerolog/log"

// Cascade calls call with each model in order. It stops at the first
// success, or at the first error that retryable rejects. It returns the
// result, the number of invocations made and the last error.
func Cascade[T any](models []string, call func(model string) (T, error), retryable func(error) bool) (T, int, error) {
	var zero T
	if len(models) == 0 {
		return zero, 0, ErrNoModels
	}
	var lastErr error
	for i, model := range models {
		out, err := call(model)
		if err == nil {
			return out, i + 1, nil
		}
		lastErr = err
		if !retryable(err) {
			return zero, i + 1, err
		}
		if i+1 < len(models) {
			log.Warn().Err(err).Str("model", model).Str("next", models[i+1]).Msg("Model unavailable, trying fallback")
		}
	}
	return zero, len(models), lastErr
}
