package llmservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCredential marks an invalid, revoked or unauthorised API key.
	ErrCredential = errors.New("llm: invalid credentials")
	// ErrQuota marks quota exhaustion or rate limiting. It is the only
	// class that moves the cascade to the next model.
	ErrQuota = errors.New("llm: quota exhausted")
	// ErrEmptyResponse is returned when the provider answered without text.
	ErrEmptyResponse = errors.New("llm: empty response")
	// ErrNoModels is returned by Cascade when there is nothing to try.
	ErrNoModels = errors.New("llm: no models configured")
)

// Class is the user facing category of a provider failure.
type Class int

const (
	ClassNone Class = iota
	ClassCredential
	ClassQuota
	ClassCanceled
	ClassOther
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassCredential:
		return "credential"
	case ClassQuota:
		return "quota"
	case ClassCanceled:
		return "canceled"
	default:
		return "other"
	}
}

var (
	credentialHints = []string{
		"api key", "api_key_invalid", "permission_denied", "unauthorized",
		"401", "403", "invalid authentication", "incorrect api key",
	}
	quotaHints = []string{
		"429", "quota", "rate limit", "ratelimit", "resource_exhausted",
		"too many requests",
	}
)

// Classify maps err to a Class. Sentinels are checked first; provider SDK
// errors are recognised by their message.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassNone
	case errors.Is(err, ErrCredential):
		return ClassCredential
	case errors.Is(err, ErrQuota):
		return ClassQuota
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ClassCanceled
	}
	msg := strings.ToLower(err.Error())
	if containsAny(msg, credentialHints) {
		return ClassCredential
	}
	if containsAny(msg, quotaHints) {
		return ClassQuota
	}
	return ClassOther
}

// IsRetryable reports whether the next model should be tried.
func IsRetryable(err error) bool {
	return Classify(err) == ClassQuota
}

// wrapProviderError attaches the matching sentinel to an SDK error.
func wrapProviderError(model string, err error) error {
	switch Classify(err) {
	case ClassCredential:
		if errors.Is(err, ErrCredential) {
			return err
		}
		return fmt.Errorf("%s: %w: %v", model, ErrCredential, err)
	case ClassQuota:
		if errors.Is(err, ErrQuota) {
			return err
		}
		return fmt.Errorf("%s: %w: %v", model, ErrQuota, err)
	default:
		return fmt.Errorf("%s: %w", model, err)
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
