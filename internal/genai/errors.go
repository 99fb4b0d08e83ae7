package genai

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// ErrorKind classifies a failed extraction for logs and metrics.
// It never changes control flow: every failure degrades the same way.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTimeout
	KindCanceled
	KindRateLimited
	KindQuota
	KindUnavailable
	KindAuth
	KindInvalidRequest
	KindMalformed
	KindPanic
)

// String returns the metric label for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	case KindRateLimited:
		return "rate_limited"
	case KindQuota:
		return "quota"
	case KindUnavailable:
		return "unavailable"
	case KindAuth:
		return "auth"
	case KindInvalidRequest:
		return "invalid_request"
	case KindMalformed:
		return "malformed"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// LLMError wraps a provider error with its HTTP status.
type LLMError struct {
	Err        error
	StatusCode int
	Provider   Provider
}

// Error implements the error interface.
func (e *LLMError) Error() string {
	if e.StatusCode > 0 {
		return e.Err.Error() + " (status: " + strconv.Itoa(e.StatusCode) + ")"
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *LLMError) Unwrap() error {
	return e.Err
}

// ClassifyError maps an extraction failure to an ErrorKind.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, ErrEmptyResponse), errors.Is(err, ErrNoJSONObject), errors.Is(err, ErrNoSlots):
		return KindMalformed
	}

	var llmErr *LLMError
	if errors.As(err, &llmErr) && llmErr.StatusCode > 0 {
		return classifyStatusCode(llmErr.StatusCode)
	}

	errStr := strings.ToLower(err.Error())

	// Quota first: quota errors often also mention rate limits.
	if containsAny(errStr, "quota", "daily limit", "monthly limit", "billing") {
		return KindQuota
	}
	if containsAny(errStr, "rate limit", "too many requests", "resource_exhausted", "429") {
		return KindRateLimited
	}
	if containsAny(errStr, "timeout", "deadline") {
		return KindTimeout
	}
	if containsAny(errStr, "unavailable", "overloaded", "bad gateway", "internal server error",
		"500", "502", "503", "504", "connection") {
		return KindUnavailable
	}
	if containsAny(errStr, "401", "403", "unauthorized", "unauthenticated", "forbidden", "api key") {
		return KindAuth
	}
	if containsAny(errStr, "decode", "invalid character", "unexpected end of json") {
		return KindMalformed
	}
	if containsAny(errStr, "400", "404", "422", "bad request", "not found") {
		return KindInvalidRequest
	}

	return KindUnknown
}

func classifyStatusCode(statusCode int) ErrorKind {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return KindRateLimited
	case statusCode == http.StatusRequestTimeout, statusCode == http.StatusGatewayTimeout:
		return KindTimeout
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return KindAuth
	case statusCode >= 500 && statusCode < 600:
		return KindUnavailable
	case statusCode >= 400 && statusCode < 500:
		return KindInvalidRequest
	default:
		return KindUnknown
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
