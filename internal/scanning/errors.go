package scanning

import (
	"errors"
	"strings"
)

var (
	// ErrThrottled marks an explicit rate-limit signal from the inference service.
	// Scanners wrap provider-specific throttle errors with it.
	ErrThrottled = errors.New("throttled by inference service")

	// ErrRetryExhausted is returned after every attempt was throttled.
	ErrRetryExhausted = errors.New("inference service unavailable after retries")

	// ErrUpstream is returned for non-retryable inference failures.
	ErrUpstream = errors.New("inference service error")

	// ErrEmptyResponse is returned when the service answered without any content,
	// for example after hitting an output limit or a safety block.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrMalformedResponse is returned when model text holds no parseable object.
	ErrMalformedResponse = errors.New("malformed model response")
)

var throttleMarkers = []string{
	"throttling",
	"too many requests",
	"rate exceeded",
	"resource exhausted",
	"resource_exhausted",
}

// IsRetryable reports whether err is a rate-limit fault worth retrying
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrThrottled) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range throttleMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
