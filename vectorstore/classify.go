package vectorstore

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrorClass partitions store errors by how the retry loop should treat them.
type ErrorClass int

const (
	// ClassTransient errors are retried with normal exponential backoff.
	ClassTransient ErrorClass = iota

	// ClassRateLimited errors are retried with doubled backoff to let the
	// store's rate window recover.
	ClassRateLimited

	// ClassPermanent errors fail immediately without further attempts.
	ClassPermanent
)

// Classifier assigns an ErrorClass to an error returned by a store call.
type Classifier func(err error) ErrorClass

// RetryAll classifies every error as transient. Used on the write path,
// where any upsert failure is worth the full retry budget.
func RetryAll(err error) ErrorClass {
	if errors.Is(err, context.Canceled) {
		return ClassPermanent
	}
	return ClassTransient
}

// Classify is the read-path classifier. Rate limiting is detected first,
// then transient server and connection failures; anything unrecognized is
// permanent, since retrying a malformed query wastes time and masks bugs.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassTransient
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, ErrBadRequest) {
		return ClassPermanent
	}
	if errors.Is(err, ErrRateLimited) {
		return ClassRateLimited
	}
	if errors.Is(err, ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return ClassTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ClassTransient
	}

	// Fall back to message matching for errors surfaced by HTTP clients and
	// SDKs that don't expose structured codes.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "too many"):
		return ClassRateLimited
	case strings.Contains(msg, "500"),
		strings.Contains(msg, "502"),
		strings.Contains(msg, "503"),
		strings.Contains(msg, "internal server error"),
		strings.Contains(msg, "service unavailable"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "timed out"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "broken pipe"):
		return ClassTransient
	}

	return ClassPermanent
}
