package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"sentinel rate limited", ErrRateLimited, ClassRateLimited},
		{"wrapped rate limited", fmt.Errorf("query: %w", ErrRateLimited), ClassRateLimited},
		{"sentinel unavailable", ErrUnavailable, ClassTransient},
		{"sentinel bad request", ErrBadRequest, ClassPermanent},
		{"context canceled", context.Canceled, ClassPermanent},
		{"deadline exceeded", context.DeadlineExceeded, ClassTransient},
		{"rate limit text", errors.New("429 rate limit exceeded"), ClassRateLimited},
		{"too many requests text", errors.New("Too Many Requests"), ClassRateLimited},
		{"internal server error text", errors.New("500 Internal Server Error"), ClassTransient},
		{"bad gateway text", errors.New("upstream returned 502"), ClassTransient},
		{"service unavailable text", errors.New("Service Unavailable"), ClassTransient},
		{"timeout text", errors.New("request timed out"), ClassTransient},
		{"connection refused text", errors.New("dial tcp: connection refused"), ClassTransient},
		{"malformed request", errors.New("invalid filter expression"), ClassPermanent},
		{"auth failure", errors.New("401 unauthorized"), ClassPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestRetryAll(t *testing.T) {
	assert.Equal(t, ClassTransient, RetryAll(errors.New("anything at all")))
	assert.Equal(t, ClassTransient, RetryAll(ErrBadRequest))
	assert.Equal(t, ClassPermanent, RetryAll(context.Canceled))
}
