// Copyright 2025 Corvid Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package vectorstore

import (
	"context"
	"log/slog"
	"time"
)

// RetryWithBackoff retries an operation with exponential backoff, letting a
// classifier decide how each failure is treated: permanent errors fail
// immediately, rate-limit errors wait twice the normal delay, transient
// errors wait the normal delay (baseDelay * 2^attempt).
//
// maxAttempts must be > 0. Returns the error from the last attempt if all
// attempts fail, and respects context cancellation both between attempts and
// while sleeping.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration, classify Classifier) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	if classify == nil {
		classify = Classify
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 0 {
				slog.Debug("operation succeeded after retry", "attempt", attempt+1)
			}
			return nil // Success
		}

		class := classify(lastErr)
		if class == ClassPermanent {
			slog.Debug("operation failed with non-retryable error", "error", lastErr)
			return lastErr
		}

		// Don't sleep after the last attempt
		if attempt == maxAttempts-1 {
			break
		}

		delay := baseDelay << attempt
		if class == ClassRateLimited {
			// Longer wait for rate limits
			delay *= 2
		}

		slog.Debug("operation failed, will retry",
			"attempt", attempt+1, "maxAttempts", maxAttempts, "delay", delay, "error", lastErr)

		// Sleep with context awareness
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// Continue to next attempt
		}
	}

	return lastErr
}
