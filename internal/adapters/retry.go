package adapters

import (
	"context"
	"time"
)

// DefaultMaxRetries is the attempt budget used when callers pass a
// non-positive maxRetries.
const DefaultMaxRetries = 3

// retryCommand attempts send up to maxRetries times with linear backoff:
// after attempt n fails it waits baseDelay*n before the next attempt.
// There is no wait after the final attempt. Context cancellation during a
// backoff aborts the remaining attempts and the call fails.
//
// The final failure is returned as false, never swallowed as success.
func retryCommand(ctx context.Context, send func(context.Context) bool, maxRetries int, baseDelay time.Duration, wait sleepFunc, logger Logger) bool {
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}
	if logger == nil {
		logger = noopLogger{}
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if send(ctx) {
			return true
		}

		if attempt == maxRetries {
			break
		}

		logger.Warn("command failed, retrying",
			"attempt", attempt,
			"max_retries", maxRetries,
		)

		if err := wait(ctx, baseDelay*time.Duration(attempt)); err != nil {
			logger.Warn("retry cancelled", "error", err)
			return false
		}
	}

	return false
}
