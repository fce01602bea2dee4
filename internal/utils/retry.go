package utils

import (
	"context"
	"fmt"
	"time"

	"dengue-alert-service/internal/logging"
)

// Retry calls fn up to maxAttempts times, sleeping delay between failures.
// It gives up early when ctx is done.
func Retry(ctx context.Context, logger *logging.Logger, maxAttempts int, delay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := fn(); err != nil {
			lastErr = err
			logger.Warnf("Attempt %d/%d failed: %v", attempt, maxAttempts, err)
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return fmt.Errorf("retry aborted after %d attempts: %w", attempt, ctx.Err())
				case <-time.After(delay):
				}
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}
