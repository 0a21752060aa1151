package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buzzy-agent/internal/domain"
	"buzzy-agent/internal/integrations/perplexity"
	"buzzy-agent/internal/observability"
)

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

// completeWithRetry calls the completion API up to maxAttempts times. After the
// n-th failed attempt it waits retryDelay*n. A missing credential is returned at
// once, as is a cancelled context.
func (s *ChatService) completeWithRetry(ctx context.Context, req domain.CompletionRequest) (string, error) {
	log := observability.FromContext(ctx)

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		answer, err := s.llm.Complete(ctx, req)
		if err == nil {
			return answer, nil
		}
		if errors.Is(err, perplexity.ErrMissingCredential) {
			return "", err
		}
		lastErr = err

		delay := s.retryDelay * time.Duration(attempt)
		attrs := []any{"attempt", attempt, "max_attempts", s.maxAttempts, "backoff", delay, "err", err}
		if status, ok := upstreamStatusCode(err); ok {
			attrs = append(attrs, "status", status)
		}
		log.Warn("completion attempt failed", attrs...)

		if sleepErr := s.sleeper.Sleep(ctx, delay); sleepErr != nil {
			return "", errors.Join(lastErr, sleepErr)
		}
	}
	return "", fmt.Errorf("usecase: completion failed after %d attempts: %w", s.maxAttempts, lastErr)
}

func upstreamStatusCode(err error) (int, bool) {
	var statusErr httpStatusCoder
	if !errors.As(err, &statusErr) {
		return 0, false
	}
	return statusErr.HTTPStatusCode(), true
}
