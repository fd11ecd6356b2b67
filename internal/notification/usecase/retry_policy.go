package usecase

import (
	"time"

	"github.com/sethvargo/go-retry"
)

// retryPolicy decides whether a transient failure gets another attempt and
// how long to wait before it. Attempts are 1-based.
type retryPolicy struct {
	maxAttempts int
	base        time.Duration
	cap         time.Duration
	maxElapsed  time.Duration
}

func newRetryPolicy(s Settings) retryPolicy {
	return retryPolicy{
		maxAttempts: s.MaxAttempts,
		base:        s.BaseDelay,
		cap:         s.MaxDelay,
		maxElapsed:  s.MaxElapsed,
	}
}

// next returns the wait before attempt+1 after attempt failed, with elapsed
// time spent in the current run so far. ok is false once the run is over.
func (p retryPolicy) next(attempt int, elapsed time.Duration) (time.Duration, bool) {
	if attempt < 1 || attempt >= p.maxAttempts {
		return 0, false
	}

	// go-retry backoffs are stateful, so a fresh one is replayed up to attempt.
	b := retry.WithCappedDuration(p.cap, retry.NewExponential(p.base))
	b = retry.WithMaxRetries(uint64(p.maxAttempts-1), b)

	var delay time.Duration
	for range attempt {
		d, stop := b.Next()
		if stop {
			return 0, false
		}
		delay = d
	}

	if elapsed+delay > p.maxElapsed {
		return 0, false
	}

	return delay, true
}
