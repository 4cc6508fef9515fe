package exchange

import (
	"errors"
	"fmt"
	"log"

	"gitlab.com/open-soft/go-futures-bot/src/model"
	"gitlab.com/open-soft/go-futures-bot/src/utils"
)

const MaxRateLimitRetries = int64(3)

type RetrierInterface interface {
	Retry(label string, operation func() error) error
}

// Retrier re-runs an operation while the exchange rate limiter rejects it,
// backing off 2^n seconds per attempt. Any other error returns immediately.
// An operation still rate limited after MaxRetries escalates to a rejection.
type Retrier struct {
	TimeService utils.TimeServiceInterface
	MaxRetries  int64
}

func (r *Retrier) Retry(label string, operation func() error) error {
	retries := int64(0)

	for {
		err := operation()

		if err == nil {
			return nil
		}

		if !errors.Is(err, model.ErrRateLimited) {
			return err
		}

		retries++

		if retries > r.MaxRetries {
			return fmt.Errorf("%w: rate limit retries exhausted: %s", model.ErrExchangeRejected, err.Error())
		}

		waitSeconds := int64(1) << retries
		log.Printf("[%s] Rate limited, retry %d of %d in %d seconds", label, retries, r.MaxRetries, waitSeconds)
		r.TimeService.WaitSeconds(waitSeconds)
	}
}
