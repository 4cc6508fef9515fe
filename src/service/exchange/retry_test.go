package exchange_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/go-futures-bot/src/model"
	"gitlab.com/open-soft/go-futures-bot/src/service/exchange"
)

func TestRetryReturnsFirstSuccess(t *testing.T) {
	assertion := assert.New(t)

	timeService := &TimeServiceMock{}
	retrier := exchange.Retrier{TimeService: timeService, MaxRetries: 3}

	calls := 0
	err := retrier.Retry("BTCUSDT", func() error {
		calls++
		return nil
	})

	assertion.Nil(err)
	assertion.Equal(1, calls)
	assertion.Empty(timeService.WaitedSeconds)
}

func TestRetryDoesNotTouchOtherErrors(t *testing.T) {
	assertion := assert.New(t)

	timeService := &TimeServiceMock{}
	retrier := exchange.Retrier{TimeService: timeService, MaxRetries: 3}

	calls := 0
	err := retrier.Retry("BTCUSDT", func() error {
		calls++
		return model.ErrExchangeRejected
	})

	assertion.ErrorIs(err, model.ErrExchangeRejected)
	assertion.Equal(1, calls)
	assertion.Empty(timeService.WaitedSeconds)
}

func TestRetryBacksOffExponentiallyOnRateLimit(t *testing.T) {
	assertion := assert.New(t)

	timeService := &TimeServiceMock{}
	retrier := exchange.Retrier{TimeService: timeService, MaxRetries: 3}

	calls := 0
	err := retrier.Retry("BTCUSDT", func() error {
		calls++
		if calls <= 2 {
			return model.ErrRateLimited
		}
		return nil
	})

	assertion.Nil(err)
	assertion.Equal(3, calls)
	assertion.Equal([]int64{2, 4}, timeService.WaitedSeconds)
}

func TestRetryEscalatesWhenRateLimitPersists(t *testing.T) {
	assertion := assert.New(t)

	timeService := &TimeServiceMock{}
	retrier := exchange.Retrier{TimeService: timeService, MaxRetries: 3}

	calls := 0
	err := retrier.Retry("BTCUSDT", func() error {
		calls++
		return model.ErrRateLimited
	})

	assertion.ErrorIs(err, model.ErrExchangeRejected)
	assertion.False(errors.Is(err, model.ErrRateLimited))
	assertion.Equal(4, calls)
	assertion.Equal([]int64{2, 4, 8}, timeService.WaitedSeconds)
}
