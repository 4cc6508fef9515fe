package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInsufficientData = errors.New("insufficient data")
var ErrIndicatorFailure = errors.New("indicator failure")
var ErrInvalidAccountState = errors.New("invalid account state")
var ErrFeedUnavailable = errors.New("feed unavailable")
var ErrFeedDisconnected = errors.New("feed disconnected")
var ErrRateLimited = errors.New("rate limited")
var ErrExchangeRejected = errors.New("exchange rejected")
var ErrInvalidOrder = errors.New("invalid order")

// PartialBracketError reports an entry that filled while one or more bracket
// legs failed. The position stays open with whatever legs succeeded; callers
// log it for remediation, there is no automatic rollback.
type PartialBracketError struct {
	Entry      FuturesOrder
	FailedLegs []string
	LegErrors  []error
}

func (e *PartialBracketError) Error() string {
	return fmt.Sprintf(
		"[%s] entry order %d filled, bracket legs failed: %s",
		e.Entry.Symbol,
		e.Entry.OrderId,
		strings.Join(e.FailedLegs, ", "),
	)
}
