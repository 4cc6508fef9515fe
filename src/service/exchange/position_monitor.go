package exchange

import (
	"log"

	"gitlab.com/open-soft/go-futures-bot/src/utils"
)

const PositionPollSeconds = int64(5)

// PositionMonitor logs the live position between decision cycles. Purely
// observational, it never touches orders.
type PositionMonitor struct {
	Symbol         string
	AccountService AccountServiceInterface
	TimeService    utils.TimeServiceInterface
}

func (m *PositionMonitor) Monitor() {
	for {
		m.TimeService.WaitSeconds(PositionPollSeconds)

		account, err := m.AccountService.GetAccountState()
		if err != nil {
			log.Printf("[%s] Position poll failed: %s", m.Symbol, err.Error())
			continue
		}

		position := account.GetPosition(m.Symbol)
		if position.IsFlat() {
			continue
		}

		log.Printf(
			"[%s] Position %f @ %f, unrealized PnL %f",
			m.Symbol,
			position.PositionAmt,
			position.EntryPrice,
			position.UnrealizedProfit,
		)
	}
}
