package strategy

import (
	"time"

	"gitlab.com/open-soft/go-futures-bot/src/model"
)

// NewsDrivenStrategy joins sudden displacement: when the price has moved more
// than one ATR away from the previous close it follows the move.
type NewsDrivenStrategy struct {
	Builder         *DecisionBuilder
	MinBarsRequired int64
}

func (s *NewsDrivenStrategy) Name() string {
	return model.NewsDrivenStrategyName
}

func (s *NewsDrivenStrategy) Analyze(bars []model.KLine, account model.AccountState, currentPrice float64) model.Decision {
	if int64(len(bars)) < s.MinBarsRequired {
		return model.HoldDecision(s.Name(), currentPrice, time.Now().Unix())
	}

	atr := s.Builder.AtrOrFallback(s.Name(), bars, currentPrice, 14)
	previousClose := bars[len(bars)-2].Close.Value()

	bias := BiasFlat
	if currentPrice > previousClose+atr {
		bias = BiasLong
	}
	if currentPrice < previousClose-atr {
		bias = BiasShort
	}

	action := ReconcileBias(bias, account.GetPosition(bars[0].Symbol))

	return s.Builder.Build(s.Name(), action, bars, account, currentPrice)
}
