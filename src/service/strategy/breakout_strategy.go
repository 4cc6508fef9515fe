package strategy

import (
	"math"
	"time"

	"gitlab.com/open-soft/go-futures-bot/src/model"
)

const BreakoutLookback = 20

// BreakoutStrategy trades range escapes: a price above the recent 20-bar high
// goes long, below the recent 20-bar low goes short.
type BreakoutStrategy struct {
	Builder         *DecisionBuilder
	MinBarsRequired int64
}

func (s *BreakoutStrategy) Name() string {
	return model.BreakoutStrategyName
}

func (s *BreakoutStrategy) Analyze(bars []model.KLine, account model.AccountState, currentPrice float64) model.Decision {
	if int64(len(bars)) < s.MinBarsRequired {
		return model.HoldDecision(s.Name(), currentPrice, time.Now().Unix())
	}

	highs, lows, _, _ := ExtractSeries(bars)
	if len(highs) > BreakoutLookback {
		highs = highs[len(highs)-BreakoutLookback:]
		lows = lows[len(lows)-BreakoutLookback:]
	}

	recentHigh := math.Inf(-1)
	recentLow := math.Inf(1)
	for i := range highs {
		recentHigh = math.Max(recentHigh, highs[i])
		recentLow = math.Min(recentLow, lows[i])
	}

	bias := BiasFlat
	if currentPrice > recentHigh {
		bias = BiasLong
	}
	if currentPrice < recentLow {
		bias = BiasShort
	}

	action := ReconcileBias(bias, account.GetPosition(bars[0].Symbol))

	return s.Builder.Build(s.Name(), action, bars, account, currentPrice)
}
