package strategy

import (
	"log"
	"time"

	"gitlab.com/open-soft/go-futures-bot/src/indicator"
	"gitlab.com/open-soft/go-futures-bot/src/model"
)

// AccelerationStrategy fades exhaustion moves: RSI above 80 is treated as an
// overextended rally to short, RSI below 20 as an overextended selloff to buy.
type AccelerationStrategy struct {
	Builder         *DecisionBuilder
	MinBarsRequired int64
}

func (s *AccelerationStrategy) Name() string {
	return model.AccelerationStrategyName
}

func (s *AccelerationStrategy) Analyze(bars []model.KLine, account model.AccountState, currentPrice float64) model.Decision {
	if int64(len(bars)) < s.MinBarsRequired {
		return model.HoldDecision(s.Name(), currentPrice, time.Now().Unix())
	}

	_, _, closes, _ := ExtractSeries(bars)

	result, err := s.Builder.Indicators.Compute(indicator.Rsi, [][]float64{closes}, []float64{14})
	if err != nil {
		log.Printf("[%s] RSI failed, hold: %s", s.Name(), err.Error())
		return model.HoldDecision(s.Name(), currentPrice, time.Now().Unix())
	}

	momentum := result[0][len(result[0])-1]

	bias := BiasFlat
	if momentum > RsiExtremeOverbought {
		bias = BiasShort
	}
	if momentum < RsiExtremeOversold {
		bias = BiasLong
	}

	action := ReconcileBias(bias, account.GetPosition(bars[0].Symbol))

	return s.Builder.Build(s.Name(), action, bars, account, currentPrice)
}
