package strategy

import (
	"log"
	"time"

	"gitlab.com/open-soft/go-futures-bot/src/indicator"
	"gitlab.com/open-soft/go-futures-bot/src/model"
)

// TrendingStrategy follows the fast/slow EMA cross: long while EMA10 is above
// EMA50, short while below.
type TrendingStrategy struct {
	Builder         *DecisionBuilder
	MinBarsRequired int64
}

func (s *TrendingStrategy) Name() string {
	return model.TrendingStrategyName
}

func (s *TrendingStrategy) Analyze(bars []model.KLine, account model.AccountState, currentPrice float64) model.Decision {
	if int64(len(bars)) < s.MinBarsRequired {
		return model.HoldDecision(s.Name(), currentPrice, time.Now().Unix())
	}

	_, _, closes, _ := ExtractSeries(bars)

	fastResult, err := s.Builder.Indicators.Compute(indicator.Ema, [][]float64{closes}, []float64{10})
	if err != nil {
		log.Printf("[%s] EMA10 failed, hold: %s", s.Name(), err.Error())
		return model.HoldDecision(s.Name(), currentPrice, time.Now().Unix())
	}

	slowResult, err := s.Builder.Indicators.Compute(indicator.Ema, [][]float64{closes}, []float64{50})
	if err != nil {
		log.Printf("[%s] EMA50 failed, hold: %s", s.Name(), err.Error())
		return model.HoldDecision(s.Name(), currentPrice, time.Now().Unix())
	}

	fast := fastResult[0][len(fastResult[0])-1]
	slow := slowResult[0][len(slowResult[0])-1]

	bias := BiasFlat
	if fast > slow {
		bias = BiasLong
	}
	if fast < slow {
		bias = BiasShort
	}

	action := ReconcileBias(bias, account.GetPosition(bars[0].Symbol))

	return s.Builder.Build(s.Name(), action, bars, account, currentPrice)
}
