package strategy

import (
	"log"
	"time"

	"gitlab.com/open-soft/go-futures-bot/src/indicator"
	"gitlab.com/open-soft/go-futures-bot/src/model"
)

const SidewaysForecastWindow = 200
const SidewaysBandFactor = 3.00

// SidewaysStrategy fades ranging markets with a mean-reversion forecast: the
// projected next close has to leave a band of 3 standard errors around the
// current price before it takes a side.
type SidewaysStrategy struct {
	Builder         *DecisionBuilder
	MinBarsRequired int64
}

func (s *SidewaysStrategy) Name() string {
	return model.SidewaysStrategyName
}

func (s *SidewaysStrategy) Analyze(bars []model.KLine, account model.AccountState, currentPrice float64) model.Decision {
	if int64(len(bars)) < s.MinBarsRequired {
		return model.HoldDecision(s.Name(), currentPrice, time.Now().Unix())
	}

	_, _, closes, _ := ExtractSeries(bars)
	if len(closes) > SidewaysForecastWindow {
		closes = closes[len(closes)-SidewaysForecastWindow:]
	}

	result, err := s.Builder.Indicators.Compute(indicator.Forecast, [][]float64{closes}, nil)
	if err != nil {
		log.Printf("[%s] Forecast failed, hold: %s", s.Name(), err.Error())
		return model.HoldDecision(s.Name(), currentPrice, time.Now().Unix())
	}

	predicted := result[0][0]
	band := SidewaysBandFactor * result[1][0]

	delta := predicted - currentPrice

	bias := BiasFlat
	if delta > band {
		bias = BiasLong
	}
	if delta < -band {
		bias = BiasShort
	}

	action := ReconcileBias(bias, account.GetPosition(bars[0].Symbol))

	return s.Builder.Build(s.Name(), action, bars, account, currentPrice)
}
