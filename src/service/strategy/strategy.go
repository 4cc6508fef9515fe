package strategy

import (
	"log"
	"time"

	"gitlab.com/open-soft/go-futures-bot/src/indicator"
	"gitlab.com/open-soft/go-futures-bot/src/model"
)

const BiasLong = "long"
const BiasShort = "short"
const BiasFlat = "flat"

type StrategyInterface interface {
	Name() string
	Analyze(bars []model.KLine, account model.AccountState, currentPrice float64) model.Decision
}

// ReconcileBias maps a desired directional bias against the current position
// sign. A bias against the held side closes it and nothing more: the entry in
// the new direction waits for a later cycle once the book is flat.
func ReconcileBias(bias string, position model.Position) string {
	switch bias {
	case BiasLong:
		if position.IsLong() {
			return model.ActionHold
		}
		if position.IsShort() {
			return model.ActionCloseShort
		}
		return model.ActionLong
	case BiasShort:
		if position.IsShort() {
			return model.ActionHold
		}
		if position.IsLong() {
			return model.ActionCloseLong
		}
		return model.ActionShort
	case BiasFlat:
		if position.IsLong() {
			return model.ActionCloseLong
		}
		if position.IsShort() {
			return model.ActionCloseShort
		}
	}

	return model.ActionHold
}

// DecisionBuilder turns a reconciled action into a sized decision with
// ATR-derived bracket prices. An ATR failure degrades to 1% of price.
type DecisionBuilder struct {
	Indicators   indicator.ProviderInterface
	RiskSizer    *RiskSizer
	RiskPerTrade float64
	Leverage     float64
}

func (b *DecisionBuilder) Build(
	strategyName string,
	action string,
	bars []model.KLine,
	account model.AccountState,
	currentPrice float64,
) model.Decision {
	decision := model.Decision{
		Action:       action,
		Size:         0.00,
		StrategyName: strategyName,
		Price:        currentPrice,
		Timestamp:    time.Now().Unix(),
	}

	if !decision.IsEntry() {
		return decision
	}

	atr := b.AtrOrFallback(strategyName, bars, currentPrice, 14)

	decision.Size = b.RiskSizer.Size(
		account.TotalMarginBalance,
		account.AvailableBalance,
		atr,
		b.RiskPerTrade,
		b.Leverage,
		currentPrice,
	)

	stopDistance := 2.00 * atr
	takeDistance := 3.00 * atr

	if action == model.ActionLong {
		decision.StopLoss = currentPrice - stopDistance
		decision.TakeProfit = currentPrice + takeDistance
	} else {
		decision.StopLoss = currentPrice + stopDistance
		decision.TakeProfit = currentPrice - takeDistance
	}

	return decision
}

func (b *DecisionBuilder) AtrOrFallback(strategyName string, bars []model.KLine, currentPrice float64, length float64) float64 {
	highs, lows, closes, _ := ExtractSeries(bars)

	result, err := b.Indicators.Compute(indicator.Atr, [][]float64{highs, lows, closes}, []float64{length})
	if err != nil || len(result[0]) == 0 {
		log.Printf("[%s] ATR failed, fallback to 1%% of price: %v", strategyName, err)
		return currentPrice * 0.01
	}

	atr := result[0][len(result[0])-1]
	if atr <= 0.00 {
		return currentPrice * 0.01
	}

	return atr
}

func ExtractSeries(bars []model.KLine) (highs []float64, lows []float64, closes []float64, volumes []float64) {
	highs = make([]float64, 0, len(bars))
	lows = make([]float64, 0, len(bars))
	closes = make([]float64, 0, len(bars))
	volumes = make([]float64, 0, len(bars))

	for _, bar := range bars {
		highs = append(highs, bar.High.Value())
		lows = append(lows, bar.Low.Value())
		closes = append(closes, bar.Close.Value())
		volumes = append(volumes, bar.Volume.Value())
	}

	return highs, lows, closes, volumes
}

// StrategyResolver selects the strategy for the active regime. Regimes with
// no registered strategy (false_breakout, unknown) resolve to nil and the
// caller holds.
type StrategyResolver struct {
	Sideways     StrategyInterface
	Trending     StrategyInterface
	Breakout     StrategyInterface
	Acceleration StrategyInterface
	NewsDriven   StrategyInterface
}

func (r *StrategyResolver) Resolve(regime model.Regime) StrategyInterface {
	switch regime {
	case model.RegimeSideways:
		return r.Sideways
	case model.RegimeTrending:
		return r.Trending
	case model.RegimeBreakout:
		return r.Breakout
	case model.RegimeAcceleration:
		return r.Acceleration
	case model.RegimeNewsDriven:
		return r.NewsDriven
	}

	return nil
}
