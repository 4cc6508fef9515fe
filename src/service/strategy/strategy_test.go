package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/go-futures-bot/src/indicator"
	"gitlab.com/open-soft/go-futures-bot/src/model"
	"gitlab.com/open-soft/go-futures-bot/src/service/strategy"
)

func TestReconcileBias(t *testing.T) {
	assertion := assert.New(t)

	long := model.Position{Symbol: "BTCUSDT", PositionAmt: 0.50}
	short := model.Position{Symbol: "BTCUSDT", PositionAmt: -0.50}
	flat := model.Position{Symbol: "BTCUSDT", PositionAmt: 0.00}

	assertion.Equal(model.ActionLong, strategy.ReconcileBias(strategy.BiasLong, flat))
	assertion.Equal(model.ActionHold, strategy.ReconcileBias(strategy.BiasLong, long))
	assertion.Equal(model.ActionCloseShort, strategy.ReconcileBias(strategy.BiasLong, short))

	assertion.Equal(model.ActionShort, strategy.ReconcileBias(strategy.BiasShort, flat))
	assertion.Equal(model.ActionHold, strategy.ReconcileBias(strategy.BiasShort, short))
	assertion.Equal(model.ActionCloseLong, strategy.ReconcileBias(strategy.BiasShort, long))

	assertion.Equal(model.ActionCloseLong, strategy.ReconcileBias(strategy.BiasFlat, long))
	assertion.Equal(model.ActionCloseShort, strategy.ReconcileBias(strategy.BiasFlat, short))
	assertion.Equal(model.ActionHold, strategy.ReconcileBias(strategy.BiasFlat, flat))
}

func TestEveryStrategyHoldsOnShortHistory(t *testing.T) {
	assertion := assert.New(t)

	builder := &strategy.DecisionBuilder{
		Indicators:   new(IndicatorProviderMock),
		RiskSizer:    &strategy.RiskSizer{},
		RiskPerTrade: 0.01,
		Leverage:     20.00,
	}

	strategies := []strategy.StrategyInterface{
		&strategy.SidewaysStrategy{Builder: builder, MinBarsRequired: 50},
		&strategy.TrendingStrategy{Builder: builder, MinBarsRequired: 50},
		&strategy.BreakoutStrategy{Builder: builder, MinBarsRequired: 50},
		&strategy.AccelerationStrategy{Builder: builder, MinBarsRequired: 50},
		&strategy.NewsDrivenStrategy{Builder: builder, MinBarsRequired: 50},
	}

	bars := flatBars("BTCUSDT", 10, 100.00, 5.00)

	for _, item := range strategies {
		decision := item.Analyze(bars, model.AccountState{TotalMarginBalance: 10000.00}, 100.00)
		assertion.Equal(model.ActionHold, decision.Action, item.Name())
		assertion.Equal(0.00, decision.Size, item.Name())
	}
}

func TestTrendingStrategyGoesLongOnEmaCross(t *testing.T) {
	assertion := assert.New(t)

	indicators := new(IndicatorProviderMock)
	indicators.On("Compute", indicator.Ema, mock.Anything, []float64{10.00}).Return([][]float64{{105.00}}, nil)
	indicators.On("Compute", indicator.Ema, mock.Anything, []float64{50.00}).Return([][]float64{{100.00}}, nil)
	indicators.On("Compute", indicator.Atr, mock.Anything, mock.Anything).Return([][]float64{{2.00}}, nil)

	builder := &strategy.DecisionBuilder{
		Indicators:   indicators,
		RiskSizer:    &strategy.RiskSizer{},
		RiskPerTrade: 0.01,
		Leverage:     20.00,
	}

	trending := strategy.TrendingStrategy{Builder: builder, MinBarsRequired: 50}
	account := model.AccountState{TotalMarginBalance: 10000.00, AvailableBalance: 10000.00}

	decision := trending.Analyze(flatBars("BTCUSDT", 60, 100.00, 5.00), account, 100.00)

	assertion.Equal(model.ActionLong, decision.Action)
	assertion.Equal(model.TradeSideBuy, decision.GetOrderSide())
	// 10000 * 0.01 / 2 = 50, far below the margin cap of 400
	assertion.Equal(50.00, decision.Size)
	assertion.Equal(96.00, decision.StopLoss)
	assertion.Equal(106.00, decision.TakeProfit)
}

func TestTrendingStrategyClosesOpposingShortFirst(t *testing.T) {
	assertion := assert.New(t)

	indicators := new(IndicatorProviderMock)
	indicators.On("Compute", indicator.Ema, mock.Anything, []float64{10.00}).Return([][]float64{{105.00}}, nil)
	indicators.On("Compute", indicator.Ema, mock.Anything, []float64{50.00}).Return([][]float64{{100.00}}, nil)

	builder := &strategy.DecisionBuilder{
		Indicators:   indicators,
		RiskSizer:    &strategy.RiskSizer{},
		RiskPerTrade: 0.01,
		Leverage:     20.00,
	}

	trending := strategy.TrendingStrategy{Builder: builder, MinBarsRequired: 50}
	account := model.AccountState{
		TotalMarginBalance: 10000.00,
		AvailableBalance:   10000.00,
		Positions:          []model.Position{{Symbol: "BTCUSDT", PositionAmt: -0.50}},
	}

	decision := trending.Analyze(flatBars("BTCUSDT", 60, 100.00, 5.00), account, 100.00)

	assertion.Equal(model.ActionCloseShort, decision.Action)
	assertion.Equal(0.00, decision.Size)
}

func TestSidewaysStrategyHoldsInsideForecastBand(t *testing.T) {
	assertion := assert.New(t)

	indicators := new(IndicatorProviderMock)
	indicators.On("Compute", indicator.Forecast, mock.Anything, mock.Anything).Return([][]float64{{100.00}, {1.00}}, nil)

	builder := &strategy.DecisionBuilder{
		Indicators:   indicators,
		RiskSizer:    &strategy.RiskSizer{},
		RiskPerTrade: 0.01,
		Leverage:     20.00,
	}

	sideways := strategy.SidewaysStrategy{Builder: builder, MinBarsRequired: 50}
	account := model.AccountState{TotalMarginBalance: 10000.00, AvailableBalance: 10000.00}

	decision := sideways.Analyze(flatBars("BTCUSDT", 60, 100.00, 5.00), account, 100.00)

	assertion.Equal(model.ActionHold, decision.Action)
}

func TestSidewaysStrategyBuysWhenForecastEscapesBand(t *testing.T) {
	assertion := assert.New(t)

	indicators := new(IndicatorProviderMock)
	indicators.On("Compute", indicator.Forecast, mock.Anything, mock.Anything).Return([][]float64{{110.00}, {1.00}}, nil)
	indicators.On("Compute", indicator.Atr, mock.Anything, mock.Anything).Return([][]float64{{2.00}}, nil)

	builder := &strategy.DecisionBuilder{
		Indicators:   indicators,
		RiskSizer:    &strategy.RiskSizer{},
		RiskPerTrade: 0.01,
		Leverage:     20.00,
	}

	sideways := strategy.SidewaysStrategy{Builder: builder, MinBarsRequired: 50}
	account := model.AccountState{TotalMarginBalance: 10000.00, AvailableBalance: 10000.00}

	decision := sideways.Analyze(flatBars("BTCUSDT", 60, 100.00, 5.00), account, 100.00)

	assertion.Equal(model.ActionLong, decision.Action)
}

func TestBreakoutStrategyFollowsRangeEscape(t *testing.T) {
	assertion := assert.New(t)

	indicators := new(IndicatorProviderMock)
	indicators.On("Compute", indicator.Atr, mock.Anything, mock.Anything).Return([][]float64{{2.00}}, nil)

	builder := &strategy.DecisionBuilder{
		Indicators:   indicators,
		RiskSizer:    &strategy.RiskSizer{},
		RiskPerTrade: 0.01,
		Leverage:     20.00,
	}

	breakout := strategy.BreakoutStrategy{Builder: builder, MinBarsRequired: 50}
	account := model.AccountState{TotalMarginBalance: 10000.00, AvailableBalance: 10000.00}
	bars := flatBars("BTCUSDT", 60, 100.00, 5.00)

	above := breakout.Analyze(bars, account, 101.00)
	assertion.Equal(model.ActionLong, above.Action)

	below := breakout.Analyze(bars, account, 99.00)
	assertion.Equal(model.ActionShort, below.Action)

	inside := breakout.Analyze(bars, account, 100.00)
	assertion.Equal(model.ActionHold, inside.Action)
}

func TestAccelerationStrategyFadesExtremes(t *testing.T) {
	assertion := assert.New(t)

	indicators := new(IndicatorProviderMock)
	indicators.On("Compute", indicator.Rsi, mock.Anything, mock.Anything).Return([][]float64{{85.00}}, nil)
	indicators.On("Compute", indicator.Atr, mock.Anything, mock.Anything).Return([][]float64{{2.00}}, nil)

	builder := &strategy.DecisionBuilder{
		Indicators:   indicators,
		RiskSizer:    &strategy.RiskSizer{},
		RiskPerTrade: 0.01,
		Leverage:     20.00,
	}

	acceleration := strategy.AccelerationStrategy{Builder: builder, MinBarsRequired: 50}
	account := model.AccountState{TotalMarginBalance: 10000.00, AvailableBalance: 10000.00}

	decision := acceleration.Analyze(flatBars("BTCUSDT", 60, 100.00, 5.00), account, 100.00)

	assertion.Equal(model.ActionShort, decision.Action)
	assertion.Equal(model.TradeSideSell, decision.GetOrderSide())
	assertion.Equal(104.00, decision.StopLoss)
	assertion.Equal(94.00, decision.TakeProfit)
}

func TestNewsDrivenStrategyJoinsDisplacement(t *testing.T) {
	assertion := assert.New(t)

	indicators := new(IndicatorProviderMock)
	indicators.On("Compute", indicator.Atr, mock.Anything, mock.Anything).Return([][]float64{{2.00}}, nil)

	builder := &strategy.DecisionBuilder{
		Indicators:   indicators,
		RiskSizer:    &strategy.RiskSizer{},
		RiskPerTrade: 0.01,
		Leverage:     20.00,
	}

	newsDriven := strategy.NewsDrivenStrategy{Builder: builder, MinBarsRequired: 50}
	account := model.AccountState{TotalMarginBalance: 10000.00, AvailableBalance: 10000.00}
	bars := flatBars("BTCUSDT", 60, 100.00, 5.00)

	up := newsDriven.Analyze(bars, account, 103.00)
	assertion.Equal(model.ActionLong, up.Action)

	down := newsDriven.Analyze(bars, account, 97.00)
	assertion.Equal(model.ActionShort, down.Action)

	calm := newsDriven.Analyze(bars, account, 101.00)
	assertion.Equal(model.ActionHold, calm.Action)
}

func TestResolverMapsRegimesToStrategies(t *testing.T) {
	assertion := assert.New(t)

	builder := &strategy.DecisionBuilder{
		Indicators: new(IndicatorProviderMock),
		RiskSizer:  &strategy.RiskSizer{},
	}

	resolver := strategy.StrategyResolver{
		Sideways:     &strategy.SidewaysStrategy{Builder: builder},
		Trending:     &strategy.TrendingStrategy{Builder: builder},
		Breakout:     &strategy.BreakoutStrategy{Builder: builder},
		Acceleration: &strategy.AccelerationStrategy{Builder: builder},
		NewsDriven:   &strategy.NewsDrivenStrategy{Builder: builder},
	}

	assertion.Equal(model.SidewaysStrategyName, resolver.Resolve(model.RegimeSideways).Name())
	assertion.Equal(model.TrendingStrategyName, resolver.Resolve(model.RegimeTrending).Name())
	assertion.Equal(model.BreakoutStrategyName, resolver.Resolve(model.RegimeBreakout).Name())
	assertion.Equal(model.AccelerationStrategyName, resolver.Resolve(model.RegimeAcceleration).Name())
	assertion.Equal(model.NewsDrivenStrategyName, resolver.Resolve(model.RegimeNewsDriven).Name())
	assertion.Nil(resolver.Resolve(model.RegimeFalseBreakout))
	assertion.Nil(resolver.Resolve(model.RegimeUnknown))
}
