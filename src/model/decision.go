package model

const SidewaysStrategyName = "sideways_strategy"
const TrendingStrategyName = "trending_strategy"
const BreakoutStrategyName = "breakout_strategy"
const AccelerationStrategyName = "acceleration_strategy"
const NewsDrivenStrategyName = "news_driven_strategy"

const ActionLong = "long"
const ActionShort = "short"
const ActionCloseLong = "close_long"
const ActionCloseShort = "close_short"
const ActionHold = "hold"

// Decision is produced fresh each cycle and never persisted.
type Decision struct {
	Action       string  `json:"action"`
	Size         float64 `json:"size"`
	StopLoss     float64 `json:"stopLoss"`
	TakeProfit   float64 `json:"takeProfit"`
	StrategyName string  `json:"strategyName"`
	Price        float64 `json:"price"`
	Timestamp    int64   `json:"timestamp"`
}

func (d *Decision) IsEntry() bool {
	return d.Action == ActionLong || d.Action == ActionShort
}

func (d *Decision) IsClose() bool {
	return d.Action == ActionCloseLong || d.Action == ActionCloseShort
}

func (d *Decision) GetOrderSide() string {
	switch d.Action {
	case ActionLong, ActionCloseShort:
		return TradeSideBuy
	case ActionShort, ActionCloseLong:
		return TradeSideSell
	}

	return ""
}

func HoldDecision(strategyName string, price float64, timestamp int64) Decision {
	return Decision{
		Action:       ActionHold,
		Size:         0.00,
		StrategyName: strategyName,
		Price:        price,
		Timestamp:    timestamp,
	}
}
