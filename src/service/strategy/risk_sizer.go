package strategy

import (
	"math"
)

// RiskSizer converts a risk budget into a quantity. Position size is the risk
// budget divided by volatility, capped so the notional never exceeds 20% of
// the available balance times leverage.
type RiskSizer struct {
}

func (r *RiskSizer) Size(
	totalBalance float64,
	availableBalance float64,
	volatility float64,
	riskPerTrade float64,
	leverage float64,
	currentPrice float64,
) float64 {
	// Zero volatility or price would divide by zero, substitute 1.00
	if volatility <= 0.00 {
		volatility = 1.00
	}
	if currentPrice <= 0.00 {
		currentPrice = 1.00
	}

	riskBasedSize := (totalBalance * riskPerTrade) / volatility
	maxQuantity := (0.20 * availableBalance * leverage) / currentPrice

	quantity := math.Min(riskBasedSize, maxQuantity)

	if quantity < 0.00 {
		return 0.00
	}

	return quantity
}
