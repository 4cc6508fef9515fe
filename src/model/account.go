package model

type Position struct {
	Symbol           string  `json:"symbol"`
	PositionAmt      float64 `json:"positionAmt,string"`
	EntryPrice       float64 `json:"entryPrice,string"`
	UnrealizedProfit float64 `json:"unRealizedProfit,string"`
	Leverage         float64 `json:"leverage,string"`
}

func (p *Position) IsLong() bool {
	return p.PositionAmt > 0
}

func (p *Position) IsShort() bool {
	return p.PositionAmt < 0
}

func (p *Position) IsFlat() bool {
	return p.PositionAmt == 0
}

// AccountState is the exchange-owned account snapshot. It is re-fetched every
// cycle and never cached across cycles.
type AccountState struct {
	TotalMarginBalance float64    `json:"totalMarginBalance,string"`
	AvailableBalance   float64    `json:"availableBalance,string"`
	Positions          []Position `json:"positions"`
}

func (a *AccountState) GetPosition(symbol string) Position {
	for _, position := range a.Positions {
		if position.Symbol == symbol {
			return position
		}
	}

	return Position{Symbol: symbol, PositionAmt: 0.00}
}

func (a *AccountState) IsValid() bool {
	return a.TotalMarginBalance > 0.00
}
