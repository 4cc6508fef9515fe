package model

type OrderBookModel struct {
	Symbol    string      `json:"s"`
	Timestamp int64       `json:"T,int"`
	Bids      [][2]Number `json:"b"`
	Asks      [][2]Number `json:"a"`
	UpdatedAt int64       `json:"updatedAt"`
}

func (d *OrderBookModel) GetBestBid() float64 {
	if len(d.Bids) > 0 {
		return d.Bids[0][0].Value
	}

	return 0.00
}

func (d *OrderBookModel) GetBestAsk() float64 {
	if len(d.Asks) > 0 {
		return d.Asks[0][0].Value
	}

	return 0.00
}

// GetSpreadPercent returns the bid/ask spread relative to price, in percent.
func (d *OrderBookModel) GetSpreadPercent(price float64) float64 {
	bid := d.GetBestBid()
	ask := d.GetBestAsk()

	if bid == 0.00 || ask == 0.00 || price == 0.00 {
		return 0.00
	}

	return (ask - bid) * 100.00 / price
}
