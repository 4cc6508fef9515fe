package model

const TradeSideBuy = "BUY"
const TradeSideSell = "SELL"

type Trade struct {
	TradeId      int64          `json:"t,int"`
	Price        float64        `json:"p,string"`
	Symbol       string         `json:"s"`
	Quantity     float64        `json:"q,string"`
	IsBuyerMaker bool           `json:"m,bool"` // IsBuyerMaker = true -> SELL / IsBuyerMaker = false -> BUY
	Timestamp    TimestampMilli `json:"T,int"`
}
