package model

const OrderTypeMarket = "MARKET"
const OrderTypeStopMarket = "STOP_MARKET"
const OrderTypeTakeProfitMarket = "TAKE_PROFIT_MARKET"

const OrderStatusNew = "NEW"
const OrderStatusFilled = "FILLED"
const OrderStatusCanceled = "CANCELED"
const OrderStatusClosed = "closed"
const OrderStatusOpened = "opened"

type FuturesOrder struct {
	OrderId       int64   `json:"orderId"`
	Symbol        string  `json:"symbol"`
	ClientOrderId string  `json:"clientOrderId"`
	Side          string  `json:"side"`
	Type          string  `json:"type"`
	Status        string  `json:"status"`
	OrigQty       float64 `json:"origQty,string"`
	ExecutedQty   float64 `json:"executedQty,string"`
	AvgPrice      float64 `json:"avgPrice,string"`
	StopPrice     float64 `json:"stopPrice,string"`
	ReduceOnly    bool    `json:"reduceOnly"`
}

func (o *FuturesOrder) IsEntryType() bool {
	return o.Type == OrderTypeMarket || o.Type == "LIMIT"
}

func (o *FuturesOrder) IsFilled() bool {
	return o.Status == OrderStatusFilled
}

type FuturesErrorResponse struct {
	Code    int64  `json:"code"`
	Message string `json:"msg"`
}

type SymbolPrecision struct {
	Symbol            string `json:"symbol"`
	QuantityPrecision int    `json:"quantityPrecision"`
	PricePrecision    int    `json:"pricePrecision"`
}

type ServerTime struct {
	ServerTime int64 `json:"serverTime"`
}

type FundingRate struct {
	Symbol      string         `json:"symbol"`
	FundingRate float64        `json:"fundingRate,string"`
	FundingTime TimestampMilli `json:"fundingTime"`
}

// Order is one journaled order submission (the durable trade history).
type Order struct {
	Id            int64   `json:"id"`
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"`
	Type          string  `json:"type"`
	Quantity      float64 `json:"quantity"`
	Price         float64 `json:"price"`
	StopLoss      float64 `json:"stopLoss"`
	TakeProfit    float64 `json:"takeProfit"`
	Status        string  `json:"status"`
	ClientOrderId string  `json:"clientOrderId"`
	ExternalId    *int64  `json:"externalId"`
	CreatedAt     string  `json:"createdAt"`
}
