package model

import "encoding/json"

const StreamSuffixKline = "@kline_1m"
const StreamSuffixDepth = "@depth@100ms"
const StreamSuffixTrade = "@trade"

// StreamEvent is the combined-stream envelope: {"stream": "...", "data": {...}}.
// Unknown streams are ignored by the consumer.
type StreamEvent struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

type KlineEventData struct {
	Symbol string `json:"s"`
	Kline  KLine  `json:"k"`
}

type TradeEventData struct {
	Trade
}

type DepthEventData struct {
	Symbol    string      `json:"s"`
	Timestamp int64       `json:"T,int"`
	Bids      [][2]Number `json:"b"`
	Asks      [][2]Number `json:"a"`
}

func (d *DepthEventData) ToOrderBookModel() OrderBookModel {
	return OrderBookModel{
		Symbol:    d.Symbol,
		Timestamp: d.Timestamp,
		Bids:      d.Bids,
		Asks:      d.Asks,
	}
}
