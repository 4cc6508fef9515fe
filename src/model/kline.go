package model

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

type KLine struct {
	Symbol    string         `json:"s"`
	Open      Price          `json:"o"`
	Close     Price          `json:"c"`
	Low       Price          `json:"l"`
	High      Price          `json:"h"`
	Interval  string         `json:"i"`
	Timestamp TimestampMilli `json:"T,int"`
	OpenTime  TimestampMilli `json:"t,int"`
	Volume    Volume         `json:"v"`
	UpdatedAt int64          `json:"updatedAt"`
}

func (k *KLine) IsValid() bool {
	return k.Close > 0 && k.Open > 0 && k.High >= k.Close && k.Low <= k.Close && k.Volume >= 0
}

// Includes reports whether the trade falls into this bar's second interval.
func (k *KLine) Includes(trade Trade) bool {
	return k.OpenTime.PeriodSecondEq(trade.Timestamp)
}

// Apply extends the in-progress bar with one trade. At-least-once tolerant:
// a duplicate trade only accumulates volume.
func (k *KLine) Apply(trade Trade) {
	k.High = Price(math.Max(k.High.Value(), trade.Price))
	k.Low = Price(math.Min(k.Low.Value(), trade.Price))
	k.Close = Price(trade.Price)
	k.Volume += Volume(trade.Quantity)
	k.UpdatedAt = time.Now().Unix()
}

func NewKLineFromTrade(trade Trade, interval string) KLine {
	openTime := TimestampMilli(trade.Timestamp.GetPeriodFromSecond())

	return KLine{
		Symbol:    trade.Symbol,
		Open:      Price(trade.Price),
		Close:     Price(trade.Price),
		High:      Price(trade.Price),
		Low:       Price(trade.Price),
		Interval:  interval,
		OpenTime:  openTime,
		Timestamp: TimestampMilli(trade.Timestamp.GetPeriodToSecond()),
		Volume:    Volume(trade.Quantity),
		UpdatedAt: time.Now().Unix(),
	}
}

// KLineHistory is one row of the REST kline endpoint, sent as a JSON array.
type KLineHistory struct {
	OpenTime         TimestampMilli
	Open             string
	High             string
	Low              string
	Close            string
	Volume           string
	CloseTime        TimestampMilli
	QuoteAssetVolume string
}

func (k *KLineHistory) UnmarshalJSON(b []byte) error {
	var row []interface{}
	err := json.Unmarshal(b, &row)
	if err != nil {
		return err
	}

	if len(row) >= 7 {
		openTime, _ := row[0].(float64)
		closeTime, _ := row[6].(float64)
		k.OpenTime = TimestampMilli(int64(openTime))
		k.CloseTime = TimestampMilli(int64(closeTime))
		k.Open, _ = row[1].(string)
		k.High, _ = row[2].(string)
		k.Low, _ = row[3].(string)
		k.Close, _ = row[4].(string)
		k.Volume, _ = row[5].(string)
	}

	if len(row) >= 8 {
		k.QuoteAssetVolume, _ = row[7].(string)
	}

	return nil
}

func (k *KLineHistory) ToKLine(symbol string) KLine {
	openPrice, _ := strconv.ParseFloat(k.Open, 64)
	closePrice, _ := strconv.ParseFloat(k.Close, 64)
	highPrice, _ := strconv.ParseFloat(k.High, 64)
	lowPrice, _ := strconv.ParseFloat(k.Low, 64)
	volume, _ := strconv.ParseFloat(k.Volume, 64)

	return KLine{
		Symbol:    symbol,
		Open:      Price(openPrice),
		Close:     Price(closePrice),
		High:      Price(highPrice),
		Low:       Price(lowPrice),
		Interval:  "1m",
		OpenTime:  k.OpenTime,
		Timestamp: k.CloseTime,
		Volume:    Volume(volume),
		UpdatedAt: k.CloseTime.GetPeriodToMinute() / 1000,
	}
}
