package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-futures-bot/src/model"
)

const KLineHistoryLimit = 1000
const TradeHistoryLimit = 5000
const TradeWindowMillis = int64(24 * 60 * 60 * 1000)

type MarketStorageInterface interface {
	SaveKlineHistory(kLine model.KLine)
	KLineList(symbol string, size int64) []model.KLine
	ClearKlineHistory(symbol string)
	AddTrade(trade model.Trade)
	TradeList(symbol string) []model.Trade
	SetDepth(depth model.OrderBookModel)
	GetDepth(symbol string) model.OrderBookModel
}

// MarketRepository keeps the bounded market rings in Redis: 1m bar history
// (newest first), the 24h trade ring and the latest depth snapshot.
type MarketRepository struct {
	RDB *redis.Client
	Ctx *context.Context
}

func (m *MarketRepository) klineCacheKey(symbol string) string {
	return fmt.Sprintf("futures-klines-%s", symbol)
}

func (m *MarketRepository) tradeCacheKey(symbol string) string {
	return fmt.Sprintf("futures-trades-%s", symbol)
}

func (m *MarketRepository) depthCacheKey(symbol string) string {
	return fmt.Sprintf("futures-depth-%s", symbol)
}

// SaveKlineHistory appends one bar, replacing the head when the exchange
// re-sends the same interval (reconnects must never duplicate bars).
func (m *MarketRepository) SaveKlineHistory(kLine model.KLine) {
	cacheKey := m.klineCacheKey(kLine.Symbol)

	head := m.RDB.LRange(*m.Ctx, cacheKey, 0, 0).Val()
	if len(head) > 0 {
		var last model.KLine
		if err := json.Unmarshal([]byte(head[0]), &last); err == nil && last.OpenTime.Eq(kLine.OpenTime) {
			m.RDB.LPop(*m.Ctx, cacheKey).Val()
		}
	}

	encoded, err := json.Marshal(kLine)
	if err != nil {
		log.Printf("[%s] KLine history save error: %s", kLine.Symbol, err.Error())
		return
	}

	m.RDB.LPush(*m.Ctx, cacheKey, string(encoded))
	m.RDB.LTrim(*m.Ctx, cacheKey, 0, KLineHistoryLimit-1)
}

// KLineList returns up to size bars in chronological order, skipping
// duplicates by open time.
func (m *MarketRepository) KLineList(symbol string, size int64) []model.KLine {
	res := m.RDB.LRange(*m.Ctx, m.klineCacheKey(symbol), 0, size-1).Val()
	list := make([]model.KLine, 0)

	lastOpenTime := int64(0)

	for _, str := range res {
		var dto model.KLine
		err := json.Unmarshal([]byte(str), &dto)

		// Skip errors
		if err != nil {
			continue
		}

		// Skip duplicates
		if lastOpenTime != 0 && lastOpenTime <= dto.OpenTime.Value() {
			continue
		}

		lastOpenTime = dto.OpenTime.Value()
		list = append(list, dto)
	}

	slices.Reverse(list)

	return list
}

func (m *MarketRepository) ClearKlineHistory(symbol string) {
	m.RDB.Del(*m.Ctx, m.klineCacheKey(symbol)).Val()
}

func (m *MarketRepository) AddTrade(trade model.Trade) {
	encoded, err := json.Marshal(trade)
	if err != nil {
		log.Printf("[%s] Trade save error: %s", trade.Symbol, err.Error())
		return
	}

	cacheKey := m.tradeCacheKey(trade.Symbol)
	m.RDB.LPush(*m.Ctx, cacheKey, string(encoded))
	m.RDB.LTrim(*m.Ctx, cacheKey, 0, TradeHistoryLimit-1)
}

// TradeList returns the trades of the last 24 hours, newest first.
func (m *MarketRepository) TradeList(symbol string) []model.Trade {
	res := m.RDB.LRange(*m.Ctx, m.tradeCacheKey(symbol), 0, TradeHistoryLimit-1).Val()
	list := make([]model.Trade, 0)

	windowFrom := time.Now().UnixMilli() - TradeWindowMillis

	for _, str := range res {
		var dto model.Trade
		if err := json.Unmarshal([]byte(str), &dto); err != nil {
			continue
		}

		if dto.Timestamp.Value() < windowFrom {
			break
		}

		list = append(list, dto)
	}

	return list
}

// SetDepth replaces the snapshot wholesale, latest wins.
func (m *MarketRepository) SetDepth(depth model.OrderBookModel) {
	encoded, err := json.Marshal(depth)
	if err != nil {
		log.Printf("[%s] SetDepth save error: %s", depth.Symbol, err.Error())
		return
	}

	m.RDB.Set(*m.Ctx, m.depthCacheKey(depth.Symbol), string(encoded), time.Second*30)
}

func (m *MarketRepository) GetDepth(symbol string) model.OrderBookModel {
	empty := model.OrderBookModel{
		Symbol:    symbol,
		Bids:      make([][2]model.Number, 0),
		Asks:      make([][2]model.Number, 0),
		Timestamp: time.Now().UnixMilli(),
	}

	res := m.RDB.Get(*m.Ctx, m.depthCacheKey(symbol)).Val()
	if len(res) == 0 {
		return empty
	}

	var dto model.OrderBookModel
	if err := json.Unmarshal([]byte(res), &dto); err != nil {
		log.Printf("[%s] GetDepth error: %s", symbol, err.Error())
		return empty
	}

	return dto
}
