package exchange

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"gitlab.com/open-soft/go-futures-bot/src/client"
	"gitlab.com/open-soft/go-futures-bot/src/model"
	"gitlab.com/open-soft/go-futures-bot/src/repository"
	"gitlab.com/open-soft/go-futures-bot/src/utils"
)

const SecondBarLimit = 200
const SeedMaxAttempts = int64(3)
const ReconnectMaxAttempts = int64(10)
const ReconnectBaseDelayMillis = int64(1000)
const ReconnectMaxDelayMillis = int64(30000)

type MarketFeedInterface interface {
	Start() error
	GetHistory(size int64) []model.KLine
	GetSecondBars() []model.KLine
	GetTrades() []model.Trade
	GetOrderBook() model.OrderBookModel
	GetLastPrice() float64
	IsHealthy() bool
}

// MarketFeed owns the market data pipeline for one symbol: it seeds the 1m
// bar history over REST, then consumes the combined websocket stream, keeps
// an in-memory ring of 1s bars aggregated from raw trades, and supervises
// reconnects. The health flag gates the decision loop: while the feed is
// down no market data is trusted.
type MarketFeed struct {
	Symbol      string
	StreamDsn   string
	PriceAPI    client.FuturesPriceAPIInterface
	Storage     repository.MarketStorageInterface
	TimeService utils.TimeServiceInterface

	mu                sync.Mutex
	started           bool
	healthy           bool
	lastPrice         float64
	secondBars        []model.KLine
	connection        *websocket.Conn
	eventChannel      chan []byte
	disconnectChannel chan error
	consumeOnce       sync.Once
}

func NewMarketFeed(
	symbol string,
	streamDsn string,
	priceAPI client.FuturesPriceAPIInterface,
	storage repository.MarketStorageInterface,
	timeService utils.TimeServiceInterface,
) *MarketFeed {
	return &MarketFeed{
		Symbol:            symbol,
		StreamDsn:         streamDsn,
		PriceAPI:          priceAPI,
		Storage:           storage,
		TimeService:       timeService,
		secondBars:        make([]model.KLine, 0, SecondBarLimit),
		eventChannel:      make(chan []byte, 1024),
		disconnectChannel: make(chan error),
	}
}

// Start seeds the bar history and opens the stream. Calling it twice on a
// running feed is a no-op. A seeding or dial failure, or an exhausted
// reconnect, leaves the feed stopped and a fresh Start re-runs the whole
// seed/dial path.
func (f *MarketFeed) Start() error {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return nil
	}
	f.started = true
	f.mu.Unlock()

	if err := f.seedHistory(); err != nil {
		f.stop()
		return err
	}

	connection, err := client.Dial(f.streamAddress(), f.eventChannel, f.disconnectChannel)
	if err != nil {
		f.stop()
		return fmt.Errorf("%w: stream dial failed: %s", model.ErrFeedUnavailable, err.Error())
	}

	f.mu.Lock()
	f.connection = connection
	f.healthy = true
	f.mu.Unlock()

	f.consumeOnce.Do(func() {
		go f.consume()
	})
	go f.supervise()

	log.Printf("[%s] Market feed started", f.Symbol)

	return nil
}

func (f *MarketFeed) stop() {
	f.mu.Lock()
	f.started = false
	f.healthy = false
	f.mu.Unlock()
}

// seedHistory fetches the 1m seed window, backing off exponentially on any
// failure up to SeedMaxAttempts before surfacing ErrFeedUnavailable.
func (f *MarketFeed) seedHistory() error {
	var lastErr error

	for attempt := int64(0); attempt < SeedMaxAttempts; attempt++ {
		if attempt > 0 {
			delay := ReconnectBaseDelayMillis << attempt
			if delay > ReconnectMaxDelayMillis {
				delay = ReconnectMaxDelayMillis
			}
			f.TimeService.WaitMilliseconds(delay)
		}

		history, err := f.PriceAPI.GetKLines(f.Symbol, "1m", repository.KLineHistoryLimit)
		if err != nil {
			lastErr = err
			log.Printf("[%s] History seed attempt %d failed: %s", f.Symbol, attempt+1, err.Error())
			continue
		}

		// A re-seed after a restart must begin from a clean ring, the
		// head dedupe cannot repair interleaved duplicates.
		f.Storage.ClearKlineHistory(f.Symbol)
		for _, row := range history {
			f.Storage.SaveKlineHistory(row.ToKLine(f.Symbol))
		}

		log.Printf("[%s] Seeded %d bars of history", f.Symbol, len(history))

		return nil
	}

	return fmt.Errorf("%w: history seed failed: %s", model.ErrFeedUnavailable, lastErr.Error())
}

func (f *MarketFeed) streamAddress() string {
	return client.GetStreamAddress(f.StreamDsn, f.Symbol, []string{
		model.StreamSuffixKline,
		model.StreamSuffixTrade,
		model.StreamSuffixDepth,
	})
}

func (f *MarketFeed) consume() {
	for message := range f.eventChannel {
		f.Ingest(message)
	}
}

// Ingest routes one raw stream message. Unknown streams and malformed
// payloads are dropped, a broken feed message must never kill the pipeline.
func (f *MarketFeed) Ingest(message []byte) {
	var event model.StreamEvent
	if err := json.Unmarshal(message, &event); err != nil {
		return
	}

	switch {
	case strings.HasSuffix(event.Stream, model.StreamSuffixKline):
		var data model.KlineEventData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return
		}
		if !data.Kline.IsValid() {
			return
		}
		f.Storage.SaveKlineHistory(data.Kline)
	case strings.HasSuffix(event.Stream, model.StreamSuffixTrade):
		var data model.TradeEventData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return
		}
		f.Storage.AddTrade(data.Trade)
		f.applyTrade(data.Trade)
	case strings.HasSuffix(event.Stream, model.StreamSuffixDepth):
		var data model.DepthEventData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return
		}
		f.Storage.SetDepth(data.ToOrderBookModel())
	}
}

// applyTrade folds one trade into the 1s bar ring. A trade in the newest
// bar's second extends it (duplicates only accumulate volume), a newer second
// opens a bar, an older tick is applied to its bar when that bar is still in
// the ring and dropped otherwise.
func (f *MarketFeed) applyTrade(trade model.Trade) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastPrice = trade.Price

	if len(f.secondBars) > 0 {
		last := &f.secondBars[len(f.secondBars)-1]

		if last.Includes(trade) {
			last.Apply(trade)
			return
		}

		if trade.Timestamp.GetPeriodFromSecond() < last.OpenTime.Value() {
			for i := len(f.secondBars) - 2; i >= 0; i-- {
				if f.secondBars[i].Includes(trade) {
					f.secondBars[i].Apply(trade)
					return
				}
			}
			return
		}
	}

	f.secondBars = append(f.secondBars, model.NewKLineFromTrade(trade, "1s"))
	if len(f.secondBars) > SecondBarLimit {
		f.secondBars = f.secondBars[1:]
	}
}

func (f *MarketFeed) supervise() {
	for disconnectErr := range f.disconnectChannel {
		log.Printf("[%s] Feed disconnected: %s", f.Symbol, disconnectErr.Error())

		f.mu.Lock()
		f.healthy = false
		f.mu.Unlock()

		if !f.reconnect() {
			log.Printf("[%s] Feed reconnect attempts exhausted, restart required", f.Symbol)
			f.stop()
			return
		}
	}
}

func (f *MarketFeed) reconnect() bool {
	for attempt := int64(0); attempt < ReconnectMaxAttempts; attempt++ {
		delay := ReconnectBaseDelayMillis << attempt
		if delay > ReconnectMaxDelayMillis {
			delay = ReconnectMaxDelayMillis
		}

		f.TimeService.WaitMilliseconds(delay)

		connection, err := client.Dial(f.streamAddress(), f.eventChannel, f.disconnectChannel)
		if err != nil {
			log.Printf("[%s] Reconnect attempt %d failed: %s", f.Symbol, attempt+1, err.Error())
			continue
		}

		f.mu.Lock()
		f.connection = connection
		f.healthy = true
		f.mu.Unlock()

		log.Printf("[%s] Feed reconnected after %d attempts", f.Symbol, attempt+1)

		return true
	}

	return false
}

func (f *MarketFeed) GetHistory(size int64) []model.KLine {
	return f.Storage.KLineList(f.Symbol, size)
}

func (f *MarketFeed) GetSecondBars() []model.KLine {
	f.mu.Lock()
	defer f.mu.Unlock()

	bars := make([]model.KLine, len(f.secondBars))
	copy(bars, f.secondBars)

	return bars
}

func (f *MarketFeed) GetTrades() []model.Trade {
	return f.Storage.TradeList(f.Symbol)
}

func (f *MarketFeed) GetOrderBook() model.OrderBookModel {
	return f.Storage.GetDepth(f.Symbol)
}

// GetLastPrice is the newest trade price, falling back to the newest 1m close
// before the first trade arrives.
func (f *MarketFeed) GetLastPrice() float64 {
	f.mu.Lock()
	lastPrice := f.lastPrice
	f.mu.Unlock()

	if lastPrice > 0.00 {
		return lastPrice
	}

	history := f.GetHistory(1)
	if len(history) > 0 {
		return history[len(history)-1].Close.Value()
	}

	return 0.00
}

func (f *MarketFeed) IsHealthy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.healthy
}
