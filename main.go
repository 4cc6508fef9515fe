package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-futures-bot/src/client"
	"gitlab.com/open-soft/go-futures-bot/src/config"
	"gitlab.com/open-soft/go-futures-bot/src/indicator"
	"gitlab.com/open-soft/go-futures-bot/src/repository"
	"gitlab.com/open-soft/go-futures-bot/src/service/exchange"
	"gitlab.com/open-soft/go-futures-bot/src/service/strategy"
	"gitlab.com/open-soft/go-futures-bot/src/utils"
)

const TimeSyncIntervalSeconds = int64(3600)
const FeedStartRetrySeconds = int64(10)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("mysql", cfg.Database.MysqlDsn)
	if err != nil {
		log.Fatal(fmt.Sprintf("MySQL can't connect: %s", err.Error()))
	}
	defer db.Close()

	db.SetMaxIdleConns(16)
	db.SetMaxOpenConns(16)
	db.SetConnMaxLifetime(time.Minute)

	var ctx = context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Database.RedisDsn,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	timeService := &utils.TimeHelper{}
	formatter := &utils.Formatter{}

	httpClient := &client.HttpClient{}
	binance := client.NewBinanceFutures(cfg.Binance.ApiKey, cfg.Binance.ApiSecret, cfg.Binance.ApiDsn, httpClient)
	binance.SyncTime()

	go func() {
		for {
			timeService.WaitSeconds(TimeSyncIntervalSeconds)
			binance.SyncTime()
		}
	}()

	marketRepository := &repository.MarketRepository{
		RDB: rdb,
		Ctx: &ctx,
	}
	orderRepository := &repository.OrderRepository{
		DB: db,
	}

	retrier := &exchange.Retrier{
		TimeService: timeService,
		MaxRetries:  exchange.MaxRateLimitRetries,
	}

	feed := exchange.NewMarketFeed(
		cfg.Trading.Symbol,
		cfg.Binance.StreamDsn,
		binance,
		marketRepository,
		timeService,
	)

	indicators := &indicator.Provider{}

	builder := &strategy.DecisionBuilder{
		Indicators:   indicators,
		RiskSizer:    &strategy.RiskSizer{},
		RiskPerTrade: cfg.Trading.RiskPerTrade,
		Leverage:     cfg.Trading.Leverage,
	}

	minBars := int64(cfg.Trading.MinBarsRequired)

	classifier := &strategy.RegimeClassifier{
		Indicators:           indicators,
		MinBarsRequired:      minBars,
		PersistenceThreshold: cfg.Trading.RegimePersistenceThreshold,
	}

	resolver := &strategy.StrategyResolver{
		Sideways:     &strategy.SidewaysStrategy{Builder: builder, MinBarsRequired: minBars},
		Trending:     &strategy.TrendingStrategy{Builder: builder, MinBarsRequired: minBars},
		Breakout:     &strategy.BreakoutStrategy{Builder: builder, MinBarsRequired: minBars},
		Acceleration: &strategy.AccelerationStrategy{Builder: builder, MinBarsRequired: minBars},
		NewsDriven:   &strategy.NewsDrivenStrategy{Builder: builder, MinBarsRequired: minBars},
	}

	accountService := &exchange.AccountService{
		AccountAPI: binance,
	}

	executor := &exchange.OrderExecutor{
		Symbol:          cfg.Trading.Symbol,
		OrderAPI:        binance,
		Retrier:         retrier,
		Formatter:       formatter,
		OrderRepository: orderRepository,
		TimeService:     timeService,
	}

	trader := exchange.NewTraderService(
		cfg.Trading.Symbol,
		cfg.Trading.CycleInterval,
		minBars,
		feed,
		accountService,
		classifier,
		resolver,
		executor,
		timeService,
	)

	monitor := &exchange.PositionMonitor{
		Symbol:         cfg.Trading.Symbol,
		AccountService: accountService,
		TimeService:    timeService,
	}

	// Start is a no-op while the feed is running, so this loop also revives
	// the feed after its reconnect attempts are exhausted.
	go func() {
		for {
			if err := feed.Start(); err != nil {
				log.Printf("[%s] Feed start failed, retry in %ds: %s", cfg.Trading.Symbol, FeedStartRetrySeconds, err.Error())
			}
			timeService.WaitSeconds(FeedStartRetrySeconds)
		}
	}()

	go trader.Trade()
	go monitor.Monitor()

	log.Printf("[%s] Futures bot started, cycle interval %s", cfg.Trading.Symbol, cfg.Trading.CycleInterval)

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGTERM)
	<-sigChannel

	log.Printf("[%s] Shutting down", cfg.Trading.Symbol)
}
