package exchange

import (
	"errors"
	"log"
	"sync/atomic"
	"time"

	"gitlab.com/open-soft/go-futures-bot/src/model"
	"gitlab.com/open-soft/go-futures-bot/src/repository"
	"gitlab.com/open-soft/go-futures-bot/src/service/strategy"
	"gitlab.com/open-soft/go-futures-bot/src/utils"
)

// TraderService runs the decision loop: classify the regime on the 1m
// history, dispatch the matching strategy, reconcile its decision against
// the live position and hand entries or closes to the executor. Every
// failure on the way degrades to a logged skip of the cycle, the loop
// itself never dies.
type TraderService struct {
	Symbol          string
	CycleInterval   time.Duration
	MinBarsRequired int64

	Feed           MarketFeedInterface
	AccountService AccountServiceInterface
	Classifier     *strategy.RegimeClassifier
	Resolver       *strategy.StrategyResolver
	Executor       OrderExecutorInterface
	TimeService    utils.TimeServiceInterface

	regimeState model.RegimeState
	processing  int32
}

func NewTraderService(
	symbol string,
	cycleInterval time.Duration,
	minBarsRequired int64,
	feed MarketFeedInterface,
	accountService AccountServiceInterface,
	classifier *strategy.RegimeClassifier,
	resolver *strategy.StrategyResolver,
	executor OrderExecutorInterface,
	timeService utils.TimeServiceInterface,
) *TraderService {
	return &TraderService{
		Symbol:          symbol,
		CycleInterval:   cycleInterval,
		MinBarsRequired: minBarsRequired,
		Feed:            feed,
		AccountService:  accountService,
		Classifier:      classifier,
		Resolver:        resolver,
		Executor:        executor,
		TimeService:     timeService,
		regimeState:     model.NewRegimeState(),
	}
}

func (t *TraderService) Trade() {
	for {
		t.Tick()
		t.TimeService.WaitMilliseconds(t.CycleInterval.Milliseconds())
	}
}

// Tick runs one cycle. Single flight: a cycle still in progress makes the
// next one a no-op instead of stacking up behind a slow exchange call.
func (t *TraderService) Tick() {
	if !atomic.CompareAndSwapInt32(&t.processing, 0, 1) {
		log.Printf("[%s] Previous cycle still running, skip", t.Symbol)
		return
	}
	defer atomic.StoreInt32(&t.processing, 0)

	if !t.Feed.IsHealthy() {
		log.Printf("[%s] Feed is unhealthy, skip cycle", t.Symbol)
		return
	}

	history := t.Feed.GetHistory(repository.KLineHistoryLimit)
	if int64(len(history)) < t.MinBarsRequired {
		log.Printf("[%s] %s: %d bars of %d, skip cycle", t.Symbol, model.ErrInsufficientData, len(history), t.MinBarsRequired)
		return
	}

	account, err := t.AccountService.GetAccountState()
	if err != nil {
		log.Printf("[%s] Account fetch failed, skip cycle: %s", t.Symbol, err.Error())
		return
	}

	currentPrice := t.Feed.GetLastPrice()
	if currentPrice <= 0.00 {
		log.Printf("[%s] No price yet, skip cycle", t.Symbol)
		return
	}

	t.regimeState = t.Classifier.Classify(t.Symbol, history, t.regimeState)

	activeStrategy := t.Resolver.Resolve(t.regimeState.Label)
	if activeStrategy == nil {
		log.Printf("[%s] Regime %s has no strategy, hold", t.Symbol, t.regimeState.Label)
		return
	}

	// Strategies react on the 1s bars once the ring has filled, the 1m
	// history covers the cycles before that.
	bars := t.Feed.GetSecondBars()
	if int64(len(bars)) < t.MinBarsRequired {
		bars = history
	}

	decision := activeStrategy.Analyze(bars, account, currentPrice)
	fundingRate := t.AccountService.GetFundingRate(t.Symbol)
	orderBook := t.Feed.GetOrderBook()

	log.Printf(
		"[%s] Regime %s, %s decided %s (size %f, price %f, spread %.4f%%, funding %f)",
		t.Symbol,
		t.regimeState.Label,
		decision.StrategyName,
		decision.Action,
		decision.Size,
		currentPrice,
		orderBook.GetSpreadPercent(currentPrice),
		fundingRate,
	)

	t.execute(decision, account)
}

func (t *TraderService) execute(decision model.Decision, account model.AccountState) {
	position := account.GetPosition(t.Symbol)

	if decision.IsClose() {
		if _, err := t.Executor.ClosePosition(position); err != nil {
			log.Printf("[%s] Close failed: %s", t.Symbol, err.Error())
		}

		// The follow-up entry, if the bias holds, happens next cycle
		// against a flat book.
		return
	}

	if !decision.IsEntry() {
		return
	}

	openOrders, err := t.Executor.GetOpenOrders()
	if err != nil {
		log.Printf("[%s] Open orders check failed, skip entry: %s", t.Symbol, err.Error())
		return
	}

	for _, order := range openOrders {
		if order.IsEntryType() && !order.ReduceOnly {
			log.Printf("[%s] Entry order %d still open, skip entry", t.Symbol, order.OrderId)
			return
		}
	}

	_, err = t.Executor.ExecuteEntry(decision)

	if err == nil {
		return
	}

	var partial *model.PartialBracketError
	if errors.As(err, &partial) {
		log.Printf("[%s] PARTIAL BRACKET, position is unprotected: %s", t.Symbol, partial.Error())
		return
	}

	if errors.Is(err, model.ErrInvalidOrder) {
		log.Printf("[%s] Entry rejected before submission: %s", t.Symbol, err.Error())
		return
	}

	log.Printf("[%s] Entry failed: %s", t.Symbol, err.Error())
}

func (t *TraderService) GetRegimeState() model.RegimeState {
	return t.regimeState
}
