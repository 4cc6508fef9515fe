package exchange

import (
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"
	"gitlab.com/open-soft/go-futures-bot/src/client"
	"gitlab.com/open-soft/go-futures-bot/src/model"
	"gitlab.com/open-soft/go-futures-bot/src/repository"
	"gitlab.com/open-soft/go-futures-bot/src/utils"
)

const BracketLegStopLoss = "stop_loss"
const BracketLegTakeProfit = "take_profit"

type OrderExecutorInterface interface {
	ExecuteEntry(decision model.Decision) (model.FuturesOrder, error)
	ClosePosition(position model.Position) (model.FuturesOrder, error)
	GetOpenOrders() ([]model.FuturesOrder, error)
	CancelAllOrders() error
}

// OrderExecutor submits decisions to the exchange. Entries are market orders
// wrapped with reduce-only stop loss and take profit legs, quantities and
// prices are snapped to the symbol precision, and every submission is
// journaled. Rate limited calls go through the retrier.
type OrderExecutor struct {
	Symbol          string
	OrderAPI        client.FuturesOrderAPIInterface
	Retrier         RetrierInterface
	Formatter       utils.FormatterInterface
	OrderRepository repository.OrderStorageInterface
	TimeService     utils.TimeServiceInterface

	// entryJournalId is the journal row of the live entry, written on entry
	// and closed out on ClosePosition. The trader's single flight cycle is
	// the only writer.
	entryJournalId *int64
}

func (e *OrderExecutor) ExecuteEntry(decision model.Decision) (model.FuturesOrder, error) {
	if !decision.IsEntry() {
		return model.FuturesOrder{}, fmt.Errorf("%w: action %s is not an entry", model.ErrInvalidOrder, decision.Action)
	}

	if decision.Size <= 0.00 || decision.Price <= 0.00 {
		return model.FuturesOrder{}, fmt.Errorf(
			"%w: size %f at price %f",
			model.ErrInvalidOrder,
			decision.Size,
			decision.Price,
		)
	}

	if !e.bracketIsSane(decision) {
		return model.FuturesOrder{}, fmt.Errorf(
			"%w: bracket [%f, %f] does not straddle price %f",
			model.ErrInvalidOrder,
			decision.StopLoss,
			decision.TakeProfit,
			decision.Price,
		)
	}

	precision, err := e.OrderAPI.GetSymbolPrecision(e.Symbol)
	if err != nil {
		return model.FuturesOrder{}, err
	}

	quantity := e.Formatter.FormatQuantity(precision.QuantityPrecision, decision.Size)
	if quantity <= 0.00 {
		return model.FuturesOrder{}, fmt.Errorf("%w: size %f rounds to zero", model.ErrInvalidOrder, decision.Size)
	}

	stopLoss := e.Formatter.FormatPrice(precision.PricePrecision, decision.StopLoss)
	takeProfit := e.Formatter.FormatPrice(precision.PricePrecision, decision.TakeProfit)

	side := decision.GetOrderSide()

	// One client order id per logical order, reused across rate limit
	// retries so a resubmission stays idempotent on the exchange side.
	entryClientOrderId := uuid.New().String()

	var entry model.FuturesOrder
	err = e.Retrier.Retry(e.Symbol, func() error {
		order, placeErr := e.OrderAPI.PlaceMarketOrder(e.Symbol, side, quantity, entryClientOrderId)
		if placeErr != nil {
			return placeErr
		}
		entry = order
		return nil
	})

	if err != nil {
		return model.FuturesOrder{}, err
	}

	e.entryJournalId = e.journal(entry, decision.Price, stopLoss, takeProfit, model.OrderStatusOpened)
	log.Printf("[%s] Entry %s %f placed by %s, order %d", e.Symbol, side, quantity, decision.StrategyName, entry.OrderId)

	if !entry.IsFilled() {
		log.Printf("[%s] Entry order %d not filled yet, status %s", e.Symbol, entry.OrderId, entry.Status)
	}

	closeSide := oppositeSide(side)
	failedLegs := make([]string, 0)
	legErrors := make([]error, 0)

	stopClientOrderId := uuid.New().String()
	err = e.Retrier.Retry(e.Symbol, func() error {
		_, legErr := e.OrderAPI.PlaceStopMarketOrder(e.Symbol, closeSide, quantity, stopLoss, stopClientOrderId)
		return legErr
	})
	if err != nil {
		failedLegs = append(failedLegs, BracketLegStopLoss)
		legErrors = append(legErrors, err)
	}

	takeProfitClientOrderId := uuid.New().String()
	err = e.Retrier.Retry(e.Symbol, func() error {
		_, legErr := e.OrderAPI.PlaceTakeProfitMarketOrder(e.Symbol, closeSide, quantity, takeProfit, takeProfitClientOrderId)
		return legErr
	})
	if err != nil {
		failedLegs = append(failedLegs, BracketLegTakeProfit)
		legErrors = append(legErrors, err)
	}

	if len(failedLegs) > 0 {
		return entry, &model.PartialBracketError{
			Entry:      entry,
			FailedLegs: failedLegs,
			LegErrors:  legErrors,
		}
	}

	return entry, nil
}

// ClosePosition cancels the resting bracket legs first, then flattens the
// position with a market order.
func (e *OrderExecutor) ClosePosition(position model.Position) (model.FuturesOrder, error) {
	if position.IsFlat() {
		return model.FuturesOrder{}, fmt.Errorf("%w: no position to close", model.ErrInvalidOrder)
	}

	precision, err := e.OrderAPI.GetSymbolPrecision(e.Symbol)
	if err != nil {
		return model.FuturesOrder{}, err
	}

	if err := e.CancelAllOrders(); err != nil {
		return model.FuturesOrder{}, err
	}

	side := model.TradeSideSell
	if position.IsShort() {
		side = model.TradeSideBuy
	}

	quantity := e.Formatter.FormatQuantity(precision.QuantityPrecision, math.Abs(position.PositionAmt))
	closeClientOrderId := uuid.New().String()

	var order model.FuturesOrder
	err = e.Retrier.Retry(e.Symbol, func() error {
		placed, placeErr := e.OrderAPI.PlaceMarketOrder(e.Symbol, side, quantity, closeClientOrderId)
		if placeErr != nil {
			return placeErr
		}
		order = placed
		return nil
	})

	if err != nil {
		return model.FuturesOrder{}, err
	}

	e.journal(order, position.EntryPrice, 0.00, 0.00, model.OrderStatusClosed)

	if e.entryJournalId != nil {
		if updateErr := e.OrderRepository.UpdateStatus(*e.entryJournalId, model.OrderStatusClosed); updateErr != nil {
			log.Printf("[%s] Journal status update failed: %s", e.Symbol, updateErr.Error())
		}
		e.entryJournalId = nil
	}

	log.Printf("[%s] Position closed: %s %f, order %d", e.Symbol, side, quantity, order.OrderId)

	return order, nil
}

func (e *OrderExecutor) GetOpenOrders() ([]model.FuturesOrder, error) {
	var orders []model.FuturesOrder

	err := e.Retrier.Retry(e.Symbol, func() error {
		list, listErr := e.OrderAPI.GetOpenOrders(e.Symbol)
		if listErr != nil {
			return listErr
		}
		orders = list
		return nil
	})

	return orders, err
}

func (e *OrderExecutor) CancelAllOrders() error {
	return e.Retrier.Retry(e.Symbol, func() error {
		return e.OrderAPI.CancelAllOrders(e.Symbol)
	})
}

func (e *OrderExecutor) bracketIsSane(decision model.Decision) bool {
	if decision.Action == model.ActionLong {
		return decision.StopLoss < decision.Price && decision.TakeProfit > decision.Price
	}

	return decision.StopLoss > decision.Price && decision.TakeProfit < decision.Price
}

// journal writes one lifecycle row and returns its id, nil when the write
// failed. The status column tracks the position lifecycle, not the raw
// exchange order status.
func (e *OrderExecutor) journal(order model.FuturesOrder, price float64, stopLoss float64, takeProfit float64, status string) *int64 {
	externalId := order.OrderId

	id, err := e.OrderRepository.Create(model.Order{
		Symbol:        e.Symbol,
		Side:          order.Side,
		Type:          order.Type,
		Quantity:      order.OrigQty,
		Price:         price,
		StopLoss:      stopLoss,
		TakeProfit:    takeProfit,
		Status:        status,
		ClientOrderId: order.ClientOrderId,
		ExternalId:    &externalId,
		CreatedAt:     e.TimeService.GetNowDateTimeString(),
	})

	if err != nil {
		log.Printf("[%s] Order journal write failed: %s", e.Symbol, err.Error())
		return nil
	}

	return id
}

func oppositeSide(side string) string {
	if side == model.TradeSideBuy {
		return model.TradeSideSell
	}

	return model.TradeSideBuy
}
