package exchange_test

import (
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/go-futures-bot/src/model"
)

type TimeServiceMock struct {
	WaitedSeconds []int64
	WaitedMillis  []int64
}

func (m *TimeServiceMock) WaitSeconds(seconds int64) {
	m.WaitedSeconds = append(m.WaitedSeconds, seconds)
}
func (m *TimeServiceMock) WaitMilliseconds(milliseconds int64) {
	m.WaitedMillis = append(m.WaitedMillis, milliseconds)
}
func (m *TimeServiceMock) GetNowUnix() int64 {
	return 1700000000
}
func (m *TimeServiceMock) GetNowUnixMilli() int64 {
	return 1700000000000
}
func (m *TimeServiceMock) GetNowDateTimeString() string {
	return "2023-11-14 22:13:20"
}

type OrderAPIMock struct {
	mock.Mock
}

func (m *OrderAPIMock) PlaceMarketOrder(symbol string, side string, quantity float64, clientOrderId string) (model.FuturesOrder, error) {
	args := m.Called(symbol, side, quantity, clientOrderId)
	return args.Get(0).(model.FuturesOrder), args.Error(1)
}
func (m *OrderAPIMock) PlaceStopMarketOrder(symbol string, side string, quantity float64, stopPrice float64, clientOrderId string) (model.FuturesOrder, error) {
	args := m.Called(symbol, side, quantity, stopPrice, clientOrderId)
	return args.Get(0).(model.FuturesOrder), args.Error(1)
}
func (m *OrderAPIMock) PlaceTakeProfitMarketOrder(symbol string, side string, quantity float64, stopPrice float64, clientOrderId string) (model.FuturesOrder, error) {
	args := m.Called(symbol, side, quantity, stopPrice, clientOrderId)
	return args.Get(0).(model.FuturesOrder), args.Error(1)
}
func (m *OrderAPIMock) CancelAllOrders(symbol string) error {
	args := m.Called(symbol)
	return args.Error(0)
}
func (m *OrderAPIMock) GetOpenOrders(symbol string) ([]model.FuturesOrder, error) {
	args := m.Called(symbol)
	return args.Get(0).([]model.FuturesOrder), args.Error(1)
}
func (m *OrderAPIMock) GetSymbolPrecision(symbol string) (model.SymbolPrecision, error) {
	args := m.Called(symbol)
	return args.Get(0).(model.SymbolPrecision), args.Error(1)
}

type ExecutorMock struct {
	mock.Mock
}

func (m *ExecutorMock) ExecuteEntry(decision model.Decision) (model.FuturesOrder, error) {
	args := m.Called(decision)
	return args.Get(0).(model.FuturesOrder), args.Error(1)
}
func (m *ExecutorMock) ClosePosition(position model.Position) (model.FuturesOrder, error) {
	args := m.Called(position)
	return args.Get(0).(model.FuturesOrder), args.Error(1)
}
func (m *ExecutorMock) GetOpenOrders() ([]model.FuturesOrder, error) {
	args := m.Called()
	return args.Get(0).([]model.FuturesOrder), args.Error(1)
}
func (m *ExecutorMock) CancelAllOrders() error {
	args := m.Called()
	return args.Error(0)
}

type IndicatorProviderMock struct {
	mock.Mock
}

func (m *IndicatorProviderMock) Compute(name string, inputs [][]float64, options []float64) ([][]float64, error) {
	args := m.Called(name, inputs, options)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([][]float64), args.Error(1)
}

type PriceAPIMock struct {
	mock.Mock
}

func (m *PriceAPIMock) GetKLines(symbol string, interval string, limit int64) ([]model.KLineHistory, error) {
	args := m.Called(symbol, interval, limit)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]model.KLineHistory), args.Error(1)
}

type MarketStorageMock struct {
	Klines  []model.KLine
	Trades  []model.Trade
	Depth   model.OrderBookModel
	Cleared int
}

func (m *MarketStorageMock) SaveKlineHistory(kLine model.KLine) {
	if len(m.Klines) > 0 && m.Klines[len(m.Klines)-1].OpenTime.Eq(kLine.OpenTime) {
		m.Klines[len(m.Klines)-1] = kLine
		return
	}

	m.Klines = append(m.Klines, kLine)
}
func (m *MarketStorageMock) KLineList(symbol string, size int64) []model.KLine {
	return m.Klines
}
func (m *MarketStorageMock) ClearKlineHistory(symbol string) {
	m.Klines = nil
	m.Cleared++
}
func (m *MarketStorageMock) AddTrade(trade model.Trade) {
	m.Trades = append(m.Trades, trade)
}
func (m *MarketStorageMock) TradeList(symbol string) []model.Trade {
	return m.Trades
}
func (m *MarketStorageMock) SetDepth(depth model.OrderBookModel) {
	m.Depth = depth
}
func (m *MarketStorageMock) GetDepth(symbol string) model.OrderBookModel {
	return m.Depth
}

type OrderJournalMock struct {
	Records []model.Order
	Updated map[int64]string
}

func (m *OrderJournalMock) Create(order model.Order) (*int64, error) {
	m.Records = append(m.Records, order)
	id := int64(len(m.Records))
	return &id, nil
}
func (m *OrderJournalMock) UpdateStatus(id int64, status string) error {
	if m.Updated == nil {
		m.Updated = make(map[int64]string)
	}

	m.Updated[id] = status
	return nil
}
func (m *OrderJournalMock) GetOrders(symbol string) []model.Order {
	return m.Records
}

type FeedMock struct {
	Healthy    bool
	History    []model.KLine
	SecondBars []model.KLine
	Price      float64
}

func (m *FeedMock) Start() error {
	return nil
}
func (m *FeedMock) GetHistory(size int64) []model.KLine {
	return m.History
}
func (m *FeedMock) GetSecondBars() []model.KLine {
	return m.SecondBars
}
func (m *FeedMock) GetTrades() []model.Trade {
	return nil
}
func (m *FeedMock) GetOrderBook() model.OrderBookModel {
	return model.OrderBookModel{}
}
func (m *FeedMock) GetLastPrice() float64 {
	return m.Price
}
func (m *FeedMock) IsHealthy() bool {
	return m.Healthy
}

type AccountServiceStub struct {
	State   model.AccountState
	Err     error
	Funding float64
}

func (m *AccountServiceStub) GetAccountState() (model.AccountState, error) {
	if m.Err != nil {
		return model.AccountState{}, m.Err
	}

	return m.State, nil
}
func (m *AccountServiceStub) GetFundingRate(symbol string) float64 {
	return m.Funding
}

type StrategyStub struct {
	Decision model.Decision
}

func (m *StrategyStub) Name() string {
	return "strategy_stub"
}
func (m *StrategyStub) Analyze(bars []model.KLine, account model.AccountState, currentPrice float64) model.Decision {
	return m.Decision
}

func flatBars(symbol string, amount int, price float64, volume float64) []model.KLine {
	bars := make([]model.KLine, 0, amount)

	for i := 0; i < amount; i++ {
		openTime := int64(1700000000000 + i*60000)
		bars = append(bars, model.KLine{
			Symbol:    symbol,
			Open:      model.Price(price),
			Close:     model.Price(price),
			High:      model.Price(price),
			Low:       model.Price(price),
			Interval:  "1m",
			OpenTime:  model.TimestampMilli(openTime),
			Timestamp: model.TimestampMilli(openTime + 59999),
			Volume:    model.Volume(volume),
		})
	}

	return bars
}
