package client

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"sync"
	"time"

	"gitlab.com/open-soft/go-futures-bot/src/model"
)

const RateLimitErrorCode = -1003

type FuturesAccountAPIInterface interface {
	GetAccount() (model.AccountState, error)
	GetFundingRate(symbol string) (float64, error)
}

type FuturesOrderAPIInterface interface {
	PlaceMarketOrder(symbol string, side string, quantity float64, clientOrderId string) (model.FuturesOrder, error)
	PlaceStopMarketOrder(symbol string, side string, quantity float64, stopPrice float64, clientOrderId string) (model.FuturesOrder, error)
	PlaceTakeProfitMarketOrder(symbol string, side string, quantity float64, stopPrice float64, clientOrderId string) (model.FuturesOrder, error)
	CancelAllOrders(symbol string) error
	GetOpenOrders(symbol string) ([]model.FuturesOrder, error)
	GetSymbolPrecision(symbol string) (model.SymbolPrecision, error)
}

type FuturesPriceAPIInterface interface {
	GetKLines(symbol string, interval string, limit int64) ([]model.KLineHistory, error)
}

// BinanceFutures talks to the USD-M futures REST API. Signed endpoints apply
// the server-time offset maintained by SyncTime.
type BinanceFutures struct {
	ApiKey         string
	ApiSecret      string
	DestinationURI string
	HttpClient     HttpClientInterface

	timeOffset     int64
	precisionCache map[string]model.SymbolPrecision
	Lock           *sync.Mutex
}

func NewBinanceFutures(apiKey string, apiSecret string, destinationURI string, httpClient HttpClientInterface) *BinanceFutures {
	return &BinanceFutures{
		ApiKey:         apiKey,
		ApiSecret:      apiSecret,
		DestinationURI: destinationURI,
		HttpClient:     httpClient,
		precisionCache: make(map[string]model.SymbolPrecision),
		Lock:           &sync.Mutex{},
	}
}

// SyncTime refreshes the clock offset against exchange server time. Failure
// degrades to the previous (or zero) offset, it never blocks requests.
func (b *BinanceFutures) SyncTime() {
	response, err := b.HttpClient.Request("GET", fmt.Sprintf("%s/fapi/v1/time", b.DestinationURI), nil, nil)
	if err != nil {
		log.Printf("Time sync failed, keep offset %d ms: %s", b.GetTimeOffset(), err.Error())
		return
	}

	var serverTime model.ServerTime
	if err := json.Unmarshal(response, &serverTime); err != nil {
		log.Printf("Time sync failed, keep offset %d ms: %s", b.GetTimeOffset(), err.Error())
		return
	}

	offset := serverTime.ServerTime - time.Now().UnixMilli()
	b.Lock.Lock()
	b.timeOffset = offset
	b.Lock.Unlock()
	log.Printf("Time synchronized, offset is %d ms", offset)
}

func (b *BinanceFutures) GetTimeOffset() int64 {
	b.Lock.Lock()
	defer b.Lock.Unlock()

	return b.timeOffset
}

func (b *BinanceFutures) GetAccount() (model.AccountState, error) {
	response, err := b.signedRequest("GET", "/fapi/v2/account", url.Values{})
	if err != nil {
		return model.AccountState{}, err
	}

	var account model.AccountState
	if err := json.Unmarshal(response, &account); err != nil {
		return model.AccountState{}, err
	}

	return account, nil
}

func (b *BinanceFutures) GetSymbolPrecision(symbol string) (model.SymbolPrecision, error) {
	b.Lock.Lock()
	cached, ok := b.precisionCache[symbol]
	b.Lock.Unlock()

	if ok {
		return cached, nil
	}

	response, err := b.HttpClient.Request("GET", fmt.Sprintf("%s/fapi/v1/exchangeInfo", b.DestinationURI), nil, nil)
	if err != nil {
		return model.SymbolPrecision{}, b.mapError(err)
	}

	var exchangeInfo struct {
		Symbols []model.SymbolPrecision `json:"symbols"`
	}
	if err := json.Unmarshal(response, &exchangeInfo); err != nil {
		return model.SymbolPrecision{}, err
	}

	b.Lock.Lock()
	for _, item := range exchangeInfo.Symbols {
		b.precisionCache[item.Symbol] = item
	}
	cached, ok = b.precisionCache[symbol]
	b.Lock.Unlock()

	if !ok {
		return model.SymbolPrecision{}, errors.New(fmt.Sprintf("[%s] Symbol is not listed on the exchange", symbol))
	}

	return cached, nil
}

func (b *BinanceFutures) GetFundingRate(symbol string) (float64, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("limit", "1")

	response, err := b.HttpClient.Request(
		"GET",
		fmt.Sprintf("%s/fapi/v1/fundingRate?%s", b.DestinationURI, params.Encode()),
		nil,
		nil,
	)
	if err != nil {
		return 0.00, b.mapError(err)
	}

	var rates []model.FundingRate
	if err := json.Unmarshal(response, &rates); err != nil {
		return 0.00, err
	}

	if len(rates) == 0 {
		return 0.00, nil
	}

	return rates[len(rates)-1].FundingRate, nil
}

func (b *BinanceFutures) GetKLines(symbol string, interval string, limit int64) ([]model.KLineHistory, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("limit", strconv.FormatInt(limit, 10))

	response, err := b.HttpClient.Request(
		"GET",
		fmt.Sprintf("%s/fapi/v1/klines?%s", b.DestinationURI, params.Encode()),
		nil,
		nil,
	)
	if err != nil {
		return nil, b.mapError(err)
	}

	var history []model.KLineHistory
	if err := json.Unmarshal(response, &history); err != nil {
		return nil, err
	}

	return history, nil
}

func (b *BinanceFutures) GetOpenOrders(symbol string) ([]model.FuturesOrder, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	response, err := b.signedRequest("GET", "/fapi/v1/openOrders", params)
	if err != nil {
		return nil, err
	}

	var orders []model.FuturesOrder
	if err := json.Unmarshal(response, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (b *BinanceFutures) PlaceMarketOrder(symbol string, side string, quantity float64, clientOrderId string) (model.FuturesOrder, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", side)
	params.Set("type", model.OrderTypeMarket)
	params.Set("quantity", strconv.FormatFloat(quantity, 'f', -1, 64))
	params.Set("newClientOrderId", clientOrderId)

	return b.placeOrder(params)
}

func (b *BinanceFutures) PlaceStopMarketOrder(symbol string, side string, quantity float64, stopPrice float64, clientOrderId string) (model.FuturesOrder, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", side)
	params.Set("type", model.OrderTypeStopMarket)
	params.Set("quantity", strconv.FormatFloat(quantity, 'f', -1, 64))
	params.Set("stopPrice", strconv.FormatFloat(stopPrice, 'f', -1, 64))
	params.Set("reduceOnly", "true")
	params.Set("newClientOrderId", clientOrderId)

	return b.placeOrder(params)
}

func (b *BinanceFutures) PlaceTakeProfitMarketOrder(symbol string, side string, quantity float64, stopPrice float64, clientOrderId string) (model.FuturesOrder, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", side)
	params.Set("type", model.OrderTypeTakeProfitMarket)
	params.Set("quantity", strconv.FormatFloat(quantity, 'f', -1, 64))
	params.Set("stopPrice", strconv.FormatFloat(stopPrice, 'f', -1, 64))
	params.Set("reduceOnly", "true")
	params.Set("newClientOrderId", clientOrderId)

	return b.placeOrder(params)
}

func (b *BinanceFutures) placeOrder(params url.Values) (model.FuturesOrder, error) {
	response, err := b.signedRequest("POST", "/fapi/v1/order", params)
	if err != nil {
		return model.FuturesOrder{}, err
	}

	var order model.FuturesOrder
	if err := json.Unmarshal(response, &order); err != nil {
		return model.FuturesOrder{}, err
	}

	return order, nil
}

// CancelAllOrders is idempotent: cancelling an empty book succeeds.
func (b *BinanceFutures) CancelAllOrders(symbol string) error {
	params := url.Values{}
	params.Set("symbol", symbol)

	_, err := b.signedRequest("DELETE", "/fapi/v1/allOpenOrders", params)

	return err
}

func (b *BinanceFutures) signedRequest(method string, path string, params url.Values) ([]byte, error) {
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli()+b.GetTimeOffset(), 10))
	params.Set("recvWindow", "10000")
	params.Set("signature", b.sign(params.Encode()))

	headers := map[string]string{
		"X-MBX-APIKEY": b.ApiKey,
	}

	response, err := b.HttpClient.Request(
		method,
		fmt.Sprintf("%s%s?%s", b.DestinationURI, path, params.Encode()),
		nil,
		headers,
	)
	if err != nil {
		return nil, b.mapError(err)
	}

	return response, nil
}

// mapError converts transport failures into the executor's taxonomy: HTTP 429
// and code -1003 become ErrRateLimited, every other exchange-side rejection
// becomes ErrExchangeRejected with the exchange message attached.
func (b *BinanceFutures) mapError(err error) error {
	var httpError *HttpError
	if !errors.As(err, &httpError) {
		return err
	}

	var rejection model.FuturesErrorResponse
	_ = json.Unmarshal(httpError.Body, &rejection)

	if httpError.StatusCode == 429 || rejection.Code == RateLimitErrorCode {
		return fmt.Errorf("%w: %s", model.ErrRateLimited, rejection.Message)
	}

	return fmt.Errorf("%w: code %d, %s", model.ErrExchangeRejected, rejection.Code, rejection.Message)
}

func (b *BinanceFutures) sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(b.ApiSecret))
	mac.Write([]byte(payload))

	return fmt.Sprintf("%x", mac.Sum(nil))
}
