package exchange

import (
	"fmt"
	"log"

	"gitlab.com/open-soft/go-futures-bot/src/client"
	"gitlab.com/open-soft/go-futures-bot/src/model"
)

type AccountServiceInterface interface {
	GetAccountState() (model.AccountState, error)
	GetFundingRate(symbol string) float64
}

// AccountService fetches the account snapshot fresh on every call. Sizing
// against a stale balance is worse than skipping a cycle, so nothing here is
// cached.
type AccountService struct {
	AccountAPI client.FuturesAccountAPIInterface
}

func (a *AccountService) GetAccountState() (model.AccountState, error) {
	account, err := a.AccountAPI.GetAccount()
	if err != nil {
		return model.AccountState{}, err
	}

	if !account.IsValid() {
		return model.AccountState{}, fmt.Errorf(
			"%w: total margin balance is %.2f",
			model.ErrInvalidAccountState,
			account.TotalMarginBalance,
		)
	}

	return account, nil
}

// GetFundingRate is advisory, a failed lookup logs and reports zero.
func (a *AccountService) GetFundingRate(symbol string) float64 {
	rate, err := a.AccountAPI.GetFundingRate(symbol)
	if err != nil {
		log.Printf("[%s] Funding rate lookup failed: %s", symbol, err.Error())
		return 0.00
	}

	return rate
}
