package strategy_test

import (
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/go-futures-bot/src/model"
)

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
