package utils

import (
	"math"
)

type FormatterInterface interface {
	FormatQuantity(precision int, quantity float64) float64
	FormatPrice(precision int, price float64) float64
	ToFixed(num float64, precision int) float64
}

type Formatter struct {
}

// FormatQuantity truncates the quantity to the exchange quantity precision.
// Truncation, not rounding: rounding up can exceed the available margin.
func (m *Formatter) FormatQuantity(precision int, quantity float64) float64 {
	if precision < 0 {
		precision = 0
	}

	ratio := math.Pow(10, float64(precision))
	return math.Floor(quantity*ratio) / ratio
}

func (m *Formatter) FormatPrice(precision int, price float64) float64 {
	return m.ToFixed(price, precision)
}

func (m *Formatter) Round(num float64) int {
	return int(num + math.Copysign(0.5, num))
}

func (m *Formatter) ToFixed(num float64, precision int) float64 {
	output := math.Pow(10, float64(precision))
	return float64(m.Round(num*output)) / output
}
