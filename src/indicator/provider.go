package indicator

import (
	"fmt"
	"math"

	"gitlab.com/open-soft/go-futures-bot/src/model"
)

const Sma = "sma"
const Ema = "ema"
const Rsi = "rsi"
const Atr = "atr"
const Adx = "adx"
const BBands = "bbands"
const Forecast = "forecast"

// ProviderInterface is the indicator computation boundary. Implementations
// may fail for any reason; callers substitute documented fallbacks and go on.
type ProviderInterface interface {
	Compute(name string, inputs [][]float64, options []float64) ([][]float64, error)
}

type Provider struct {
}

func (p *Provider) Compute(name string, inputs [][]float64, options []float64) ([][]float64, error) {
	switch name {
	case Sma:
		if err := requireInputs(inputs, 1); err != nil {
			return nil, err
		}
		series, err := sma(inputs[0], period(options, 0, 14))
		if err != nil {
			return nil, err
		}
		return [][]float64{series}, nil
	case Ema:
		if err := requireInputs(inputs, 1); err != nil {
			return nil, err
		}
		series, err := ema(inputs[0], period(options, 0, 14))
		if err != nil {
			return nil, err
		}
		return [][]float64{series}, nil
	case Rsi:
		if err := requireInputs(inputs, 1); err != nil {
			return nil, err
		}
		series, err := rsi(inputs[0], period(options, 0, 14))
		if err != nil {
			return nil, err
		}
		return [][]float64{series}, nil
	case Atr:
		if err := requireInputs(inputs, 3); err != nil {
			return nil, err
		}
		series, err := atr(inputs[0], inputs[1], inputs[2], period(options, 0, 14))
		if err != nil {
			return nil, err
		}
		return [][]float64{series}, nil
	case Adx:
		if err := requireInputs(inputs, 3); err != nil {
			return nil, err
		}
		series, err := adx(inputs[0], inputs[1], inputs[2], period(options, 0, 14))
		if err != nil {
			return nil, err
		}
		return [][]float64{series}, nil
	case BBands:
		if err := requireInputs(inputs, 1); err != nil {
			return nil, err
		}
		deviations := 2.00
		if len(options) > 1 && options[1] > 0 {
			deviations = options[1]
		}
		return bbands(inputs[0], period(options, 0, 20), deviations)
	case Forecast:
		if err := requireInputs(inputs, 1); err != nil {
			return nil, err
		}
		return forecast(inputs[0])
	}

	return nil, fmt.Errorf("%w: unknown indicator %s", model.ErrIndicatorFailure, name)
}

func requireInputs(inputs [][]float64, amount int) error {
	if len(inputs) < amount {
		return fmt.Errorf("%w: expected %d input series, got %d", model.ErrIndicatorFailure, amount, len(inputs))
	}

	return nil
}

func period(options []float64, index int, fallback int) int {
	if len(options) > index && options[index] > 0 {
		return int(options[index])
	}

	return fallback
}

func sma(values []float64, length int) ([]float64, error) {
	if len(values) < length || length < 1 {
		return nil, fmt.Errorf("%w: sma needs %d values, got %d", model.ErrIndicatorFailure, length, len(values))
	}

	result := make([]float64, 0, len(values)-length+1)
	sum := 0.00

	for i, value := range values {
		sum += value
		if i >= length {
			sum -= values[i-length]
		}
		if i >= length-1 {
			result = append(result, sum/float64(length))
		}
	}

	return result, nil
}

func ema(values []float64, length int) ([]float64, error) {
	if len(values) < length || length < 1 {
		return nil, fmt.Errorf("%w: ema needs %d values, got %d", model.ErrIndicatorFailure, length, len(values))
	}

	multiplier := 2.00 / (float64(length) + 1.00)
	result := make([]float64, 0, len(values)-length+1)

	seed := 0.00
	for _, value := range values[0:length] {
		seed += value
	}
	current := seed / float64(length)
	result = append(result, current)

	for _, value := range values[length:] {
		current = (value-current)*multiplier + current
		result = append(result, current)
	}

	return result, nil
}

func rsi(values []float64, length int) ([]float64, error) {
	if len(values) < length+1 {
		return nil, fmt.Errorf("%w: rsi needs %d values, got %d", model.ErrIndicatorFailure, length+1, len(values))
	}

	gains := 0.00
	losses := 0.00

	for i := 1; i <= length; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(length)
	avgLoss := losses / float64(length)
	result := make([]float64, 0, len(values)-length)
	result = append(result, rsiValue(avgGain, avgLoss))

	for i := length + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		gain := 0.00
		loss := 0.00
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		avgGain = (avgGain*float64(length-1) + gain) / float64(length)
		avgLoss = (avgLoss*float64(length-1) + loss) / float64(length)
		result = append(result, rsiValue(avgGain, avgLoss))
	}

	return result, nil
}

func rsiValue(avgGain float64, avgLoss float64) float64 {
	if avgLoss == 0.00 {
		return 100.00
	}

	return 100.00 - 100.00/(1.00+avgGain/avgLoss)
}

func trueRanges(highs []float64, lows []float64, closes []float64) []float64 {
	result := make([]float64, 0, len(highs))

	for i := range highs {
		if i == 0 {
			result = append(result, highs[i]-lows[i])
			continue
		}

		trueRange := math.Max(
			highs[i]-lows[i],
			math.Max(math.Abs(highs[i]-closes[i-1]), math.Abs(lows[i]-closes[i-1])),
		)
		result = append(result, trueRange)
	}

	return result
}

func atr(highs []float64, lows []float64, closes []float64, length int) ([]float64, error) {
	if len(highs) < length+1 || len(highs) != len(lows) || len(highs) != len(closes) {
		return nil, fmt.Errorf("%w: atr needs %d aligned values, got %d", model.ErrIndicatorFailure, length+1, len(highs))
	}

	ranges := trueRanges(highs, lows, closes)

	seed := 0.00
	for _, trueRange := range ranges[1 : length+1] {
		seed += trueRange
	}
	current := seed / float64(length)

	result := make([]float64, 0, len(ranges)-length)
	result = append(result, current)

	for _, trueRange := range ranges[length+1:] {
		current = (current*float64(length-1) + trueRange) / float64(length)
		result = append(result, current)
	}

	return result, nil
}

func adx(highs []float64, lows []float64, closes []float64, length int) ([]float64, error) {
	if len(highs) < 2*length+1 || len(highs) != len(lows) || len(highs) != len(closes) {
		return nil, fmt.Errorf("%w: adx needs %d aligned values, got %d", model.ErrIndicatorFailure, 2*length+1, len(highs))
	}

	ranges := trueRanges(highs, lows, closes)

	trSum := 0.00
	plusSum := 0.00
	minusSum := 0.00

	plusDMs := make([]float64, len(highs))
	minusDMs := make([]float64, len(highs))

	for i := 1; i < len(highs); i++ {
		upMove := highs[i] - highs[i-1]
		downMove := lows[i-1] - lows[i]

		if upMove > downMove && upMove > 0 {
			plusDMs[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDMs[i] = downMove
		}
	}

	for i := 1; i <= length; i++ {
		trSum += ranges[i]
		plusSum += plusDMs[i]
		minusSum += minusDMs[i]
	}

	dxs := make([]float64, 0, len(highs)-length)
	dxs = append(dxs, dxValue(plusSum, minusSum, trSum))

	for i := length + 1; i < len(highs); i++ {
		trSum = trSum - trSum/float64(length) + ranges[i]
		plusSum = plusSum - plusSum/float64(length) + plusDMs[i]
		minusSum = minusSum - minusSum/float64(length) + minusDMs[i]
		dxs = append(dxs, dxValue(plusSum, minusSum, trSum))
	}

	seed := 0.00
	for _, dx := range dxs[0:length] {
		seed += dx
	}
	current := seed / float64(length)

	result := make([]float64, 0, len(dxs)-length+1)
	result = append(result, current)

	for _, dx := range dxs[length:] {
		current = (current*float64(length-1) + dx) / float64(length)
		result = append(result, current)
	}

	return result, nil
}

func dxValue(plusSum float64, minusSum float64, trSum float64) float64 {
	if trSum == 0.00 {
		return 0.00
	}

	plusDI := 100.00 * plusSum / trSum
	minusDI := 100.00 * minusSum / trSum

	if plusDI+minusDI == 0.00 {
		return 0.00
	}

	return 100.00 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
}

func bbands(values []float64, length int, deviations float64) ([][]float64, error) {
	middle, err := sma(values, length)
	if err != nil {
		return nil, err
	}

	upper := make([]float64, len(middle))
	lower := make([]float64, len(middle))

	for i := range middle {
		variance := 0.00
		window := values[i : i+length]
		for _, value := range window {
			diff := value - middle[i]
			variance += diff * diff
		}
		stdDev := math.Sqrt(variance / float64(length))
		upper[i] = middle[i] + deviations*stdDev
		lower[i] = middle[i] - deviations*stdDev
	}

	return [][]float64{upper, middle, lower}, nil
}

// forecast fits a least-squares line through the series and projects one step
// ahead, returning the projection and the standard error of the residuals.
func forecast(values []float64) ([][]float64, error) {
	amount := float64(len(values))
	if len(values) < 10 {
		return nil, fmt.Errorf("%w: forecast needs 10 values, got %d", model.ErrIndicatorFailure, len(values))
	}

	sumX := 0.00
	sumY := 0.00
	sumXY := 0.00
	sumXX := 0.00

	for i, value := range values {
		x := float64(i)
		sumX += x
		sumY += value
		sumXY += x * value
		sumXX += x * x
	}

	denominator := amount*sumXX - sumX*sumX
	if denominator == 0.00 {
		return nil, fmt.Errorf("%w: degenerate forecast input", model.ErrIndicatorFailure)
	}

	slope := (amount*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / amount

	residualSum := 0.00
	for i, value := range values {
		fitted := intercept + slope*float64(i)
		residualSum += (value - fitted) * (value - fitted)
	}
	stdError := math.Sqrt(residualSum / (amount - 2.00))

	predicted := intercept + slope*amount

	return [][]float64{{predicted}, {stdError}}, nil
}
