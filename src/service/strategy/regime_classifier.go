package strategy

import (
	"log"

	"gitlab.com/open-soft/go-futures-bot/src/indicator"
	"gitlab.com/open-soft/go-futures-bot/src/model"
)

const AdxWeakTrend = 20.00
const AdxStrongTrend = 25.00
const AdxVeryStrongTrend = 40.00
const RsiOverbought = 70.00
const RsiOversold = 30.00
const RsiExtremeOverbought = 80.00
const RsiExtremeOversold = 20.00
const BandWidthNarrow = 0.02
const BandWidthWide = 0.04
const VolumeSpikeFactor = 2.00
const VolumeSpikeLookback = 5

// RegimeClassifier labels the market regime from ADX trend strength,
// normalized Bollinger band width, RSI momentum and a volume spike check.
// Rules are evaluated in a fixed order and the first match wins, so trending
// absorbs strong-momentum cases before acceleration gets a look.
//
// A candidate label only replaces the active one after winning
// PersistenceThreshold consecutive cycles.
type RegimeClassifier struct {
	Indicators           indicator.ProviderInterface
	MinBarsRequired      int64
	PersistenceThreshold int64
}

func (c *RegimeClassifier) Classify(symbol string, bars []model.KLine, state model.RegimeState) model.RegimeState {
	if int64(len(bars)) < c.MinBarsRequired {
		return state
	}

	candidate, err := c.evaluate(bars)
	if err != nil {
		log.Printf("[%s] Regime evaluation failed, keep %s: %s", symbol, state.Label, err.Error())
		return state
	}

	if candidate == state.Label {
		state.Candidate = candidate
		state.CandidateCount = 0
		return state
	}

	if candidate == state.Candidate {
		state.CandidateCount++
	} else {
		state.Candidate = candidate
		state.CandidateCount = 1
	}

	if state.CandidateCount >= c.PersistenceThreshold {
		log.Printf("[%s] Regime switched: %s -> %s", symbol, state.Label, candidate)
		state.Label = candidate
		state.CandidateCount = 0
	}

	return state
}

func (c *RegimeClassifier) evaluate(bars []model.KLine) (model.Regime, error) {
	highs, lows, closes, volumes := ExtractSeries(bars)

	adxResult, err := c.Indicators.Compute(indicator.Adx, [][]float64{highs, lows, closes}, []float64{14})
	if err != nil {
		return model.RegimeUnknown, err
	}

	rsiResult, err := c.Indicators.Compute(indicator.Rsi, [][]float64{closes}, []float64{14})
	if err != nil {
		return model.RegimeUnknown, err
	}

	bandsResult, err := c.Indicators.Compute(indicator.BBands, [][]float64{closes}, []float64{20, 2})
	if err != nil {
		return model.RegimeUnknown, err
	}

	trendStrength := adxResult[0][len(adxResult[0])-1]
	momentum := rsiResult[0][len(rsiResult[0])-1]

	upper := bandsResult[0][len(bandsResult[0])-1]
	middle := bandsResult[1][len(bandsResult[1])-1]
	lower := bandsResult[2][len(bandsResult[2])-1]

	bandWidth := 0.00
	if middle != 0.00 {
		bandWidth = (upper - lower) / middle
	}

	volumeSpike := c.hasVolumeSpike(volumes)

	strongMomentum := momentum > RsiOverbought || momentum < RsiOversold
	extremeMomentum := momentum > RsiExtremeOverbought || momentum < RsiExtremeOversold

	// First match wins
	if trendStrength < AdxWeakTrend && bandWidth < BandWidthNarrow {
		return model.RegimeSideways, nil
	}

	if trendStrength > AdxStrongTrend && strongMomentum {
		return model.RegimeTrending, nil
	}

	if volumeSpike && bandWidth > BandWidthWide {
		return model.RegimeBreakout, nil
	}

	if trendStrength < AdxWeakTrend && strongMomentum && !volumeSpike {
		return model.RegimeFalseBreakout, nil
	}

	if trendStrength > AdxVeryStrongTrend && extremeMomentum {
		return model.RegimeAcceleration, nil
	}

	return model.RegimeUnknown, nil
}

func (c *RegimeClassifier) hasVolumeSpike(volumes []float64) bool {
	if len(volumes) < VolumeSpikeLookback+1 {
		return false
	}

	latest := volumes[len(volumes)-1]

	sum := 0.00
	for _, volume := range volumes[len(volumes)-1-VolumeSpikeLookback : len(volumes)-1] {
		sum += volume
	}
	average := sum / float64(VolumeSpikeLookback)

	return latest > VolumeSpikeFactor*average
}
