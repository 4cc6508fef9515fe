package model

type Regime string

const RegimeSideways Regime = "sideways"
const RegimeTrending Regime = "trending"
const RegimeBreakout Regime = "breakout"
const RegimeFalseBreakout Regime = "false_breakout"
const RegimeAcceleration Regime = "acceleration"
const RegimeNewsDriven Regime = "news_driven"
const RegimeUnknown Regime = "unknown"

// RegimeState carries the active regime label across classification cycles.
// The candidate has to win CandidateCount consecutive cycles before the
// active label changes (hysteresis against regime flapping).
type RegimeState struct {
	Label          Regime `json:"label"`
	Candidate      Regime `json:"candidate"`
	CandidateCount int64  `json:"candidateCount"`
}

func NewRegimeState() RegimeState {
	return RegimeState{
		Label:          RegimeUnknown,
		Candidate:      RegimeUnknown,
		CandidateCount: 0,
	}
}
