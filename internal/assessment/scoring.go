package assessment

import "math"

// Band weights. AutoHigh and NoGo clamp to the High weight so a stray
// escalation band reaching the weighted phase can never exceed High's pull.
const (
	weightLow    = 1.0
	weightMedium = 2.0
	weightHigh   = 3.0

	// factorWeight is the per-factor weight. All factors currently weigh the
	// same; the field stays on ParameterScore so stored results remain
	// self-describing if per-factor weights ever diverge.
	factorWeight = 1.0

	// stopScore is reported for immediate stops and auto-escalations.
	stopScore = 100.0
)

// Composite score thresholds, half-open: [0,1.5) Low, [1.5,2.1) Medium,
// [2.1,∞) High.
const (
	thresholdMedium = 1.5
	thresholdHigh   = 2.1
)

func bandWeight(band RiskBand) float64 {
	switch band {
	case BandLow:
		return weightLow
	case BandMedium:
		return weightMedium
	default:
		return weightHigh
	}
}

// bandForScore maps a composite score onto the numeric band ladder. The
// weighted phase can only ever produce Low, Medium or High.
func bandForScore(score float64) RiskBand {
	switch {
	case score >= thresholdHigh:
		return BandHigh
	case score >= thresholdMedium:
		return BandMedium
	default:
		return BandLow
	}
}

// bandForMaxWeight maps the maximum element weight of a list back to a band.
// A list whose elements all resolve to the same band aggregates to that band.
func bandForMaxWeight(max float64) RiskBand {
	switch {
	case max >= weightHigh:
		return BandHigh
	case max >= weightMedium:
		return BandMedium
	default:
		return BandLow
	}
}

// geographicalBand classifies an individual's residence status. Residents
// score Low, non-residents Medium. Unrecognised non-empty statuses score
// Medium rather than failing the assessment.
func geographicalBand(status string) RiskBand {
	switch status {
	case GeoResidentNational, GeoResidentForeign:
		return BandLow
	case GeoNonResidentNational, GeoNonResidentForeign:
		return BandMedium
	default:
		return BandMedium
	}
}

// channelBand classifies the solicitation channel. Only the literal
// face-to-face value scores Low; every other channel is Medium.
func channelBand(channel string) RiskBand {
	if channel == ChannelFaceToFace {
		return BandLow
	}
	return BandMedium
}

// scorer accumulates weighted factors for the final phase.
type scorer struct {
	params      []ParameterScore
	totalScore  float64
	totalWeight float64
}

func (s *scorer) add(name, value string, band RiskBand) {
	score := bandWeight(band)
	s.params = append(s.params, ParameterScore{
		Name:   name,
		Value:  value,
		Band:   band,
		Score:  score,
		Weight: factorWeight,
	})
	s.totalScore += score * factorWeight
	s.totalWeight += factorWeight
}

// composite returns the raw weighted average, or 0 when no factors were
// scored. Banding happens on this raw mean; only the reported score is
// rounded, so a mean just under a threshold can never round across it.
func (s *scorer) composite() float64 {
	if s.totalWeight == 0 {
		return 0
	}
	return s.totalScore / s.totalWeight
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
