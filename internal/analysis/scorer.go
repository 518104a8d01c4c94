package analysis

// Risk tiers derived from the suspicion score. The tier is computed for
// collaborators on demand and never stored on a Result.
const (
	RiskClean  = "clean"
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Score aggregates detections into a Summary.
//
// Each detection contributes its severity weight (high 1.0, medium 0.6,
// low 0.3) to a raw sum, which is normalized to [0,1) with the saturating
// curve 1 - 1/(1 + 0.5*raw). The curve is strictly increasing in raw, so
// adding a detection never decreases the score; a single low-severity hit
// lands around 0.13 while a handful of high-severity hits approach 1.0
// without reaching it.
func Score(detections []Detection) Summary {
	patternCount := make(map[string]int)
	raw := 0.0
	for _, d := range detections {
		patternCount[d.PatternName]++
		raw += d.Severity.Weight()
	}

	score := 0.0
	if raw > 0 {
		score = 1 - 1/(1+0.5*raw)
	}

	return Summary{
		TotalDetections: len(detections),
		PatternCount:    patternCount,
		SuspicionScore:  score,
	}
}

// RiskLevel maps a suspicion score to a discrete risk tier:
// score > 0.7 is high, > 0.4 medium, > 0.1 low, anything else clean.
func RiskLevel(score float64) string {
	switch {
	case score > 0.7:
		return RiskHigh
	case score > 0.4:
		return RiskMedium
	case score > 0.1:
		return RiskLow
	default:
		return RiskClean
	}
}
