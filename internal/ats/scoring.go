package ats

import (
	"math"

	"atscan/internal/types"
)

// roundHalfUp rounds to the nearest integer with halves rounding up.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// clampScore forces a score into [0,100].
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// aggregateScores computes the weighted overall score from the five
// category scores. Out-of-range inputs are clamped first and returned as
// anomaly labels so the caller can log them; they never become errors.
func aggregateScores(b types.ScoreBreakdown) (types.ScoreBreakdown, []string) {
	var anomalies []string
	clampWith := func(name string, v int) int {
		c := clampScore(v)
		if c != v {
			anomalies = append(anomalies, name)
		}
		return c
	}
	b.Keywords = clampWith("keywords", b.Keywords)
	b.Formatting = clampWith("formatting", b.Formatting)
	b.Experience = clampWith("experience", b.Experience)
	b.Education = clampWith("education", b.Education)
	b.Readability = clampWith("readability", b.Readability)

	b.Overall = roundHalfUp(
		WeightKeywords*float64(b.Keywords) +
			WeightFormatting*float64(b.Formatting) +
			WeightExperience*float64(b.Experience) +
			WeightEducation*float64(b.Education) +
			WeightReadability*float64(b.Readability))
	return b, anomalies
}

// summaryStatement maps the overall score into one of the fixed assessment
// bands. Deterministic so repeated runs produce identical results.
func summaryStatement(overall int) string {
	switch {
	case overall >= 90:
		return "Excellent ATS compatibility. This resume should pass automated screening for most positions."
	case overall >= 75:
		return "Good ATS compatibility. A few targeted improvements would strengthen automated screening results."
	case overall >= 60:
		return "Fair ATS compatibility. Several issues are likely to hurt automated screening results."
	case overall >= 40:
		return "Poor ATS compatibility. Significant changes are needed before this resume will screen well."
	default:
		return "Very poor ATS compatibility. This resume is unlikely to pass automated screening without a rework."
	}
}
