package ats

import (
	"math/rand"
	"testing"

	"atscan/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestCategoryWeightsSumToOne(t *testing.T) {
	sum := WeightKeywords + WeightFormatting + WeightExperience + WeightEducation + WeightReadability
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestAggregateScoresIdentity(t *testing.T) {
	all100, _ := aggregateScores(types.ScoreBreakdown{
		Keywords: 100, Formatting: 100, Experience: 100, Education: 100, Readability: 100,
	})
	assert.Equal(t, 100, all100.Overall)

	all0, _ := aggregateScores(types.ScoreBreakdown{})
	assert.Equal(t, 0, all0.Overall)
}

// The overall score of any combination stays within the range spanned by
// its category scores, and always within [0,100].
func TestAggregateScoresRandomCombinations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		b := types.ScoreBreakdown{
			Keywords:    rng.Intn(101),
			Formatting:  rng.Intn(101),
			Experience:  rng.Intn(101),
			Education:   rng.Intn(101),
			Readability: rng.Intn(101),
		}
		out, anomalies := aggregateScores(b)
		assert.Empty(t, anomalies)

		lo, hi := 100, 0
		for _, s := range []int{b.Keywords, b.Formatting, b.Experience, b.Education, b.Readability} {
			if s < lo {
				lo = s
			}
			if s > hi {
				hi = s
			}
		}
		assert.GreaterOrEqual(t, out.Overall, lo)
		assert.LessOrEqual(t, out.Overall, hi)
		assert.GreaterOrEqual(t, out.Overall, 0)
		assert.LessOrEqual(t, out.Overall, 100)
	}
}

// Out-of-range inputs are clamped and reported, never propagated.
func TestAggregateScoresClampsAnomalies(t *testing.T) {
	out, anomalies := aggregateScores(types.ScoreBreakdown{
		Keywords: 150, Formatting: -20, Experience: 50, Education: 50, Readability: 50,
	})
	assert.ElementsMatch(t, []string{"keywords", "formatting"}, anomalies)
	assert.Equal(t, 100, out.Keywords)
	assert.Equal(t, 0, out.Formatting)
	assert.GreaterOrEqual(t, out.Overall, 0)
	assert.LessOrEqual(t, out.Overall, 100)
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0.4, 0},
		{0.5, 1},
		{1.5, 2},
		{2.4, 2},
		{2.5, 3},
		{99.5, 100},
		{-0.4, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundHalfUp(tt.in), "roundHalfUp(%v)", tt.in)
	}
}

func TestSummaryStatementBands(t *testing.T) {
	seen := map[string]struct{}{}
	for _, score := range []int{95, 80, 65, 45, 10} {
		s := summaryStatement(score)
		assert.NotEmpty(t, s)
		seen[s] = struct{}{}
	}
	assert.Len(t, seen, 5, "each band has a distinct statement")
}
