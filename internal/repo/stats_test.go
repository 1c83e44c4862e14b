package repo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopulationStdDev(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "empty", values: nil, want: 0},
		{name: "single sample", values: []float64{42}, want: 0},
		{name: "constant", values: []float64{3, 3, 3}, want: 0},
		{name: "textbook", values: []float64{2, 4, 4, 4, 5, 5, 7, 9}, want: 2},
		{name: "two points", values: []float64{1, 3}, want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, populationStdDev(tc.values), 1e-12)
		})
	}
}

func TestCompetitionRank(t *testing.T) {
	scores := map[string]float64{"a": 5, "b": 5, "c": 2}

	rank, ok := competitionRank(scores, "a")
	assert.True(t, ok)
	assert.Equal(t, 1, rank)

	rank, _ = competitionRank(scores, "b")
	assert.Equal(t, 1, rank)

	rank, _ = competitionRank(scores, "c")
	assert.Equal(t, 3, rank)

	_, ok = competitionRank(scores, "missing")
	assert.False(t, ok)
}

func TestCompetitionRankTreatsNearEqualScoresAsTied(t *testing.T) {
	// sqrt rounding can leave mathematically equal deviations a few ulps apart.
	a := math.Sqrt(2)
	b := math.Nextafter(a, 2)
	scores := map[string]float64{"a": a, "b": b, "c": 0.5}

	rankA, _ := competitionRank(scores, "a")
	rankB, _ := competitionRank(scores, "b")
	rankC, _ := competitionRank(scores, "c")
	assert.Equal(t, 1, rankA)
	assert.Equal(t, 1, rankB)
	assert.Equal(t, 3, rankC)
}
