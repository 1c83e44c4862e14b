package repo

import "math"

// scoreTolerance treats standard deviations this close (relative to their
// magnitude) as tied.
const scoreTolerance = 1e-9

// populationStdDev divides by n, not n-1. A single sample scores zero.
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// competitionRank returns 1 + the number of scores strictly above target's
// score, so ties share a rank and the next rank is skipped (1, 1, 3).
func competitionRank(scores map[string]float64, target string) (int, bool) {
	own, ok := scores[target]
	if !ok {
		return 0, false
	}
	rank := 1
	for sym, score := range scores {
		if sym == target || tied(score, own) {
			continue
		}
		if score > own {
			rank++
		}
	}
	return rank, true
}

func tied(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= scoreTolerance*scale
}
