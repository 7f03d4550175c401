package ensemble

import (
	"math"
	"math/rand"
	"sort"
)

// Stump is a one-split regression tree used as the boosting weak learner.
type Stump struct {
	Feature    int     `json:"feature"`
	Threshold  float64 `json:"threshold"`
	LeftValue  float64 `json:"left_value"`
	RightValue float64 `json:"right_value"`
}

// Boost is a gradient-boosted stump ensemble on logistic loss. Each round
// fits a stump to the current probability residuals and takes a Newton step
// for the leaf values, damped by the shrinkage rate.
type Boost struct {
	Bias      float64 `json:"bias"`
	Shrinkage float64 `json:"shrinkage"`
	Stumps    []*Stump `json:"stumps"`
	Rounds    int      `json:"rounds"`
}

func newBoost(rounds int, shrinkage float64) *Boost {
	return &Boost{Rounds: rounds, Shrinkage: shrinkage}
}

func (b *Boost) fit(X [][]float64, y []int, rng *rand.Rand) {
	n := len(X)

	pos := 0
	for _, label := range y {
		pos += label
	}
	base := clampProb(float64(pos) / float64(n))
	b.Bias = math.Log(base / (1 - base))

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = b.Bias
	}

	residuals := make([]float64, n)
	hessians := make([]float64, n)
	b.Stumps = make([]*Stump, 0, b.Rounds)
	for round := 0; round < b.Rounds; round++ {
		for i := range X {
			p := sigmoid(scores[i])
			residuals[i] = float64(y[i]) - p
			hessians[i] = p * (1 - p)
		}

		stump, ok := fitStump(X, residuals, hessians)
		if !ok {
			break
		}
		b.Stumps = append(b.Stumps, stump)

		for i, x := range X {
			scores[i] += b.Shrinkage * stump.value(x)
		}
	}
}

// fitStump finds the least-squares split on the residuals and assigns each
// side a Newton leaf value (gradient sum over hessian sum).
func fitStump(X [][]float64, residuals, hessians []float64) (*Stump, bool) {
	bestSSE := math.Inf(1)
	var best *Stump

	values := make([]float64, len(X))
	for f := 0; f < len(X[0]); f++ {
		for i, row := range X {
			values[i] = row[f]
		}
		candidates := splitCandidates(values)

		for _, threshold := range candidates {
			var leftG, leftH, rightG, rightH float64
			var leftN, rightN int
			for i, row := range X {
				if row[f] <= threshold {
					leftG += residuals[i]
					leftH += hessians[i]
					leftN++
				} else {
					rightG += residuals[i]
					rightH += hessians[i]
					rightN++
				}
			}
			if leftN == 0 || rightN == 0 {
				continue
			}

			// maximizing gain G^2/H per side is minimizing residual SSE
			sse := -(leftG*leftG/(leftH+1e-9) + rightG*rightG/(rightH+1e-9))
			if sse < bestSSE {
				bestSSE = sse
				best = &Stump{
					Feature:    f,
					Threshold:  threshold,
					LeftValue:  leftG / (leftH + 1e-9),
					RightValue: rightG / (rightH + 1e-9),
				}
			}
		}
	}

	return best, best != nil
}

// splitCandidates returns midpoints between distinct sorted values, capped to
// keep the scan cheap on large training sets.
func splitCandidates(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	const maxCandidates = 32
	step := 1
	if len(sorted) > maxCandidates {
		step = len(sorted) / maxCandidates
	}

	var out []float64
	for k := step; k < len(sorted); k += step {
		if sorted[k] == sorted[k-step] {
			continue
		}
		out = append(out, (sorted[k]+sorted[k-step])/2)
	}
	return out
}

func (s *Stump) value(x []float64) float64 {
	if x[s.Feature] <= s.Threshold {
		return s.LeftValue
	}
	return s.RightValue
}

func (b *Boost) predictProb(x []float64) float64 {
	score := b.Bias
	for _, s := range b.Stumps {
		score += b.Shrinkage * s.value(x)
	}
	return sigmoid(score)
}

func (b *Boost) fitted() bool {
	return len(b.Stumps) > 0
}

func (b *Boost) featureUse(counts []float64) {
	for _, s := range b.Stumps {
		counts[s.Feature]++
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func clampProb(p float64) float64 {
	const eps = 1e-6
	return math.Max(eps, math.Min(1-eps, p))
}
