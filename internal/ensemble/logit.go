package ensemble

import "math/rand"

// Logit is an L2-regularized logistic regression fit by full-batch gradient
// descent. It anchors the ensemble with a smooth, well-calibrated linear
// baseline alongside the two tree models.
type Logit struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	L2      float64   `json:"l2"`
	Epochs  int       `json:"epochs"`
}

const logitLearningRate = 0.1

func newLogit(l2 float64, epochs int) *Logit {
	return &Logit{L2: l2, Epochs: epochs}
}

func (l *Logit) fit(X [][]float64, y []int, rng *rand.Rand) {
	n := float64(len(X))
	cols := len(X[0])
	l.Weights = make([]float64, cols)
	l.Bias = 0

	grad := make([]float64, cols)
	for epoch := 0; epoch < l.Epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var biasGrad float64

		for i, x := range X {
			err := sigmoid(l.score(x)) - float64(y[i])
			for j, v := range x {
				grad[j] += err * v
			}
			biasGrad += err
		}

		for j := range l.Weights {
			l.Weights[j] -= logitLearningRate * (grad[j]/n + l.L2*l.Weights[j])
		}
		l.Bias -= logitLearningRate * biasGrad / n
	}
}

func (l *Logit) score(x []float64) float64 {
	s := l.Bias
	for j, w := range l.Weights {
		s += w * x[j]
	}
	return s
}

func (l *Logit) predictProb(x []float64) float64 {
	return sigmoid(l.score(x))
}

func (l *Logit) fitted() bool {
	return len(l.Weights) > 0
}

func (l *Logit) featureUse(counts []float64) {
	for j, w := range l.Weights {
		if w < 0 {
			counts[j] -= w
		} else {
			counts[j] += w
		}
	}
}
