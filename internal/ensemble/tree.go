package ensemble

import (
	"math"
	"math/rand"
	"sort"
)

// Tree is a binary classification tree node. Leaves carry the positive-class
// fraction of the training rows that reached them.
type Tree struct {
	Leaf      bool    `json:"leaf"`
	Prob      float64 `json:"prob,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      *Tree   `json:"left,omitempty"`
	Right     *Tree   `json:"right,omitempty"`
}

const minLeafSize = 2

// growTree builds a CART tree on the indexed rows, splitting on Gini impurity.
// At each split it considers a random subset of mtry features, which is what
// decorrelates the trees of a bagged forest.
func growTree(X [][]float64, y []int, idx []int, depth, maxDepth, mtry int, rng *rand.Rand) *Tree {
	pos := 0
	for _, i := range idx {
		pos += y[i]
	}
	prob := float64(pos) / float64(len(idx))

	if depth >= maxDepth || len(idx) < 2*minLeafSize || pos == 0 || pos == len(idx) {
		return &Tree{Leaf: true, Prob: prob}
	}

	feature, threshold, ok := bestSplit(X, y, idx, mtry, rng)
	if !ok {
		return &Tree{Leaf: true, Prob: prob}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < minLeafSize || len(right) < minLeafSize {
		return &Tree{Leaf: true, Prob: prob}
	}

	return &Tree{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(X, y, left, depth+1, maxDepth, mtry, rng),
		Right:     growTree(X, y, right, depth+1, maxDepth, mtry, rng),
	}
}

// bestSplit scans candidate thresholds on a random feature subset and returns
// the split with the lowest weighted Gini impurity.
func bestSplit(X [][]float64, y []int, idx []int, mtry int, rng *rand.Rand) (int, float64, bool) {
	cols := len(X[0])
	features := rng.Perm(cols)
	if mtry < len(features) {
		features = features[:mtry]
	}

	bestGini := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	values := make([]float64, 0, len(idx))
	for _, f := range features {
		values = values[:0]
		for _, i := range idx {
			values = append(values, X[i][f])
		}
		sort.Float64s(values)

		for k := 1; k < len(values); k++ {
			if values[k] == values[k-1] {
				continue
			}
			threshold := (values[k] + values[k-1]) / 2
			gini := splitGini(X, y, idx, f, threshold)
			if gini < bestGini {
				bestGini = gini
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func splitGini(X [][]float64, y []int, idx []int, feature int, threshold float64) float64 {
	var leftN, leftPos, rightN, rightPos int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			leftN++
			leftPos += y[i]
		} else {
			rightN++
			rightPos += y[i]
		}
	}

	total := float64(leftN + rightN)
	return float64(leftN)/total*gini(leftPos, leftN) +
		float64(rightN)/total*gini(rightPos, rightN)
}

func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}

// predict returns the positive-class probability for one row.
func (t *Tree) predict(x []float64) float64 {
	node := t
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Prob
}

// countFeatureUse accumulates split counts per feature for importance
// reporting.
func (t *Tree) countFeatureUse(counts []float64) {
	if t == nil || t.Leaf {
		return
	}
	counts[t.Feature]++
	t.Left.countFeatureUse(counts)
	t.Right.countFeatureUse(counts)
}
