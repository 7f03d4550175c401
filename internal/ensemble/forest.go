package ensemble

import (
	"math"
	"math/rand"
)

// Forest is a bagged ensemble of CART trees. Each tree is fit on a bootstrap
// resample with a random feature subset per split.
type Forest struct {
	Trees    []*Tree `json:"trees"`
	NumTrees int     `json:"num_trees"`
	MaxDepth int     `json:"max_depth"`
}

func newForest(numTrees, maxDepth int) *Forest {
	return &Forest{NumTrees: numTrees, MaxDepth: maxDepth}
}

func (f *Forest) fit(X [][]float64, y []int, rng *rand.Rand) {
	n := len(X)
	mtry := int(math.Ceil(math.Sqrt(float64(len(X[0])))))

	f.Trees = make([]*Tree, f.NumTrees)
	for t := 0; t < f.NumTrees; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		f.Trees[t] = growTree(X, y, idx, 0, f.MaxDepth, mtry, rng)
	}
}

// predictProb averages the per-tree leaf probabilities.
func (f *Forest) predictProb(x []float64) float64 {
	var sum float64
	for _, t := range f.Trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.Trees))
}

func (f *Forest) fitted() bool {
	return len(f.Trees) > 0
}

func (f *Forest) featureUse(counts []float64) {
	for _, t := range f.Trees {
		t.countFeatureUse(counts)
	}
}
