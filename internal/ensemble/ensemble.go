// Package ensemble implements the weighted classifier ensemble behind the
// engine's win-probability predictions: a bagged tree forest, a boosted stump
// model and a regularized logistic regression, combined by fixed weights.
package ensemble

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/yourusername/gridiron/internal/config"
	"github.com/yourusername/gridiron/internal/models"
)

// Params is the serializable fitted state of an ensemble. It round-trips
// through the snapshot store exactly.
type Params struct {
	Weights []float64 `json:"weights"`
	Forest  *Forest   `json:"forest"`
	Boost   *Boost    `json:"boost"`
	Logit   *Logit    `json:"logit"`
}

// Ensemble combines three sub-models by a fixed weighted average of their
// positive-class probabilities. Fit and PredictProba must not run concurrently
// on the same instance; serving goes through published immutable snapshots
// instead.
type Ensemble struct {
	schema  []string
	weights []float64
	seed    int64

	forest *Forest
	boost  *Boost
	logit  *Logit
	fitted bool
}

// New creates an unfitted ensemble for the given feature schema.
func New(cfg config.EnsembleConfig, schema []string) (*Ensemble, error) {
	weights := cfg.EnsembleWeights()
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return nil, &models.ValidationError{
			Component: "ensemble",
			Detail:    fmt.Sprintf("weights sum to %v, expected 1.0", sum),
		}
	}
	if len(schema) == 0 {
		return nil, &models.ValidationError{Component: "ensemble", Detail: "empty feature schema"}
	}

	return &Ensemble{
		schema:  schema,
		weights: weights,
		seed:    cfg.Seed,
		forest:  newForest(cfg.ForestTrees, cfg.ForestDepth),
		boost:   newBoost(cfg.BoostRounds, cfg.BoostShrinkage),
		logit:   newLogit(cfg.LogitL2, cfg.LogitEpochs),
	}, nil
}

// Fit trains all three sub-models on the same matrix. Training is
// deterministic for a fixed seed.
func (e *Ensemble) Fit(X [][]float64, y []int) error {
	if err := e.validate(X); err != nil {
		return err
	}
	if len(y) != len(X) {
		return &models.ValidationError{
			Component: "ensemble",
			Detail:    fmt.Sprintf("%d rows but %d labels", len(X), len(y)),
		}
	}
	for _, label := range y {
		if label != 0 && label != 1 {
			return &models.ValidationError{Component: "ensemble", Detail: "labels must be 0 or 1"}
		}
	}

	rng := rand.New(rand.NewSource(e.seed))
	e.forest.fit(X, y, rng)
	e.boost.fit(X, y, rng)
	e.logit.fit(X, y, rng)
	e.fitted = true

	return nil
}

// PredictProba returns, per row, a two-element probability pair that sums to
// 1.0: index 0 is the negative class, index 1 the positive class.
func (e *Ensemble) PredictProba(X [][]float64) ([][]float64, error) {
	if !e.fitted {
		return nil, models.ErrModelNotTrained
	}
	if err := e.validate(X); err != nil {
		return nil, err
	}

	out := make([][]float64, len(X))
	for i, x := range X {
		p := e.weights[0]*e.forest.predictProb(x) +
			e.weights[1]*e.boost.predictProb(x) +
			e.weights[2]*e.logit.predictProb(x)
		out[i] = []float64{1 - p, p}
	}

	return out, nil
}

// Schema returns the feature-name order the ensemble expects.
func (e *Ensemble) Schema() []string {
	out := make([]string, len(e.schema))
	copy(out, e.schema)
	return out
}

// Fitted reports whether the ensemble has been trained or restored.
func (e *Ensemble) Fitted() bool {
	return e.fitted
}

// FeatureImportance ranks features by how much the fitted sub-models lean on
// them, normalized to sum to 1.0.
func (e *Ensemble) FeatureImportance() ([]models.FeatureImportance, error) {
	if !e.fitted {
		return nil, models.ErrModelNotTrained
	}

	counts := make([]float64, len(e.schema))
	e.forest.featureUse(counts)
	e.boost.featureUse(counts)
	e.logit.featureUse(counts)

	var total float64
	for _, c := range counts {
		total += c
	}

	out := make([]models.FeatureImportance, len(e.schema))
	for i, name := range e.schema {
		score := 0.0
		if total > 0 {
			score = counts[i] / total
		}
		out[i] = models.FeatureImportance{Name: name, Score: score}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	return out, nil
}

// Params returns the fitted state for persistence.
func (e *Ensemble) Params() (*Params, error) {
	if !e.fitted {
		return nil, models.ErrModelNotTrained
	}
	return &Params{
		Weights: e.weights,
		Forest:  e.forest,
		Boost:   e.boost,
		Logit:   e.logit,
	}, nil
}

// LoadParams restores fitted state from a snapshot.
func (e *Ensemble) LoadParams(p *Params) error {
	if p == nil || p.Forest == nil || p.Boost == nil || p.Logit == nil {
		return &models.ValidationError{Component: "ensemble", Detail: "incomplete fitted state"}
	}
	if !p.Forest.fitted() || !p.Boost.fitted() || !p.Logit.fitted() {
		return &models.ValidationError{Component: "ensemble", Detail: "restored sub-model is unfitted"}
	}
	if len(p.Weights) != 3 {
		return &models.ValidationError{Component: "ensemble", Detail: "expected 3 sub-model weights"}
	}

	e.weights = p.Weights
	e.forest = p.Forest
	e.boost = p.Boost
	e.logit = p.Logit
	e.fitted = true

	return nil
}

func (e *Ensemble) validate(X [][]float64) error {
	if len(X) == 0 {
		return &models.ValidationError{Component: "ensemble", Detail: "empty feature matrix"}
	}
	for i, row := range X {
		if len(row) != len(e.schema) {
			return &models.ValidationError{
				Component: "ensemble",
				Detail: fmt.Sprintf("row %d has %d columns, schema expects %d",
					i, len(row), len(e.schema)),
			}
		}
	}
	return nil
}
