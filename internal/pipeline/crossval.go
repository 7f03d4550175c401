package pipeline

import (
	"context"
	"math/rand"

	"github.com/yourusername/gridiron/internal/models"
	"golang.org/x/sync/errgroup"
)

// stratifiedFolds deals example indices into k folds, preserving each fold's
// class balance. Deterministic for a fixed seed.
func stratifiedFolds(y []int, k int, seed int64) [][]int {
	rng := rand.New(rand.NewSource(seed))

	var pos, neg []int
	for i, label := range y {
		if label == 1 {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	rng.Shuffle(len(pos), func(a, b int) { pos[a], pos[b] = pos[b], pos[a] })
	rng.Shuffle(len(neg), func(a, b int) { neg[a], neg[b] = neg[b], neg[a] })

	folds := make([][]int, k)
	for i, idx := range pos {
		folds[i%k] = append(folds[i%k], idx)
	}
	for i, idx := range neg {
		folds[i%k] = append(folds[i%k], idx)
	}

	return folds
}

// crossValidate runs stratified k-fold validation over the full example set.
// Folds are independent and run in parallel when configured. Cancellation is
// honored between folds; completed fold metrics are returned alongside the
// cancellation error.
func (p *Pipeline) crossValidate(ctx context.Context, examples []TrainingExample, schema []string) ([]models.ClassifierMetrics, error) {
	_, y, err := vectorize(examples, schema)
	if err != nil {
		return nil, err
	}

	k := p.training.CrossValidationFolds
	folds := stratifiedFolds(y, k, p.ensembleCfg.Seed)
	results := make([]models.ClassifierMetrics, k)

	runFold := func(fold int) error {
		holdout := make(map[int]bool, len(folds[fold]))
		for _, idx := range folds[fold] {
			holdout[idx] = true
		}

		var train, test []TrainingExample
		for i, ex := range examples {
			if holdout[i] {
				test = append(test, ex)
			} else {
				train = append(train, ex)
			}
		}

		probs, yTest, err := p.trainEval(train, test, schema)
		if err != nil {
			return err
		}
		results[fold] = evaluate(probs, yTest)
		return nil
	}

	if p.training.ParallelFolds {
		g, _ := errgroup.WithContext(ctx)
		for fold := 0; fold < k; fold++ {
			fold := fold
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return runFold(fold)
			})
		}
		if err := g.Wait(); err != nil {
			return completedFolds(results), err
		}
		return results, nil
	}

	for fold := 0; fold < k; fold++ {
		if err := ctx.Err(); err != nil {
			return completedFolds(results), err
		}
		if err := runFold(fold); err != nil {
			return completedFolds(results), err
		}
	}

	return results, nil
}

func completedFolds(results []models.ClassifierMetrics) []models.ClassifierMetrics {
	var done []models.ClassifierMetrics
	for _, r := range results {
		if r.Samples > 0 {
			done = append(done, r)
		}
	}
	return done
}
