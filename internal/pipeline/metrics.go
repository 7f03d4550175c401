package pipeline

import (
	"sort"

	"github.com/yourusername/gridiron/internal/models"
	"gonum.org/v1/gonum/stat"
)

// evaluate scores predicted positive-class probabilities against labels at
// the 0.5 decision threshold. Undefined ratios (no positive predictions, no
// positive labels) are 0.0.
func evaluate(probs []float64, y []int) models.ClassifierMetrics {
	var tp, fp, tn, fn int
	for i, p := range probs {
		predicted := p >= 0.5
		actual := y[i] == 1
		switch {
		case predicted && actual:
			tp++
		case predicted && !actual:
			fp++
		case !predicted && actual:
			fn++
		default:
			tn++
		}
	}

	m := models.ClassifierMetrics{Samples: len(y)}
	if len(y) == 0 {
		return m
	}

	m.Accuracy = float64(tp+tn) / float64(len(y))
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	m.ROCAUC = rocAUC(probs, y)

	return m
}

// rocAUC computes the area under the ROC curve by the rank-sum identity,
// with tied probabilities receiving their average rank. A single-class label
// set has no defined AUC and scores 0.0.
func rocAUC(probs []float64, y []int) float64 {
	var pos, neg int
	for _, label := range y {
		if label == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0.0
	}

	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return probs[order[a]] < probs[order[b]] })

	ranks := make([]float64, len(probs))
	for k := 0; k < len(order); {
		j := k
		for j < len(order) && probs[order[j]] == probs[order[k]] {
			j++
		}
		avg := float64(k+j+1) / 2
		for i := k; i < j; i++ {
			ranks[order[i]] = avg
		}
		k = j
	}

	var rankSum float64
	for i, label := range y {
		if label == 1 {
			rankSum += ranks[i]
		}
	}

	return (rankSum - float64(pos)*float64(pos+1)/2) / (float64(pos) * float64(neg))
}

// summarizeFolds aggregates per-fold metrics into mean and standard
// deviation summaries.
func summarizeFolds(folds []models.ClassifierMetrics) models.CrossValidationReport {
	pick := func(get func(models.ClassifierMetrics) float64) models.MetricSummary {
		values := make([]float64, len(folds))
		for i, f := range folds {
			values[i] = get(f)
		}
		summary := models.MetricSummary{Mean: stat.Mean(values, nil)}
		if len(values) > 1 {
			summary.StdDev = stat.StdDev(values, nil)
		}
		return summary
	}

	return models.CrossValidationReport{
		Folds:     len(folds),
		Accuracy:  pick(func(m models.ClassifierMetrics) float64 { return m.Accuracy }),
		Precision: pick(func(m models.ClassifierMetrics) float64 { return m.Precision }),
		Recall:    pick(func(m models.ClassifierMetrics) float64 { return m.Recall }),
		F1:        pick(func(m models.ClassifierMetrics) float64 { return m.F1 }),
		ROCAUC:    pick(func(m models.ClassifierMetrics) float64 { return m.ROCAUC }),
	}
}
