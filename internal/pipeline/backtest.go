package pipeline

import (
	"context"

	"github.com/yourusername/gridiron/internal/models"
)

// backtest evaluates seasons chronologically: each season is scored by a
// model trained only on the seasons strictly before it. Iterations are
// sequential because each depends on the previous seasons' data. This is the
// authoritative accuracy estimate; shuffled cross-validation is advisory.
func (p *Pipeline) backtest(ctx context.Context, d *dataset, schema []string) (models.BacktestReport, error) {
	report := models.BacktestReport{}

	var allProbs []float64
	var allLabels []int
	var train []TrainingExample

	for i, season := range d.seasons {
		if i == 0 {
			train = append(train, d.bySeason[season]...)
			continue
		}
		if err := ctx.Err(); err != nil {
			report.Partial = true
			report.Overall = evaluate(allProbs, allLabels)
			return report, err
		}

		test := d.bySeason[season]
		probs, yTest, err := p.trainEval(train, test, schema)
		if err != nil {
			report.Partial = true
			report.Overall = evaluate(allProbs, allLabels)
			return report, err
		}

		report.Seasons = append(report.Seasons, models.SeasonResult{
			Season:         season,
			TrainedSeasons: append([]int{}, d.seasons[:i]...),
			TrainSamples:   len(train),
			Metrics:        evaluate(probs, yTest),
		})
		allProbs = append(allProbs, probs...)
		allLabels = append(allLabels, yTest...)

		train = append(train, test...)
	}

	report.Overall = evaluate(allProbs, allLabels)
	return report, nil
}
