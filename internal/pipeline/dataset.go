package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yourusername/gridiron/internal/features"
	"github.com/yourusername/gridiron/internal/models"
)

// TrainingExample pairs one completed game's feature vector with its label:
// 1 when the home side won.
type TrainingExample struct {
	Game     *models.Game
	Features features.FeatureVector
	Label    int
}

// dataset holds assembled examples grouped by season, in ascending season
// order, plus the identifiers of games that were skipped.
type dataset struct {
	seasons  []int
	bySeason map[int][]TrainingExample
	skipped  []string
}

func (d *dataset) all() []TrainingExample {
	var out []TrainingExample
	for _, season := range d.seasons {
		out = append(out, d.bySeason[season]...)
	}
	return out
}

func (d *dataset) size() int {
	n := 0
	for _, examples := range d.bySeason {
		n += len(examples)
	}
	return n
}

// assemble builds training examples for every completed game in the given
// seasons. Games the feature engineer cannot serve (InsufficientDataError)
// and ties are recorded as skipped, not silently dropped; any other feature
// failure aborts the run with the offending game identified.
func (p *Pipeline) assemble(ctx context.Context, seasons []int) (*dataset, error) {
	sorted := make([]int, len(seasons))
	copy(sorted, seasons)
	sort.Ints(sorted)

	d := &dataset{seasons: sorted, bySeason: make(map[int][]TrainingExample)}
	for _, season := range sorted {
		games, err := p.games.GetCompletedBySeason(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("failed to load season %d: %w", season, err)
		}
		if len(games) == 0 {
			return nil, &models.ValidationError{
				Component: "pipeline",
				Detail:    fmt.Sprintf("season %d has no completed games", season),
			}
		}

		for _, game := range games {
			example, skip, err := p.buildExample(ctx, game)
			if err != nil {
				return nil, err
			}
			if skip != "" {
				d.skipped = append(d.skipped, game.GameID)
				p.log.LogSkippedGame(game.GameID, skip)
				continue
			}
			d.bySeason[season] = append(d.bySeason[season], example)
		}
	}

	return d, nil
}

func (p *Pipeline) buildExample(ctx context.Context, game *models.Game) (TrainingExample, string, error) {
	homeWon, decided := game.HomeWon()
	if !decided {
		return TrainingExample{}, "tie or undecided outcome", nil
	}

	fv, err := p.engineer.BuildFeatures(ctx, game)
	if err != nil {
		var insufficientErr *models.InsufficientDataError
		if errors.As(err, &insufficientErr) {
			return TrainingExample{}, insufficientErr.Error(), nil
		}
		return TrainingExample{}, "", fmt.Errorf("features for game %s: %w", game.GameID, err)
	}

	label := 0
	if homeWon {
		label = 1
	}

	return TrainingExample{Game: game, Features: fv, Label: label}, "", nil
}

// vectorize flattens examples into a matrix and label vector in schema order.
func vectorize(examples []TrainingExample, schema []string) ([][]float64, []int, error) {
	X := make([][]float64, len(examples))
	y := make([]int, len(examples))
	for i, ex := range examples {
		row, err := ex.Features.Vectorize(schema)
		if err != nil {
			return nil, nil, fmt.Errorf("game %s: %w", ex.Game.GameID, err)
		}
		X[i] = row
		y[i] = ex.Label
	}
	return X, y, nil
}
