// Package features derives the numeric inputs for the prediction ensemble
// from historical game and team statistics.
package features

import (
	"fmt"
	"sort"

	"github.com/yourusername/gridiron/internal/models"
)

// FeatureVector maps feature names to values for one (home, away, as-of date)
// matchup. Immutable once built.
type FeatureVector map[string]float64

// schema is the canonical feature order. A trained snapshot records this list
// and inference validates against it, so reordering or renaming entries is a
// breaking change that requires retraining.
var schema = []string{
	"win_pct_diff",
	"point_diff_avg_diff",
	"points_per_game_diff",
	"points_allowed_per_game_diff",
	"off_efficiency_diff",
	"def_efficiency_diff",
	"third_down_pct_diff",
	"turnover_margin_diff",
	"recent_win_pct_diff",
	"recent_form_diff",
	"scoring_trend_diff",
	"defensive_trend_diff",
	"momentum_score_diff",
	"consistency_diff",
	"home_field",
	"rest_days_home",
	"rest_days_away",
	"rest_days_diff",
	"travel_distance",
	"divisional_game",
	"conference_game",
	"primetime",
	"week_of_season",
	"explosive_play_rate_diff",
	"red_zone_efficiency_diff",
	"pressure_rate_diff",
	"fourth_down_aggression_diff",
	"h2h_home_win_pct",
	"h2h_games_played",
	"sos_diff",
}

// Schema returns the canonical ordered feature names.
func Schema() []string {
	out := make([]string, len(schema))
	copy(out, schema)
	return out
}

// Vectorize flattens the vector into the given column order. It fails if the
// vector is missing a scheduled feature or carries an unscheduled one, so a
// schema drift between training and serving is a detected error rather than a
// silent misalignment.
func (fv FeatureVector) Vectorize(columns []string) ([]float64, error) {
	if len(fv) != len(columns) {
		return nil, &models.ValidationError{
			Component: "features",
			Detail: fmt.Sprintf("vector has %d features, schema expects %d: %s",
				len(fv), len(columns), describeMismatch(fv, columns)),
		}
	}

	row := make([]float64, len(columns))
	for i, name := range columns {
		v, ok := fv[name]
		if !ok {
			return nil, &models.ValidationError{
				Component: "features",
				Detail:    fmt.Sprintf("missing feature %q", name),
			}
		}
		row[i] = v
	}

	return row, nil
}

func describeMismatch(fv FeatureVector, columns []string) string {
	want := make(map[string]bool, len(columns))
	for _, name := range columns {
		want[name] = true
	}

	var extra []string
	for name := range fv {
		if !want[name] {
			extra = append(extra, name)
		}
	}
	var missing []string
	for _, name := range columns {
		if _, ok := fv[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(extra)
	sort.Strings(missing)

	return fmt.Sprintf("missing %v, unexpected %v", missing, extra)
}
