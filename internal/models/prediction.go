package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Prediction represents a single calibrated win-probability for a matchup.
// Predictions are created once per inference call and never mutated; they are
// later joined with the actual outcome for drift evaluation.
type Prediction struct {
	ID              uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	HomeTeam        string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam        string    `db:"away_team" json:"away_team" validate:"required"`
	GameDate        time.Time `db:"game_date" json:"game_date" validate:"required"`
	Season          int       `db:"season" json:"season" validate:"required"`
	HomeWinProb     float64   `db:"home_win_prob" json:"home_win_prob" validate:"gte=0,lte=1"`
	AwayWinProb     float64   `db:"away_win_prob" json:"away_win_prob" validate:"gte=0,lte=1"`
	Confidence      float64   `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	SnapshotVersion string    `db:"snapshot_version" json:"snapshot_version" validate:"required"`
	PredictedAt     time.Time `db:"predicted_at" json:"predicted_at" validate:"required"`
}

// PredictedWinner returns the team the model favors.
func (p *Prediction) PredictedWinner() string {
	if p.HomeWinProb >= p.AwayWinProb {
		return p.HomeTeam
	}
	return p.AwayTeam
}

// WinProbability returns the probability of the favored side.
func (p *Prediction) WinProbability() float64 {
	return math.Max(p.HomeWinProb, p.AwayWinProb)
}

// MeetsThreshold checks if the confidence meets the given threshold.
func (p *Prediction) MeetsThreshold(threshold float64) bool {
	return p.Confidence >= threshold
}

// SettledPrediction is a prediction joined with the eventual actual outcome.
type SettledPrediction struct {
	Prediction
	HomeWon   bool      `db:"home_won" json:"home_won"`
	SettledAt time.Time `db:"settled_at" json:"settled_at"`
}

// Correct reports whether the favored side actually won.
func (s *SettledPrediction) Correct() bool {
	return (s.HomeWinProb >= 0.5) == s.HomeWon
}
