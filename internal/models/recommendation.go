package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BetRecommendation is the output of value analysis for one matchup: model
// probability versus market-implied probability, the resulting edge, and a
// fractional-Kelly stake. Derived, never persisted as ground truth.
type BetRecommendation struct {
	HomeTeam      string    `json:"home_team"`
	AwayTeam      string    `json:"away_team"`
	GameDate      time.Time `json:"game_date"`
	Side          string    `json:"side"`
	ModelProb     float64   `json:"model_prob"`
	MarketProb    float64   `json:"market_prob"`
	Edge          float64   `json:"edge"`
	ExpectedValue float64   `json:"expected_value"`
	KellyRaw      float64   `json:"kelly_raw"`
	KellyAdjusted float64   `json:"kelly_adjusted"`
	StakeFraction float64   `json:"stake_fraction"`
	Capped        bool      `json:"capped"`
	CreatedAt     time.Time `json:"created_at"`
}

// HasEdge reports whether the model sees positive expected value.
func (r *BetRecommendation) HasEdge() bool {
	return r.Edge > 0 && r.StakeFraction > 0
}

// StakeAmount converts the stake fraction into a currency stake for the
// given bankroll, rounded down to cents.
func (r *BetRecommendation) StakeAmount(bankroll decimal.Decimal) decimal.Decimal {
	fraction := decimal.NewFromFloat(r.StakeFraction)
	return bankroll.Mul(fraction).RoundDown(2)
}
