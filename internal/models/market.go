package models

import "time"

// MarketLine holds external market odds for a matchup, keyed by the same
// (home, away, date) tuple used for features. Read-only input to the value
// analyzer; supplied by the market-line collaborator.
type MarketLine struct {
	HomeTeam      string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam      string    `db:"away_team" json:"away_team" validate:"required"`
	GameDate      time.Time `db:"game_date" json:"game_date" validate:"required"`
	HomeMoneyline int       `db:"home_moneyline" json:"home_moneyline"`
	AwayMoneyline int       `db:"away_moneyline" json:"away_moneyline"`
	Spread        float64   `db:"spread" json:"spread"`
	Bookmaker     string    `db:"bookmaker" json:"bookmaker"`
	FetchedAt     time.Time `db:"fetched_at" json:"fetched_at"`
}

// ImpliedProbability converts American odds to the raw implied probability,
// vig included. Returns 0 for a zero line.
func ImpliedProbability(americanOdds int) float64 {
	switch {
	case americanOdds > 0:
		return 100.0 / (float64(americanOdds) + 100.0)
	case americanOdds < 0:
		abs := float64(-americanOdds)
		return abs / (abs + 100.0)
	default:
		return 0
	}
}

// HomeImpliedProbability returns the vig-free market probability of a home
// win, normalizing the two-way market so both sides sum to 1.
func (m *MarketLine) HomeImpliedProbability() float64 {
	home := ImpliedProbability(m.HomeMoneyline)
	away := ImpliedProbability(m.AwayMoneyline)
	total := home + away
	if total == 0 {
		return 0
	}
	return home / total
}

// Overround returns the bookmaker margin baked into the two-way market.
func (m *MarketLine) Overround() float64 {
	total := ImpliedProbability(m.HomeMoneyline) + ImpliedProbability(m.AwayMoneyline)
	if total == 0 {
		return 0
	}
	return total - 1.0
}
