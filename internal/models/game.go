package models

import (
	"time"
)

// Game represents a single scheduled or completed game between two teams.
type Game struct {
	GameID    string     `db:"game_id" json:"game_id" validate:"required"`
	Season    int        `db:"season" json:"season" validate:"required"`
	Week      int        `db:"week" json:"week"`
	GameDate  time.Time  `db:"game_date" json:"game_date" validate:"required"`
	Kickoff   *time.Time `db:"kickoff" json:"kickoff,omitempty"`
	HomeTeam  string     `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string     `db:"away_team" json:"away_team" validate:"required"`
	HomeScore *int       `db:"home_score" json:"home_score,omitempty"`
	AwayScore *int       `db:"away_score" json:"away_score,omitempty"`
}

// Completed reports whether the game has a final score.
func (g *Game) Completed() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// HomeWon reports whether the home team won. The second return is false for
// incomplete games and ties.
func (g *Game) HomeWon() (bool, bool) {
	if !g.Completed() {
		return false, false
	}
	if *g.HomeScore == *g.AwayScore {
		return false, false
	}
	return *g.HomeScore > *g.AwayScore, true
}

// Involves reports whether the given team played in this game.
func (g *Game) Involves(team string) bool {
	return g.HomeTeam == team || g.AwayTeam == team
}

// ScoreFor returns (team score, opponent score) from the perspective of the
// given team. Both are zero for incomplete games.
func (g *Game) ScoreFor(team string) (int, int) {
	if !g.Completed() {
		return 0, 0
	}
	if g.HomeTeam == team {
		return *g.HomeScore, *g.AwayScore
	}
	return *g.AwayScore, *g.HomeScore
}

// Opponent returns the other team from the perspective of the given team.
func (g *Game) Opponent(team string) string {
	if g.HomeTeam == team {
		return g.AwayTeam
	}
	return g.HomeTeam
}

// Primetime reports whether the game kicked off in a primetime slot
// (Thursday, Sunday or Monday night).
func (g *Game) Primetime() bool {
	if g.Kickoff == nil {
		return false
	}
	switch g.Kickoff.Weekday() {
	case time.Thursday, time.Monday:
		return true
	case time.Sunday:
		return g.Kickoff.Hour() >= 19
	}
	return false
}
