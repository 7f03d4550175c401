package models

import "time"

// TeamGameStats holds per-team, per-game aggregate statistics supplied by the
// data collaborator. Records are assumed to have passed validation upstream;
// the engine only fails fast on schema mismatches.
type TeamGameStats struct {
	GameID          string    `db:"game_id" json:"game_id" validate:"required"`
	Team            string    `db:"team" json:"team" validate:"required"`
	Season          int       `db:"season" json:"season" validate:"required"`
	Week            int       `db:"week" json:"week"`
	GameDate        time.Time `db:"game_date" json:"game_date" validate:"required"`
	PointsFor       int       `db:"points_for" json:"points_for"`
	PointsAgainst   int       `db:"points_against" json:"points_against"`
	OffensivePlays  int       `db:"offensive_plays" json:"offensive_plays"`
	DefensivePlays  int       `db:"defensive_plays" json:"defensive_plays"`
	Possessions     int       `db:"possessions" json:"possessions"`
	YardsFor        int       `db:"yards_for" json:"yards_for"`
	YardsAgainst    int       `db:"yards_against" json:"yards_against"`
	Turnovers       int       `db:"turnovers" json:"turnovers"`
	Takeaways       int       `db:"takeaways" json:"takeaways"`
	ThirdDownAtt    int       `db:"third_down_att" json:"third_down_att"`
	ThirdDownConv   int       `db:"third_down_conv" json:"third_down_conv"`
	FourthDownAtt   int       `db:"fourth_down_att" json:"fourth_down_att"`
	FourthDownConv  int       `db:"fourth_down_conv" json:"fourth_down_conv"`
	RedZoneTrips    int       `db:"red_zone_trips" json:"red_zone_trips"`
	RedZoneScores   int       `db:"red_zone_scores" json:"red_zone_scores"`
	ExplosivePlays  int       `db:"explosive_plays" json:"explosive_plays"`
	SacksFor        int       `db:"sacks_for" json:"sacks_for"`
	PressuresFor    int       `db:"pressures_for" json:"pressures_for"`
}

// TeamInfo carries the league-structure attributes of a team used for
// divisional and conference matchup indicators.
type TeamInfo struct {
	Abbr       string `db:"abbr" json:"abbr" validate:"required"`
	Name       string `db:"name" json:"name"`
	Conference string `db:"conference" json:"conference"`
	Division   string `db:"division" json:"division"`
	Latitude   float64 `db:"latitude" json:"latitude"`
	Longitude  float64 `db:"longitude" json:"longitude"`
}

// SameDivision reports whether two teams share a division.
func (t TeamInfo) SameDivision(other TeamInfo) bool {
	return t.Conference == other.Conference && t.Division == other.Division
}

// SameConference reports whether two teams share a conference.
func (t TeamInfo) SameConference(other TeamInfo) bool {
	return t.Conference == other.Conference
}
