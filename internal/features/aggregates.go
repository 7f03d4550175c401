package features

import (
	"math"
	"time"

	"github.com/yourusername/gridiron/internal/models"
	"gonum.org/v1/gonum/stat"
)

// formWeights weight the trailing-window results, most recent game first.
// When fewer games are available, the leading weights are renormalized.
var formWeights = []float64{0.35, 0.25, 0.20, 0.15, 0.05}

// ratio is the documented zero-denominator policy: a rate with no attempts is
// 0.0, not NaN. "No data" and "zero rate" are deliberately indistinguishable.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0.0
	}
	return num / den
}

// teamSummary holds season-to-date aggregates for one team as of a date.
// Every input game is strictly older than the as-of date.
type teamSummary struct {
	GamesPlayed int

	WinPct       float64
	PointDiffAvg float64
	PPG          float64
	PAPG         float64

	OffEfficiency float64
	DefEfficiency float64
	ThirdDownPct  float64
	TurnoverMargin float64

	RecentWinPct    float64
	RecentForm      float64
	ScoringTrend    float64
	DefensiveTrend  float64
	MomentumScore   float64
	Consistency     float64

	ExplosivePlayRate    float64
	RedZoneEfficiency    float64
	PressureRate         float64
	FourthDownAggression float64

	LastGameDate time.Time
	Opponents    []string
}

// summarize computes season-to-date aggregates from a team's completed games
// (most recent first) and its per-game stat rows. momentumWindow bounds the
// trailing-form calculations; minSituational floors the advanced ratios.
func summarize(team string, games []*models.Game, stats []*models.TeamGameStats, momentumWindow, minSituational int) *teamSummary {
	s := &teamSummary{GamesPlayed: len(games)}
	if len(games) == 0 {
		return s
	}

	var wins, pointsFor, pointsAgainst int
	for _, g := range games {
		pf, pa := g.ScoreFor(team)
		pointsFor += pf
		pointsAgainst += pa
		if pf > pa {
			wins++
		}
		s.Opponents = append(s.Opponents, g.Opponent(team))
	}

	n := float64(len(games))
	s.WinPct = float64(wins) / n
	s.PPG = float64(pointsFor) / n
	s.PAPG = float64(pointsAgainst) / n
	s.PointDiffAvg = s.PPG - s.PAPG
	s.LastGameDate = games[0].GameDate

	s.summarizeMomentum(team, games, momentumWindow)
	s.summarizeStats(stats, minSituational)

	return s
}

// summarizeMomentum derives the trailing-window form features. games arrive
// most recent first.
func (s *teamSummary) summarizeMomentum(team string, games []*models.Game, window int) {
	recent := games
	if len(recent) > window {
		recent = recent[:window]
	}

	var wins int
	var weightedWins, weightSum float64
	margins := make([]float64, len(recent))
	scored := make([]float64, len(recent))
	allowed := make([]float64, len(recent))
	for i, g := range recent {
		pf, pa := g.ScoreFor(team)
		margins[i] = float64(pf - pa)
		if pf > pa {
			wins++
			weightedWins += weightAt(i)
		}
		weightSum += weightAt(i)
		// trend slopes run oldest to newest
		scored[len(recent)-1-i] = float64(pf)
		allowed[len(recent)-1-i] = float64(pa)
	}

	n := float64(len(recent))
	s.RecentWinPct = float64(wins) / n
	s.RecentForm = s.RecentWinPct*2 - 1

	if len(recent) >= 2 {
		xs := make([]float64, len(recent))
		for i := range xs {
			xs[i] = float64(i)
		}
		_, scoringSlope := stat.LinearRegression(xs, scored, nil, false)
		_, allowedSlope := stat.LinearRegression(xs, allowed, nil, false)
		s.ScoringTrend = scoringSlope
		s.DefensiveTrend = -allowedSlope
		s.Consistency = stat.StdDev(margins, nil)
	}

	weightedForm := ratio(weightedWins, weightSum)*2 - 1
	s.MomentumScore = weightedForm + 0.05*clampStreak(team, recent)
}

// summarizeStats derives the efficiency and advanced-ratio features from the
// per-game stat rows. Advanced ratios below the sample floor are 0.0.
func (s *teamSummary) summarizeStats(stats []*models.TeamGameStats, minSituational int) {
	if len(stats) == 0 {
		return
	}

	var possessions, pointsFor, pointsAgainst int
	var thirdAtt, thirdConv, fourthAtt, fourthConv int
	var rzTrips, rzScores, explosive, offPlays, defPlays int
	var sacks, pressures, turnovers, takeaways int
	for _, row := range stats {
		possessions += row.Possessions
		pointsFor += row.PointsFor
		pointsAgainst += row.PointsAgainst
		thirdAtt += row.ThirdDownAtt
		thirdConv += row.ThirdDownConv
		fourthAtt += row.FourthDownAtt
		fourthConv += row.FourthDownConv
		rzTrips += row.RedZoneTrips
		rzScores += row.RedZoneScores
		explosive += row.ExplosivePlays
		offPlays += row.OffensivePlays
		defPlays += row.DefensivePlays
		sacks += row.SacksFor
		pressures += row.PressuresFor
		turnovers += row.Turnovers
		takeaways += row.Takeaways
	}

	s.OffEfficiency = ratio(float64(pointsFor), float64(possessions))
	s.DefEfficiency = ratio(float64(pointsAgainst), float64(possessions))
	s.TurnoverMargin = float64(takeaways-turnovers) / float64(len(stats))

	if thirdAtt >= minSituational {
		s.ThirdDownPct = ratio(float64(thirdConv), float64(thirdAtt))
	}
	if offPlays >= minSituational {
		s.ExplosivePlayRate = ratio(float64(explosive), float64(offPlays))
	}
	if rzTrips >= minSituational {
		s.RedZoneEfficiency = ratio(float64(rzScores), float64(rzTrips))
	}
	if defPlays >= minSituational {
		s.PressureRate = ratio(float64(sacks+pressures), float64(defPlays))
	}
	if fourthAtt >= minSituational {
		s.FourthDownAggression = ratio(float64(fourthConv), float64(fourthAtt))
	}
}

func weightAt(i int) float64 {
	if i < len(formWeights) {
		return formWeights[i]
	}
	return formWeights[len(formWeights)-1]
}

// clampStreak returns the current win/loss streak length, clamped to [-3, 3].
// Positive for a win streak, negative for a losing streak.
func clampStreak(team string, recent []*models.Game) float64 {
	if len(recent) == 0 {
		return 0
	}

	streak := 0
	pf, pa := recent[0].ScoreFor(team)
	winning := pf > pa
	for _, g := range recent {
		pf, pa := g.ScoreFor(team)
		if (pf > pa) != winning {
			break
		}
		streak++
	}

	v := float64(streak)
	if !winning {
		v = -v
	}
	return math.Max(-3, math.Min(3, v))
}

// haversineKm returns the great-circle distance between two coordinates.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
