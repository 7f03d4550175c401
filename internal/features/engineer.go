package features

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron/internal/config"
	"github.com/yourusername/gridiron/internal/models"
	"github.com/yourusername/gridiron/internal/repository"
)

const defaultRestDays = 7.0

// Engineer builds feature vectors for matchups. All lookups are bounded
// strictly before the matchup date, so a vector built for a historical game
// contains nothing the model could not have known at kickoff.
type Engineer struct {
	games repository.GameRepository
	stats repository.TeamStatsRepository
	teams repository.TeamRepository
	cfg   config.FeaturesConfig
	cache *gocache.Cache
	log   *logrus.Entry
}

// NewEngineer creates a feature engineer backed by the given repositories.
func NewEngineer(repos *repository.Repositories, cfg config.FeaturesConfig, log *logrus.Logger) *Engineer {
	ttl := time.Duration(cfg.StatsCacheTTLSeconds) * time.Second
	return &Engineer{
		games: repos.Game,
		stats: repos.TeamStats,
		teams: repos.Team,
		cfg:   cfg,
		cache: gocache.New(ttl, 2*ttl),
		log:   log.WithField("component", "features"),
	}
}

// BuildFeatures returns the feature vector for a matchup. The game's scores,
// if any, are never read; only its teams, date, kickoff slot, season and week
// describe the matchup. Fails with InsufficientDataError when either side has
// fewer than the configured minimum of prior games in the season.
func (e *Engineer) BuildFeatures(ctx context.Context, game *models.Game) (FeatureVector, error) {
	if game.HomeTeam == "" || game.AwayTeam == "" || game.HomeTeam == game.AwayTeam {
		return nil, &models.ValidationError{
			Component: "features",
			Detail:    fmt.Sprintf("invalid matchup %q vs %q", game.HomeTeam, game.AwayTeam),
		}
	}

	home, err := e.summaryFor(ctx, game.HomeTeam, game.Season, game.GameDate)
	if err != nil {
		return nil, err
	}
	away, err := e.summaryFor(ctx, game.AwayTeam, game.Season, game.GameDate)
	if err != nil {
		return nil, err
	}

	fv := FeatureVector{
		"win_pct_diff":                 home.WinPct - away.WinPct,
		"point_diff_avg_diff":          home.PointDiffAvg - away.PointDiffAvg,
		"points_per_game_diff":         home.PPG - away.PPG,
		"points_allowed_per_game_diff": home.PAPG - away.PAPG,
		"off_efficiency_diff":          home.OffEfficiency - away.OffEfficiency,
		"def_efficiency_diff":          home.DefEfficiency - away.DefEfficiency,
		"third_down_pct_diff":          home.ThirdDownPct - away.ThirdDownPct,
		"turnover_margin_diff":         home.TurnoverMargin - away.TurnoverMargin,

		"recent_win_pct_diff":  home.RecentWinPct - away.RecentWinPct,
		"recent_form_diff":     home.RecentForm - away.RecentForm,
		"scoring_trend_diff":   home.ScoringTrend - away.ScoringTrend,
		"defensive_trend_diff": home.DefensiveTrend - away.DefensiveTrend,
		"momentum_score_diff":  home.MomentumScore - away.MomentumScore,
		"consistency_diff":     home.Consistency - away.Consistency,

		"explosive_play_rate_diff":    home.ExplosivePlayRate - away.ExplosivePlayRate,
		"red_zone_efficiency_diff":    home.RedZoneEfficiency - away.RedZoneEfficiency,
		"pressure_rate_diff":          home.PressureRate - away.PressureRate,
		"fourth_down_aggression_diff": home.FourthDownAggression - away.FourthDownAggression,
	}

	e.addSituational(ctx, fv, game, home, away)

	if err := e.addHeadToHead(ctx, fv, game); err != nil {
		return nil, err
	}
	if err := e.addStrengthOfSchedule(ctx, fv, game, home, away); err != nil {
		return nil, err
	}

	return fv, nil
}

// summaryFor returns (and caches) a team's season-to-date aggregates as of a
// date.
func (e *Engineer) summaryFor(ctx context.Context, team string, season int, asOf time.Time) (*teamSummary, error) {
	key := fmt.Sprintf("sum|%s|%d|%s", team, season, asOf.Format("2006-01-02"))
	if cached, ok := e.cache.Get(key); ok {
		return cached.(*teamSummary), nil
	}

	games, err := e.games.GetTeamGamesBefore(ctx, team, season, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load games for %s: %w", team, err)
	}
	if len(games) < e.cfg.MinGamesPlayed {
		return nil, &models.InsufficientDataError{
			Subject:  team,
			Season:   season,
			Have:     len(games),
			Required: e.cfg.MinGamesPlayed,
		}
	}

	stats, err := e.stats.GetTeamStatsBefore(ctx, team, season, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats for %s: %w", team, err)
	}

	summary := summarize(team, games, stats, e.cfg.MomentumWindow, e.cfg.MinSituationalSamples)
	e.cache.Set(key, summary, gocache.DefaultExpiration)

	return summary, nil
}

// addSituational fills the schedule-context features. Missing team metadata
// degrades the travel and division indicators to zero rather than failing,
// since league-structure rows are optional reference data.
func (e *Engineer) addSituational(ctx context.Context, fv FeatureVector, game *models.Game, home, away *teamSummary) {
	fv["home_field"] = 1.0
	fv["week_of_season"] = float64(game.Week)

	restHome := restDays(home.LastGameDate, game.GameDate)
	restAway := restDays(away.LastGameDate, game.GameDate)
	fv["rest_days_home"] = restHome
	fv["rest_days_away"] = restAway
	fv["rest_days_diff"] = restHome - restAway

	fv["primetime"] = 0.0
	if game.Primetime() {
		fv["primetime"] = 1.0
	}

	fv["travel_distance"] = 0.0
	fv["divisional_game"] = 0.0
	fv["conference_game"] = 0.0

	homeInfo, err := e.teams.GetByAbbr(ctx, game.HomeTeam)
	if err != nil {
		e.logTeamLookupMiss(game.HomeTeam, err)
		return
	}
	awayInfo, err := e.teams.GetByAbbr(ctx, game.AwayTeam)
	if err != nil {
		e.logTeamLookupMiss(game.AwayTeam, err)
		return
	}

	// scaled to keep the raw kilometre figure in the same ballpark as the
	// other features
	fv["travel_distance"] = haversineKm(
		awayInfo.Latitude, awayInfo.Longitude,
		homeInfo.Latitude, homeInfo.Longitude,
	) / 1000.0

	if homeInfo.SameDivision(*awayInfo) {
		fv["divisional_game"] = 1.0
	}
	if homeInfo.SameConference(*awayInfo) {
		fv["conference_game"] = 1.0
	}
}

// addHeadToHead fills the prior-meeting features over the configured lookback.
// No prior meetings is the neutral 0.5, not an error.
func (e *Engineer) addHeadToHead(ctx context.Context, fv FeatureVector, game *models.Game) error {
	fromSeason := game.Season - (e.cfg.HeadToHeadSeasons - 1)
	meetings, err := e.games.GetMeetingsBefore(ctx, game.HomeTeam, game.AwayTeam, fromSeason, game.GameDate)
	if err != nil {
		return fmt.Errorf("failed to load head-to-head games: %w", err)
	}

	fv["h2h_games_played"] = float64(len(meetings))
	fv["h2h_home_win_pct"] = 0.5
	if len(meetings) > 0 {
		wins := 0
		for _, m := range meetings {
			pf, pa := m.ScoreFor(game.HomeTeam)
			if pf > pa {
				wins++
			}
		}
		fv["h2h_home_win_pct"] = float64(wins) / float64(len(meetings))
	}

	return nil
}

// addStrengthOfSchedule fills the opponent-quality differential. Each side's
// strength is the mean win rate of its prior opponents as of the matchup
// date; an opponent with no completed games counts as the neutral 0.5.
func (e *Engineer) addStrengthOfSchedule(ctx context.Context, fv FeatureVector, game *models.Game, home, away *teamSummary) error {
	homeSOS, err := e.scheduleStrength(ctx, home.Opponents, game.Season, game.GameDate)
	if err != nil {
		return err
	}
	awaySOS, err := e.scheduleStrength(ctx, away.Opponents, game.Season, game.GameDate)
	if err != nil {
		return err
	}

	fv["sos_diff"] = homeSOS - awaySOS
	return nil
}

func (e *Engineer) scheduleStrength(ctx context.Context, opponents []string, season int, asOf time.Time) (float64, error) {
	if len(opponents) == 0 {
		return 0.5, nil
	}

	var total float64
	for _, opp := range opponents {
		pct, err := e.winPctBefore(ctx, opp, season, asOf)
		if err != nil {
			return 0, err
		}
		total += pct
	}

	return total / float64(len(opponents)), nil
}

func (e *Engineer) winPctBefore(ctx context.Context, team string, season int, asOf time.Time) (float64, error) {
	key := fmt.Sprintf("rec|%s|%d|%s", team, season, asOf.Format("2006-01-02"))
	if cached, ok := e.cache.Get(key); ok {
		return cached.(float64), nil
	}

	games, err := e.games.GetTeamGamesBefore(ctx, team, season, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to load record for %s: %w", team, err)
	}

	pct := 0.5
	if len(games) > 0 {
		wins := 0
		for _, g := range games {
			pf, pa := g.ScoreFor(team)
			if pf > pa {
				wins++
			}
		}
		pct = float64(wins) / float64(len(games))
	}

	e.cache.Set(key, pct, gocache.DefaultExpiration)
	return pct, nil
}

func (e *Engineer) logTeamLookupMiss(team string, err error) {
	if errors.Is(err, models.ErrNotFound) {
		e.log.WithField("team", team).Debug("No league-structure row for team")
		return
	}
	e.log.WithField("team", team).WithError(err).Warn("Team lookup failed, situational indicators zeroed")
}

func restDays(lastGame, gameDate time.Time) float64 {
	if lastGame.IsZero() {
		return defaultRestDays
	}
	return gameDate.Sub(lastGame).Hours() / 24
}
