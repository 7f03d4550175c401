// Package value turns a model probability and a market-implied probability
// into a fractional-Kelly stake recommendation.
package value

import (
	"time"

	"github.com/yourusername/gridiron/internal/config"
	"github.com/yourusername/gridiron/internal/logger"
	"github.com/yourusername/gridiron/internal/models"
)

// Analyzer sizes stakes with the Kelly criterion for a binary win/lose
// market, damped by a configured multiplier and capped at a maximum bankroll
// fraction. It never recommends a negative stake and never exceeds the cap.
type Analyzer struct {
	cfg config.ValueConfig
	log *logger.EngineLogger
}

// New creates a value analyzer.
func New(cfg config.ValueConfig, log *logger.EngineLogger) *Analyzer {
	return &Analyzer{cfg: cfg, log: log}
}

// Kelly holds the raw and adjusted stake fractions for one side of a market.
type Kelly struct {
	Edge     float64
	Raw      float64
	Adjusted float64
	Stake    float64
	Capped   bool
}

// Fraction computes the Kelly stake for model probability p against vig-free
// market probability q. For a binary market the optimal fraction reduces to
// edge over the payout's complement, f = (p - q) / (1 - q). A non-positive
// edge means no bet, not a short.
func (a *Analyzer) Fraction(p, q float64) Kelly {
	k := Kelly{Edge: p - q}
	if k.Edge <= 0 || q <= 0 || q >= 1 {
		return k
	}

	k.Raw = k.Edge / (1 - q)
	k.Adjusted = k.Raw * a.cfg.KellyMultiplier
	k.Stake = k.Adjusted
	if k.Stake > a.cfg.MaxStakeFraction {
		k.Stake = a.cfg.MaxStakeFraction
		k.Capped = true
	}

	return k
}

// Analyze compares a prediction with a market line and recommends a stake on
// whichever side the model finds mispriced. "No edge" yields a zero-stake
// recommendation, never an error.
func (a *Analyzer) Analyze(prediction *models.Prediction, line *models.MarketLine) *models.BetRecommendation {
	marketHome := line.HomeImpliedProbability()

	rec := &models.BetRecommendation{
		HomeTeam:   prediction.HomeTeam,
		AwayTeam:   prediction.AwayTeam,
		GameDate:   prediction.GameDate,
		Side:       prediction.HomeTeam,
		ModelProb:  prediction.HomeWinProb,
		MarketProb: marketHome,
		CreatedAt:  time.Now().UTC(),
	}

	p, q := prediction.HomeWinProb, marketHome
	if prediction.AwayWinProb-(1-marketHome) > p-q {
		rec.Side = prediction.AwayTeam
		rec.ModelProb = prediction.AwayWinProb
		rec.MarketProb = 1 - marketHome
		p, q = rec.ModelProb, rec.MarketProb
	}

	k := a.Fraction(p, q)
	rec.Edge = k.Edge
	rec.KellyRaw = k.Raw
	rec.KellyAdjusted = k.Adjusted
	rec.StakeFraction = k.Stake
	rec.Capped = k.Capped
	if q > 0 {
		rec.ExpectedValue = p/q - 1
	}

	if rec.Edge < a.cfg.MinEdge {
		rec.StakeFraction = 0
		rec.Capped = false
	}

	a.log.LogValueDecision(rec.HomeTeam, rec.AwayTeam, rec.ModelProb, rec.MarketProb,
		rec.Edge, rec.StakeFraction, rec.Capped)

	return rec
}
