package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/gridiron/internal/models"
)

func recommendation(side string, modelProb, marketProb, stake float64) *models.BetRecommendation {
	return &models.BetRecommendation{
		HomeTeam:      "KC",
		AwayTeam:      "BUF",
		GameDate:      time.Date(2024, 10, 6, 0, 0, 0, 0, time.UTC),
		Side:          side,
		ModelProb:     modelProb,
		MarketProb:    marketProb,
		Edge:          modelProb - marketProb,
		StakeFraction: stake,
	}
}

func TestSimulatePositiveEdgeSlate(t *testing.T) {
	a := newTestAnalyzer(defaultValueConfig())

	recs := []*models.BetRecommendation{
		recommendation("KC", 0.60, 0.50, 0.05),
		recommendation("KC", 0.58, 0.50, 0.04),
		recommendation("BUF", 0.55, 0.48, 0.03),
	}

	result := a.Simulate(recs, SimulationConfig{
		Iterations:      5000,
		InitialBankroll: 1000,
		Seed:            42,
	})

	assert.Equal(t, 5000, result.Iterations)
	assert.Equal(t, 3, result.Bets)
	assert.Greater(t, result.MeanReturn, 0.0)
	assert.Greater(t, result.StdReturn, 0.0)
	assert.Greater(t, result.ProbabilityOfProfit, 0.5)
	assert.Zero(t, result.ProbabilityOfRuin)
	assert.LessOrEqual(t, result.Percentiles["p5"], result.Percentiles["p50"])
	assert.LessOrEqual(t, result.Percentiles["p50"], result.Percentiles["p95"])
}

func TestSimulateIsDeterministicForSeed(t *testing.T) {
	a := newTestAnalyzer(defaultValueConfig())
	recs := []*models.BetRecommendation{
		recommendation("KC", 0.60, 0.50, 0.05),
	}
	cfg := SimulationConfig{Iterations: 200, InitialBankroll: 100, Seed: 7}

	first := a.Simulate(recs, cfg)
	second := a.Simulate(recs, cfg)

	assert.Equal(t, first, second)
}

func TestSimulateSkipsZeroStakeRecommendations(t *testing.T) {
	a := newTestAnalyzer(defaultValueConfig())

	recs := []*models.BetRecommendation{
		recommendation("KC", 0.50, 0.50, 0),
		recommendation("BUF", 0.45, 0.50, 0),
	}

	result := a.Simulate(recs, SimulationConfig{Iterations: 100, InitialBankroll: 100, Seed: 1})

	assert.Zero(t, result.Bets)
	assert.Zero(t, result.MeanReturn)
	assert.Zero(t, result.ProbabilityOfProfit)
	assert.Contains(t, result.Percentiles, "p50")
}

func TestSimulateNegativeEdgeLosesOnAverage(t *testing.T) {
	a := newTestAnalyzer(defaultValueConfig())

	// Model probability below the market price on every bet
	recs := []*models.BetRecommendation{
		recommendation("KC", 0.40, 0.50, 0.05),
		recommendation("KC", 0.42, 0.50, 0.05),
		recommendation("KC", 0.38, 0.50, 0.05),
	}

	result := a.Simulate(recs, SimulationConfig{
		Iterations:      5000,
		InitialBankroll: 1000,
		Seed:            42,
	})

	assert.Less(t, result.MeanReturn, 0.0)
	assert.Less(t, result.ProbabilityOfProfit, 0.5)
}

func TestSimulateDefaults(t *testing.T) {
	a := newTestAnalyzer(defaultValueConfig())
	recs := []*models.BetRecommendation{
		recommendation("KC", 0.60, 0.50, 0.05),
	}

	result := a.Simulate(recs, SimulationConfig{})

	assert.Equal(t, 1000, result.Iterations)
	assert.Equal(t, 1, result.Bets)
}
