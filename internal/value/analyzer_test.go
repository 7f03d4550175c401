package value

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/yourusername/gridiron/internal/config"
	"github.com/yourusername/gridiron/internal/logger"
	"github.com/yourusername/gridiron/internal/models"
)

func newTestAnalyzer(cfg config.ValueConfig) *Analyzer {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return New(cfg, logger.NewEngineLogger(log))
}

func defaultValueConfig() config.ValueConfig {
	return config.ValueConfig{
		KellyMultiplier:  0.5,
		MaxStakeFraction: 0.05,
		MinEdge:          0.0,
	}
}

func TestFractionHalfKellyAndCap(t *testing.T) {
	a := newTestAnalyzer(defaultValueConfig())

	k := a.Fraction(0.60, 0.50)

	assert.InDelta(t, 0.10, k.Edge, 1e-9)
	assert.InDelta(t, 0.20, k.Raw, 1e-9)
	assert.InDelta(t, 0.10, k.Adjusted, 1e-9)
	// half Kelly still exceeds the 5% bankroll cap
	assert.InDelta(t, 0.05, k.Stake, 1e-9)
	assert.True(t, k.Capped)
}

func TestFractionNonPositiveEdge(t *testing.T) {
	a := newTestAnalyzer(defaultValueConfig())

	k := a.Fraction(0.45, 0.50)
	assert.InDelta(t, -0.05, k.Edge, 1e-9)
	assert.Zero(t, k.Stake)
	assert.Zero(t, k.Raw)
	assert.False(t, k.Capped)

	k = a.Fraction(0.50, 0.50)
	assert.Zero(t, k.Stake)
}

func TestFractionBelowCapIsNotCapped(t *testing.T) {
	a := newTestAnalyzer(defaultValueConfig())

	k := a.Fraction(0.53, 0.50)

	assert.InDelta(t, 0.06, k.Raw, 1e-9)
	assert.InDelta(t, 0.03, k.Stake, 1e-9)
	assert.False(t, k.Capped)
}

func line(homeML, awayML int) *models.MarketLine {
	return &models.MarketLine{
		HomeTeam:      "KC",
		AwayTeam:      "BUF",
		GameDate:      time.Date(2024, 10, 6, 0, 0, 0, 0, time.UTC),
		HomeMoneyline: homeML,
		AwayMoneyline: awayML,
		Bookmaker:     "test",
	}
}

func prediction(homeWinProb float64) *models.Prediction {
	return &models.Prediction{
		HomeTeam:    "KC",
		AwayTeam:    "BUF",
		GameDate:    time.Date(2024, 10, 6, 0, 0, 0, 0, time.UTC),
		HomeWinProb: homeWinProb,
		AwayWinProb: 1 - homeWinProb,
	}
}

func TestAnalyzeRecommendsMispricedHomeSide(t *testing.T) {
	a := newTestAnalyzer(defaultValueConfig())

	// -110/-110 is a fair 0.50/0.50 market after vig removal
	rec := a.Analyze(prediction(0.60), line(-110, -110))

	assert.Equal(t, "KC", rec.Side)
	assert.InDelta(t, 0.50, rec.MarketProb, 1e-9)
	assert.InDelta(t, 0.10, rec.Edge, 1e-9)
	assert.InDelta(t, 0.05, rec.StakeFraction, 1e-9)
	assert.True(t, rec.Capped)
	assert.True(t, rec.HasEdge())
	assert.InDelta(t, 0.20, rec.ExpectedValue, 1e-9)
}

func TestAnalyzeRecommendsAwaySide(t *testing.T) {
	a := newTestAnalyzer(defaultValueConfig())

	rec := a.Analyze(prediction(0.40), line(-110, -110))

	assert.Equal(t, "BUF", rec.Side)
	assert.InDelta(t, 0.60, rec.ModelProb, 1e-9)
	assert.InDelta(t, 0.10, rec.Edge, 1e-9)
	assert.Greater(t, rec.StakeFraction, 0.0)
}

func TestAnalyzeNoEdgeIsZeroStake(t *testing.T) {
	a := newTestAnalyzer(defaultValueConfig())

	rec := a.Analyze(prediction(0.50), line(-110, -110))

	assert.Zero(t, rec.StakeFraction)
	assert.False(t, rec.HasEdge())
}

func TestAnalyzeRespectsMinEdge(t *testing.T) {
	cfg := defaultValueConfig()
	cfg.MinEdge = 0.05
	a := newTestAnalyzer(cfg)

	rec := a.Analyze(prediction(0.53), line(-110, -110))

	assert.InDelta(t, 0.03, rec.Edge, 1e-9)
	assert.Zero(t, rec.StakeFraction)
}

func TestStakeAmountRoundsDown(t *testing.T) {
	rec := &models.BetRecommendation{StakeFraction: 0.05}
	bankroll := decimal.NewFromInt(1234)

	assert.Equal(t, "61.70", rec.StakeAmount(bankroll).StringFixed(2))
}

func TestImpliedProbability(t *testing.T) {
	assert.InDelta(t, 0.5238, models.ImpliedProbability(-110), 1e-4)
	assert.InDelta(t, 0.4, models.ImpliedProbability(150), 1e-9)
	assert.Zero(t, models.ImpliedProbability(0))

	l := line(-110, -110)
	assert.InDelta(t, 0.5, l.HomeImpliedProbability(), 1e-9)
	assert.InDelta(t, 0.0476, l.Overround(), 1e-4)
}
