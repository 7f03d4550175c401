package value

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/gridiron/internal/models"
)

// ruinFraction is the bankroll floor, as a share of the starting bankroll.
// Fractional staking never reaches exactly zero, so dropping below this
// counts as ruin.
const ruinFraction = 0.1

// SimulationConfig configures the bankroll simulation.
type SimulationConfig struct {
	Iterations      int
	InitialBankroll float64
	Seed            int64
}

// SimulationResult summarizes simulated bankroll outcomes for a slate of
// recommendations. Returns are relative to the initial bankroll.
type SimulationResult struct {
	Iterations          int                `json:"iterations"`
	Bets                int                `json:"bets"`
	MeanReturn          float64            `json:"mean_return"`
	StdReturn           float64            `json:"std_return"`
	ProbabilityOfProfit float64            `json:"probability_of_profit"`
	ProbabilityOfRuin   float64            `json:"probability_of_ruin"`
	Percentiles         map[string]float64 `json:"percentiles"`
}

// Simulate runs a Monte Carlo bankroll simulation over the staked
// recommendations, resolving each bet at the model's probability and paying
// out at the market's vig-free odds. Zero-stake recommendations are ignored.
func (a *Analyzer) Simulate(recs []*models.BetRecommendation, cfg SimulationConfig) SimulationResult {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if cfg.InitialBankroll <= 0 {
		cfg.InitialBankroll = 1.0
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	staked := make([]*models.BetRecommendation, 0, len(recs))
	for _, rec := range recs {
		if rec.StakeFraction > 0 && rec.MarketProb > 0 && rec.MarketProb < 1 {
			staked = append(staked, rec)
		}
	}

	result := SimulationResult{Iterations: cfg.Iterations, Bets: len(staked)}
	if len(staked) == 0 {
		result.Percentiles = map[string]float64{"p5": 0, "p50": 0, "p95": 0}
		return result
	}

	rng := rand.New(rand.NewSource(seed))
	floor := cfg.InitialBankroll * ruinFraction
	finals := make([]float64, cfg.Iterations)

	for i := 0; i < cfg.Iterations; i++ {
		bankroll := cfg.InitialBankroll
		for _, rec := range staked {
			stake := bankroll * rec.StakeFraction
			// Vig-free decimal odds minus one: a bet at implied
			// probability q pays (1-q)/q per unit staked.
			payout := (1 - rec.MarketProb) / rec.MarketProb
			if rng.Float64() < rec.ModelProb {
				bankroll += stake * payout
			} else {
				bankroll -= stake
			}
			if bankroll < floor {
				break
			}
		}
		finals[i] = bankroll
	}

	returns := make([]float64, len(finals))
	profitable, ruined := 0, 0
	for i, final := range finals {
		returns[i] = (final - cfg.InitialBankroll) / cfg.InitialBankroll
		if final > cfg.InitialBankroll {
			profitable++
		}
		if final < floor {
			ruined++
		}
	}

	sort.Float64s(returns)
	result.MeanReturn = stat.Mean(returns, nil)
	if std := stat.StdDev(returns, nil); !math.IsNaN(std) {
		result.StdReturn = std
	}
	result.ProbabilityOfProfit = float64(profitable) / float64(cfg.Iterations)
	result.ProbabilityOfRuin = float64(ruined) / float64(cfg.Iterations)
	result.Percentiles = map[string]float64{
		"p5":  stat.Quantile(0.05, stat.Empirical, returns, nil),
		"p50": stat.Quantile(0.50, stat.Empirical, returns, nil),
		"p95": stat.Quantile(0.95, stat.Empirical, returns, nil),
	}

	return result
}
