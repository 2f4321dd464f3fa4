// Package optimizer implements the budget-aware iterative optimization loop:
// score the text, pick the weakest quality dimension, ask the external
// rewriter to strengthen it, re-score, and repeat until the target quality is
// reached or the strategy budget runs out.
package optimizer

import "fmt"

// Strategy names a budget profile controlling how many iterations and how
// much spend an optimization run is permitted.
type Strategy string

const (
	StrategyCostEfficient Strategy = "cost_efficient"
	StrategyBalanced      Strategy = "balanced"
	StrategyMaxQuality    Strategy = "max_quality"
)

// StrategyConfig is the concrete envelope behind a strategy name.
type StrategyConfig struct {
	// MaxIterations caps the loop regardless of progress.
	MaxIterations int
	// MaxCostUSD and MaxTokens are cumulative run budgets; crossing either
	// one terminates the run as BudgetExhausted.
	MaxCostUSD float64
	MaxTokens  int
	// Temperature passed to the rewriting collaborator.
	Temperature float64

	Description string
}

var strategyConfigs = map[Strategy]StrategyConfig{
	StrategyCostEfficient: {
		MaxIterations: 2,
		MaxCostUSD:    0.05,
		MaxTokens:     4000,
		Temperature:   0.5,
		Description:   "Budget-friendly: essential improvements only",
	},
	StrategyBalanced: {
		MaxIterations: 3,
		MaxCostUSD:    0.20,
		MaxTokens:     12000,
		Temperature:   0.3,
		Description:   "Balanced approach: good quality at reasonable cost",
	},
	StrategyMaxQuality: {
		MaxIterations: 5,
		MaxCostUSD:    0.50,
		MaxTokens:     40000,
		Temperature:   0.2,
		Description:   "Premium quality: comprehensive optimization",
	},
}

// Config resolves a strategy name to its envelope.
func (s Strategy) Config() (StrategyConfig, error) {
	cfg, ok := strategyConfigs[s]
	if !ok {
		return StrategyConfig{}, fmt.Errorf("unknown strategy: %q", s)
	}
	return cfg, nil
}

// Valid reports whether the strategy name is known.
func (s Strategy) Valid() bool {
	_, ok := strategyConfigs[s]
	return ok
}

// Strategies returns all known strategy names.
func Strategies() []Strategy {
	return []Strategy{StrategyCostEfficient, StrategyBalanced, StrategyMaxQuality}
}
