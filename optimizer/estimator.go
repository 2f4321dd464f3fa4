package optimizer

import (
	"fmt"
	"math"
)

// Projection constants for the pre-flight cost forecast. One rewrite call is
// assumed to read about 400 tokens (text plus instruction) and produce about
// 300, improving the composite by roughly 0.12 per iteration.
const (
	estInputTokensPerCall  = 400
	estOutputTokensPerCall = 300
	estQGainPerIteration   = 0.12
)

// Pricing mirrors the rewrite collaborator's default token rates.
const (
	estCostPer1KInput  = 0.003
	estCostPer1KOutput = 0.015
)

// Estimate projects the iterations, token volume, and spend needed to move
// quality from currentQ to targetQ under a strategy, without invoking any
// rewriting. It is pure and deterministic, and the projected totals are
// monotonically non-decreasing in (targetQ - currentQ) for a fixed strategy.
//
// When currentQ already meets the target the estimate is all zeros.
func Estimate(currentQ, targetQ float64, strategy Strategy) (*CostEstimate, error) {
	if currentQ < 0 || currentQ > 1 {
		return nil, fmt.Errorf("current quality %v outside [0,1]", currentQ)
	}
	if targetQ <= 0 || targetQ > 1 {
		return nil, fmt.Errorf("target quality %v outside (0,1]", targetQ)
	}
	cfg, err := strategy.Config()
	if err != nil {
		return nil, err
	}

	gap := targetQ - currentQ
	est := &CostEstimate{
		Strategy: strategy,
		CurrentQ: currentQ,
		TargetQ:  targetQ,
		DeltaQ:   gap,
	}
	if gap <= 0 {
		return est, nil
	}

	iterations := int(math.Ceil(gap / estQGainPerIteration))
	if iterations > cfg.MaxIterations {
		iterations = cfg.MaxIterations
	}

	tokensPerIteration := estInputTokensPerCall + estOutputTokensPerCall
	costPerIteration := float64(estInputTokensPerCall)/1000*estCostPer1KInput +
		float64(estOutputTokensPerCall)/1000*estCostPer1KOutput

	est.EstimatedIterations = iterations
	est.TokensPerIteration = tokensPerIteration
	est.EstimatedTotalTokens = tokensPerIteration * iterations
	est.EstimatedCostUSD = costPerIteration * float64(iterations)

	est.CostBreakdown = make([]CostBreakdownEntry, 0, iterations)
	for i := 1; i <= iterations; i++ {
		est.CostBreakdown = append(est.CostBreakdown, CostBreakdownEntry{
			Iteration: i,
			Tokens:    tokensPerIteration,
			CostUSD:   costPerIteration,
		})
	}
	return est, nil
}
