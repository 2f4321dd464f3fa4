package optimizer

import (
	"time"

	"github.com/Loofy147/Prompt-dashboard/pes"
)

// Status is the terminal state of an optimization run. Every run reaches
// exactly one of these; only Failed indicates an error, and even then the
// partial result is returned.
type Status string

const (
	// StatusConverged means the composite quality reached the target.
	StatusConverged Status = "converged"
	// StatusBudgetExhausted means the iteration cap or spend budget ran out
	// before the target was reached. The best text so far is still returned.
	StatusBudgetExhausted Status = "budget_exhausted"
	// StatusFailed means the rewriting collaborator kept failing after
	// retries, or the run was cancelled.
	StatusFailed Status = "failed"
)

// Iteration is one completed pass of the optimization loop. Iterations are
// append-only and owned exclusively by the run that produced them.
type Iteration struct {
	Number             int               `json:"iteration_number"`
	PromptText         string            `json:"prompt_text"`
	Features           pes.FeatureVector `json:"features"`
	Score              pes.QualityScore  `json:"q_score"`
	ImprovedDimensions []pes.Dimension   `json:"improved_dimensions"`
	TargetDimension    pes.Dimension     `json:"target_dimension"`
	CostUSD            float64           `json:"cost_usd"`
	TokensUsed         int               `json:"tokens_used"`
	LatencyMS          float64           `json:"latency_ms"`
	Timestamp          time.Time         `json:"timestamp"`
}

// DimensionChange records a before/after pair for one dimension.
type DimensionChange struct {
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

// Result is the complete record of an optimization run. It is created at
// loop start, grows by appending iterations, and is sealed when the run
// reaches a terminal state.
type Result struct {
	Status          Status  `json:"status"`
	OriginalPrompt  string  `json:"original_prompt"`
	OptimizedPrompt string  `json:"optimized_prompt"`
	OriginalQ       float64 `json:"original_q"`
	OptimizedQ      float64 `json:"optimized_q"`
	DeltaQ          float64 `json:"delta_q"`
	ImprovementPct  float64 `json:"improvement_pct"`
	TotalCostUSD    float64 `json:"total_cost_usd"`
	TotalTokens     int     `json:"total_tokens"`

	Strategy   Strategy    `json:"strategy_used"`
	Iterations []Iteration `json:"iterations"`

	// DimensionChanges holds before/after pairs for dimensions that moved
	// by more than 0.01.
	DimensionChanges map[pes.Dimension]DimensionChange `json:"dimensions_improved"`

	// Err carries the cause when Status is StatusFailed. Callers never need
	// error handling to get a usable result.
	Err error `json:"-"`
}

// BestIteration returns the recorded iteration with the highest composite
// score, or nil when no iteration completed.
func (r *Result) BestIteration() *Iteration {
	var best *Iteration
	for i := range r.Iterations {
		if best == nil || r.Iterations[i].Score.Composite > best.Score.Composite {
			best = &r.Iterations[i]
		}
	}
	return best
}

// CostPerPoint returns the spend per 0.01 of quality gained, or 0 when no
// improvement occurred.
func (r *Result) CostPerPoint() float64 {
	if r.DeltaQ <= 0 {
		return 0
	}
	return r.TotalCostUSD / (r.DeltaQ * 100)
}

// CostEstimate is a throwaway pre-flight forecast of an optimization run.
// It is never persisted.
type CostEstimate struct {
	EstimatedIterations  int                  `json:"estimated_iterations"`
	TokensPerIteration   int                  `json:"estimated_tokens_per_iteration"`
	EstimatedTotalTokens int                  `json:"estimated_total_tokens"`
	EstimatedCostUSD     float64              `json:"estimated_cost_usd"`
	CostBreakdown        []CostBreakdownEntry `json:"cost_breakdown"`
	Strategy             Strategy             `json:"strategy"`
	CurrentQ             float64              `json:"current_q"`
	TargetQ              float64              `json:"target_q"`
	DeltaQ               float64              `json:"delta_q"`
}

// CostBreakdownEntry projects one iteration of the forecast.
type CostBreakdownEntry struct {
	Iteration int     `json:"iteration"`
	Tokens    int     `json:"tokens"`
	CostUSD   float64 `json:"cost_usd"`
}

// IterationCallback observes each completed iteration of a run.
type IterationCallback func(it Iteration)
