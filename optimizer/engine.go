package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Loofy147/Prompt-dashboard/pes"
	"github.com/Loofy147/Prompt-dashboard/rewrite"
	"github.com/Loofy147/Prompt-dashboard/utils"
)

// ErrCostLimitExceeded is returned before any rewriting happens when the
// pre-flight estimate already exceeds the strategy budget. Only possible when
// the engine is built WithEstimateFirst.
var ErrCostLimitExceeded = errors.New("estimated cost exceeds strategy budget")

// significantChange is the threshold below which a dimension delta is not
// reported in the result's before/after map.
const significantChange = 0.01

// Engine drives the optimization loop. A single Engine is safe for
// concurrent use; each run owns its accumulating Result exclusively.
type Engine struct {
	rewriter      rewrite.Rewriter
	weights       pes.WeightTable
	logger        utils.Logger
	maxRetries    int
	retryDelay    time.Duration
	estimateFirst bool
	callback      IterationCallback
}

// NewEngine builds an Engine around a rewriting collaborator.
func NewEngine(rewriter rewrite.Rewriter, opts ...EngineOption) *Engine {
	e := &Engine{
		rewriter:   rewriter,
		weights:    pes.DefaultWeights(),
		logger:     utils.NewLogger(utils.LogLevelWarn),
		maxRetries: 3,
		retryDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Optimize runs the loop until the target quality is reached or the strategy
// budget is exhausted. maxIterations further caps the strategy's own ceiling
// when positive.
//
// The returned error covers invalid input only (bad target, unknown
// strategy, invalid weight table) plus the optional pre-flight cost refusal.
// Failures inside the loop never surface as errors: the Result's Status and
// Err fields carry them, and the accumulated iterations are always returned.
func (e *Engine) Optimize(ctx context.Context, prompt string, targetQ float64, strategy Strategy, maxIterations int) (*Result, error) {
	if targetQ <= 0 || targetQ > 1 {
		return nil, fmt.Errorf("target quality %v outside (0,1]", targetQ)
	}
	cfg, err := strategy.Config()
	if err != nil {
		return nil, err
	}
	if err := e.weights.Validate(); err != nil {
		return nil, err
	}

	maxIter := cfg.MaxIterations
	if maxIterations > 0 && maxIterations < maxIter {
		maxIter = maxIterations
	}

	originalFeatures := pes.Extract(prompt)
	originalScore, err := pes.Score(originalFeatures, e.weights)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Starting optimization",
		"original_q", originalScore.Composite, "target_q", targetQ, "strategy", strategy)

	res := &Result{
		OriginalPrompt: prompt,
		OriginalQ:      originalScore.Composite,
		Strategy:       strategy,
	}

	if originalScore.Composite >= targetQ {
		res.Status = StatusConverged
		return e.seal(res, prompt, originalFeatures, originalScore), nil
	}

	if e.estimateFirst {
		est, err := Estimate(originalScore.Composite, targetQ, strategy)
		if err != nil {
			return nil, err
		}
		if est.EstimatedCostUSD > cfg.MaxCostUSD {
			return nil, fmt.Errorf("%w: estimated $%.4f, budget $%.4f",
				ErrCostLimitExceeded, est.EstimatedCostUSD, cfg.MaxCostUSD)
		}
	}

	current := prompt
	currentFeatures := originalFeatures
	currentScore := originalScore

	for i := 1; i <= maxIter; i++ {
		// Cooperative cancellation, checked before the rewriter is invoked
		// so no partially-applied rewrite is ever left behind.
		if err := ctx.Err(); err != nil {
			res.Status = StatusFailed
			res.Err = err
			return e.seal(res, current, currentFeatures, currentScore), nil
		}

		weakest := weakestDimension(currentFeatures, e.weights)
		instruction := InstructionFor(weakest, currentFeatures.Get(weakest))

		start := time.Now()
		rr, err := e.rewriteWithRetry(ctx, rewrite.Request{
			Text:        current,
			Dimension:   weakest,
			Instruction: instruction,
			Temperature: cfg.Temperature,
		})
		if err != nil {
			e.logger.Error("Rewrite failed, terminating run", "iteration", i, "error", err)
			res.Status = StatusFailed
			res.Err = err
			return e.seal(res, current, currentFeatures, currentScore), nil
		}
		latency := float64(time.Since(start).Microseconds()) / 1000

		newFeatures := pes.Extract(rr.Text)
		newScore, err := pes.Score(newFeatures, e.weights)
		if err != nil {
			// Extract clamps to [0,1]; scoring can only fail on weights,
			// already validated above.
			res.Status = StatusFailed
			res.Err = err
			return e.seal(res, current, currentFeatures, currentScore), nil
		}

		it := Iteration{
			Number:             i,
			PromptText:         rr.Text,
			Features:           newFeatures,
			Score:              newScore,
			ImprovedDimensions: improvedDimensions(currentFeatures, newFeatures),
			TargetDimension:    weakest,
			CostUSD:            rr.CostUSD,
			TokensUsed:         rr.TokensUsed,
			LatencyMS:          latency,
			Timestamp:          time.Now().UTC(),
		}
		res.Iterations = append(res.Iterations, it)
		res.TotalCostUSD += rr.CostUSD
		res.TotalTokens += rr.TokensUsed

		e.logger.Info("Iteration complete",
			"iteration", i, "target_dimension", weakest,
			"q", newScore.Composite, "cost_usd", rr.CostUSD, "tokens", rr.TokensUsed)

		if e.callback != nil {
			e.callback(it)
		}

		current = rr.Text
		currentFeatures = newFeatures
		currentScore = newScore

		if newScore.Composite >= targetQ {
			res.Status = StatusConverged
			return e.seal(res, current, currentFeatures, currentScore), nil
		}
		if res.TotalCostUSD > cfg.MaxCostUSD || res.TotalTokens > cfg.MaxTokens {
			e.logger.Warn("Budget exhausted",
				"total_cost_usd", res.TotalCostUSD, "total_tokens", res.TotalTokens)
			res.Status = StatusBudgetExhausted
			return e.seal(res, current, currentFeatures, currentScore), nil
		}
	}

	res.Status = StatusBudgetExhausted
	return e.seal(res, current, currentFeatures, currentScore), nil
}

// rewriteWithRetry calls the collaborator, retrying transient failures with
// exponential backoff. Non-transient failures abort immediately.
func (e *Engine) rewriteWithRetry(ctx context.Context, req rewrite.Request) (*rewrite.Result, error) {
	var lastErr error
	delay := e.retryDelay
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		if attempt > 0 {
			e.logger.Warn("Retrying rewrite", "attempt", attempt+1, "delay", delay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		rr, err := e.rewriter.Rewrite(ctx, req)
		if err == nil {
			return rr, nil
		}
		lastErr = err
		if !rewrite.IsTransient(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("rewrite failed after %d attempts: %w", e.maxRetries, lastErr)
}

// weakestDimension returns the dimension with the lowest weighted
// contribution. Ties break on the lower raw feature value, then on the
// lexical order of the dimension name, so the choice is deterministic.
func weakestDimension(fv pes.FeatureVector, weights pes.WeightTable) pes.Dimension {
	dims := lexicalDimensions()
	weakest := dims[0]
	bestContrib := weights.Get(weakest) * fv.Get(weakest)
	bestRaw := fv.Get(weakest)

	for _, d := range dims[1:] {
		contrib := weights.Get(d) * fv.Get(d)
		raw := fv.Get(d)
		if contrib < bestContrib || (contrib == bestContrib && raw < bestRaw) {
			weakest, bestContrib, bestRaw = d, contrib, raw
		}
	}
	return weakest
}

// lexicalDimensions returns the dimensions sorted by name.
func lexicalDimensions() []pes.Dimension {
	return []pes.Dimension{pes.Constraints, pes.Format, pes.Persona, pes.Context, pes.Specificity, pes.Tone}
}

// improvedDimensions lists dimensions whose value strictly increased.
func improvedDimensions(before, after pes.FeatureVector) []pes.Dimension {
	var out []pes.Dimension
	for _, d := range pes.Dimensions() {
		if after.Get(d) > before.Get(d) {
			out = append(out, d)
		}
	}
	return out
}

// seal finalizes the result from the last fully-scored state. When the run
// produced no net improvement the original text is reported as the optimized
// prompt.
func (e *Engine) seal(res *Result, finalText string, finalFeatures pes.FeatureVector, finalScore pes.QualityScore) *Result {
	originalFeatures := pes.Extract(res.OriginalPrompt)
	reportedFeatures := finalFeatures
	if finalScore.Composite > res.OriginalQ {
		res.OptimizedPrompt = finalText
		res.OptimizedQ = finalScore.Composite
	} else {
		res.OptimizedPrompt = res.OriginalPrompt
		res.OptimizedQ = res.OriginalQ
		reportedFeatures = originalFeatures
	}

	res.DeltaQ = res.OptimizedQ - res.OriginalQ
	if res.OriginalQ > 0 {
		res.ImprovementPct = res.DeltaQ / res.OriginalQ * 100
	}

	res.DimensionChanges = make(map[pes.Dimension]DimensionChange)
	for _, d := range pes.Dimensions() {
		before := originalFeatures.Get(d)
		after := reportedFeatures.Get(d)
		if math.Abs(after-before) > significantChange {
			res.DimensionChanges[d] = DimensionChange{Before: before, After: after}
		}
	}
	return res
}
