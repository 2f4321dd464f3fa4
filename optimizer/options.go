package optimizer

import (
	"time"

	"github.com/Loofy147/Prompt-dashboard/pes"
	"github.com/Loofy147/Prompt-dashboard/utils"
)

// EngineOption customizes an Engine at construction.
type EngineOption func(*Engine)

// WithWeights replaces the canonical weight table. The table is validated
// when a run starts.
func WithWeights(weights pes.WeightTable) EngineOption {
	return func(e *Engine) {
		e.weights = weights
	}
}

func WithLogger(logger utils.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxRetries bounds attempts per rewrite call within one iteration.
func WithMaxRetries(maxRetries int) EngineOption {
	return func(e *Engine) {
		if maxRetries < 1 {
			maxRetries = 1
		}
		e.maxRetries = maxRetries
	}
}

// WithRetryDelay sets the initial backoff delay; it doubles per attempt.
func WithRetryDelay(delay time.Duration) EngineOption {
	return func(e *Engine) {
		e.retryDelay = delay
	}
}

// WithIterationCallback registers an observer for completed iterations.
func WithIterationCallback(callback IterationCallback) EngineOption {
	return func(e *Engine) {
		e.callback = callback
	}
}

// WithEstimateFirst makes Optimize refuse to start when the pre-flight
// estimate already exceeds the strategy budget.
func WithEstimateFirst() EngineOption {
	return func(e *Engine) {
		e.estimateFirst = true
	}
}
