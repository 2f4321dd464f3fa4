// Package rewrite defines the seam to the external text-rewriting capability.
// The rewriter is the only network-bound collaborator of the optimization
// core; it is treated as unreliable and every call carries an explicit
// timeout. All non-determinism in the system is isolated behind this
// interface.
package rewrite

import (
	"context"

	"github.com/Loofy147/Prompt-dashboard/pes"
)

// Request describes a single rewrite call: the current text, the quality
// dimension being targeted, and the instruction telling the service how to
// transform the text.
type Request struct {
	Text        string        `json:"text" validate:"required"`
	Dimension   pes.Dimension `json:"dimension,omitempty"`
	Instruction string        `json:"instruction" validate:"required"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// Result is the outcome of one successful rewrite call.
type Result struct {
	Text       string  `json:"text" validate:"required"`
	TokensUsed int     `json:"tokens_used"`
	CostUSD    float64 `json:"cost_usd"`
}

// Rewriter is the external rewriting collaborator. Implementations may fail
// or time out; callers own the retry policy.
type Rewriter interface {
	Rewrite(ctx context.Context, req Request) (*Result, error)
}
