package rewrite

import (
	"context"
	"sync"
)

// MockRewriter is a scripted in-memory Rewriter for tests. Transform decides
// the rewritten text; FailFirst makes the first N calls return a transient
// error, which exercises retry paths without a network.
type MockRewriter struct {
	mu sync.Mutex

	// Transform produces the rewritten text. Defaults to identity.
	Transform func(req Request) string
	// FailFirst is the number of leading calls that fail.
	FailFirst int
	// Err overrides the error returned by failing calls.
	Err error
	// TokensPerCall and CostPerCall are reported on every success.
	TokensPerCall int
	CostPerCall   float64

	calls int
}

func (m *MockRewriter) Rewrite(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewError(ErrorTypeTransient, "context cancelled", err)
	}

	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()

	if call <= m.FailFirst {
		if m.Err != nil {
			return nil, m.Err
		}
		return nil, NewError(ErrorTypeTransient, "scripted transient failure", nil)
	}

	text := req.Text
	if m.Transform != nil {
		text = m.Transform(req)
	}

	tokens := m.TokensPerCall
	if tokens == 0 {
		tokens = 100
	}
	cost := m.CostPerCall
	if cost == 0 {
		cost = 0.01
	}

	return &Result{Text: text, TokensUsed: tokens, CostUSD: cost}, nil
}

// Calls returns how many times Rewrite has been invoked.
func (m *MockRewriter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
