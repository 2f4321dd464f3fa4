// Package promptdash scores prompt quality along six dimensions and improves
// weak prompts through iterative rewriting. The Dashboard type is the main
// entry point; it bundles feature extraction, quality scoring, cost
// estimation, optimization and variant generation behind one facade.
package promptdash

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Loofy147/Prompt-dashboard/config"
	"github.com/Loofy147/Prompt-dashboard/optimizer"
	"github.com/Loofy147/Prompt-dashboard/pes"
	"github.com/Loofy147/Prompt-dashboard/rewrite"
	"github.com/Loofy147/Prompt-dashboard/store"
	"github.com/Loofy147/Prompt-dashboard/utils"
	"github.com/Loofy147/Prompt-dashboard/variants"
)

// DefaultTargetQuality is used when an optimization request leaves the
// target unset.
const DefaultTargetQuality = 0.90

// Analysis is the full quality readout for one prompt text.
type Analysis struct {
	Text        string            `json:"text"`
	Features    pes.FeatureVector `json:"features"`
	Score       pes.QualityScore  `json:"q_score"`
	Level       pes.QualityLevel  `json:"level"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

// OptimizeRequest describes one optimization run. Exactly one of Text or
// PromptID must be set; PromptID resolves against the prompt store.
type OptimizeRequest struct {
	Text          string
	PromptID      string
	TargetQuality float64
	Strategy      optimizer.Strategy
	MaxIterations int
	// EstimateOnly skips optimization and returns the cost forecast.
	EstimateOnly bool
	// SaveAsNew stores the optimized text as a new prompt linked to the
	// original.
	SaveAsNew bool
}

// VariantRequest describes one variant generation run. Exactly one of Text
// or PromptID must be set; PromptID resolves against the prompt store. A nil
// Kinds slice means all built-in kinds.
type VariantRequest struct {
	Text     string
	PromptID string
	Kinds    []variants.Kind
}

// OptimizeOutcome pairs the optimization result with its forecast and, when
// requested, the ID the optimized prompt was saved under.
type OptimizeOutcome struct {
	Result        *optimizer.Result       `json:"result,omitempty"`
	Estimate      *optimizer.CostEstimate `json:"estimate,omitempty"`
	SavedPromptID string                  `json:"saved_prompt_id,omitempty"`
}

// Dashboard is the top-level prompt quality service.
type Dashboard struct {
	cfg       *config.Config
	logger    utils.Logger
	weights   pes.WeightTable
	rewriter  rewrite.Rewriter
	engine    *optimizer.Engine
	generator *variants.Generator
	prompts   store.Store
}

// New builds a Dashboard from the environment plus the given overrides,
// talking to the configured HTTP rewrite service.
func New(opts ...config.ConfigOption) (*Dashboard, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := utils.NewLogger(cfg.LogLevel)
	rewriter, err := rewrite.NewHTTPRewriter(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create rewriter: %w", err)
	}
	return assemble(cfg, rewriter, logger), nil
}

// NewWithRewriter builds a Dashboard around a caller-supplied rewriting
// backend. Configuration still comes from defaults plus overrides, not the
// environment.
func NewWithRewriter(rewriter rewrite.Rewriter, opts ...config.ConfigOption) *Dashboard {
	cfg := config.NewConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return assemble(cfg, rewriter, utils.NewLogger(cfg.LogLevel))
}

func assemble(cfg *config.Config, rewriter rewrite.Rewriter, logger utils.Logger) *Dashboard {
	weights := pes.DefaultWeights()
	return &Dashboard{
		cfg:      cfg,
		logger:   logger,
		weights:  weights,
		rewriter: rewriter,
		engine: optimizer.NewEngine(rewriter,
			optimizer.WithWeights(weights),
			optimizer.WithLogger(logger),
			optimizer.WithMaxRetries(cfg.MaxRetries),
			optimizer.WithRetryDelay(cfg.RetryDelay),
		),
		generator: variants.NewGenerator(rewriter,
			variants.WithWeights(weights),
			variants.WithLogger(logger),
			variants.WithMaxParallel(cfg.MaxParallel),
		),
		prompts: store.NewMemoryStore(),
	}
}

// Analyze extracts features and scores one prompt. It is pure and never
// touches the rewrite service.
func (d *Dashboard) Analyze(text string) (*Analysis, error) {
	features, score, err := pes.Analyze(text, d.weights)
	if err != nil {
		return nil, err
	}
	return &Analysis{
		Text:        text,
		Features:    features,
		Score:       score,
		Level:       score.Level(),
		Suggestions: pes.SuggestImprovements(features, pes.DefaultSuggestionThreshold),
	}, nil
}

// AnalyzeBatch scores many prompts over a bounded worker pool. Results keep
// input order.
func (d *Dashboard) AnalyzeBatch(ctx context.Context, texts []string) ([]*Analysis, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no prompts to analyze")
	}

	results := make([]*Analysis, len(texts))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(d.cfg.MaxParallel)

	for i, text := range texts {
		i, text := i, text
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := d.Analyze(text)
			if err != nil {
				return fmt.Errorf("prompt %d: %w", i, err)
			}
			results[i] = a
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// EstimateCost forecasts the spend to lift text to targetQ under strategy
// without calling the rewrite service.
func (d *Dashboard) EstimateCost(text string, targetQ float64, strategy optimizer.Strategy) (*optimizer.CostEstimate, error) {
	_, score, err := pes.Analyze(text, d.weights)
	if err != nil {
		return nil, err
	}
	return optimizer.Estimate(score.Composite, targetQ, strategy)
}

// Optimize runs one optimization per req. Strategy defaults to balanced and
// target quality to DefaultTargetQuality.
func (d *Dashboard) Optimize(ctx context.Context, req OptimizeRequest) (*OptimizeOutcome, error) {
	text, promptID, err := d.resolveText(ctx, req.Text, req.PromptID)
	if err != nil {
		return nil, err
	}

	targetQ := req.TargetQuality
	if targetQ == 0 {
		targetQ = DefaultTargetQuality
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = optimizer.StrategyBalanced
	}

	_, score, err := pes.Analyze(text, d.weights)
	if err != nil {
		return nil, err
	}
	estimate, err := optimizer.Estimate(score.Composite, targetQ, strategy)
	if err != nil {
		return nil, err
	}
	if req.EstimateOnly {
		return &OptimizeOutcome{Estimate: estimate}, nil
	}

	result, err := d.engine.Optimize(ctx, text, targetQ, strategy, req.MaxIterations)
	if err != nil {
		return nil, err
	}

	outcome := &OptimizeOutcome{Result: result, Estimate: estimate}
	if req.SaveAsNew {
		id, err := d.prompts.SaveResult(ctx, promptID, result)
		if err != nil {
			return nil, fmt.Errorf("failed to save optimized prompt: %w", err)
		}
		outcome.SavedPromptID = id
	}
	return outcome, nil
}

// resolveText turns a text-or-ID pair into the prompt text to work on, and
// the store ID it came from when one was used.
func (d *Dashboard) resolveText(ctx context.Context, text, promptID string) (string, string, error) {
	switch {
	case text != "" && promptID != "":
		return "", "", fmt.Errorf("set either Text or PromptID, not both")
	case text != "":
		return text, "", nil
	case promptID != "":
		p, err := d.prompts.Get(ctx, promptID)
		if err != nil {
			return "", "", err
		}
		return p.Text, p.ID, nil
	default:
		return "", "", fmt.Errorf("no prompt text or ID given")
	}
}

// GenerateVariants produces ranked rewrites of the requested prompt, given
// either as raw text or as a stored prompt ID.
func (d *Dashboard) GenerateVariants(ctx context.Context, req VariantRequest) (*variants.Comparison, error) {
	text, _, err := d.resolveText(ctx, req.Text, req.PromptID)
	if err != nil {
		return nil, err
	}
	kinds := req.Kinds
	if len(kinds) == 0 {
		kinds = variants.Kinds()
	}
	return d.generator.Generate(ctx, text, kinds)
}

// SavePrompt scores and stores text, returning its ID.
func (d *Dashboard) SavePrompt(ctx context.Context, text string) (string, error) {
	_, score, err := pes.Analyze(text, d.weights)
	if err != nil {
		return "", err
	}
	return d.prompts.Save(ctx, text, score.Composite)
}

// Prompt returns a stored prompt by ID.
func (d *Dashboard) Prompt(ctx context.Context, id string) (*store.StoredPrompt, error) {
	return d.prompts.Get(ctx, id)
}

// Prompts lists all stored prompts, newest first.
func (d *Dashboard) Prompts(ctx context.Context) ([]*store.StoredPrompt, error) {
	return d.prompts.List(ctx)
}
