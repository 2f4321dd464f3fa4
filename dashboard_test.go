package promptdash

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loofy147/Prompt-dashboard/optimizer"
	"github.com/Loofy147/Prompt-dashboard/rewrite"
	"github.com/Loofy147/Prompt-dashboard/store"
	"github.com/Loofy147/Prompt-dashboard/variants"
)

const (
	weakText = "Write about AI."

	strongText = "You are a senior machine learning engineer with 10 years of experience. " +
		"Write a professional, clear summary of transformer architectures in markdown format " +
		"with 3 sections and bullet points. Each section must be at most 150 words. " +
		"Do not include code samples, and always cite at least 2 metrics such as parameter " +
		"count or benchmark accuracy. For example, compare BERT and GPT on GLUE scores. " +
		"The audience is a team of backend engineers who are new to ML but familiar with " +
		"distributed systems, so ground every concept in infrastructure terms they already " +
		"know, such as sharding, caching and load balancing across services."
)

func improvingRewriter() *rewrite.MockRewriter {
	return &rewrite.MockRewriter{
		Transform: func(req rewrite.Request) string { return strongText },
	}
}

func TestDashboardAnalyze(t *testing.T) {
	d := NewWithRewriter(improvingRewriter())

	a, err := d.Analyze(weakText)
	require.NoError(t, err)
	assert.Equal(t, weakText, a.Text)
	assert.InDelta(t, 0.38, a.Score.Composite, 1e-9)
	assert.Equal(t, a.Score.Level(), a.Level)
	assert.NotEmpty(t, a.Suggestions, "weak prompt should get suggestions")

	strong, err := d.Analyze(strongText)
	require.NoError(t, err)
	assert.Greater(t, strong.Score.Composite, a.Score.Composite)
	assert.Empty(t, strong.Suggestions)
}

func TestDashboardAnalyzeBatchKeepsOrder(t *testing.T) {
	d := NewWithRewriter(improvingRewriter())
	texts := []string{weakText, strongText, weakText}

	out, err := d.AnalyzeBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, a := range out {
		assert.Equal(t, texts[i], a.Text)
	}
	assert.Equal(t, out[0].Score.Composite, out[2].Score.Composite)
}

func TestDashboardAnalyzeBatchEmpty(t *testing.T) {
	d := NewWithRewriter(improvingRewriter())

	_, err := d.AnalyzeBatch(context.Background(), nil)
	require.Error(t, err)
}

func TestDashboardEstimateCost(t *testing.T) {
	d := NewWithRewriter(improvingRewriter())

	est, err := d.EstimateCost(weakText, 0.90, optimizer.StrategyBalanced)
	require.NoError(t, err)
	assert.Greater(t, est.EstimatedIterations, 0)
	assert.Greater(t, est.EstimatedCostUSD, 0.0)

	met, err := d.EstimateCost(strongText, 0.50, optimizer.StrategyBalanced)
	require.NoError(t, err)
	assert.Equal(t, 0, met.EstimatedIterations)
	assert.Equal(t, 0.0, met.EstimatedCostUSD)
}

func TestDashboardOptimize(t *testing.T) {
	mock := improvingRewriter()
	d := NewWithRewriter(mock)

	out, err := d.Optimize(context.Background(), OptimizeRequest{
		Text:          weakText,
		TargetQuality: 0.85,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Result)
	require.NotNil(t, out.Estimate)
	assert.Equal(t, optimizer.StatusConverged, out.Result.Status)
	assert.Equal(t, 1, mock.Calls())
	assert.Empty(t, out.SavedPromptID)
}

func TestDashboardOptimizeEstimateOnly(t *testing.T) {
	mock := improvingRewriter()
	d := NewWithRewriter(mock)

	out, err := d.Optimize(context.Background(), OptimizeRequest{
		Text:         weakText,
		EstimateOnly: true,
	})
	require.NoError(t, err)
	assert.Nil(t, out.Result)
	require.NotNil(t, out.Estimate)
	assert.Greater(t, out.Estimate.EstimatedIterations, 0)
	assert.Equal(t, 0, mock.Calls(), "estimate must not call the rewrite service")
}

func TestDashboardOptimizeDefaults(t *testing.T) {
	d := NewWithRewriter(improvingRewriter())

	out, err := d.Optimize(context.Background(), OptimizeRequest{Text: weakText})
	require.NoError(t, err)
	assert.Equal(t, optimizer.StrategyBalanced, out.Result.Strategy)
}

func TestDashboardOptimizeStoredPrompt(t *testing.T) {
	d := NewWithRewriter(improvingRewriter())
	ctx := context.Background()

	id, err := d.SavePrompt(ctx, weakText)
	require.NoError(t, err)

	out, err := d.Optimize(ctx, OptimizeRequest{
		PromptID:      id,
		TargetQuality: 0.85,
		SaveAsNew:     true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.SavedPromptID)
	require.NotEqual(t, id, out.SavedPromptID)

	saved, err := d.Prompt(ctx, out.SavedPromptID)
	require.NoError(t, err)
	assert.Equal(t, out.Result.OptimizedPrompt, saved.Text)
	assert.Equal(t, id, saved.ParentID)
}

func TestDashboardOptimizeUnknownPromptID(t *testing.T) {
	d := NewWithRewriter(improvingRewriter())

	_, err := d.Optimize(context.Background(), OptimizeRequest{PromptID: "missing"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDashboardOptimizeRejectsAmbiguousRequest(t *testing.T) {
	d := NewWithRewriter(improvingRewriter())

	_, err := d.Optimize(context.Background(), OptimizeRequest{Text: "x", PromptID: "y"})
	require.Error(t, err)
	_, err = d.Optimize(context.Background(), OptimizeRequest{})
	require.Error(t, err)
}

func TestDashboardGenerateVariantsDefaultsToAllKinds(t *testing.T) {
	d := NewWithRewriter(improvingRewriter())

	cmp, err := d.GenerateVariants(context.Background(), VariantRequest{Text: weakText})
	require.NoError(t, err)
	assert.Len(t, cmp.Variants, len(variants.Kinds()))
}

func TestDashboardGenerateVariantsFromStoredPrompt(t *testing.T) {
	d := NewWithRewriter(improvingRewriter())
	ctx := context.Background()

	id, err := d.SavePrompt(ctx, weakText)
	require.NoError(t, err)

	cmp, err := d.GenerateVariants(ctx, VariantRequest{
		PromptID: id,
		Kinds:    []variants.Kind{variants.KindConcise},
	})
	require.NoError(t, err)
	assert.Equal(t, weakText, cmp.BaseText, "variants run on the stored text")
	require.Len(t, cmp.Variants, 1)
	assert.Equal(t, variants.KindConcise, cmp.Variants[0].Kind)
}

func TestDashboardGenerateVariantsUnknownPromptID(t *testing.T) {
	d := NewWithRewriter(improvingRewriter())

	_, err := d.GenerateVariants(context.Background(), VariantRequest{PromptID: "missing"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDashboardGenerateVariantsRejectsAmbiguousRequest(t *testing.T) {
	d := NewWithRewriter(improvingRewriter())

	_, err := d.GenerateVariants(context.Background(), VariantRequest{Text: "x", PromptID: "y"})
	require.Error(t, err)
	_, err = d.GenerateVariants(context.Background(), VariantRequest{})
	require.Error(t, err)
}

func TestDashboardSaveAndListPrompts(t *testing.T) {
	d := NewWithRewriter(improvingRewriter())
	ctx := context.Background()

	id, err := d.SavePrompt(ctx, weakText)
	require.NoError(t, err)

	p, err := d.Prompt(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, weakText, p.Text)
	assert.InDelta(t, 0.38, p.QScore, 1e-9)

	all, err := d.Prompts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
