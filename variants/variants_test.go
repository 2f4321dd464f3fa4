package variants

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loofy147/Prompt-dashboard/rewrite"
	"github.com/Loofy147/Prompt-dashboard/utils"
)

const basePrompt = "Write about machine learning."

// kindedRewriter returns a distinct rewrite per kind, inferred from the
// instruction text, so tests can observe ranking.
func kindedRewriter() *rewrite.MockRewriter {
	return &rewrite.MockRewriter{
		Transform: func(req rewrite.Request) string {
			switch {
			case strings.Contains(req.Instruction, "compactly"):
				return "Summarize machine learning in 3 bullet points."
			case strings.Contains(req.Instruction, "neutral"):
				return "You are a senior data scientist with 10 years of experience. " +
					"Write a clear, professional summary of machine learning in markdown " +
					"with 3 bullet points of at most 50 words each. Do not include code. " +
					"The audience is engineering managers evaluating ML adoption for their teams."
			case strings.Contains(req.Instruction, "imperative"):
				return "You MUST write about machine learning. ALWAYS use bullet points."
			default:
				return req.Text
			}
		},
	}
}

func TestGenerateOneVariantPerKind(t *testing.T) {
	mock := kindedRewriter()
	gen := NewGenerator(mock, WithLogger(utils.NewMockLogger()))

	cmp, err := gen.Generate(context.Background(), basePrompt, Kinds())
	require.NoError(t, err)
	require.Len(t, cmp.Variants, 3)
	assert.Equal(t, 3, mock.Calls())

	seen := make(map[Kind]bool)
	for _, v := range cmp.Variants {
		assert.False(t, seen[v.Kind], "kind %s appeared twice", v.Kind)
		seen[v.Kind] = true
		assert.NotEmpty(t, v.Text)
		assert.GreaterOrEqual(t, v.Score.Composite, 0.0)
		assert.LessOrEqual(t, v.Score.Composite, 1.0)
	}
	assert.Greater(t, cmp.BaseQ, 0.0)
}

func TestGenerateRanksByQualityDescending(t *testing.T) {
	gen := NewGenerator(kindedRewriter())

	cmp, err := gen.Generate(context.Background(), basePrompt, Kinds())
	require.NoError(t, err)

	for i := 1; i < len(cmp.Variants); i++ {
		assert.GreaterOrEqual(t, cmp.Variants[i-1].Score.Composite, cmp.Variants[i].Score.Composite)
	}
	// The neutral rewrite above carries persona, format, specificity and
	// context signal, so it should win.
	assert.Equal(t, KindNeutral, cmp.Best)
	assert.Equal(t, cmp.Variants[0].Kind, cmp.Best)
}

func TestGenerateEqualScoresBreakTiesByKindName(t *testing.T) {
	// Every kind rewrites to the same text, so all variants share one Q and
	// ranking falls through to the kind name.
	gen := NewGenerator(&rewrite.MockRewriter{
		Transform: func(rewrite.Request) string { return "Identical rewrite for every kind." },
	})

	cmp, err := gen.Generate(context.Background(), basePrompt, Kinds())
	require.NoError(t, err)
	require.Len(t, cmp.Variants, 3)

	assert.Equal(t, cmp.Variants[0].Score.Composite, cmp.Variants[1].Score.Composite)
	assert.Equal(t, cmp.Variants[1].Score.Composite, cmp.Variants[2].Score.Composite)

	assert.Equal(t, KindCommanding, cmp.Variants[0].Kind)
	assert.Equal(t, KindConcise, cmp.Variants[1].Kind)
	assert.Equal(t, KindNeutral, cmp.Variants[2].Kind)
	assert.Equal(t, KindCommanding, cmp.Best)
}

func TestGenerateDeduplicatesKinds(t *testing.T) {
	mock := kindedRewriter()
	gen := NewGenerator(mock)

	cmp, err := gen.Generate(context.Background(), basePrompt,
		[]Kind{KindConcise, KindConcise, KindConcise})
	require.NoError(t, err)
	assert.Len(t, cmp.Variants, 1)
	assert.Equal(t, 1, mock.Calls())
	assert.Equal(t, KindConcise, cmp.Best)
}

func TestGenerateUnknownKind(t *testing.T) {
	gen := NewGenerator(kindedRewriter())

	_, err := gen.Generate(context.Background(), basePrompt, []Kind{"sarcastic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown variant kind")
}

func TestGenerateEmptyKinds(t *testing.T) {
	gen := NewGenerator(kindedRewriter())

	_, err := gen.Generate(context.Background(), basePrompt, nil)
	require.Error(t, err)
}

func TestGenerateRewriteFailurePropagates(t *testing.T) {
	boom := errors.New("provider down")
	gen := NewGenerator(&rewrite.MockRewriter{FailFirst: 3, Err: boom})

	_, err := gen.Generate(context.Background(), basePrompt, Kinds())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestGenerateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := NewGenerator(kindedRewriter())
	_, err := gen.Generate(ctx, basePrompt, Kinds())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateBoundedParallelism(t *testing.T) {
	mock := kindedRewriter()
	gen := NewGenerator(mock, WithMaxParallel(1))

	cmp, err := gen.Generate(context.Background(), basePrompt, Kinds())
	require.NoError(t, err)
	assert.Len(t, cmp.Variants, 3)
	assert.Equal(t, 3, mock.Calls())
}

func TestKindValidity(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, k.Valid())
	}
	assert.False(t, Kind("loud").Valid())
}
