// Package variants produces alternate rewrites of a base text, one per named
// transformation kind, and ranks them by composite quality. Kinds are
// independent of each other, so generation fans out across a bounded worker
// pool.
package variants

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Loofy147/Prompt-dashboard/pes"
	"github.com/Loofy147/Prompt-dashboard/rewrite"
	"github.com/Loofy147/Prompt-dashboard/utils"
)

// Kind names a transformation strategy. Each kind is assumed to preserve the
// semantic intent of the base text.
type Kind string

const (
	// KindConcise compresses the text to its essential directives.
	KindConcise Kind = "concise"
	// KindNeutral normalizes register and strips emotional charge.
	KindNeutral Kind = "neutral"
	// KindCommanding amplifies directives into imperative language.
	KindCommanding Kind = "commanding"
)

var kindInstructions = map[Kind]string{
	KindConcise: "Rewrite this prompt as compactly as possible while keeping every requirement. " +
		"Prefer two to three sentences. Output ONLY the rewritten prompt.",
	KindNeutral: "Rewrite this prompt in a neutral, even register. Remove emotional or emphatic " +
		"phrasing without dropping any requirement. Output ONLY the rewritten prompt.",
	KindCommanding: "Rewrite this prompt with strong imperative directives. Turn requests into " +
		"commands (MUST, ALWAYS, NEVER) without dropping any requirement. Output ONLY the rewritten prompt.",
}

// Kinds returns all built-in transformation kinds.
func Kinds() []Kind {
	return []Kind{KindConcise, KindNeutral, KindCommanding}
}

// Valid reports whether the kind has a registered transformation.
func (k Kind) Valid() bool {
	_, ok := kindInstructions[k]
	return ok
}

// Variant is one scored rewrite of the base text.
type Variant struct {
	Kind       Kind              `json:"kind"`
	Text       string            `json:"text"`
	Features   pes.FeatureVector `json:"features"`
	Score      pes.QualityScore  `json:"q_score"`
	TokensUsed int               `json:"tokens_used"`
	CostUSD    float64           `json:"cost_usd"`
}

// Comparison holds all generated variants ranked best-by-Q first.
type Comparison struct {
	BaseText string    `json:"base_text"`
	BaseQ    float64   `json:"base_q"`
	Variants []Variant `json:"variants"`
	Best     Kind      `json:"best"`
}

// Generator fans rewrite calls out over a bounded worker pool.
type Generator struct {
	rewriter    rewrite.Rewriter
	weights     pes.WeightTable
	logger      utils.Logger
	maxParallel int
	limiter     *rate.Limiter
}

// GeneratorOption customizes a Generator at construction.
type GeneratorOption func(*Generator)

func WithWeights(weights pes.WeightTable) GeneratorOption {
	return func(g *Generator) {
		g.weights = weights
	}
}

func WithLogger(logger utils.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithMaxParallel bounds the worker pool; excess kinds queue.
func WithMaxParallel(n int) GeneratorOption {
	return func(g *Generator) {
		if n < 1 {
			n = 1
		}
		g.maxParallel = n
	}
}

// WithRateLimit paces rewrite calls across all workers.
func WithRateLimit(r rate.Limit, burst int) GeneratorOption {
	return func(g *Generator) {
		g.limiter = rate.NewLimiter(r, burst)
	}
}

func NewGenerator(rewriter rewrite.Rewriter, opts ...GeneratorOption) *Generator {
	g := &Generator{
		rewriter:    rewriter,
		weights:     pes.DefaultWeights(),
		logger:      utils.NewLogger(utils.LogLevelWarn),
		maxParallel: 5,
		limiter:     rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces exactly one scored variant per requested kind and
// returns them ranked by descending composite quality (ties break on kind
// name). Duplicate kinds are collapsed; an unknown kind or a failed rewrite
// fails the whole call.
func (g *Generator) Generate(ctx context.Context, baseText string, kinds []Kind) (*Comparison, error) {
	if len(kinds) == 0 {
		return nil, fmt.Errorf("no variant kinds requested")
	}
	if err := g.weights.Validate(); err != nil {
		return nil, err
	}

	unique := dedupe(kinds)
	for _, k := range unique {
		if !k.Valid() {
			return nil, fmt.Errorf("unknown variant kind: %q", k)
		}
	}

	_, baseScore, err := pes.Analyze(baseText, g.weights)
	if err != nil {
		return nil, err
	}

	results := make([]Variant, len(unique))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.maxParallel)

	for i, kind := range unique {
		i, kind := i, kind
		grp.Go(func() error {
			if err := g.limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter wait for %s variant: %w", kind, err)
			}

			rr, err := g.rewriter.Rewrite(gctx, rewrite.Request{
				Text:        baseText,
				Instruction: kindInstructions[kind],
			})
			if err != nil {
				return fmt.Errorf("failed to generate %s variant: %w", kind, err)
			}

			features, score, err := pes.Analyze(rr.Text, g.weights)
			if err != nil {
				return err
			}

			g.logger.Debug("Variant generated", "kind", kind, "q", score.Composite)
			results[i] = Variant{
				Kind:       kind,
				Text:       rr.Text,
				Features:   features,
				Score:      score,
				TokensUsed: rr.TokensUsed,
				CostUSD:    rr.CostUSD,
			}
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score.Composite != results[j].Score.Composite {
			return results[i].Score.Composite > results[j].Score.Composite
		}
		return results[i].Kind < results[j].Kind
	})

	return &Comparison{
		BaseText: baseText,
		BaseQ:    baseScore.Composite,
		Variants: results,
		Best:     results[0].Kind,
	}, nil
}

func dedupe(kinds []Kind) []Kind {
	seen := make(map[Kind]bool, len(kinds))
	var out []Kind
	for _, k := range kinds {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
