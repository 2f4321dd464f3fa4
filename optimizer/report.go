package optimizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Loofy147/Prompt-dashboard/pes"
)

// ReportFormat selects the rendering of an optimization report.
type ReportFormat string

const (
	ReportMarkdown ReportFormat = "markdown"
	ReportJSON     ReportFormat = "json"
)

// Report renders a human-readable summary of an optimization run.
func Report(res *Result, format ReportFormat) (string, error) {
	switch format {
	case ReportJSON:
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case ReportMarkdown:
		return markdownReport(res), nil
	default:
		return "", fmt.Errorf("unknown report format: %q", format)
	}
}

func markdownReport(res *Result) string {
	var sb strings.Builder

	sb.WriteString("# Prompt Optimization Report\n\n")
	fmt.Fprintf(&sb, "**Status**: %s\n", res.Status)
	fmt.Fprintf(&sb, "**Strategy**: %s\n", res.Strategy)
	fmt.Fprintf(&sb, "**Improvement**: %.4f → %.4f (%+.4f, %+.1f%%)\n",
		res.OriginalQ, res.OptimizedQ, res.DeltaQ, res.ImprovementPct)
	fmt.Fprintf(&sb, "**Cost**: $%.4f (%d tokens)\n", res.TotalCostUSD, res.TotalTokens)
	fmt.Fprintf(&sb, "**Iterations**: %d\n\n", len(res.Iterations))

	if len(res.DimensionChanges) > 0 {
		sb.WriteString("## Dimension Changes\n\n")
		for _, d := range pes.Dimensions() {
			change, ok := res.DimensionChanges[d]
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "- %s: %.2f → %.2f (%+.2f)\n",
				d.Name(), change.Before, change.After, change.After-change.Before)
		}
		sb.WriteString("\n")
	}

	if len(res.Iterations) > 0 {
		sb.WriteString("## Iteration Timeline\n\n")
		for _, it := range res.Iterations {
			fmt.Fprintf(&sb, "**Iteration %d** (targeted %s)\n", it.Number, it.TargetDimension.Name())
			fmt.Fprintf(&sb, "- Q: %.4f\n", it.Score.Composite)
			fmt.Fprintf(&sb, "- Cost: $%.4f (%d tokens, %.0fms)\n\n", it.CostUSD, it.TokensUsed, it.LatencyMS)
		}
	}

	if res.DeltaQ > 0 {
		fmt.Fprintf(&sb, "## Cost Analysis\n\n- Cost per 0.01 Q: $%.4f\n\n", res.CostPerPoint())
	}

	sb.WriteString("## Optimized Prompt\n\n```\n")
	sb.WriteString(res.OptimizedPrompt)
	sb.WriteString("\n```\n")

	return sb.String()
}
