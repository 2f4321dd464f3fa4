// Package main provides a command-line interface for the prompt dashboard
// core: analyze a prompt, forecast optimization cost, run an optimization,
// or generate ranked variants.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	promptdash "github.com/Loofy147/Prompt-dashboard"
	"github.com/Loofy147/Prompt-dashboard/config"
	"github.com/Loofy147/Prompt-dashboard/optimizer"
	"github.com/Loofy147/Prompt-dashboard/pes"
	"github.com/Loofy147/Prompt-dashboard/utils"
	"github.com/Loofy147/Prompt-dashboard/variants"
)

// cmdFlags holds all command-line flags.
type cmdFlags struct {
	mode          string
	prompt        string
	promptFile    string
	targetQuality float64
	strategy      string
	maxIterations int
	kinds         string
	outputFormat  string
	apiKey        string
	model         string
	endpoint      string
	timeout       time.Duration
	logLevel      string
}

func parseFlags() *cmdFlags {
	flags := &cmdFlags{}
	flag.StringVar(&flags.mode, "mode", "analyze", "Operation (analyze, estimate, optimize, variants)")
	flag.StringVar(&flags.prompt, "prompt", "", "Prompt text (reads stdin when empty and no -prompt-file)")
	flag.StringVar(&flags.promptFile, "prompt-file", "", "File containing the prompt text")
	flag.Float64Var(&flags.targetQuality, "target", promptdash.DefaultTargetQuality, "Target composite quality in [0,1]")
	flag.StringVar(&flags.strategy, "strategy", string(optimizer.StrategyBalanced),
		"Optimization strategy (cost_efficient, balanced, max_quality)")
	flag.IntVar(&flags.maxIterations, "max-iterations", 0, "Iteration cap override (0 uses the strategy cap)")
	flag.StringVar(&flags.kinds, "kinds", "", "Comma-separated variant kinds (concise, neutral, commanding)")
	flag.StringVar(&flags.outputFormat, "output-format", "markdown", "Output format (markdown, json)")
	flag.StringVar(&flags.apiKey, "api-key", "", "Rewrite service API key (overrides REWRITER_API_KEY)")
	flag.StringVar(&flags.model, "model", "", "Rewrite model override")
	flag.StringVar(&flags.endpoint, "endpoint", "", "Rewrite service endpoint override")
	flag.DurationVar(&flags.timeout, "timeout", 0, "Rewrite request timeout override")
	flag.StringVar(&flags.logLevel, "log-level", "", "Log level (OFF, ERROR, WARN, INFO, DEBUG)")
	flag.Parse()
	return flags
}

func (f *cmdFlags) configOptions() ([]config.ConfigOption, error) {
	var opts []config.ConfigOption
	if f.apiKey != "" {
		opts = append(opts, config.SetAPIKey(f.apiKey))
	}
	if f.model != "" {
		opts = append(opts, config.SetModel(f.model))
	}
	if f.endpoint != "" {
		opts = append(opts, config.SetRewriterEndpoint(f.endpoint))
	}
	if f.timeout > 0 {
		opts = append(opts, config.SetTimeout(f.timeout))
	}
	if f.logLevel != "" {
		var level utils.LogLevel
		if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", f.logLevel, err)
		}
		opts = append(opts, config.SetLogLevel(level))
	}
	return opts, nil
}

func (f *cmdFlags) promptText() (string, error) {
	if f.prompt != "" {
		return f.prompt, nil
	}
	if f.promptFile != "" {
		data, err := os.ReadFile(f.promptFile)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt from stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no prompt given: use -prompt, -prompt-file or stdin")
	}
	return text, nil
}

func parseKinds(raw string) []variants.Kind {
	if raw == "" {
		return nil
	}
	var kinds []variants.Kind
	for _, part := range strings.Split(raw, ",") {
		kinds = append(kinds, variants.Kind(strings.TrimSpace(part)))
	}
	return kinds
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runAnalyze(d *promptdash.Dashboard, text string, asJSON bool) error {
	a, err := d.Analyze(text)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(a)
	}

	fmt.Printf("Q-Score: %.4f (%s)\n\n", a.Score.Composite, a.Level)
	fmt.Println("Dimension breakdown:")
	for _, dim := range pes.Dimensions() {
		fmt.Printf("  %-12s %.4f (raw %.2f)\n", dim.Name(), a.Score.Breakdown[dim], a.Features.Get(dim))
	}
	if len(a.Suggestions) > 0 {
		fmt.Println("\nSuggestions:")
		for _, s := range a.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
	return nil
}

func runEstimate(d *promptdash.Dashboard, text string, flags *cmdFlags, asJSON bool) error {
	est, err := d.EstimateCost(text, flags.targetQuality, optimizer.Strategy(flags.strategy))
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(est)
	}

	if est.EstimatedIterations == 0 {
		fmt.Printf("Prompt already meets target quality %.2f, nothing to do.\n", flags.targetQuality)
		return nil
	}
	fmt.Printf("Current Q %.4f, target %.2f (%s strategy)\n", est.CurrentQ, est.TargetQ, est.Strategy)
	fmt.Printf("Forecast: %d iterations, ~%d tokens, ~$%.4f\n",
		est.EstimatedIterations, est.EstimatedTotalTokens, est.EstimatedCostUSD)
	for _, entry := range est.CostBreakdown {
		fmt.Printf("  iteration %d: ~%d tokens, $%.4f\n",
			entry.Iteration, entry.Tokens, entry.CostUSD)
	}
	return nil
}

func runOptimize(ctx context.Context, d *promptdash.Dashboard, text string, flags *cmdFlags, asJSON bool) error {
	out, err := d.Optimize(ctx, promptdash.OptimizeRequest{
		Text:          text,
		TargetQuality: flags.targetQuality,
		Strategy:      optimizer.Strategy(flags.strategy),
		MaxIterations: flags.maxIterations,
	})
	if err != nil {
		return err
	}

	format := optimizer.ReportMarkdown
	if asJSON {
		format = optimizer.ReportJSON
	}
	report, err := optimizer.Report(out.Result, format)
	if err != nil {
		return err
	}
	fmt.Println(report)
	if out.Result.Err != nil {
		return fmt.Errorf("optimization did not complete: %w", out.Result.Err)
	}
	return nil
}

func runVariants(ctx context.Context, d *promptdash.Dashboard, text string, flags *cmdFlags, asJSON bool) error {
	cmp, err := d.GenerateVariants(ctx, promptdash.VariantRequest{
		Text:  text,
		Kinds: parseKinds(flags.kinds),
	})
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmp)
	}

	fmt.Printf("Base Q %.4f, best variant: %s\n\n", cmp.BaseQ, cmp.Best)
	for i, v := range cmp.Variants {
		fmt.Printf("%d. [%s] Q %.4f ($%.4f, %d tokens)\n%s\n\n",
			i+1, v.Kind, v.Score.Composite, v.CostUSD, v.TokensUsed, v.Text)
	}
	return nil
}

func run() error {
	flags := parseFlags()

	opts, err := flags.configOptions()
	if err != nil {
		return err
	}
	text, err := flags.promptText()
	if err != nil {
		return err
	}

	d, err := promptdash.New(opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	asJSON := strings.EqualFold(flags.outputFormat, "json")
	switch flags.mode {
	case "analyze":
		return runAnalyze(d, text, asJSON)
	case "estimate":
		return runEstimate(d, text, flags, asJSON)
	case "optimize":
		return runOptimize(ctx, d, text, flags, asJSON)
	case "variants":
		return runVariants(ctx, d, text, flags, asJSON)
	default:
		return fmt.Errorf("unknown mode %q (want analyze, estimate, optimize or variants)", flags.mode)
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("promptdash: %v", err)
	}
}
