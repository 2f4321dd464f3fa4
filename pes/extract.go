package pes

import (
	"strings"
	"unicode"
)

// MaxInputLen is the ceiling on analyzed input, in runes. Longer texts are
// truncated before extraction; extraction never rejects input.
const MaxInputLen = 10000

// Extract computes the six-dimension feature vector for a text from surface
// signals. It is a pure function: no I/O, deterministic, and cheap enough to
// run on every analysis request and every optimization iteration.
//
// Empty text yields the floor vector (the baseline score of each dimension),
// never an error.
func Extract(text string) FeatureVector {
	text = truncate(text, MaxInputLen)
	low := strings.ToLower(text)

	return FeatureVector{
		Persona:     personaScore(low),
		Tone:        toneScore(low),
		Format:      formatScore(low),
		Specificity: specificityScore(low),
		Constraints: constraintsScore(low),
		Context:     contextScore(text, low),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		// Fast path: byte length bounds rune length.
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Role-declaration language. The higher tier requires seniority or
// experience markers on top of a basic role statement.
func personaScore(low string) float64 {
	score := 0.4
	if containsAny(low, []string{"you are", "expert", "persona"}) {
		score = 0.8
		if containsAny(low, []string{"years of experience", "senior", "specialist"}) {
			score = 0.95
		}
	}
	return score
}

var toneKeywords = []string{
	"formal", "casual", "professional", "technical",
	"academic", "persuasive", "friendly", "neutral",
}

func toneScore(low string) float64 {
	score := 0.5
	if containsAny(low, toneKeywords) {
		score = 0.85
	}
	if containsAny(low, []string{"tone", "voice"}) {
		score = 0.95
	}
	return score
}

var formatKeywords = []string{
	"json", "markdown", "table", "csv", "bullet points",
	"list", "xml", "latex", "structure",
}

func formatScore(low string) float64 {
	score := 0.3
	if containsAny(low, formatKeywords) {
		score = 0.7
	}
	if containsAny(low, []string{"format", "output", "sections", "schema"}) {
		score = 0.95
	}
	return score
}

var metricKeywords = []string{
	"latency", "throughput", "availability", "budget",
	"count", "words", "characters", "limit",
}

func specificityScore(low string) float64 {
	score := 0.4
	if strings.ContainsFunc(low, unicode.IsDigit) {
		score = 0.7
	}
	if containsAny(low, metricKeywords) {
		score = 0.9
	}
	return score
}

var constraintKeywords = []string{
	"must", "cannot", "don't", "avoid", "ensure",
	"always", "never", "constraint", "limit",
}

func constraintsScore(low string) float64 {
	score := 0.3
	if containsAny(low, constraintKeywords) {
		score = 0.8
	}
	if containsAny(low, []string{"validation", "rules", "enforce"}) {
		score = 0.95
	}
	return score
}

var contextKeywords = []string{
	"background", "audience", "context", "history", "use case", "scenario",
}

// Context rewards both sheer length (background usually takes room) and
// explicit audience or goal language. Length is measured in runes.
func contextScore(text, low string) float64 {
	score := 0.3
	n := len([]rune(text))
	if n > 200 {
		score = 0.6
	}
	if n > 500 {
		score = 0.8
	}
	if containsAny(low, contextKeywords) {
		score = 0.95
	}
	return score
}
