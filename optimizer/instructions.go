package optimizer

import (
	"fmt"

	"github.com/Loofy147/Prompt-dashboard/pes"
)

// Per-dimension rewriting instructions. Each tells the collaborator what to
// add to strengthen one quality dimension while leaving the rest of the text
// intact. The service must answer with only the improved text.
var dimensionInstructions = map[pes.Dimension]string{
	pes.Persona: `Improve the Persona dimension of this prompt (current score %.2f/1.00).
Add an explicit role specification (e.g. "You are a Senior [Role]"), years of experience, and domain expertise.
Output ONLY the improved prompt text. Keep all other aspects of the prompt unchanged.`,

	pes.Tone: `Improve the Tone dimension of this prompt (current score %.2f/1.00).
Add an explicit tone specification (formal/technical/persuasive/academic/casual) and keep the voice consistent throughout.
Output ONLY the improved prompt text. Keep all other aspects of the prompt unchanged.`,

	pes.Format: `Improve the Format dimension of this prompt (current score %.2f/1.00).
Specify the output structure (JSON schema, Markdown sections, table, bullet points), length constraints, and section organization.
Output ONLY the improved prompt text. Keep all other aspects of the prompt unchanged.`,

	pes.Specificity: `Improve the Specificity dimension of this prompt (current score %.2f/1.00).
Add quantified metrics, numerical constraints (counts, word limits), named technologies, and concrete examples.
Output ONLY the improved prompt text. Keep all other aspects of the prompt unchanged.`,

	pes.Constraints: `Improve the Constraints dimension of this prompt (current score %.2f/1.00).
Add enforcement rules in imperative language ("must include X", "never Y"), validation criteria, and hard limits.
Output ONLY the improved prompt text. Keep all other aspects of the prompt unchanged.`,

	pes.Context: `Improve the Context dimension of this prompt (current score %.2f/1.00).
Add background information, target audience details, success criteria, and use case examples.
Output ONLY the improved prompt text. Keep all other aspects of the prompt unchanged.`,
}

// InstructionFor builds the rewriting instruction targeting one dimension at
// its current score.
func InstructionFor(dim pes.Dimension, score float64) string {
	tmpl, ok := dimensionInstructions[dim]
	if !ok {
		tmpl = `Improve this prompt's overall quality (current score %.2f/1.00). Output ONLY the improved prompt text.`
	}
	return fmt.Sprintf(tmpl, score)
}

// DimensionImpact scores how beneficial improving a dimension is expected to
// be: weight × gap to target × improvement probability. The probability term
// (1 − score²) reflects that low dimensions are easier to move than nearly
// saturated ones.
func DimensionImpact(weights pes.WeightTable, dim pes.Dimension, current, target float64) float64 {
	gap := target - current
	if gap <= 0 {
		return 0
	}
	return weights.Get(dim) * gap * (1 - current*current)
}
