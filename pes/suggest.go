package pes

// DefaultSuggestionThreshold is the score below which a dimension gets an
// improvement suggestion.
const DefaultSuggestionThreshold = 0.75

var suggestions = map[Dimension]string{
	Persona:     "Improve Persona: add explicit role specification (e.g., 'You are a [role] with [experience]')",
	Tone:        "Improve Tone: specify desired voice (formal/casual/technical) or include example phrasing",
	Format:      "Improve Format: define output structure (JSON schema, bullet points, table, word count)",
	Specificity: "Improve Specificity: add quantified constraints (character limits, numerical targets, time bounds)",
	Constraints: "Improve Constraints: insert enforcement rules (cite sources, mark uncertainties, validation criteria)",
	Context:     "Improve Context: provide background information (use case, target audience, success metrics)",
}

// SuggestImprovements returns one actionable suggestion per dimension scoring
// below the threshold, in canonical dimension order.
func SuggestImprovements(features FeatureVector, threshold float64) []string {
	var out []string
	for _, d := range Dimensions() {
		if features.Get(d) < threshold {
			out = append(out, suggestions[d])
		}
	}
	return out
}
