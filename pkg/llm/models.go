package llm

// ModelConfig describes a completion model and its pricing.
type ModelConfig struct {
	Name              string  `json:"name" yaml:"name"`
	MaxTokens         int     `json:"maxTokens" yaml:"maxTokens"`
	Temperature       float64 `json:"temperature" yaml:"temperature"`
	InputCostPerMTok  float64 `json:"inputCostPerMTok" yaml:"inputCostPerMTok"`
	OutputCostPerMTok float64 `json:"outputCostPerMTok" yaml:"outputCostPerMTok"`
}

// Cost returns the request price in USD for the given token counts, based on
// the model's per-million-token rates.
func (c ModelConfig) Cost(promptTokens, completionTokens int) float64 {
	input := float64(promptTokens) / 1_000_000 * c.InputCostPerMTok
	output := float64(completionTokens) / 1_000_000 * c.OutputCostPerMTok
	return input + output
}

var (
	GeminiPro = ModelConfig{
		Name:              "google/gemini-2.5-pro",
		MaxTokens:         32768,
		Temperature:       1.0,
		InputCostPerMTok:  1.25,
		OutputCostPerMTok: 10.0,
	}
	GeminiFlash = ModelConfig{
		Name:              "google/gemini-2.5-flash",
		MaxTokens:         32768,
		Temperature:       1.0,
		InputCostPerMTok:  0.3,
		OutputCostPerMTok: 2.5,
	}
)
