package llm

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestCostUsesPerMillionRates(t *testing.T) {
	RegisterTestingT(t)

	model := ModelConfig{InputCostPerMTok: 1.25, OutputCostPerMTok: 10.0}

	Expect(model.Cost(1_000_000, 0)).To(BeNumerically("~", 1.25, 1e-9))
	Expect(model.Cost(0, 1_000_000)).To(BeNumerically("~", 10.0, 1e-9))
	Expect(model.Cost(500_000, 100_000)).To(BeNumerically("~", 0.625+1.0, 1e-9))
	Expect(model.Cost(0, 0)).To(BeZero())
}

func TestUsageFromGenerationInfo(t *testing.T) {
	RegisterTestingT(t)

	usage := usageFrom(map[string]any{
		"PromptTokens":     120,
		"CompletionTokens": 48,
		"TotalTokens":      168,
	}, GeminiFlash)

	Expect(usage.PromptTokens).To(Equal(120))
	Expect(usage.CompletionTokens).To(Equal(48))
	Expect(usage.TotalTokens).To(Equal(168))
	Expect(usage.CostUSD).To(BeNumerically("~", GeminiFlash.Cost(120, 48), 1e-9))
}

func TestUsageFromMissingInfo(t *testing.T) {
	RegisterTestingT(t)

	usage := usageFrom(nil, GeminiFlash)
	Expect(usage.TotalTokens).To(BeZero())
	Expect(usage.CostUSD).To(BeZero())
}

func TestPredefinedModels(t *testing.T) {
	RegisterTestingT(t)

	Expect(GeminiPro.Name).To(Equal("google/gemini-2.5-pro"))
	Expect(GeminiFlash.Name).To(Equal("google/gemini-2.5-flash"))
	Expect(GeminiFlash.MaxTokens).To(Equal(32768))
}
