package imagegen

import "github.com/samber/lo"

// Model names a backend model and builds its input parameters. Unset optional
// parameters are left out of the input entirely.
type Model interface {
	Name() string
	Input(prompt string) map[string]any
}

// FluxProUltraConfig configures black-forest-labs/flux-1.1-pro-ultra.
type FluxProUltraConfig struct {
	Raw                 *bool
	Seed                *int
	AspectRatio         string
	ImagePrompt         string
	OutputFormat        string
	SafetyTolerance     *int
	ImagePromptStrength *float64
}

// FluxProUltra returns the flux-1.1-pro-ultra config with its defaults.
func FluxProUltra() *FluxProUltraConfig {
	return &FluxProUltraConfig{
		AspectRatio:     "1:1",
		OutputFormat:    "jpg",
		SafetyTolerance: lo.ToPtr(2),
	}
}

func (c *FluxProUltraConfig) Name() string {
	return "black-forest-labs/flux-1.1-pro-ultra"
}

func (c *FluxProUltraConfig) Input(prompt string) map[string]any {
	params := map[string]any{"prompt": prompt}
	setIf(params, "raw", c.Raw)
	setIf(params, "seed", c.Seed)
	setStr(params, "aspect_ratio", c.AspectRatio)
	setStr(params, "image_prompt", c.ImagePrompt)
	setStr(params, "output_format", c.OutputFormat)
	setIf(params, "safety_tolerance", c.SafetyTolerance)
	setIf(params, "image_prompt_strength", c.ImagePromptStrength)
	return params
}

// FluxKontextConfig configures the flux-kontext editing models; both the pro
// and max variants take the same parameters.
type FluxKontextConfig struct {
	model            string
	Seed             *int
	InputImage       string
	AspectRatio      string
	OutputFormat     string
	SafetyTolerance  *int
	PromptUpsampling *bool
}

func FluxKontextPro() *FluxKontextConfig {
	return &FluxKontextConfig{
		model:           "black-forest-labs/flux-kontext-pro",
		AspectRatio:     "match_input_image",
		OutputFormat:    "jpg",
		SafetyTolerance: lo.ToPtr(2),
	}
}

func FluxKontextMax() *FluxKontextConfig {
	return &FluxKontextConfig{
		model:           "black-forest-labs/flux-kontext-max",
		AspectRatio:     "match_input_image",
		OutputFormat:    "jpg",
		SafetyTolerance: lo.ToPtr(2),
	}
}

func (c *FluxKontextConfig) Name() string {
	return c.model
}

func (c *FluxKontextConfig) Input(prompt string) map[string]any {
	params := map[string]any{"prompt": prompt}
	setIf(params, "seed", c.Seed)
	setStr(params, "input_image", c.InputImage)
	setStr(params, "aspect_ratio", c.AspectRatio)
	setStr(params, "output_format", c.OutputFormat)
	setIf(params, "safety_tolerance", c.SafetyTolerance)
	setIf(params, "prompt_upsampling", c.PromptUpsampling)
	return params
}

// CustomModel is an escape hatch for any backend model not covered by the
// typed configs.
type CustomModel struct {
	ModelName string
	Params    map[string]any
}

func (c *CustomModel) Name() string {
	return c.ModelName
}

func (c *CustomModel) Input(prompt string) map[string]any {
	params := map[string]any{"prompt": prompt}
	for k, v := range c.Params {
		params[k] = v
	}
	return params
}

func setIf[T any](params map[string]any, key string, v *T) {
	if v != nil {
		params[key] = *v
	}
}

func setStr(params map[string]any, key, v string) {
	if v != "" {
		params[key] = v
	}
}
