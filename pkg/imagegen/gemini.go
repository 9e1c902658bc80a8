package imagegen

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when a request carries no model.
const DefaultGeminiModel = "gemini-2.5-flash-image-preview"

// GeminiModel satisfies Model for Gemini, which takes no extra input
// parameters beyond the prompt.
type GeminiModel struct {
	ModelName string
}

func (m *GeminiModel) Name() string {
	return m.ModelName
}

func (m *GeminiModel) Input(prompt string) map[string]any {
	return map[string]any{"prompt": prompt}
}

// NewGemini returns a generator producing images inline via the Gemini API.
func NewGemini(ctx context.Context, apiKey string) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to init gemini client")
	}
	return &geminiGenerator{client: client}, nil
}

type geminiGenerator struct {
	client *genai.Client
}

func (g *geminiGenerator) Generate(ctx context.Context, request Request) (*Result, error) {
	model := DefaultGeminiModel
	if request.Model != nil && request.Model.Name() != "" {
		model = request.Model.Name()
	}

	res, err := g.client.Models.GenerateContent(ctx, model, genai.Text(request.Prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to generate image with %q", model)
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return nil, errors.Errorf("response does not contain any candidate")
	}

	for _, part := range res.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &Result{
				Data:     part.InlineData.Data,
				MIMEType: part.InlineData.MIMEType,
			}, nil
		}
	}
	return nil, errors.Errorf("response from %q does not contain image data", model)
}
