package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/simple-container-com/go-aws-lambda-sdk/pkg/util/retry"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

type Config struct {
	APIKey  string `json:"apiKey" yaml:"apiKey"`
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
	// SiteURL and SiteName are OpenRouter's optional attribution headers.
	SiteURL  string `json:"siteUrl" yaml:"siteUrl"`
	SiteName string `json:"siteName" yaml:"siteName"`
}

type RoundTripFn func(req *http.Request) (*http.Response, error)

func (f RoundTripFn) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// NewOpenRouter returns a completion client backed by OpenRouter's
// OpenAI-compatible endpoint.
func NewOpenRouter(cfg Config) (Client, error) {
	httpClient := &http.Client{
		Timeout: time.Second * 120,
		Transport: RoundTripFn(func(req *http.Request) (*http.Response, error) {
			if cfg.SiteURL != "" {
				req.Header.Set("HTTP-Referer", cfg.SiteURL)
			}
			if cfg.SiteName != "" {
				req.Header.Set("X-Title", cfg.SiteName)
			}
			return http.DefaultTransport.RoundTrip(req)
		}),
	}
	client, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(lo.If(cfg.BaseURL != "", cfg.BaseURL).Else(DefaultBaseURL)),
		openai.WithModel(GeminiFlash.Name),
		openai.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to init openrouter client")
	}
	return &openRouterClient{client: client}, nil
}

type openRouterClient struct {
	client *openai.LLM
}

func (o *openRouterClient) Complete(ctx context.Context, request CompletionRequest) (*CompletionResponse, error) {
	model := request.Model
	if model.Name == "" {
		model = GeminiFlash
	}

	opts := []llms.CallOption{
		llms.WithModel(model.Name),
		llms.WithMaxTokens(model.MaxTokens),
		llms.WithTemperature(model.Temperature),
	}
	if request.JSONOutput {
		opts = append(opts, llms.WithJSONMode())
	}
	contents := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, request.Prompt),
	}

	// retry.With hands back a pointer to the action's result.
	resPtr, err := retry.With(retry.Config[*llms.ContentResponse]{
		AttemptErrorCallback: func(i int, err error) {
			log.WithError(err).Warnf("completion attempt %d against %q failed", i+1, model.Name)
			time.Sleep(lo.If(request.RetryCooldown == 0, 50*time.Millisecond).Else(request.RetryCooldown))
		},
		Action: func() (*llms.ContentResponse, error) {
			return o.client.GenerateContent(ctx, contents, opts...)
		},
		MaxRetries: lo.If(request.MaxRetries == 0, 1).Else(request.MaxRetries),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get completion from model %q", model.Name)
	}
	res := lo.FromPtr(resPtr)
	if res == nil || len(res.Choices) == 0 {
		return nil, errors.Errorf("response does not contain any result")
	}

	choice := res.Choices[0]
	response := &CompletionResponse{
		Content: choice.Content,
		Usage:   usageFrom(choice.GenerationInfo, model),
	}
	if request.JSONOutput {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(choice.Content), &parsed); err != nil {
			log.WithError(err).Warnf("model %q returned non-JSON content despite JSON mode", model.Name)
		} else {
			response.Parsed = parsed
		}
	}
	return response, nil
}

func usageFrom(info map[string]any, model ModelConfig) TokenUsage {
	usage := TokenUsage{
		PromptTokens:     intFrom(info, "PromptTokens"),
		CompletionTokens: intFrom(info, "CompletionTokens"),
		TotalTokens:      intFrom(info, "TotalTokens"),
	}
	usage.CostUSD = model.Cost(usage.PromptTokens, usage.CompletionTokens)
	return usage
}

func intFrom(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
