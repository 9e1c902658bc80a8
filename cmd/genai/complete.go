package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/portraitlab/genai-client/pkg/cache"
	"github.com/portraitlab/genai-client/pkg/llm"
)

type completeOptions struct {
	model       string
	maxTokens   int
	temperature float64
	jsonOutput  bool
	noCache     bool
	retries     int
	cooldown    time.Duration
}

func newCompleteCmd(opts *rootOptions) *cobra.Command {
	var c completeOptions
	cmd := &cobra.Command{
		Use:   "complete <prompt>",
		Short: "Run a text completion through OpenRouter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.openRouterAPIKey == "" {
				return errors.Errorf("OPENROUTER_API_KEY is not set")
			}
			client, err := llm.NewOpenRouter(llm.Config{APIKey: opts.openRouterAPIKey})
			if err != nil {
				return err
			}
			manager, err := opts.openCache()
			if err != nil {
				return err
			}

			request := llm.CompletionRequest{
				Prompt:        args[0],
				Model:         resolveModel(c.model, c.maxTokens, c.temperature),
				MaxRetries:    c.retries,
				RetryCooldown: c.cooldown,
				JSONOutput:    c.jsonOutput,
			}
			response, fromCache, err := completeCached(cmd.Context(), client, manager, request, !c.noCache)
			if err != nil {
				return err
			}

			cmd.Println(response.Content)
			cmd.Printf("\ntokens: %d prompt + %d completion, cost: $%.6f%s\n",
				response.Usage.PromptTokens, response.Usage.CompletionTokens, response.Usage.CostUSD,
				lo.If(fromCache, " (cached)").Else(""))
			return nil
		},
	}
	cmd.Flags().StringVarP(&c.model, "model", "m", "gemini-flash", "Model: gemini-flash, gemini-pro or a full OpenRouter name")
	cmd.Flags().IntVar(&c.maxTokens, "max-tokens", 0, "Max completion tokens (0 = model default)")
	cmd.Flags().Float64Var(&c.temperature, "temperature", -1, "Sampling temperature (-1 = model default)")
	cmd.Flags().BoolVarP(&c.jsonOutput, "json", "j", false, "Ask the model for JSON output")
	cmd.Flags().BoolVar(&c.noCache, "no-cache", false, "Skip the result cache")
	cmd.Flags().IntVar(&c.retries, "retries", 3, "Max retries on API errors")
	cmd.Flags().DurationVar(&c.cooldown, "cooldown", time.Second, "Base delay between retries")
	return cmd
}

// completeCached routes the request through the memoized wrapper unless
// caching is disabled.
func completeCached(ctx context.Context, client llm.Client, manager *cache.Manager, request llm.CompletionRequest, useCache bool) (*llm.CompletionResponse, bool, error) {
	if !useCache {
		response, err := client.Complete(ctx, request)
		return response, false, err
	}

	memoized := manager.Memoize("complete", func(args []any, _ map[string]any) (any, error) {
		prompt, _ := args[0].(string)
		req := request
		req.Prompt = prompt
		response, err := client.Complete(ctx, req)
		if err != nil {
			return nil, err
		}
		// Cache a JSON-native shape so the table stays readable.
		raw, err := json.Marshal(response)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode response for caching")
		}
		var plain map[string]any
		if err := json.Unmarshal(raw, &plain); err != nil {
			return nil, errors.Wrapf(err, "failed to decode response for caching")
		}
		return plain, nil
	})

	value, fromCache, err := memoized.CallNamed(
		[]any{request.Prompt},
		map[string]any{
			"model":       request.Model.Name,
			"max_tokens":  request.Model.MaxTokens,
			"temperature": request.Model.Temperature,
			"json":        request.JSONOutput,
		},
	)
	if err != nil {
		return nil, false, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to re-encode cached response")
	}
	var response llm.CompletionResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, false, errors.Wrapf(err, "failed to decode cached response")
	}
	return &response, fromCache, nil
}

// resolveModel maps short aliases to the predefined configs; any other value
// is treated as a raw OpenRouter model name.
func resolveModel(name string, maxTokens int, temperature float64) llm.ModelConfig {
	var model llm.ModelConfig
	switch name {
	case "gemini-flash", llm.GeminiFlash.Name:
		model = llm.GeminiFlash
	case "gemini-pro", llm.GeminiPro.Name:
		model = llm.GeminiPro
	default:
		model = llm.ModelConfig{Name: name, MaxTokens: llm.GeminiFlash.MaxTokens, Temperature: 1.0}
	}
	if maxTokens > 0 {
		model.MaxTokens = maxTokens
	}
	if temperature >= 0 {
		model.Temperature = temperature
	}
	return model
}
