package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/savioxavier/termlink"
	"github.com/spf13/cobra"

	"github.com/portraitlab/genai-client/pkg/imagegen"
	"github.com/portraitlab/genai-client/pkg/util"
)

type imagineOptions struct {
	provider    string
	model       string
	outPath     string
	aspectRatio string
	params      []string
	retries     int
	cooldown    time.Duration
}

func newImagineCmd(opts *rootOptions) *cobra.Command {
	var c imagineOptions
	cmd := &cobra.Command{
		Use:   "imagine <prompt>",
		Short: "Generate an image via Replicate or Gemini",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			generator, model, err := buildGenerator(cmd.Context(), opts, &c)
			if err != nil {
				return err
			}

			result, err := generator.Generate(cmd.Context(), imagegen.Request{
				Prompt:        args[0],
				Model:         model,
				MaxRetries:    c.retries,
				RetryCooldown: c.cooldown,
			})
			if err != nil {
				return err
			}

			data := result.Data
			if data == nil && result.URL != "" {
				if data, err = imagegen.FetchImage(cmd.Context(), result.URL); err != nil {
					return err
				}
			}
			if data == nil {
				return errors.Errorf("provider returned neither image data nor a URL")
			}

			path := c.outPath
			if path == "" {
				path = defaultImagePath(result.MIMEType)
			}
			if err := imagegen.SaveImage(path, data); err != nil {
				return err
			}
			cmd.Println("saved " + termlink.ColorLink(filepath.Base(path), fmt.Sprintf("file://%s", path), "italic green"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&c.provider, "provider", "p", "replicate", "Image provider: replicate or gemini")
	cmd.Flags().StringVarP(&c.model, "model", "m", "", "Model: flux-pro-ultra, flux-kontext-pro, flux-kontext-max or a raw Replicate name")
	cmd.Flags().StringVarP(&c.outPath, "out", "o", "", "Output file path")
	cmd.Flags().StringVarP(&c.aspectRatio, "aspect-ratio", "a", "", "Aspect ratio, e.g. 16:9")
	cmd.Flags().StringSliceVarP(&c.params, "param", "P", []string{}, "Extra model parameters as key=value")
	cmd.Flags().IntVar(&c.retries, "retries", 3, "Max retries on API errors")
	cmd.Flags().DurationVar(&c.cooldown, "cooldown", time.Second, "Base delay between retries")
	return cmd
}

func buildGenerator(ctx context.Context, opts *rootOptions, c *imagineOptions) (imagegen.Generator, imagegen.Model, error) {
	switch c.provider {
	case "replicate":
		if opts.replicateToken == "" {
			return nil, nil, errors.Errorf("REPLICATE_API_TOKEN is not set")
		}
		generator, err := imagegen.NewReplicate(opts.replicateToken)
		if err != nil {
			return nil, nil, err
		}
		model, err := resolveImageModel(c)
		return generator, model, err
	case "gemini":
		if opts.geminiAPIKey == "" {
			return nil, nil, errors.Errorf("GEMINI_API_KEY is not set")
		}
		generator, err := imagegen.NewGemini(ctx, opts.geminiAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return generator, &imagegen.GeminiModel{ModelName: lo.If(c.model != "", c.model).Else(imagegen.DefaultGeminiModel)}, nil
	}
	return nil, nil, errors.Errorf("unknown provider %q, expected replicate or gemini", c.provider)
}

func resolveImageModel(c *imagineOptions) (imagegen.Model, error) {
	switch c.model {
	case "", "flux-pro-ultra":
		model := imagegen.FluxProUltra()
		if c.aspectRatio != "" {
			model.AspectRatio = c.aspectRatio
		}
		return model, nil
	case "flux-kontext-pro":
		return imagegen.FluxKontextPro(), nil
	case "flux-kontext-max":
		return imagegen.FluxKontextMax(), nil
	}
	if !strings.Contains(c.model, "/") {
		return nil, errors.Errorf("unknown model %q, expected an alias or owner/name", c.model)
	}
	params := map[string]any{}
	for k, v := range util.SliceToMap(c.params) {
		params[k] = v
	}
	if c.aspectRatio != "" {
		params["aspect_ratio"] = c.aspectRatio
	}
	return &imagegen.CustomModel{ModelName: c.model, Params: params}, nil
}

func defaultImagePath(mimeType string) string {
	ext := "jpg"
	if strings.HasSuffix(mimeType, "png") {
		ext = "png"
	}
	return fmt.Sprintf("genai-%s.%s", time.Now().Format("20060102-150405"), ext)
}
