package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/portraitlab/genai-client/internal/build"
	intlog "github.com/portraitlab/genai-client/internal/log"
	"github.com/portraitlab/genai-client/pkg/cache"
)

type rootOptions struct {
	cacheDir         string
	openRouterAPIKey string
	replicateToken   string
	geminiAPIKey     string
}

func main() {
	intlog.InitLogger()

	opts := &rootOptions{
		cacheDir:         cache.DefaultDir,
		openRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		replicateToken:   os.Getenv("REPLICATE_API_TOKEN"),
		geminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
	}
	loadFileConfig(opts)
	if dir := os.Getenv("GENAI_CACHE_DIR"); dir != "" {
		opts.cacheDir = dir
	}

	rootCmd := &cobra.Command{
		Use:     "genai",
		Version: build.Version,
		Short:   "Thin clients for generative AI APIs with a function result cache",
		Long:    "Text completions via OpenRouter and image generation via Replicate or Gemini, with results cached on disk",
	}
	rootCmd.PersistentFlags().StringVarP(&opts.cacheDir, "cache-dir", "c", opts.cacheDir, "Directory for cached API results")

	rootCmd.AddCommand(
		newCacheCmd(opts),
		newCompleteCmd(opts),
		newImagineCmd(opts),
		newBatchCmd(opts),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (o *rootOptions) openCache() (*cache.Manager, error) {
	return cache.New(o.cacheDir)
}
