package main

import (
	"os"
	"path/filepath"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"

	"github.com/portraitlab/genai-client/pkg/cache"
)

// fileConfig holds optional defaults loaded from a YAML file. Environment
// variables and flags take precedence.
type fileConfig struct {
	OpenRouterAPIKey  string `yaml:"openrouter_api_key"`
	ReplicateAPIToken string `yaml:"replicate_api_token"`
	GeminiAPIKey      string `yaml:"gemini_api_key"`
	CacheDir          string `yaml:"cache_dir"`
}

// loadFileConfig reads GENAI_CONFIG or ~/.genai.yaml and fills in any root
// options still unset. A missing file is not an error.
func loadFileConfig(opts *rootOptions) {
	path := os.Getenv("GENAI_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		path = filepath.Join(home, ".genai.yaml")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		log.WithError(err).Warnf("ignoring unreadable config %q", path)
		return
	}

	if opts.openRouterAPIKey == "" {
		opts.openRouterAPIKey = cfg.OpenRouterAPIKey
	}
	if opts.replicateToken == "" {
		opts.replicateToken = cfg.ReplicateAPIToken
	}
	if opts.geminiAPIKey == "" {
		opts.geminiAPIKey = cfg.GeminiAPIKey
	}
	if opts.cacheDir == cache.DefaultDir && cfg.CacheDir != "" {
		opts.cacheDir = cfg.CacheDir
	}
}
