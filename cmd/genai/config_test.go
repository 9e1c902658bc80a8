package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/portraitlab/genai-client/pkg/cache"
	"github.com/portraitlab/genai-client/pkg/llm"

	. "github.com/onsi/gomega"
)

func TestLoadFileConfigFillsUnsetOptions(t *testing.T) {
	RegisterTestingT(t)

	path := filepath.Join(t.TempDir(), "genai.yaml")
	content := "openrouter_api_key: or-key\nreplicate_api_token: rep-token\ncache_dir: /tmp/genai-cache\n"
	Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	t.Setenv("GENAI_CONFIG", path)

	opts := &rootOptions{cacheDir: cache.DefaultDir}
	loadFileConfig(opts)

	Expect(opts.openRouterAPIKey).To(Equal("or-key"))
	Expect(opts.replicateToken).To(Equal("rep-token"))
	Expect(opts.geminiAPIKey).To(Equal(""))
	Expect(opts.cacheDir).To(Equal("/tmp/genai-cache"))
}

func TestLoadFileConfigKeepsExistingValues(t *testing.T) {
	RegisterTestingT(t)

	path := filepath.Join(t.TempDir(), "genai.yaml")
	Expect(os.WriteFile(path, []byte("openrouter_api_key: from-file\n"), 0o600)).To(Succeed())
	t.Setenv("GENAI_CONFIG", path)

	opts := &rootOptions{openRouterAPIKey: "from-env", cacheDir: "custom"}
	loadFileConfig(opts)

	Expect(opts.openRouterAPIKey).To(Equal("from-env"))
	Expect(opts.cacheDir).To(Equal("custom"))
}

func TestLoadFileConfigMissingFile(t *testing.T) {
	RegisterTestingT(t)

	t.Setenv("GENAI_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	opts := &rootOptions{cacheDir: cache.DefaultDir}
	loadFileConfig(opts)
	Expect(opts.cacheDir).To(Equal(cache.DefaultDir))
}

func TestResolveModelAliases(t *testing.T) {
	RegisterTestingT(t)

	Expect(resolveModel("gemini-flash", 0, -1)).To(Equal(llm.GeminiFlash))
	Expect(resolveModel("gemini-pro", 0, -1)).To(Equal(llm.GeminiPro))

	custom := resolveModel("anthropic/claude-sonnet-4", 1024, 0.5)
	Expect(custom.Name).To(Equal("anthropic/claude-sonnet-4"))
	Expect(custom.MaxTokens).To(Equal(1024))
	Expect(custom.Temperature).To(Equal(0.5))

	overridden := resolveModel("gemini-flash", 512, -1)
	Expect(overridden.MaxTokens).To(Equal(512))
	Expect(overridden.Temperature).To(Equal(llm.GeminiFlash.Temperature))
}
