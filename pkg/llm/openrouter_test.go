package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func newCompletionServer(t *testing.T, content string) (*httptest.Server, *http.Header) {
	t.Helper()
	var seen http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "gen-1",
			"object": "chat.completion",
			"model":  "google/gemini-2.5-flash",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     12,
				"completion_tokens": 7,
				"total_tokens":      19,
			},
		})
	}))
	t.Cleanup(server.Close)
	return server, &seen
}

func TestCompleteParsesContentAndUsage(t *testing.T) {
	RegisterTestingT(t)
	server, headers := newCompletionServer(t, "a nordic portrait")

	client, err := NewOpenRouter(Config{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		SiteURL:  "https://example.com",
		SiteName: "portraitlab",
	})
	Expect(err).To(BeNil())

	res, err := client.Complete(context.Background(), CompletionRequest{Prompt: "describe a viking"})
	Expect(err).To(BeNil())
	Expect(res.Content).To(Equal("a nordic portrait"))
	Expect(res.Usage.PromptTokens).To(Equal(12))
	Expect(res.Usage.CompletionTokens).To(Equal(7))
	Expect(res.Usage.TotalTokens).To(Equal(19))
	Expect(res.Usage.CostUSD).To(BeNumerically("~", GeminiFlash.Cost(12, 7), 1e-9))

	Expect(headers.Get("Authorization")).To(Equal("Bearer test-key"))
	Expect(headers.Get("HTTP-Referer")).To(Equal("https://example.com"))
	Expect(headers.Get("X-Title")).To(Equal("portraitlab"))
}

func TestCompleteRecoversAfterFailedAttempt(t *testing.T) {
	RegisterTestingT(t)

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "gen-2",
			"object": "chat.completion",
			"model":  "google/gemini-2.5-flash",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": "second time lucky"},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{"prompt_tokens": 3, "completion_tokens": 4, "total_tokens": 7},
		})
	}))
	t.Cleanup(server.Close)

	client, err := NewOpenRouter(Config{APIKey: "test-key", BaseURL: server.URL})
	Expect(err).To(BeNil())

	res, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:        "describe a viking",
		MaxRetries:    2,
		RetryCooldown: time.Millisecond,
	})
	Expect(err).To(BeNil())
	Expect(requests).To(Equal(2))
	Expect(res.Content).To(Equal("second time lucky"))
	Expect(res.Usage.TotalTokens).To(Equal(7))
}

func TestCompleteParsesJSONOutput(t *testing.T) {
	RegisterTestingT(t)
	server, _ := newCompletionServer(t, `{"name":"Astrid","era":"Mesolithic"}`)

	client, err := NewOpenRouter(Config{APIKey: "test-key", BaseURL: server.URL})
	Expect(err).To(BeNil())

	res, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:     "return json",
		JSONOutput: true,
	})
	Expect(err).To(BeNil())
	Expect(res.Parsed).To(HaveKeyWithValue("name", "Astrid"))
	Expect(res.Parsed).To(HaveKeyWithValue("era", "Mesolithic"))
}

func TestCompleteKeepsRawContentOnBadJSON(t *testing.T) {
	RegisterTestingT(t)
	server, _ := newCompletionServer(t, "not json at all")

	client, err := NewOpenRouter(Config{APIKey: "test-key", BaseURL: server.URL})
	Expect(err).To(BeNil())

	res, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:     "return json",
		JSONOutput: true,
	})
	Expect(err).To(BeNil())
	Expect(res.Parsed).To(BeNil())
	Expect(res.Content).To(Equal("not json at all"))
}
