package imagegen

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Generator produces an image for a prompt. Backends either return a URL to
// the hosted output (Replicate) or the image bytes inline (Gemini).
type Generator interface {
	Generate(ctx context.Context, request Request) (*Result, error)
}

type Request struct {
	Prompt        string        `json:"prompt" yaml:"prompt"`
	Model         Model         `json:"-" yaml:"-"`
	MaxRetries    int           `json:"maxRetries" yaml:"maxRetries"`
	RetryCooldown time.Duration `json:"retryCooldown" yaml:"retryCooldown"`
}

type Result struct {
	URL      string   `json:"url,omitempty" yaml:"url,omitempty"`
	URLs     []string `json:"urls,omitempty" yaml:"urls,omitempty"`
	Data     []byte   `json:"-" yaml:"-"`
	MIMEType string   `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
}

// FetchImage downloads the generated image behind url.
func FetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to init request for %q", url)
	}
	client := &http.Client{Timeout: time.Second * 60}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch image from %q", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("failed to fetch image from %q: status code %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read image body from %q", url)
	}
	return data, nil
}

// SaveImage writes image bytes under path, creating parent directories.
func SaveImage(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output dir for %q", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write image %q", path)
	}
	return nil
}
