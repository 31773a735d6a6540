// Package ollama implements the vision-model extraction client against the
// Ollama generate API.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"pagelens/internal/config"
	"pagelens/internal/domain"
	"pagelens/internal/parser"
	"pagelens/internal/port"
)

const generatePath = "/api/generate"

// Client calls a locally hosted vision model through the Ollama HTTP API and
// parses its free-text response into structured elements.
type Client struct {
	endpoint   string
	model      string
	promptKey  string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
	registry   *parser.Registry
}

var _ port.Extractor = (*Client)(nil)

// NewClient creates an extraction client from configuration.
func NewClient(cfg *config.ExtractorConfig) *Client {
	return NewClientWithEndpoint(cfg, cfg.Host)
}

// NewClientWithEndpoint creates an extraction client with a custom endpoint,
// used by tests to point at a local HTTP server.
func NewClientWithEndpoint(cfg *config.ExtractorConfig, endpoint string) *Client {
	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}
	return &Client{
		endpoint:   endpoint,
		model:      cfg.Model,
		promptKey:  cfg.PromptKey,
		maxRetries: retries,
		retryDelay: cfg.RetryDelay,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		registry:   parser.NewRegistry(),
	}
}

// ModelName returns the configured model identifier.
func (c *Client) ModelName() string {
	return c.model
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Extract runs the vision model on one page image and parses the response.
// It never returns an error: failures are reported through the result's
// Success flag so that callers can isolate per-page outcomes.
func (c *Client) Extract(ctx context.Context, req port.ExtractRequest) *domain.ExtractionResult {
	start := time.Now()

	prompt := req.Prompt
	if prompt == "" {
		prompt = PromptFor(c.promptKey)
	}

	imageData, err := os.ReadFile(req.ImagePath)
	if err != nil {
		log.Printf("ollama.Extract: failed to read image %s: %v", req.ImagePath, err)
		result := domain.FailedExtraction(req.ImagePath, c.model, fmt.Sprintf("read image: %v", err))
		result.PromptUsed = prompt
		result.ProcessingTime = time.Since(start)
		return result
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		raw, err := c.generate(ctx, prompt, imageData)
		if err == nil {
			parsed := c.registry.Parse(raw)
			result := &domain.ExtractionResult{
				RawOutput:      raw,
				ParseResult:    parsed,
				ModelName:      c.model,
				PromptUsed:     prompt,
				ImagePath:      req.ImagePath,
				ProcessingTime: time.Since(start),
				Success:        parsed.Success,
				ErrorMessage:   parsed.ErrorMessage,
			}
			log.Printf("ollama.Extract: %s parsed %d elements (format=%s, attempt=%d)",
				req.ImagePath, parsed.ElementCount(), parsed.Format, attempt)
			return result
		}

		lastErr = err
		log.Printf("ollama.Extract: attempt %d/%d failed for %s: %v",
			attempt, c.maxRetries, req.ImagePath, err)

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				attempt = c.maxRetries
			case <-time.After(c.retryDelay):
			}
		}
	}

	result := domain.FailedExtraction(req.ImagePath, c.model,
		fmt.Sprintf("extraction failed after %d attempts: %v", c.maxRetries, lastErr))
	result.PromptUsed = prompt
	result.ProcessingTime = time.Since(start)
	return result
}

func (c *Client) generate(ctx context.Context, prompt string, imageData []byte) (string, error) {
	body := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Images: []string{base64.StdEncoding.EncodeToString(imageData)},
		Stream: false,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+generatePath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model API returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var gen generateResponse
	if err := json.Unmarshal(respBody, &gen); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if gen.Error != "" {
		return "", fmt.Errorf("model error: %s", gen.Error)
	}

	return gen.Response, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
