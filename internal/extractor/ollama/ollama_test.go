package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagelens/internal/config"
	"pagelens/internal/port"
)

func testConfig() *config.ExtractorConfig {
	return &config.ExtractorConfig{
		Model:       "deepseek-ocr:3b",
		PromptKey:   "grounding_v1",
		MaxRetries:  3,
		RetryDelay:  time.Millisecond,
		TimeoutSecs: 5,
	}
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.png")
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0o644))
	return path
}

func TestExtract_Success(t *testing.T) {
	imagePath := writeTestImage(t)

	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(generateResponse{
			Response: "<|ref|>title<|/ref|><|det|>[[100, 50, 500, 80]]<|/det|>Annual Report",
			Done:     true,
		})
	}))
	defer server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	result := client.Extract(context.Background(), port.ExtractRequest{ImagePath: imagePath})

	require.True(t, result.Success)
	assert.Equal(t, "deepseek-ocr:3b", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Images, 1)

	assert.Equal(t, "deepseek-ocr:3b", result.ModelName)
	assert.Equal(t, PromptFor("grounding_v1"), result.PromptUsed)
	assert.Equal(t, "grounding", result.ParseResult.Format)
	require.Len(t, result.ParseResult.Elements, 1)
	assert.Equal(t, "title", result.ParseResult.Elements[0].Type)
	assert.Equal(t, "Annual Report", result.ParseResult.Elements[0].Content)
	assert.Greater(t, result.ProcessingTime, time.Duration(0))
}

func TestExtract_RetriesThenSucceeds(t *testing.T) {
	imagePath := writeTestImage(t)

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "recovered text", Done: true})
	}))
	defer server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	result := client.Extract(context.Background(), port.ExtractRequest{ImagePath: imagePath})

	require.True(t, result.Success)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "plaintext", result.ParseResult.Format)
}

func TestExtract_FailsAfterRetries(t *testing.T) {
	imagePath := writeTestImage(t)

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	result := client.Extract(context.Background(), port.ExtractRequest{ImagePath: imagePath})

	assert.False(t, result.Success)
	assert.Equal(t, int32(3), calls.Load())
	assert.Contains(t, result.ErrorMessage, "after 3 attempts")
	require.NotNil(t, result.ParseResult)
	assert.False(t, result.ParseResult.Success)
	assert.Empty(t, result.ParseResult.Elements)
}

func TestExtract_ModelError(t *testing.T) {
	imagePath := writeTestImage(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Error: "model not found"})
	}))
	defer server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	result := client.Extract(context.Background(), port.ExtractRequest{ImagePath: imagePath})

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "model not found")
}

func TestExtract_MissingImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for unreadable image")
	}))
	defer server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	result := client.Extract(context.Background(), port.ExtractRequest{ImagePath: "/nope/missing.png"})

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "read image")
}

func TestExtract_EmptyResponseIsParseFailure(t *testing.T) {
	imagePath := writeTestImage(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Response: "", Done: true})
	}))
	defer server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	result := client.Extract(context.Background(), port.ExtractRequest{ImagePath: imagePath})

	assert.False(t, result.Success)
	assert.Equal(t, "none", result.ParseResult.Format)
	assert.Empty(t, result.ParseResult.Elements)
}

func TestExtract_PromptOverride(t *testing.T) {
	imagePath := writeTestImage(t)

	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(generateResponse{Response: "text", Done: true})
	}))
	defer server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	client.Extract(context.Background(), port.ExtractRequest{ImagePath: imagePath, Prompt: "custom prompt"})

	assert.Equal(t, "custom prompt", gotReq.Prompt)
}

func TestPromptFor_UnknownKeyFallsBack(t *testing.T) {
	assert.Equal(t, prompts[DefaultPromptKey], PromptFor("no_such_key"))
	assert.Equal(t, prompts["markdown_v1"], PromptFor("markdown_v1"))
}
