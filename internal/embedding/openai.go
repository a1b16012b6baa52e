// Package embedding provides the OpenAI-compatible embedding client for inkmatch.
package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/tiktoken-go/tokenizer"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public OpenAI API.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel matches the 1536-dimension sketch embeddings.
	DefaultModel = "text-embedding-3-small"
	// DefaultMaxTokens is the input limit of the text-embedding-3 models.
	DefaultMaxTokens = 8191
	// DefaultTimeout bounds a single embeddings call.
	DefaultTimeout = 30 * time.Second
)

// ErrEmptyInput is returned when there is no text to embed.
var ErrEmptyInput = errors.New("embedding input is empty")

// APIError is a non-2xx response from the embeddings endpoint.
type APIError struct {
	Message    string
	Type       string
	Code       string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("embeddings: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("embeddings: status=%d: %s", e.StatusCode, e.Message)
}

// Config holds embedding client settings.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int           // Inputs longer than this are truncated (default: 8191)
	Timeout   time.Duration // Per-call HTTP timeout (default: 30s)
	// RequestsPerSecond throttles outgoing calls; 0 disables throttling.
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// OpenAIClient calls POST {BaseURL}/embeddings.
type OpenAIClient struct {
	httpc     *http.Client
	limiter   *rate.Limiter
	codec     tokenizer.Codec
	url       string
	apiKey    string
	model     string
	maxTokens int
}

// NewOpenAIClient creates a client. The tokenizer is loaded once here.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding api key is required")
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimSuffix(base, "/embeddings")

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpc = &http.Client{Timeout: timeout}
	}

	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	c := &OpenAIClient{
		httpc:     httpc,
		codec:     codec,
		url:       base + "/embeddings",
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c, nil
}

// Model returns the embedding model name.
func (c *OpenAIClient) Model() string {
	return c.model
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Model string `json:"model"`
	Data  []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Embed returns the embedding of text. No retries are attempted.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	input, err := c.truncate(text)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	body, err := json.Marshal(embeddingRequest{Model: c.model, Input: input})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call embeddings: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Debug().Err(cerr).Msg("Embedding response body close failed")
		}
	}()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return nil, parseAPIError(resp.StatusCode, payload)
	}

	var out embeddingResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embeddings: response contained no vector")
	}

	log.Debug().
		Str("model", c.model).
		Int("dimensions", len(out.Data[0].Embedding)).
		Int("promptTokens", out.Usage.PromptTokens).
		Msg("Generated embedding")

	return out.Data[0].Embedding, nil
}

// truncate cuts text to the model's token budget.
func (c *OpenAIClient) truncate(text string) (string, error) {
	ids, _, err := c.codec.Encode(text)
	if err != nil {
		return "", fmt.Errorf("tokenize input: %w", err)
	}
	if len(ids) <= c.maxTokens {
		return text, nil
	}

	truncated, err := c.codec.Decode(ids[:c.maxTokens])
	if err != nil {
		return "", fmt.Errorf("detokenize input: %w", err)
	}
	log.Warn().
		Int("tokens", len(ids)).
		Int("maxTokens", c.maxTokens).
		Msg("Embedding input truncated")
	return truncated, nil
}

func parseAPIError(status int, payload []byte) error {
	apiErr := &APIError{StatusCode: status}
	var er errorResponse
	if err := json.Unmarshal(payload, &er); err == nil && er.Error.Message != "" {
		apiErr.Message = er.Error.Message
		apiErr.Type = er.Error.Type
		if er.Error.Code != nil {
			apiErr.Code = fmt.Sprint(er.Error.Code)
		}
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(payload))
	if len(apiErr.Message) > 200 {
		apiErr.Message = apiErr.Message[:200]
	}
	return apiErr
}
