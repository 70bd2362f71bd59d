// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package groq

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the Groq API.
const (
	// DefaultBaseURL is the base URL for Groq's OpenAI-compatible API.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "llama-3.3-70b-versatile"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// DefaultTemperature, DefaultMaxTokens, and DefaultTopP are the sampling
	// parameters sent with every completion.
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1024
	DefaultTopP        = 1.0

	// DefaultSystemPrompt is prepended to every request that does not begin
	// with its own system message.
	DefaultSystemPrompt = "You are a helpful assistant."

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// PERFORMANCE: Shared HTTP client with connection pooling for all requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a client for the Groq chat completions API.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	model       string
	temperature float64
	maxTokens   int
	topP        float64
	timeout     time.Duration
}

// NewClient creates a new Groq client with the given API key.
//
// If the API key is empty the client is still created, but Complete requests
// fail with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     DefaultBaseURL,
		httpClient:  sharedHTTPClient,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		topP:        DefaultTopP,
		timeout:     DefaultTimeout,
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithTimeout sets the request timeout. The shared pooled transport is kept.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	c.httpClient = &http.Client{
		Transport: sharedHTTPClient.Transport,
		Timeout:   timeout,
	}
	return c
}

// WithModel sets the model to use for completion requests.
func (c *Client) WithModel(model string) *Client {
	if model != "" {
		c.model = model
	}
	return c
}

// WithSampling sets the temperature, max token, and top-p parameters.
func (c *Client) WithSampling(temperature float64, maxTokens int, topP float64) *Client {
	c.temperature = temperature
	c.maxTokens = maxTokens
	c.topP = topP
	return c
}

// Model returns the configured model.
func (c *Client) Model() string {
	return c.model
}

// IsConfigured returns true if the client has an API key configured.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// KeyFingerprint returns a short fingerprint of the API key for logging.
// SECURITY: Never exposes key fragments.
func (c *Client) KeyFingerprint() string {
	if c.apiKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(c.apiKey))
	return fmt.Sprintf("%x", h[:4])
}

// =============================================================================
// COMPLETION
// =============================================================================

// Complete performs a single non-streaming chat completion with the given
// messages. A system preamble is prepended when the history does not start
// with one. The request is made exactly once; transient failures are
// returned to the caller rather than retried.
func (c *Client) Complete(ctx context.Context, messages []ChatMessage) (*ChatResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	topP := c.topP
	reqBody := ChatRequest{
		Model:       c.model,
		Messages:    c.withPreamble(messages),
		Stream:      false,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		TopP:        &topP,
	}

	return c.doRequest(ctx, c.baseURL+"/chat/completions", reqBody)
}

// withPreamble prepends the system prompt unless the caller supplied one.
func (c *Client) withPreamble(messages []ChatMessage) []ChatMessage {
	if len(messages) > 0 && messages[0].Role == "system" {
		return messages
	}
	out := make([]ChatMessage, 0, len(messages)+1)
	out = append(out, NewSystemMessage(DefaultSystemPrompt))
	return append(out, messages...)
}

// doRequest performs a single HTTP request to the chat completions endpoint.
func (c *Client) doRequest(ctx context.Context, requestURL string, reqBody ChatRequest) (*ChatResponse, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "parley/0.1.0")

	resp, err := c.httpClient.Do(req)

	// SECURITY: Clear Authorization header immediately after the request.
	req.Header.Del("Authorization")

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if err := validateResponse(&chatResp); err != nil {
		return nil, err
	}
	return &chatResp, nil
}

// readResponse reads the response body with a size limit.
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to read response", Cause: err}
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("response exceeded maximum size of %d bytes", MaxResponseSize),
		}
	}
	return body, nil
}

// validateResponse enforces the completion schema at the boundary. Responses
// that decode but lack a usable first choice are rejected here instead of
// surfacing as empty strings deeper in the application.
func validateResponse(resp *ChatResponse) error {
	if len(resp.Choices) == 0 {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "response has no choices"}
	}
	if role := resp.Choices[0].Message.Role; role != "assistant" {
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("unexpected role %q in first choice", role),
		}
	}
	return nil
}

// handleErrorResponse converts HTTP error responses to typed client errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	message := ""
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ClientError{Type: ErrTypeAuth, Message: orDefault(message, "authentication failed"), Status: statusCode}
	case http.StatusTooManyRequests:
		return &ClientError{Type: ErrTypeRateLimited, Message: orDefault(message, "rate limited"), Status: statusCode}
	default:
		if message == "" {
			message = strings.TrimSpace(string(body))
		}
		return &ClientError{Type: ErrTypeAPI, Message: orDefault(message, "API error"), Status: statusCode}
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
