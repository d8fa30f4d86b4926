// Package llm provides the provider-agnostic LLM call layer: a single
// structured-generation primitive with retry, JSON sanitization, and a
// deterministic per-model fallback chain.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/model"
)

// maxResponseSize limits the LLM response body to prevent memory
// exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`    // "system" or "user"
	Content string `json:"content"` // Message content
}

// ImagePart is an inline image attached to a request. Only providers
// with vision support use it; others ignore it.
type ImagePart struct {
	MIMEType string
	Data     []byte // raw bytes, base64-encoded by the provider
}

// Request defines a structured completion request.
type Request struct {
	// Role is the agent role making the call, for logs and metrics.
	Role model.Role

	// Model is the registry key of the primary model. The client walks
	// its fallback chain on failure.
	Model string

	// Messages is the prompt to send.
	Messages []Message

	// Temperature controls randomness. nil uses the provider default.
	Temperature *float64

	// MaxOutputTokens limits response length. 0 uses the provider
	// default.
	MaxOutputTokens int

	// ResponseSchema, when set, asks the provider for structured JSON
	// output matching the schema.
	ResponseSchema *Schema

	// ImageParts are optional inline images.
	ImageParts []ImagePart
}

// Response contains the completion result.
type Response struct {
	// RequestID uniquely identifies this call across fallbacks.
	RequestID string

	// Content is the generated text.
	Content string

	// ModelKey is the registry key of the model that answered. This is
	// how the orchestrator learns which fallback actually served the
	// request.
	ModelKey string

	// Model is the provider model identifier that answered.
	Model string

	// TokenCount is the total tokens consumed, if reported.
	TokenCount int

	// FinishReason indicates why generation stopped.
	FinishReason string
}

// Completer is the capability agents depend on; satisfied by *Client
// and by the test mock.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Client walks fallback chains of model endpoints with per-endpoint
// retry. It is safe for concurrent use.
type Client struct {
	registry    *model.Registry
	httpClient  *http.Client
	retryConfig RetryConfig
	logger      *slog.Logger
	callTimeout time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(client *Client) {
		client.retryConfig = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = logger
	}
}

// WithCallTimeout sets the per-call wall-clock deadline.
func WithCallTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		client.callTimeout = d
	}
}

// NewClient creates a new LLM client with the given model registry.
func NewClient(registry *model.Registry, opts ...ClientOption) *Client {
	c := &Client{
		registry:    registry,
		retryConfig: DefaultRetryConfig(),
		httpClient: &http.Client{
			Timeout: 180 * time.Second, // allow time for large structured responses
		},
		logger:      slog.Default(),
		callTimeout: 120 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Complete sends a completion request, trying the model's fallback
// chain in order. The first endpoint that succeeds wins; if all
// exhaust, the last error is surfaced.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}

	requestID := uuid.New().String()

	chain := c.registry.AvailableFallbackChain(req.Model)
	if len(chain) == 0 {
		return nil, fmt.Errorf("no models configured for %s", req.Model)
	}

	// Enforce the per-call wall-clock deadline across the whole chain.
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	var lastErr error
	for _, modelKey := range chain {
		endpoint := c.registry.GetEndpoint(modelKey)
		if endpoint == nil {
			c.logger.Debug("No endpoint for model, skipping", "model", modelKey)
			continue
		}

		resp, err := c.tryEndpointWithRetry(ctx, endpoint, modelKey, req)
		if err == nil {
			resp.RequestID = requestID
			resp.ModelKey = modelKey
			if modelKey != req.Model {
				c.logger.Info("Request served by fallback model",
					"role", req.Role,
					"primary", req.Model,
					"served_by", modelKey)
			}
			return resp, nil
		}

		lastErr = err
		c.logger.Warn("Endpoint failed, trying fallback",
			"model", modelKey,
			"provider", endpoint.Provider,
			"error", err)

		if IsFatal(err) {
			c.logger.Warn("Fatal error, not trying fallbacks", "error", err)
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("all endpoints failed for %s: %w", req.Model, lastErr)
}

// tryEndpointWithRetry attempts a request against one endpoint with
// exponential backoff, marking endpoint health for the circuit breaker.
func (c *Client) tryEndpointWithRetry(ctx context.Context, ep *model.EndpointConfig, modelKey string, req Request) (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retryConfig.MaxAttempts; attempt++ {
		resp, err := c.doRequest(ctx, ep, req)
		if err == nil {
			c.registry.MarkEndpointSuccess(modelKey)
			return resp, nil
		}

		lastErr = err

		if IsFatal(err) {
			// Auth and bad-request errors indicate config problems,
			// not endpoint health.
			return nil, err
		}

		if attempt < c.retryConfig.MaxAttempts {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debug("Request failed, retrying",
				"attempt", attempt,
				"max_attempts", c.retryConfig.MaxAttempts,
				"backoff", backoff,
				"error", err)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	c.registry.MarkEndpointFailure(modelKey)
	return nil, lastErr
}

// calculateBackoff computes exponential backoff with jitter. Jitter
// prevents thundering herd when concurrent runs retry simultaneously.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	multiplier := 1.0
	for i := 1; i < attempt; i++ {
		multiplier *= c.retryConfig.BackoffMultiplier
	}

	backoff := time.Duration(float64(c.retryConfig.BackoffBase) * multiplier)
	if backoff > c.retryConfig.MaxBackoff {
		backoff = c.retryConfig.MaxBackoff
	}

	jitter := float64(backoff) * 0.25 * (rand.Float64()*2 - 1)
	return backoff + time.Duration(jitter)
}

// doRequest executes a single HTTP request to one endpoint.
func (c *Client) doRequest(ctx context.Context, ep *model.EndpointConfig, req Request) (*Response, error) {
	provider := GetProvider(ep.Provider)
	if provider == nil {
		return nil, NewFatalError(fmt.Errorf("unknown provider: %s", ep.Provider))
	}

	url := provider.BuildURL(ep.URL, ep.Model)

	body, err := provider.BuildRequestBody(ep.Model, req)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("build request body: %w", err))
	}

	c.logger.Debug("Sending LLM request",
		"provider", ep.Provider,
		"model", ep.Model,
		"role", req.Role,
		"messages", len(req.Messages),
		"images", len(req.ImageParts))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("create HTTP request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	provider.SetHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Network errors are transient.
		return nil, NewTransientError(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("read response body: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(httpResp.StatusCode, respBody)
	}

	return provider.ParseResponse(respBody, ep.Model)
}

// classifyHTTPError determines if an HTTP error is transient or fatal.
func classifyHTTPError(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("LLM API error (status %d): %s", statusCode, bodyStr)

	switch {
	case statusCode == http.StatusTooManyRequests:
		return NewTransientError(err)
	case statusCode >= 500:
		return NewTransientError(err)
	case statusCode == http.StatusUnauthorized,
		statusCode == http.StatusForbidden:
		return NewFatalError(err)
	case statusCode == http.StatusBadRequest:
		return NewFatalError(err)
	default:
		return NewFatalError(err)
	}
}
