package llmprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/janhq/commerce-api/internal/domain/llm"
)

const messagesPath = "/v1/messages"

// Config configures the Anthropic Messages API client.
type Config struct {
	BaseURL string
	APIKey  string
	Version string
	Timeout time.Duration
}

// Client implements llm.Provider over the Anthropic Messages API. It makes exactly one HTTP
// call per CreateMessage; retries belong to llm.Gateway.
type Client struct {
	httpClient *resty.Client
}

// NewClient creates a Resty-backed client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Version == "" {
		cfg.Version = "2023-06-01"
	}
	return &Client{
		httpClient: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetHeader("Content-Type", "application/json").
			SetHeader("x-api-key", cfg.APIKey).
			SetHeader("anthropic-version", cfg.Version).
			SetTimeout(cfg.Timeout),
	}
}

type apiErrorEnvelope struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateMessage calls POST /v1/messages.
func (c *Client) CreateMessage(ctx context.Context, req llm.Request) (*llm.Response, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		Post(messagesPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &llm.ProviderError{Err: ctxErr}
		}
		return nil, &llm.ProviderError{Err: err}
	}

	if resp.IsError() {
		providerErr := &llm.ProviderError{StatusCode: resp.StatusCode(), Message: strings.TrimSpace(resp.String())}
		var envelope apiErrorEnvelope
		if json.Unmarshal(resp.Body(), &envelope) == nil && envelope.Error.Message != "" {
			providerErr.Type = envelope.Error.Type
			providerErr.Message = envelope.Error.Message
		}
		return nil, providerErr
	}

	var message llm.Response
	if err := json.Unmarshal(resp.Body(), &message); err != nil {
		return nil, &llm.ProviderError{StatusCode: resp.StatusCode(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if message.Type != "" && message.Type != "message" {
		return nil, &llm.ProviderError{StatusCode: resp.StatusCode(), Err: errors.New("unexpected response type " + message.Type)}
	}
	return &message, nil
}

// Ensure interface compliance.
var _ llm.Provider = (*Client)(nil)
