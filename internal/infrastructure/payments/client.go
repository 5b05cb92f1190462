// Package payments creates payment links for carts.
package payments

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/janhq/commerce-api/internal/domain/commerce"
)

// Config selects how links are produced. With APIURL empty, links point at the hosted
// checkout page under CheckoutBaseURL.
type Config struct {
	APIURL          string
	APIKey          string
	CheckoutBaseURL string
	LinkTTL         time.Duration
	Timeout         time.Duration
}

// Client implements commerce.PaymentLinkCreator.
type Client struct {
	http        *resty.Client
	apiEnabled  bool
	checkoutURL string
	ttl         time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

// NewClient creates a payment link client.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.LinkTTL <= 0 {
		cfg.LinkTTL = 24 * time.Hour
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	if cfg.APIKey != "" {
		httpClient.SetAuthToken(cfg.APIKey)
	}
	return &Client{
		http:        httpClient,
		apiEnabled:  cfg.APIURL != "",
		checkoutURL: cfg.CheckoutBaseURL,
		ttl:         cfg.LinkTTL,
		log:         log.With().Str("component", "payments").Logger(),
		now:         time.Now,
	}
}

type createLinkRequest struct {
	Reference      string          `json:"reference"`
	TenantID       string          `json:"tenant_id"`
	CartID         string          `json:"cart_id"`
	ConversationID string          `json:"conversation_id"`
	CustomerID     string          `json:"customer_id"`
	Method         string          `json:"method"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Description    string          `json:"description"`
	ExpiresAt      time.Time       `json:"expires_at"`
}

type createLinkResponse struct {
	URL       string     `json:"url"`
	Reference string     `json:"reference"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// CreatePaymentLink returns a link the shopper opens to pay the cart.
func (c *Client) CreatePaymentLink(ctx context.Context, req commerce.PaymentLinkRequest) (*commerce.PaymentLink, error) {
	reference := "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	expiresAt := c.now().Add(c.ttl).UTC()

	if !c.apiEnabled {
		return c.hostedLink(req, reference, expiresAt)
	}

	var out createLinkResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createLinkRequest{
			Reference:      reference,
			TenantID:       req.TenantID,
			CartID:         req.CartID,
			ConversationID: req.ConversationID,
			CustomerID:     req.CustomerID,
			Method:         req.Method,
			Amount:         req.Amount,
			Currency:       req.Currency,
			Description:    req.Description,
			ExpiresAt:      expiresAt,
		}).
		SetResult(&out).
		Post("/payment-links")
	if err != nil {
		return nil, fmt.Errorf("create payment link: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("payment gateway returned status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	if out.URL == "" {
		return nil, fmt.Errorf("payment gateway returned no url")
	}

	if out.Reference != "" {
		reference = out.Reference
	}
	if out.ExpiresAt != nil {
		expiresAt = out.ExpiresAt.UTC()
	}
	c.log.Info().Str("cart_id", req.CartID).Str("method", req.Method).Str("reference", reference).Msg("payment link created")
	return &commerce.PaymentLink{URL: out.URL, Reference: reference, Method: req.Method, ExpiresAt: &expiresAt}, nil
}

func (c *Client) hostedLink(req commerce.PaymentLinkRequest, reference string, expiresAt time.Time) (*commerce.PaymentLink, error) {
	base, err := url.Parse(c.checkoutURL)
	if err != nil || base.Scheme == "" {
		return nil, fmt.Errorf("invalid checkout base url %q", c.checkoutURL)
	}
	base.Path = strings.TrimRight(base.Path, "/") + "/" + url.PathEscape(req.CartID)
	query := base.Query()
	query.Set("tenant", req.TenantID)
	query.Set("method", req.Method)
	query.Set("reference", reference)
	base.RawQuery = query.Encode()

	return &commerce.PaymentLink{URL: base.String(), Reference: reference, Method: req.Method, ExpiresAt: &expiresAt}, nil
}

var _ commerce.PaymentLinkCreator = (*Client)(nil)
