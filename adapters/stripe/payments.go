// Package stripe implements deadline.PaymentProvider on Stripe
// Checkout. The escape fee is a single fixed-price line item; payment
// outcome lands back at the engine's success/cancel callbacks.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nakeddeadlines/deadline"
)

const (
	DefaultBaseURL = "https://api.stripe.com"

	defaultPriceCents = 99
	defaultCurrency   = "usd"
	defaultTimeout    = 15 * time.Second
)

type Config struct {
	APIKey     string
	BaseURL    string
	AppBaseURL string // origin for the success/cancel redirects
	PriceCents int64
	Currency   string
	Timeout    time.Duration
}

type Provider struct {
	config Config
	client *http.Client
}

var _ deadline.PaymentProvider = (*Provider)(nil)

func New(config Config) *Provider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.PriceCents <= 0 {
		config.PriceCents = defaultPriceCents
	}
	if config.Currency == "" {
		config.Currency = defaultCurrency
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Provider{
		config: config,
		client: &http.Client{Timeout: timeout},
	}
}

// CreateCheckoutSession creates a hosted checkout page for the escape
// fee and returns its URL.
func (p *Provider) CreateCheckoutSession(ctx context.Context, owner string) (string, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", owner)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", p.config.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(p.config.PriceCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", "Chicken Out Fee")
	form.Set("success_url", fmt.Sprintf("%s/api/payments/success?username=%s", p.config.AppBaseURL, url.QueryEscape(owner)))
	form.Set("cancel_url", fmt.Sprintf("%s/api/payments/cancel?username=%s", p.config.AppBaseURL, url.QueryEscape(owner)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.BaseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", deadline.ErrPaymentFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.config.APIKey, "")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", deadline.ErrPaymentFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: status %d: %s", deadline.ErrPaymentFailed, resp.StatusCode, body)
	}

	var result struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %v", deadline.ErrPaymentFailed, err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("%w: checkout session has no url", deadline.ErrPaymentFailed)
	}

	return result.URL, nil
}
