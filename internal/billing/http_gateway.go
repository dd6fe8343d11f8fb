package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cimillas/concert-tickets/internal/domain"
)

const defaultRequestTimeout = 10 * time.Second

// HTTPGateway talks JSON over HTTP to an external payment provider. Declines
// and timeouts both surface as domain.ErrPaymentFailed; a charge we cannot
// confirm is a charge we must not trust.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type HTTPGatewayOption func(*HTTPGateway)

// WithHTTPClient overrides the default client (useful for tests).
func WithHTTPClient(c *http.Client) HTTPGatewayOption {
	return func(g *HTTPGateway) {
		if c != nil {
			g.client = c
		}
	}
}

func NewHTTPGateway(baseURL, apiKey string, opts ...HTTPGatewayOption) *HTTPGateway {
	g := &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type chargeRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Token       string `json:"token"`
}

type chargeResponse struct {
	ID string `json:"id"`
}

func (g *HTTPGateway) Charge(ctx context.Context, amountCents int64, token string) (Charge, error) {
	body, err := json.Marshal(chargeRequest{AmountCents: amountCents, Token: token})
	if err != nil {
		return Charge{}, fmt.Errorf("encode charge: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return Charge{}, fmt.Errorf("build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	res, err := g.client.Do(req)
	if err != nil {
		// Timeouts and transport failures count as payment failures: the
		// charge was never confirmed.
		return Charge{}, domain.ErrPaymentFailed
	}
	defer func() {
		_ = res.Body.Close()
	}()

	switch {
	case res.StatusCode == http.StatusOK || res.StatusCode == http.StatusCreated:
		var decoded chargeResponse
		if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil || decoded.ID == "" {
			return Charge{}, domain.ErrPaymentFailed
		}
		return Charge{ID: decoded.ID, AmountCents: amountCents}, nil
	case res.StatusCode >= 400 && res.StatusCode < 500:
		return Charge{}, domain.ErrPaymentFailed
	default:
		return Charge{}, fmt.Errorf("charge: unexpected gateway status %d", res.StatusCode)
	}
}

func (g *HTTPGateway) Refund(ctx context.Context, chargeID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/charges/"+chargeID+"/refund", nil)
	if err != nil {
		return fmt.Errorf("build refund request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	res, err := g.client.Do(req)
	if err != nil {
		return domain.ErrPaymentFailed
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	if res.StatusCode >= 400 && res.StatusCode < 500 {
		return domain.ErrPaymentFailed
	}
	return fmt.Errorf("refund: unexpected gateway status %d", res.StatusCode)
}
