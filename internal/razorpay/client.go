// Package razorpay is the boundary adapter for the Razorpay payment
// gateway: order creation via the Orders API and payment signature
// verification.
//
// Credentials are a key pair: the key ID is public and safe to hand to
// browsers, the key secret authenticates API calls and signs payment
// callbacks. The secret is confined to this package and the order
// service; it is never serialized, logged, or placed in a response.
package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com"

// Client calls the Razorpay Orders API.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

// NewClient returns a Client authenticated with the given key pair. The
// timeout bounds every API call; order creation happens inline with the
// checkout request so it must not hang.
func NewClient(keyID, keySecret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder registers an order for amountMinor (paise) with the gateway
// and returns the provider order ID.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return "", fmt.Errorf("razorpay: marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("razorpay: build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("razorpay: create order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The body may describe our account or the customer's payment
		// instrument; keep it out of anything client-facing.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("razorpay: create order: status %d: %s", resp.StatusCode, detail)
	}

	var out createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("razorpay: decode order response: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("razorpay: create order: response missing id")
	}
	return out.ID, nil
}
