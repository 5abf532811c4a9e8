// Package license provides the client forwarding payment events to the
// external license server
package license

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/conflab/roomsvc/internal/models"
)

// Client forwards succeeded payments to the license server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a license server client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ForwardPayment posts a succeeded payment intent to the license server so it
// can issue the license. Transient failures surface to the caller unchanged.
func (c *Client) ForwardPayment(ctx context.Context, intent *models.PaymentIntent) error {
	body, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("failed to marshal payment: %w", err)
	}

	url := fmt.Sprintf("%s/api/payments", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("license server error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return nil
}
