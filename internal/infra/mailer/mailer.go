// Package mailer delivers booking confirmation mail through an external
// HTTP mail function. Delivery is best effort by contract: the orchestrator
// logs and drops every failure.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fleetbook/internal/app/policies"
)

type Client struct {
	HTTP     *http.Client
	Endpoint string
}

func New(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		HTTP:     &http.Client{Timeout: timeout},
		Endpoint: endpoint,
	}
}

func (c *Client) Send(ctx context.Context, m policies.Mail) error {
	if c == nil || c.Endpoint == "" {
		return errors.New("mailer: endpoint not configured")
	}
	body, err := json.Marshal(m)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mailer: unexpected status %d", resp.StatusCode)
	}
	return nil
}

var _ policies.Mailer = (*Client)(nil)
