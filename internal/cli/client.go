package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// apiClient talks to a running fleetbook server. The tenant host travels in
// X-Forwarded-Host, the same header the server trusts behind a proxy.
type apiClient struct {
	HTTP    *http.Client
	BaseURL string
	Host    string
}

func newAPIClient(baseURL, host string) *apiClient {
	return &apiClient{
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		BaseURL: strings.TrimRight(baseURL, "/"),
		Host:    host,
	}
}

func (c *apiClient) newRequest(ctx context.Context, method, path string, q url.Values, body io.Reader) (*http.Request, error) {
	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Host != "" {
		req.Header.Set("X-Forwarded-Host", c.Host)
	}
	return req, nil
}

func (c *apiClient) doJSON(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) doRaw(req *http.Request, w io.Writer) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return apiError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}
