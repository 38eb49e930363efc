package key

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// NukiClient talks to the Nuki web API.
type NukiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewNukiClient(baseURL, token string, hc *http.Client) *NukiClient {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &NukiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    hc,
	}
}

// Exists reports whether the vendor knows the lock. Any non-200 answer counts
// as not found.
func (c *NukiClient) Exists(ctx context.Context, smartLockID int64) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/smartlock/"+strconv.FormatInt(smartLockID, 10), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK, nil
}

func (c *NukiClient) Unlock(ctx context.Context, smartLockID int64) error {
	path := "/smartlock/" + strconv.FormatInt(smartLockID, 10) + "/action/unlock"
	resp, err := c.do(ctx, http.MethodPost, path, strings.NewReader("{}"))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &VendorError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return nil
}

func (c *NukiClient) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lock vendor %s %s: %w", method, path, err)
	}
	return resp, nil
}

// Disabled stands in when no vendor token is configured.
type Disabled struct{}

func (Disabled) Exists(context.Context, int64) (bool, error) { return false, ErrNotConfigured }
func (Disabled) Unlock(context.Context, int64) error         { return ErrNotConfigured }
