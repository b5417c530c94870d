package wakapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gatherbeat/cmd/internal/domain/entity"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	MachineName = "Gather"
	UserAgent   = "gather-client/1.0.0 (Macintosh; Intel Mac OS X 10_15_7)"

	bulkPath   = "/users/current/heartbeats.bulk"
	singlePath = "/users/current/heartbeats"
)

var ErrInvalidCredential = errors.New("time-tracking api rejected the api key")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("heartbeat request failed with status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("heartbeat request failed with status code: %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SendBulk posts all heartbeats in a single request.
func (c *Client) SendBulk(ctx context.Context, apiKey string, heartbeats []entity.Heartbeat) error {
	return c.post(ctx, bulkPath, apiKey, heartbeats)
}

// Send posts a single heartbeat.
func (c *Client) Send(ctx context.Context, apiKey string, heartbeat entity.Heartbeat) error {
	return c.post(ctx, singlePath, apiKey, heartbeat)
}

func (c *Client) post(ctx context.Context, path, apiKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path + "?api_key=" + url.QueryEscape(apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Machine-Name", MachineName)
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full URL, api key included
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return fmt.Errorf("post %s: %w", path, uerr.Err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidCredential
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
}
