package gather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gatherbeat/cmd/internal/domain/entity"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.gather.town/api/v2"

var (
	ErrUnauthorized = errors.New("gather rejected the api key")
	ErrNotFound     = errors.New("gather space not found")
)

// Feed provides the current roster of a space.
type Feed interface {
	Snapshot(ctx context.Context) (entity.PresenceSnapshot, error)
}

type Client struct {
	baseURL    string
	spaceID    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, spaceID, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		spaceID:    spaceID,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Snapshot reads the players currently in the space.
func (c *Client) Snapshot(ctx context.Context) (entity.PresenceSnapshot, error) {
	endpoint := fmt.Sprintf("%s/spaces/%s/players", c.baseURL, url.PathEscape(c.spaceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apiKey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("gather players failed with status code: %d", resp.StatusCode)
	}

	var players playersResponse
	if err = json.NewDecoder(resp.Body).Decode(&players); err != nil {
		return nil, fmt.Errorf("decode gather players: %w", err)
	}
	return players.ToDomain(), nil
}
