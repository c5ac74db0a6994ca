package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is the notifyd delivery gateway client. It implements Source.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout. Per-request contexts still apply.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

func WithUserAgent(ua string) Option {
	return func(client *Client) {
		client.userAgent = ua
	}
}

// NewClient creates a client for the gateway at baseURL (e.g. "http://localhost:8080")
// authenticating with a bearer access token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		userAgent: "notifyd-sdk",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListUnread returns the caller's unread notifications, newest first.
func (c *Client) ListUnread(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := c.doRequest(ctx, http.MethodGet, "/notifications/unread", nil, &items); err != nil {
		return nil, fmt.Errorf("list unread: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// ListNotifications returns one page of the caller's feed.
func (c *Client) ListNotifications(ctx context.Context, unreadOnly bool, limit, offset int) (*Page, error) {
	q := url.Values{}
	q.Set("unread_only", strconv.FormatBool(unreadOnly))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var page Page
	if err := c.doRequest(ctx, http.MethodGet, "/notifications?"+q.Encode(), nil, &page); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return &page, nil
}

// MarkRead marks ids read and returns how many rows actually changed.
func (c *Client) MarkRead(ctx context.Context, ids []uint) (int64, error) {
	var result struct {
		UpdatedCount int64 `json:"updated_count"`
	}
	body := map[string]any{"ids": ids}
	if err := c.doRequest(ctx, http.MethodPost, "/notifications/read", body, &result); err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	return result.UpdatedCount, nil
}

func (c *Client) MarkAllRead(ctx context.Context) (int64, error) {
	var result struct {
		UpdatedCount int64 `json:"updated_count"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/notifications/read-all", nil, &result); err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return result.UpdatedCount, nil
}

func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	var result struct {
		Count int64 `json:"count"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/notifications/unread-count", nil, &result); err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return result.Count, nil
}

// Create publishes a notification. Requires a producer role.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	var result CreateResult
	if err := c.doRequest(ctx, http.MethodPost, "/notifications", req, &result); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return &result, nil
}

// doRequest performs an HTTP request and decodes the envelope's data into result.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var apiResp apiResponse
	decodeErr := json.Unmarshal(respBody, &apiResp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
		if decodeErr == nil && apiResp.Error != nil {
			apiErr.Type = apiResp.Error.Type
			apiErr.Message = apiResp.Error.Message
			apiErr.Details = apiResp.Error.Details
		}
		return apiErr
	}

	if decodeErr != nil {
		return fmt.Errorf("unmarshal response: %w", decodeErr)
	}
	if !apiResp.Success {
		return errors.New("api error: " + apiResp.Message)
	}

	if result == nil || len(apiResp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(apiResp.Data, result); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	return nil
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
