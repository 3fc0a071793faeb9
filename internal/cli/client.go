package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/me/shipdesk/pkg/model"
)

// Client reads the JSON endpoints of a running shipdesk dashboard.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a dashboard API client.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Logger:     logger,
	}
}

// DashboardHealth mirrors GET /api/v1/health.
type DashboardHealth struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	Uptime         string `json:"uptime"`
	APIBaseURL     string `json:"api_base_url"`
	SessionBackend string `json:"session_backend"`
	Store          string `json:"store"`
	Archive        string `json:"archive"`
}

// DashboardSession mirrors GET /api/v1/session.
type DashboardSession struct {
	Authenticated bool        `json:"authenticated"`
	User          *model.User `json:"user"`
}

// Health fetches the dashboard's health report.
func (c *Client) Health(ctx context.Context) (*DashboardHealth, error) {
	var h DashboardHealth
	if err := c.get(ctx, "/api/v1/health", &h); err != nil {
		return nil, fmt.Errorf("get health: %w", err)
	}
	return &h, nil
}

// Session fetches who is signed in to the dashboard.
func (c *Client) Session(ctx context.Context) (*DashboardSession, error) {
	var s DashboardSession
	if err := c.get(ctx, "/api/v1/session", &s); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// envelope is the dashboard's response wrapper with data left raw.
type envelope struct {
	Status    string          `json:"status"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
	Error     *model.APIError `json:"error"`
}

// get decodes the data of the envelope at path into out. Error envelopes come
// back as *model.APIError carrying the HTTP status.
func (c *Client) get(ctx context.Context, path string, out any) error {
	url := c.BaseURL + path
	reqID := "cli_" + uuid.New().String()[:8]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	c.Logger.Debug("HTTP request", "method", http.MethodGet, "url", url, "request_id", reqID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.Logger.Debug("HTTP response", "status", resp.StatusCode, "bytes", len(body), "request_id", reqID)

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &model.APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	if env.Status == "error" || resp.StatusCode >= 400 {
		apiErr := env.Error
		if apiErr == nil {
			apiErr = &model.APIError{Message: http.StatusText(resp.StatusCode)}
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("parse data: %w", err)
	}
	return nil
}
