// Package api is a thin client for the logistics REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/me/shipdesk/pkg/model"
)

// TokenSource supplies the bearer token for each request. The session
// manager implements it.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client is an HTTP client for the REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     *slog.Logger
}

// NewClient creates an API client. tokens may be nil for anonymous calls.
func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Tokens:     tokens,
		Logger:     logger.With("component", "api"),
	}
}

// errorPayload covers the failure bodies the API sends.
type errorPayload struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// do performs a JSON request and returns the raw response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, path, query, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

// upload posts r as the multipart field "file". The multipart writer sets
// the Content-Type boundary.
func (c *Client) upload(ctx context.Context, path, filename string, r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", "req_"+uuid.New().String()[:8])
	if c.Tokens != nil {
		if tok := c.Tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.Logger.Debug("HTTP request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get("X-Request-ID"),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

func decodeError(status int, body []byte) *model.APIError {
	apiErr := &model.APIError{Status: status}
	switch status {
	case http.StatusUnauthorized:
		apiErr.Code = model.ErrUnauthorized
	case http.StatusForbidden:
		apiErr.Code = model.ErrForbidden
	case http.StatusNotFound:
		apiErr.Code = model.ErrNotFound
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		apiErr.Code = model.ErrValidation
	default:
		apiErr.Code = model.ErrInternal
	}

	var p errorPayload
	if err := json.Unmarshal(body, &p); err == nil {
		apiErr.Message = p.Message
		if apiErr.Message == "" && p.Error != nil {
			apiErr.Message = p.Error.Message
		}
		apiErr.Errors = p.Errors
	}
	return apiErr
}

// decode unmarshals a response that is either the bare value or wrapped
// as {"data": value}.
func decode(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	if out == nil || len(raw) == 0 {
		return nil
	}
	if data, ok := envelopeData(raw); ok {
		raw = data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// decodePage handles the list shapes the API returns: a paginator object,
// a paginator wrapped in {"data": …}, or a bare array.
func decodePage[T any](raw []byte) (*model.Page[T], error) {
	raw = bytes.TrimSpace(raw)
	if data, ok := envelopeData(raw); ok && len(data) > 0 && data[0] == '{' {
		raw = data
	}

	page := &model.Page[T]{}
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &page.Items); err != nil {
			return nil, fmt.Errorf("parse list: %w", err)
		}
	} else if err := json.Unmarshal(raw, page); err != nil {
		return nil, fmt.Errorf("parse list: %w", err)
	}

	if page.Total == 0 {
		page.Total = len(page.Items)
	}
	if page.Page == 0 {
		page.Page = 1
	}
	if page.PerPage == 0 {
		page.PerPage = max(len(page.Items), 1)
	}
	return page, nil
}

func envelopeData(raw []byte) (json.RawMessage, bool) {
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false
	}
	data, ok := env["data"]
	if !ok || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, false
	}
	return bytes.TrimSpace(data), true
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	raw, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	raw, err := c.do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

func list[T any](ctx context.Context, c *Client, path string, query url.Values) (*model.Page[T], error) {
	raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return decodePage[T](raw)
}

// IsNotFound reports whether err is an HTTP 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *model.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
