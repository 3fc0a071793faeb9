package model

import "time"

// Response is the envelope used by the dashboard's JSON endpoints.
type Response struct {
	Status     string      `json:"status"`
	RequestID  string      `json:"request_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *APIError   `json:"error"`
}

// Pagination describes one page of a local list response.
type Pagination struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	HasMore bool `json:"has_more"`
}

// Page is one page of a list returned by the REST API.
type Page[T any] struct {
	Items   []T `json:"data"`
	Total   int `json:"total"`
	Page    int `json:"current_page"`
	PerPage int `json:"per_page"`
}

// HasMore reports whether more pages follow.
func (p Page[T]) HasMore() bool {
	return p.Page*p.PerPage < p.Total
}

// ListOptions configures list queries.
type ListOptions struct {
	Page    int
	PerPage int
}

// DefaultListOptions returns sensible defaults.
func DefaultListOptions() ListOptions {
	return ListOptions{Page: 1, PerPage: 20}
}

// Clamp enforces limits (per page 1..100, page >= 1).
func (o *ListOptions) Clamp() {
	if o.PerPage <= 0 {
		o.PerPage = 20
	}
	if o.PerPage > 100 {
		o.PerPage = 100
	}
	if o.Page < 1 {
		o.Page = 1
	}
}
