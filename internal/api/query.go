package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/me/shipdesk/pkg/model"
)

// Query builds URL parameters, dropping empty values so filters left blank
// in a form are not sent.
type Query struct {
	v url.Values
}

// NewQuery starts a query with paging options applied.
func NewQuery(opts model.ListOptions) *Query {
	q := &Query{v: url.Values{}}
	if opts.Page > 0 || opts.PerPage > 0 {
		opts.Clamp()
		q.Int("page", int64(opts.Page))
		q.Int("per_page", int64(opts.PerPage))
	}
	return q
}

// String adds key when value is not blank.
func (q *Query) String(key, value string) *Query {
	if v := strings.TrimSpace(value); v != "" {
		q.v.Set(key, v)
	}
	return q
}

// Int adds key when value is non-zero.
func (q *Query) Int(key string, value int64) *Query {
	if value != 0 {
		q.v.Set(key, strconv.FormatInt(value, 10))
	}
	return q
}

// Date adds key when d is set.
func (q *Query) Date(key string, d model.Date) *Query {
	if !d.IsZero() {
		q.v.Set(key, d.String())
	}
	return q
}

// Values returns the encoded parameters.
func (q *Query) Values() url.Values {
	return q.v
}

// Compact returns a copy of m without empty values.
func Compact(m map[string]string) url.Values {
	out := url.Values{}
	for k, v := range m {
		if v = strings.TrimSpace(v); v != "" {
			out.Set(k, v)
		}
	}
	return out
}
