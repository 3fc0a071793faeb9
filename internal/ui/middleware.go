package ui

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/me/shipdesk/internal/nav"
	"github.com/me/shipdesk/pkg/model"
)

// Context keys for session data.
type contextKey string

const (
	sessionContextKey contextKey = "session"
)

// SessionFromContext retrieves the session from the request context.
func SessionFromContext(ctx context.Context) *model.Session {
	sess, _ := ctx.Value(sessionContextKey).(*model.Session)
	return sess
}

// AuthMiddleware adds the current session to the request context.
// If no session exists, it redirects to the login page.
func (ui *UI) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := ui.sessions.Get()
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission answers 403 unless the session holds p.
// Must be used after AuthMiddleware.
func (ui *UI) RequirePermission(p model.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if sess == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !sess.Can(p) {
				ui.logger.Warn("permission denied", "username", sess.User.Username, "permission", p, "path", r.URL.Path)
				ui.renderForbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ManifestGuard answers 403 for manifest paths the session cannot open.
// Paths outside the manifest pass through.
func (ui *UI) ManifestGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		if sess == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if !nav.Authorized(ui.manifest, &sess.User, r.URL.Path) {
			ui.renderForbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loopbackHosts are accepted when no host list is configured.
var loopbackHosts = []string{"localhost", "127.0.0.1", "::1"}

// HostGuard answers 421 unless the Host header names one of hosts.
func HostGuard(hosts []string, logger *slog.Logger) func(http.Handler) http.Handler {
	if len(hosts) == 0 {
		hosts = loopbackHosts
	}
	allowed := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		allowed[strings.ToLower(h)] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[hostname(r.Host)]; !ok {
				logger.Warn("unknown host rejected", "host", r.Host, "path", r.URL.Path)
				http.Error(w, "unknown host", http.StatusMisdirectedRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SameOrigin rejects state-changing requests sent by another site: the
// browser marks them Sec-Fetch-Site: cross-site, or sends an Origin whose
// host differs from the request's.
func (ui *UI) SameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		if reason := crossOrigin(r); reason != "" {
			ui.logger.Warn("cross-origin request rejected", "reason", reason, "method", r.Method, "path", r.URL.Path, "origin", r.Header.Get("Origin"))
			http.Error(w, "cross-origin request rejected", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// crossOrigin returns why r looks cross-site, or "" when it does not.
// Requests without browser headers, such as curl, pass.
func crossOrigin(r *http.Request) string {
	if strings.EqualFold(r.Header.Get("Sec-Fetch-Site"), "cross-site") {
		return "sec-fetch-site"
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return ""
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" || !strings.EqualFold(u.Host, r.Host) {
		return "origin"
	}
	return ""
}

// hostname strips the port and IPv6 brackets from a Host header.
func hostname(hostport string) string {
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		hostport = h
	}
	return strings.ToLower(strings.Trim(hostport, "[]"))
}
