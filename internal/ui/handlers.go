// Package ui serves the server-rendered operator dashboard.
package ui

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/me/shipdesk/internal/api"
	"github.com/me/shipdesk/internal/auth"
	"github.com/me/shipdesk/internal/csvimport"
	"github.com/me/shipdesk/internal/forms"
	"github.com/me/shipdesk/internal/limiter"
	"github.com/me/shipdesk/internal/nav"
	"github.com/me/shipdesk/internal/notify"
	"github.com/me/shipdesk/internal/scan"
	"github.com/me/shipdesk/internal/session"
	"github.com/me/shipdesk/pkg/model"
)

// ImportLog lists recorded CSV imports.
type ImportLog interface {
	ListImports(ctx context.Context, opts model.ListOptions) ([]*model.ImportRecord, int, error)
}

// Deps are the collaborators the dashboard drives. Auth, Importer and
// Scanner should report through Flash so their outcomes show as toasts.
type Deps struct {
	Sessions *session.Manager
	Auth     *auth.Service
	Services *api.Services
	Savers   *forms.Savers
	Importer *csvimport.Importer
	Scanner  *scan.Scanner
	Imports  ImportLog
	Flash    *notify.Flash
	Manifest *model.NavigationManifest
	Limiter  *limiter.IPRateLimiter // nil disables login throttling
}

// Config holds UI configuration shown on the settings page.
type Config struct {
	APIBaseURL     string
	SessionBackend string
	MaxImportBytes int64
	// AllowedHosts are the Host header names served; empty means loopback only.
	AllowedHosts []string
}

// UI handles the web user interface.
type UI struct {
	sessions  *session.Manager
	auth      *auth.Service
	svc       *api.Services
	savers    *forms.Savers
	importer  *csvimport.Importer
	scanner   *scan.Scanner
	imports   ImportLog
	flash     *notify.Flash
	manifest  *model.NavigationManifest
	limiter   *limiter.IPRateLimiter
	cfg       Config
	logger    *slog.Logger
	startTime time.Time
}

// New creates a new UI handler.
func New(d Deps, logger *slog.Logger, cfg Config) *UI {
	if d.Flash == nil {
		d.Flash = notify.NewFlash()
	}
	if d.Manifest == nil {
		d.Manifest = nav.Default()
	}
	return &UI{
		sessions:  d.Sessions,
		auth:      d.Auth,
		svc:       d.Services,
		savers:    d.Savers,
		importer:  d.Importer,
		scanner:   d.Scanner,
		imports:   d.Imports,
		flash:     d.Flash,
		manifest:  d.Manifest,
		limiter:   d.Limiter,
		cfg:       cfg,
		logger:    logger.With("component", "ui"),
		startTime: time.Now(),
	}
}

// HandleLogin renders the login page.
func (ui *UI) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := ui.sessions.Get(); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	ui.render(w, r, http.StatusOK, "login", map[string]any{
		"Title": "Login - shipdesk",
		"Form":  forms.LoginForm{},
	})
}

// HandleLoginPost processes the login form.
func (ui *UI) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var form forms.LoginForm
	if err := decodeForm(r, &form); err != nil {
		ui.renderLogin(w, r, http.StatusBadRequest, form, nil, "Invalid request")
		return
	}

	_, err := ui.auth.Login(r.Context(), form)
	if fe, ok := forms.AsFieldErrors(err); ok {
		ui.renderLogin(w, r, http.StatusUnprocessableEntity, form, fe, "")
		return
	}
	if err != nil {
		// The auth service already queued the failure toast.
		ui.renderLogin(w, r, http.StatusUnauthorized, form, nil, "")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLoginLimited answers a throttled login attempt.
func (ui *UI) HandleLoginLimited(w http.ResponseWriter, r *http.Request) {
	ui.renderLogin(w, r, http.StatusTooManyRequests, forms.LoginForm{Username: r.PostFormValue("username")}, nil,
		"Too many login attempts. Please wait a moment and try again.")
}

func (ui *UI) renderLogin(w http.ResponseWriter, r *http.Request, status int, form forms.LoginForm, fe forms.FieldErrors, msg string) {
	form.Password = ""
	ui.render(w, r, status, "login", map[string]any{
		"Title":  "Login - shipdesk",
		"Form":   form,
		"Errors": fe,
		"Error":  msg,
	})
}

// HandleLogout clears the session and redirects to login.
func (ui *UI) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := ui.auth.Logout(r.Context()); err != nil {
		ui.logger.Error("logout failed", "error", err)
	}
	ui.flash.Push(notify.LevelSuccess, "Logged out", "")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// recentScans groups the latest local scan events of one checkpoint.
type recentScans struct {
	Definition scan.Definition
	Events     []*model.ScanEvent
}

// HandleDashboard renders the main dashboard.
func (ui *UI) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var imports []*model.ImportRecord
	importCount := 0
	if ui.imports != nil {
		var err error
		imports, importCount, err = ui.imports.ListImports(r.Context(), model.ListOptions{Page: 1, PerPage: 5})
		if err != nil {
			ui.logger.Warn("list imports failed", "error", err)
		}
	}

	var scans []recentScans
	if ui.scanner != nil {
		for _, def := range scan.Definitions() {
			if !sess.Can(def.Permission) {
				continue
			}
			events, err := ui.scanner.Recent(r.Context(), def.Checkpoint, 3)
			if err != nil {
				ui.logger.Warn("list scans failed", "checkpoint", def.Checkpoint, "error", err)
				continue
			}
			scans = append(scans, recentScans{Definition: def, Events: events})
		}
	}

	ui.render(w, r, http.StatusOK, "dashboard", map[string]any{
		"Title":         "Dashboard - shipdesk",
		"RecentImports": imports,
		"ImportCount":   importCount,
		"RecentScans":   scans,
		"Uptime":        time.Since(ui.startTime).Round(time.Second).String(),
	})
}

// HandleSettings renders the profile and connection settings.
func (ui *UI) HandleSettings(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	exp, hasExp := session.TokenExpiry(sess.Token)

	ui.render(w, r, http.StatusOK, "settings", map[string]any{
		"Title":          "Settings - shipdesk",
		"Groups":         ui.manifest.Groups,
		"Toggles":        nav.Toggles(ui.manifest, sess.User.Permissions),
		"Permissions":    sess.User.Permissions.List(),
		"APIBaseURL":     ui.cfg.APIBaseURL,
		"SessionBackend": ui.cfg.SessionBackend,
		"MaxImportBytes": ui.cfg.MaxImportBytes,
		"TokenExpiry":    exp,
		"HasTokenExpiry": hasExp,
	})
}

// --- Helper Methods ---

func (ui *UI) parseListOptions(r *http.Request) model.ListOptions {
	opts := model.DefaultListOptions()

	if page := r.URL.Query().Get("page"); page != "" {
		if n, err := strconv.Atoi(page); err == nil && n > 0 {
			opts.Page = n
		}
	}

	if perPage := r.URL.Query().Get("per_page"); perPage != "" {
		if n, err := strconv.Atoi(perPage); err == nil && n > 0 && n <= 100 {
			opts.PerPage = n
		}
	}

	return opts
}

func buildPagination[T any](p *model.Page[T]) map[string]any {
	return map[string]any{
		"Total":    p.Total,
		"Page":     p.Page,
		"PerPage":  p.PerPage,
		"HasMore":  p.HasMore(),
		"HasPrev":  p.Page > 1,
		"NextPage": p.Page + 1,
		"PrevPage": max(1, p.Page-1),
	}
}

// base fills the fields every page needs: session, sidebar and toasts.
func (ui *UI) base(r *http.Request, data map[string]any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	sess := SessionFromContext(r.Context())
	if sess != nil {
		data["Session"] = sess
		data["Nav"] = nav.Visible(ui.manifest, &sess.User)
	}
	data["CurrentPath"] = r.URL.Path
	data["Query"] = r.URL.Query()
	data["Toasts"] = ui.flash.Drain()
	return data
}

func (ui *UI) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	var buf bytes.Buffer
	if err := renderTemplate(&buf, name, ui.base(r, data)); err != nil {
		ui.logger.Error("template render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// renderAPIError renders a failed API call. A 401 means the token is no
// longer accepted, so the session is dropped and the user sent to login.
func (ui *UI) renderAPIError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if model.IsUnauthorized(err) {
		ui.logger.Warn("api rejected token", "error", err)
		if cerr := ui.sessions.Clear(r.Context()); cerr != nil {
			ui.logger.Error("clear session failed", "error", cerr)
		}
		ui.flash.Push(notify.LevelError, "Session expired", "Please sign in again.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if api.IsNotFound(err) {
		ui.renderNotFound(w, r, message)
		return
	}
	ui.renderError(w, r, message, err)
}

func (ui *UI) renderError(w http.ResponseWriter, r *http.Request, message string, err error) {
	ui.logger.Error(message, "error", err)
	detail := ""
	if err != nil {
		detail = model.ErrorMessage(err)
	}
	ui.render(w, r, http.StatusInternalServerError, "error", map[string]any{
		"Title":   "Error - shipdesk",
		"Message": message,
		"Detail":  detail,
	})
}

func (ui *UI) renderNotFound(w http.ResponseWriter, r *http.Request, message string) {
	ui.render(w, r, http.StatusNotFound, "error", map[string]any{
		"Title":   "Not Found - shipdesk",
		"Message": message,
	})
}

func (ui *UI) renderForbidden(w http.ResponseWriter, r *http.Request) {
	ui.render(w, r, http.StatusForbidden, "error", map[string]any{
		"Title":   "Forbidden - shipdesk",
		"Message": "You do not have access to this page.",
	})
}

// redirectSaved sends the browser back to a list page after a successful
// save; the toast was queued by the submit helper.
func redirectSaved(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// formFailure splits a submit error into field errors (client or server
// side) and anything else.
func formFailure(err error) (forms.FieldErrors, error) {
	if fe, ok := forms.AsFieldErrors(err); ok {
		return fe, nil
	}
	if fe, ok := forms.ServerFieldErrors(err); ok {
		return fe, nil
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnprocessableEntity {
		return forms.FieldErrors{}, nil
	}
	return nil, err
}
