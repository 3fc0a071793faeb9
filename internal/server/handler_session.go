package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/me/shipdesk/internal/nav"
	"github.com/me/shipdesk/internal/scan"
	"github.com/me/shipdesk/internal/session"
	"github.com/me/shipdesk/pkg/model"
)

type sessionResponse struct {
	Authenticated  bool               `json:"authenticated"`
	User           *model.User        `json:"user,omitempty"`
	Permissions    []model.Permission `json:"permissions,omitempty"`
	TokenExpiresAt *time.Time         `json:"token_expires_at,omitempty"`
}

// handleSession reports who is signed in.
// GET /api/v1/session
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.app.Sessions.Get()
	if !ok {
		respondOK(w, r, sessionResponse{})
		return
	}
	resp := sessionResponse{
		Authenticated: true,
		User:          &sess.User,
		Permissions:   sess.User.Permissions.List(),
	}
	if exp, ok := session.TokenExpiry(sess.Token); ok {
		resp.TokenExpiresAt = &exp
	}
	respondOK(w, r, resp)
}

// handleNavigation returns the sidebar for the signed-in user.
// GET /api/v1/navigation
func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	respondOK(w, r, nav.Visible(s.app.Manifest, &sess.User))
}

// handleListImports pages through the local import log.
// GET /api/v1/imports?page=&per_page=
func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)

	records, total, err := s.app.Store.ListImports(r.Context(), opts)
	if err != nil {
		s.logger.Error("list imports", "error", err)
		respondError(w, r, &model.APIError{Code: model.ErrInternal, Message: "could not read the import log"})
		return
	}
	respondPage(w, r, records, opts, total)
}

// handleListScans returns recent scans at one checkpoint. The caller needs
// that checkpoint's scan permission.
// GET /api/v1/scans/{checkpoint}?limit=
func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	cp := model.Checkpoint(chi.URLParam(r, "checkpoint"))

	def, err := scan.Lookup(cp)
	if err != nil {
		respondError(w, r, model.NewNotFoundError("checkpoint", string(cp)))
		return
	}
	if !sess.Can(def.Permission) {
		respondError(w, r, &model.APIError{
			Code:    model.ErrForbidden,
			Message: "missing permission " + string(def.Permission),
		})
		return
	}

	limit := 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	events, err := s.app.Store.ListScans(r.Context(), cp, limit)
	if err != nil {
		s.logger.Error("list scans", "checkpoint", cp, "error", err)
		respondError(w, r, &model.APIError{Code: model.ErrInternal, Message: "could not read the scan log"})
		return
	}
	respondOK(w, r, events)
}

func listOptions(r *http.Request) model.ListOptions {
	opts := model.DefaultListOptions()
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		opts.Page = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil {
		opts.PerPage = n
	}
	opts.Clamp()
	return opts
}
