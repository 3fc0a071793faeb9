package server

import (
	"net/http"
	"runtime"
	"time"
)

type healthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	GoVersion      string `json:"go_version"`
	Uptime         string `json:"uptime"`
	APIBaseURL     string `json:"api_base_url"`
	SessionBackend string `json:"session_backend"`
	Store          string `json:"store"`
	Archive        string `json:"archive"`
	SignedIn       bool   `json:"signed_in"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:         "healthy",
		Version:        Version,
		GoVersion:      runtime.Version(),
		Uptime:         time.Since(s.startTime).Round(time.Second).String(),
		APIBaseURL:     s.app.APIBaseURL,
		SessionBackend: s.app.Config.SessionBackend,
		Store:          "ok",
		Archive:        "disabled",
	}
	if err := s.app.Store.Ping(r.Context()); err != nil {
		s.logger.Warn("store ping failed", "error", err)
		resp.Status = "degraded"
		resp.Store = "unavailable"
	}
	if s.app.Archiver != nil {
		resp.Archive = "enabled"
	}
	_, resp.SignedIn = s.app.Sessions.Get()

	respondOK(w, r, resp)
}
