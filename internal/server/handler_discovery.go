package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, discoveryResponse{
		Name:        "shipdesk API",
		Version:     "v1",
		Description: "Local status of the shipdesk logistics dashboard",
		Endpoints: []endpointInfo{
			{"/api/v1/health", []string{"GET"}, "Server health and version"},
			{"/api/v1/session", []string{"GET"}, "Signed-in user and permissions (never the token)"},
			{"/api/v1/navigation", []string{"GET"}, "Sidebar entries visible to the signed-in user"},
			{"/api/v1/imports", []string{"GET"}, "Local CSV import log, newest first"},
			{"/api/v1/scans/{checkpoint}", []string{"GET"}, "Recent scans at a checkpoint"},
		},
	})
}
