package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/me/shipdesk/internal/app"
	"github.com/me/shipdesk/internal/config"
	"github.com/me/shipdesk/internal/logging"
	"github.com/me/shipdesk/pkg/model"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.SessionBackend = config.SessionBackendMemory
	cfg.APIBaseURL = "http://api.invalid/v1"
	cfg.AllowedOrigins = []string{"https://ops.example"}
	cfg.AllowedHosts = []string{"example.com"}

	a, err := app.OpenAt(context.Background(), cfg, t.TempDir(), ":memory:", logging.Discard())
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return New(a, logging.Discard())
}

func signIn(t *testing.T, srv *Server, perms ...model.Permission) {
	t.Helper()
	sess := &model.Session{
		Token: "tok",
		User:  model.User{ID: 1, Username: "A00001", Role: model.RoleAdmin, Permissions: model.NewPermissionSet(perms...)},
	}
	if err := srv.app.Sessions.Set(context.Background(), sess); err != nil {
		t.Fatal(err)
	}
}

// envelope is used to decode the standard response envelope.
type envelope struct {
	Status     string            `json:"status"`
	RequestID  string            `json:"request_id"`
	Timestamp  string            `json:"timestamp"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Error      *model.APIError   `json:"error"`
}

func do(t *testing.T, srv *Server, path string, wantStatus int) envelope {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != wantStatus {
		t.Fatalf("GET %s: status=%d, want %d, body=%s", path, w.Code, wantStatus, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("GET %s: invalid JSON: %v", path, err)
	}
	return env
}

func TestDiscovery(t *testing.T) {
	srv := testServer(t)
	env := do(t, srv, "/api/v1/", http.StatusOK)
	if env.Status != "ok" {
		t.Errorf("status = %q, want ok", env.Status)
	}
	if env.RequestID == "" {
		t.Error("request_id is empty")
	}

	var data struct {
		Name      string `json:"name"`
		Endpoints []struct {
			Path string `json:"path"`
		} `json:"endpoints"`
	}
	json.Unmarshal(env.Data, &data)
	if data.Name != "shipdesk API" {
		t.Errorf("name = %q", data.Name)
	}
	if len(data.Endpoints) != 5 {
		t.Errorf("endpoints count = %d, want 5", len(data.Endpoints))
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	env := do(t, srv, "/api/v1/health", http.StatusOK)

	var data healthResponse
	json.Unmarshal(env.Data, &data)
	if data.Status != "healthy" || data.Store != "ok" {
		t.Errorf("health = %+v", data)
	}
	if data.Version != Version {
		t.Errorf("version = %q, want %s", data.Version, Version)
	}
	if data.APIBaseURL != "http://api.invalid/v1" || data.SessionBackend != "memory" || data.Archive != "disabled" {
		t.Errorf("health = %+v", data)
	}
	if data.SignedIn {
		t.Error("signed_in should be false")
	}
}

func TestSession_Anonymous(t *testing.T) {
	srv := testServer(t)
	env := do(t, srv, "/api/v1/session", http.StatusOK)

	var data sessionResponse
	json.Unmarshal(env.Data, &data)
	if data.Authenticated || data.User != nil {
		t.Errorf("session = %+v", data)
	}
}

func TestSession_NeverExposesToken(t *testing.T) {
	srv := testServer(t)
	signIn(t, srv, model.PermUsersView)

	req := httptest.NewRequest("GET", "/api/v1/session", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var env envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	var data sessionResponse
	json.Unmarshal(env.Data, &data)
	if !data.Authenticated || data.User.Username != "A00001" {
		t.Errorf("session = %+v", data)
	}
	if len(data.Permissions) != 1 || data.Permissions[0] != model.PermUsersView {
		t.Errorf("permissions = %v", data.Permissions)
	}
	var raw map[string]any
	json.Unmarshal(env.Data, &raw)
	if _, ok := raw["token"]; ok {
		t.Error("token must not be exposed")
	}
}

func TestNavigation_RequiresSession(t *testing.T) {
	srv := testServer(t)
	env := do(t, srv, "/api/v1/navigation", http.StatusUnauthorized)
	if env.Status != "error" || env.Error == nil || env.Error.Code != model.ErrUnauthorized {
		t.Errorf("envelope = %+v", env)
	}
}

func TestNavigation_SingleLink(t *testing.T) {
	srv := testServer(t)
	signIn(t, srv, model.PermUsersView)

	env := do(t, srv, "/api/v1/navigation", http.StatusOK)
	var data model.FilteredNavigation
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Entries) != 1 || data.Entries[0].Link == nil || data.Entries[0].Link.Path != "/users" {
		t.Errorf("navigation = %+v", data)
	}
}

func TestListImports(t *testing.T) {
	srv := testServer(t)
	signIn(t, srv)
	ctx := context.Background()
	for i, name := range []string{"a.csv", "b.csv", "c.csv"} {
		rec := &model.ImportRecord{
			ID: name, Kind: model.ImportDeliveries, Filename: name, OK: true,
			CreatedAt: time.Date(2024, 5, 1, 9, i, 0, 0, time.UTC),
		}
		if err := srv.app.Store.RecordImport(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	env := do(t, srv, "/api/v1/imports?per_page=2", http.StatusOK)
	if env.Pagination == nil || env.Pagination.Total != 3 || !env.Pagination.HasMore {
		t.Fatalf("pagination = %+v", env.Pagination)
	}
	var records []model.ImportRecord
	json.Unmarshal(env.Data, &records)
	if len(records) != 2 || records[0].Filename != "c.csv" {
		t.Errorf("records = %+v", records)
	}
}

func TestListScans(t *testing.T) {
	srv := testServer(t)
	signIn(t, srv, model.PermCollectionScan)
	ctx := context.Background()
	ev := &model.ScanEvent{ID: "scn_1", Checkpoint: model.CheckpointCollection, DocumentNumber: "DN-1", OK: true, ScannedAt: time.Now().UTC()}
	if err := srv.app.Store.RecordScan(ctx, ev); err != nil {
		t.Fatal(err)
	}

	env := do(t, srv, "/api/v1/scans/collection", http.StatusOK)
	var events []model.ScanEvent
	json.Unmarshal(env.Data, &events)
	if len(events) != 1 || events[0].DocumentNumber != "DN-1" {
		t.Errorf("events = %+v", events)
	}

	do(t, srv, "/api/v1/scans/sorting", http.StatusForbidden)
	do(t, srv, "/api/v1/scans/nowhere", http.StatusNotFound)
}

func TestUnknownEndpoint(t *testing.T) {
	srv := testServer(t)
	env := do(t, srv, "/api/v1/nope", http.StatusNotFound)
	if env.Error == nil || env.Error.Code != model.ErrNotFound {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestCORS(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("Origin", "https://ops.example")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://ops.example" {
		t.Errorf("allowed origin header = %q", got)
	}

	req = httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got header %q", got)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest("GET", "/login", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /login: status=%d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestDashboardRedirectsWithoutSession(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Errorf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
}

func TestRequestID_Inbound(t *testing.T) {
	srv := testServer(t)
	tests := []struct {
		header string
		keep   bool
	}{
		{"cli_1a2b3c4d", true},
		{"bad id with spaces", false},
		{"", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/api/v1/health", nil)
		if tt.header != "" {
			req.Header.Set("X-Request-ID", tt.header)
		}
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)

		var env envelope
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got := env.RequestID == tt.header; got != tt.keep {
			t.Errorf("header %q: request_id = %q, keep = %v", tt.header, env.RequestID, tt.keep)
		}
		if env.RequestID != w.Header().Get("X-Request-ID") {
			t.Errorf("envelope id %q != header id %q", env.RequestID, w.Header().Get("X-Request-ID"))
		}
	}
}

func TestRespondError_StatusFromCode(t *testing.T) {
	tests := []struct {
		err  *model.APIError
		want int
	}{
		{&model.APIError{Code: model.ErrForbidden}, http.StatusForbidden},
		{&model.APIError{Code: model.ErrValidation}, http.StatusUnprocessableEntity},
		{&model.APIError{Code: model.ErrNotFound, Status: http.StatusGone}, http.StatusGone},
		{&model.APIError{Code: "SOMETHING_ELSE"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		respondError(w, httptest.NewRequest("GET", "/", nil), tt.err)
		if w.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.err.Code, w.Code, tt.want)
		}
	}
}

func TestAPI_RejectsUnknownHost(t *testing.T) {
	srv := testServer(t)
	for _, path := range []string{"/api/v1/session", "/login"} {
		req := httptest.NewRequest("GET", path, nil)
		req.Host = "rebind.attacker.io"
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		if w.Code != http.StatusMisdirectedRequest {
			t.Errorf("%s: status = %d, want 421", path, w.Code)
		}
	}
	// loopback names stay accepted alongside the configured ones
	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Host = "localhost:8080"
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("localhost: status = %d", w.Code)
	}
}
