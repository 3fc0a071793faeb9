package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/me/shipdesk/internal/api"
	"github.com/me/shipdesk/internal/auth"
	"github.com/me/shipdesk/internal/csvimport"
	"github.com/me/shipdesk/internal/forms"
	"github.com/me/shipdesk/internal/limiter"
	"github.com/me/shipdesk/internal/logging"
	"github.com/me/shipdesk/internal/nav"
	"github.com/me/shipdesk/internal/notify"
	"github.com/me/shipdesk/internal/scan"
	"github.com/me/shipdesk/internal/session"
	"github.com/me/shipdesk/internal/store"
	"github.com/me/shipdesk/pkg/model"
)

// fakeAPI is a minimal stand-in for the logistics REST API.
type fakeAPI struct {
	mu        sync.Mutex
	perms     []string
	uploads   []string
	statuses  []api.StatusUpdate
	customers []model.Customer
	creates   int
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var c api.Credentials
		json.NewDecoder(r.Body).Decode(&c)
		if c.Username != "A00001" || c.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		f.mu.Lock()
		perms, _ := json.Marshal(f.perms)
		f.mu.Unlock()
		io.WriteString(w, `{"access_token":"tok-1","user":{"id":1,"username":"A00001","user_name":"Taro","role":"admin","permissions":`+string(perms)+`}}`)
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /customers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": f.customers, "total": len(f.customers), "current_page": 1, "per_page": 20})
	})
	mux.HandleFunc("GET /customers/search", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.customers)
	})
	mux.HandleFunc("POST /customers", func(w http.ResponseWriter, r *http.Request) {
		var c model.Customer
		json.NewDecoder(r.Body).Decode(&c)
		c.ID = 9
		f.mu.Lock()
		f.creates++
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"data": c})
	})
	mux.HandleFunc("POST /deliveries/import", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("import: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file.Close()
		f.mu.Lock()
		f.uploads = append(f.uploads, header.Filename)
		f.mu.Unlock()
		io.WriteString(w, `{"message":"2 rows imported","imported":2}`)
	})
	mux.HandleFunc("POST /distribution-items/status", func(w http.ResponseWriter, r *http.Request) {
		var in api.StatusUpdate
		json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		f.statuses = append(f.statuses, in)
		f.mu.Unlock()
		io.WriteString(w, `{"message":"status updated"}`)
	})
	return mux
}

type harness struct {
	router   http.Handler
	sessions *session.Manager
	api      *fakeAPI
	store    *store.SQLiteStore
}

func newHarness(t *testing.T, lim *limiter.IPRateLimiter) *harness {
	t.Helper()
	ctx := context.Background()
	fake := &fakeAPI{}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	st, err := store.NewSQLiteStore(":memory:", logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	logger := logging.Discard()
	manifest := nav.Default()
	sessions := session.NewManager(st, logger)
	flash := notify.NewFlash()
	svc := api.NewServices(api.NewClient(srv.URL, sessions, logger))

	u := New(Deps{
		Sessions: sessions,
		Auth:     auth.NewService(svc.Auth, sessions, flash, logger),
		Services: svc,
		Savers:   forms.NewSavers(svc, manifest),
		Importer: csvimport.NewImporter(svc, sessions, csvimport.Options{Log: st, Notifier: flash, MaxBytes: 1 << 20}, logger),
		Scanner:  scan.NewScanner(svc.Checkpoints, sessions, st, flash, logger),
		Imports:  st,
		Flash:    flash,
		Manifest: manifest,
		Limiter:  lim,
	}, logger, Config{APIBaseURL: srv.URL, SessionBackend: "sqlite", MaxImportBytes: 1 << 20, AllowedHosts: []string{"example.com"}})

	r := chi.NewRouter()
	u.RegisterRoutes(r)
	return &harness{router: r, sessions: sessions, api: fake, store: st}
}

func (h *harness) signIn(t *testing.T, perms ...model.Permission) {
	t.Helper()
	sess := &model.Session{
		Token: "tok-1",
		User:  model.User{ID: 1, Username: "A00001", UserName: "Taro", Role: model.RoleAdmin, Permissions: model.NewPermissionSet(perms...)},
	}
	if err := h.sessions.Set(context.Background(), sess); err != nil {
		t.Fatal(err)
	}
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, v url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestProtectedPagesRedirectWithoutSession(t *testing.T) {
	h := newHarness(t, nil)
	for _, path := range []string{"/", "/settings", "/customers", "/collection/update-status"} {
		rec := h.do(httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
			t.Errorf("%s: status %d location %q", path, rec.Code, rec.Header().Get("Location"))
		}
	}
}

func TestLogin_Success(t *testing.T) {
	h := newHarness(t, nil)
	h.api.perms = []string{"users.view"}

	rec := h.do(postForm("/login", url.Values{"username": {"A00001"}, "password": {"secret"}}))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	sess, ok := h.sessions.Get()
	if !ok || sess.Token != "tok-1" || sess.User.Username != "A00001" {
		t.Fatalf("session = %+v", sess)
	}
	persisted, err := h.store.LoadSession(context.Background())
	if err != nil || !persisted.Equal(sess) {
		t.Errorf("persisted = %+v, err = %v", persisted, err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do(postForm("/login", url.Values{"username": {"A00001"}, "password": {"wrong"}}))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, ok := h.sessions.Get(); ok {
		t.Error("session should stay empty")
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Login failed") || !strings.Contains(body, "Invalid credentials") {
		t.Errorf("expected error toast, got:\n%s", body)
	}
}

func TestLogin_ValidationErrors(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do(postForm("/login", url.Values{"username": {"  "}}))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Username is required") || !strings.Contains(body, "Password is required") {
		t.Errorf("missing field errors:\n%s", body)
	}
}

func TestLogin_RateLimited(t *testing.T) {
	h := newHarness(t, limiter.NewIPRateLimiter(0.001, 1, logging.Discard()))

	form := url.Values{"username": {"A00001"}, "password": {"wrong"}}
	first := h.do(postForm("/login", form))
	second := h.do(postForm("/login", form))
	if first.Code == http.StatusTooManyRequests {
		t.Fatal("first attempt should not be limited")
	}
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second attempt status = %d", second.Code)
	}
	if !strings.Contains(second.Body.String(), "Too many login attempts") {
		t.Error("expected throttling message")
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t, model.PermUsersView)

	rec := h.do(httptest.NewRequest(http.MethodPost, "/logout", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	if _, ok := h.sessions.Get(); ok {
		t.Error("session should be cleared")
	}
	login := h.do(httptest.NewRequest(http.MethodGet, "/login", nil))
	if !strings.Contains(login.Body.String(), "Logged out") {
		t.Error("expected logout toast on the login page")
	}
}

func TestDashboard_SingleLinkSidebar(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t, model.PermUsersView)

	rec := h.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `href="/users"`) {
		t.Error("users link missing")
	}
	if strings.Contains(body, "<details") {
		t.Error("a single visible link must not render as a group")
	}
	if strings.Contains(body, `href="/customers"`) {
		t.Error("customers link must be hidden")
	}
}

func TestDashboard_NoPermissions(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t)

	rec := h.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no menu permissions") {
		t.Error("expected empty navigation notice")
	}
}

func TestManifestGuard_Forbidden(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t, model.PermUsersView)

	for _, path := range []string{"/customers", "/customers/new", "/delivery/update-status"} {
		rec := h.do(httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s: status = %d", path, rec.Code)
		}
	}
}

func TestRequirePermission_CreateNeedsCreate(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t, model.PermCustomersView)

	rec := h.do(httptest.NewRequest(http.MethodGet, "/customers/new", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestCustomerList(t *testing.T) {
	h := newHarness(t, nil)
	h.api.customers = []model.Customer{{ID: 1, Code: "C001", Name: "Acme Logistics"}}
	h.signIn(t, model.PermCustomersView)

	rec := h.do(httptest.NewRequest(http.MethodGet, "/customers", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Acme Logistics") {
		t.Error("customer row missing")
	}
}

func TestCustomerSave(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t, model.PermCustomersView, model.PermCustomersCreate)

	t.Run("invalid", func(t *testing.T) {
		rec := h.do(postForm("/customers", url.Values{"customer_name": {"Acme"}, "customer_phone_number": {"abc"}}))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "Customer code is required") || !strings.Contains(body, "Invalid phone number format") {
			t.Errorf("missing field errors:\n%s", body)
		}
	})

	t.Run("valid", func(t *testing.T) {
		rec := h.do(postForm("/customers", url.Values{
			"customer_code":            {"C002"},
			"customer_name":            {"Acme"},
			"customer_department_name": {"Ops"},
			"customer_contact_name":    {"Hanako"},
			"customer_post_code":       {"100-0001"},
			"customer_prefecures":      {"Tokyo"},
			"customer_address_1":       {"Chiyoda 1-1"},
			"customer_phone_number":    {"03-1234-5678"},
		}))
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/customers" {
			t.Fatalf("status %d location %q", rec.Code, rec.Header().Get("Location"))
		}
		next := h.do(httptest.NewRequest(http.MethodGet, "/customers", nil))
		if !strings.Contains(next.Body.String(), "Customer created") {
			t.Error("expected success toast")
		}
	})
}

func TestScanPage_RecordsEvent(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t, model.PermCollectionScan)

	rec := h.do(postForm("/collection/update-status", url.Values{"code": {"dn-0001"}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(h.api.statuses) != 1 || h.api.statuses[0].DocumentNumber != "DN-0001" || h.api.statuses[0].Status != model.DeliveryCollected {
		t.Fatalf("status updates = %+v", h.api.statuses)
	}
	events, err := h.store.ListScans(context.Background(), model.CheckpointCollection, 10)
	if err != nil || len(events) != 1 || !events[0].OK {
		t.Fatalf("events = %+v, err = %v", events, err)
	}
	if !strings.Contains(rec.Body.String(), "DN-0001") {
		t.Error("scanned code missing from page")
	}

	dup := h.do(postForm("/collection/update-status", url.Values{"code": {"DN-0001"}}))
	if dup.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d", dup.Code)
	}
}

func TestScanPage_InvalidCode(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t, model.PermCollectionScan)

	rec := h.do(postForm("/collection/update-status", url.Values{"code": {"??"}}))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", rec.Code)
	}
	if len(h.api.statuses) != 0 {
		t.Error("invalid code must not reach the API")
	}
}

func TestDeliveryImport(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t, model.PermDeliveriesView, model.PermDeliveriesImport)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "destinations.csv")
	io.WriteString(fw, "name,address\nA,Tokyo\nB,Osaka\n")
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/delivery/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := h.do(req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/delivery" {
		t.Fatalf("status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(h.api.uploads) != 1 || h.api.uploads[0] != "destinations.csv" {
		t.Errorf("uploads = %v", h.api.uploads)
	}
	records, total, err := h.store.ListImports(context.Background(), model.ListOptions{Page: 1, PerPage: 5})
	if err != nil || total != 1 || records[0].Rows != 2 || !records[0].OK {
		t.Errorf("records = %+v total = %d err = %v", records, total, err)
	}
}

func TestDeliveryImport_RejectsNonCSV(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t, model.PermDeliveriesView, model.PermDeliveriesImport)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "destinations.xlsx")
	io.WriteString(fw, "binary")
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/delivery/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := h.do(req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(h.api.uploads) != 0 {
		t.Error("non-CSV file must not be uploaded")
	}
	msgs := h.do(httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	if !strings.Contains(msgs, "File must be a CSV") {
		t.Error("expected validation toast")
	}
}

func TestSettings(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t, model.PermUsersView, model.PermCustomersView)

	rec := h.do(httptest.NewRequest(http.MethodGet, "/settings", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "customers.view") || !strings.Contains(body, "sqlite") {
		t.Errorf("settings page incomplete:\n%s", body)
	}
}

func TestRenderTemplate_Unknown(t *testing.T) {
	var buf bytes.Buffer
	if err := renderTemplate(&buf, "nope", nil); err == nil {
		t.Error("expected error for unknown template")
	}
}

func validCustomerForm() url.Values {
	return url.Values{
		"customer_code":            {"C002"},
		"customer_name":            {"Acme"},
		"customer_department_name": {"Ops"},
		"customer_contact_name":    {"Hanako"},
		"customer_post_code":       {"100-0001"},
		"customer_prefecures":      {"Tokyo"},
		"customer_address_1":       {"Chiyoda 1-1"},
		"customer_phone_number":    {"03-1234-5678"},
	}
}

func TestSameOrigin_RejectsCrossSiteWrites(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t, model.PermCustomersView, model.PermCustomersCreate)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"sec-fetch-site cross-site", map[string]string{"Sec-Fetch-Site": "cross-site"}, http.StatusForbidden},
		{"foreign origin", map[string]string{"Origin": "https://evil.example"}, http.StatusForbidden},
		{"both", map[string]string{"Origin": "https://evil.example", "Sec-Fetch-Site": "cross-site"}, http.StatusForbidden},
		{"null origin", map[string]string{"Origin": "null"}, http.StatusForbidden},
		{"same origin", map[string]string{"Origin": "http://example.com", "Sec-Fetch-Site": "same-origin"}, http.StatusSeeOther},
		{"no browser headers", nil, http.StatusSeeOther},
	}
	wantCreates := 0
	for _, tt := range tests {
		req := postForm("/customers", validCustomerForm())
		for k, v := range tt.headers {
			req.Header.Set(k, v)
		}
		rec := h.do(req)
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, tt.want)
		}
		if tt.want == http.StatusSeeOther {
			wantCreates++
		}
		h.api.mu.Lock()
		got := h.api.creates
		h.api.mu.Unlock()
		if got != wantCreates {
			t.Errorf("%s: API creates = %d, want %d", tt.name, got, wantCreates)
		}
	}
}

func TestSameOrigin_RejectsCrossSiteLoginAndLogout(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t, model.PermUsersView)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	if rec := h.do(req); rec.Code != http.StatusForbidden {
		t.Errorf("cross-site logout: status = %d", rec.Code)
	}

	login := postForm("/login", url.Values{"username": {"A00001"}, "password": {"secret"}})
	login.Header.Set("Origin", "https://evil.example")
	if rec := h.do(login); rec.Code != http.StatusForbidden {
		t.Errorf("cross-site login: status = %d", rec.Code)
	}

	sess, ok := h.sessions.Get()
	if !ok || sess.Token != "tok-1" {
		t.Errorf("session changed: %+v %v", sess, ok)
	}
}

func TestLogout_GetNotAllowed(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t, model.PermUsersView)

	rec := h.do(httptest.NewRequest(http.MethodGet, "/logout", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /logout: status = %d, want 405", rec.Code)
	}
	if _, ok := h.sessions.Get(); !ok {
		t.Error("GET /logout must not clear the session")
	}
}

func TestHostGuard(t *testing.T) {
	h := newHarness(t, nil)
	h.signIn(t, model.PermUsersView)

	for host, want := range map[string]int{
		"example.com":        http.StatusOK,
		"EXAMPLE.COM:8080":   http.StatusOK,
		"rebind.attacker.io": http.StatusMisdirectedRequest,
		"127.0.0.1:8080":     http.StatusMisdirectedRequest,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = host
		if rec := h.do(req); rec.Code != want {
			t.Errorf("Host %q: status = %d, want %d", host, rec.Code, want)
		}
	}
}

func TestHostGuard_DefaultsToLoopback(t *testing.T) {
	guard := HostGuard(nil, logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for host, want := range map[string]int{
		"localhost:8080": http.StatusOK,
		"[::1]:8080":     http.StatusOK,
		"127.0.0.1":      http.StatusOK,
		"desk.lan":       http.StatusMisdirectedRequest,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = host
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("Host %q: status = %d, want %d", host, rec.Code, want)
		}
	}
}
