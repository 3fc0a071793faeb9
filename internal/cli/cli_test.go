package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/me/shipdesk/internal/api"
	"github.com/me/shipdesk/internal/app"
	"github.com/me/shipdesk/internal/config"
	"github.com/me/shipdesk/internal/logging"
	"github.com/me/shipdesk/internal/server"
)

// fakeAPI records what the CLI sent to the logistics API.
type fakeAPI struct {
	mu       sync.Mutex
	logouts  int
	uploads  []string
	statuses []api.StatusUpdate
}

func startFakeAPI(t *testing.T) (*fakeAPI, string) {
	t.Helper()
	f := &fakeAPI{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var c api.Credentials
		json.NewDecoder(r.Body).Decode(&c)
		if c.Username != "A00001" || c.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		io.WriteString(w, `{"token":"tok-1","user":{"id":1,"username":"A00001","user_name":"Taro","role":"admin",`+
			`"permissions":["users.view","customers.view","deliveries.view","deliveries.import","collection.scan"]}}`)
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.logouts++
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /customers", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Unauthenticated."}`)
			return
		}
		io.WriteString(w, `{"data":[{"id":3,"customer_code":"C003","customer_name":"Acme Logistics","customer_phone_number":"03-1111-2222"}],`+
			`"total":41,"current_page":1,"per_page":1}`)
	})
	mux.HandleFunc("POST /deliveries/import", func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.uploads = append(f.uploads, header.Filename)
		f.mu.Unlock()
		io.WriteString(w, `{"message":"2 rows imported"}`)
	})
	mux.HandleFunc("POST /distribution-items/status", func(w http.ResponseWriter, r *http.Request) {
		var in api.StatusUpdate
		json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		f.statuses = append(f.statuses, in)
		f.mu.Unlock()
		io.WriteString(w, `{"message":"status updated"}`)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return f, ts.URL
}

type env struct {
	api     *fakeAPI
	apiURL  string
	dataDir string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	f, url := startFakeAPI(t)
	return &env{api: f, apiURL: url, dataDir: t.TempDir()}
}

// run executes the CLI against the fake API and returns stdout and stderr.
func (e *env) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--api-url", e.apiURL, "--data-dir", e.dataDir, "--log-level", "error"}, args...))

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func (e *env) login(t *testing.T) {
	t.Helper()
	if _, stderr, err := e.run(t, "", "login", "-u", "A00001", "--password", "secret"); err != nil {
		t.Fatalf("login: %v\n%s", err, stderr)
	}
}

func TestLoginCommand(t *testing.T) {
	e := newEnv(t)
	out, stderr, err := e.run(t, "", "login", "--username", "A00001", "--password", "secret")
	if err != nil {
		t.Fatalf("login error: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(out, "Signed in as Taro (A00001)") {
		t.Errorf("unexpected output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(e.dataDir, "session.json")); err != nil {
		t.Errorf("session file not written: %v", err)
	}
}

func TestLoginCommand_Prompts(t *testing.T) {
	e := newEnv(t)
	out, stderr, err := e.run(t, "A00001\nsecret\n", "login")
	if err != nil {
		t.Fatalf("login error: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stderr, "Username: ") || !strings.Contains(stderr, "Password: ") {
		t.Errorf("expected prompts, got: %s", stderr)
	}
	if !strings.Contains(out, "Signed in as") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestLoginCommand_InvalidCredentials(t *testing.T) {
	e := newEnv(t)
	_, stderr, err := e.run(t, "", "login", "-u", "A00001", "--password", "nope")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(stderr, "Login failed: Invalid credentials") {
		t.Errorf("expected error notification, got: %s", stderr)
	}
	out, _, _ := e.run(t, "", "whoami")
	if !strings.Contains(out, "Not signed in.") {
		t.Errorf("session must stay empty, whoami: %s", out)
	}
}

func TestLoginCommand_MissingFields(t *testing.T) {
	e := newEnv(t)
	_, stderr, err := e.run(t, "", "login")
	if err == nil || err.Error() != "invalid input" {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "username: Username is required") {
		t.Errorf("expected field error, got: %s", stderr)
	}
}

func TestWhoamiAndNav(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	out, _, err := e.run(t, "", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	for _, want := range []string{"Taro (A00001)", "admin", "customers.view", e.apiURL} {
		if !strings.Contains(out, want) {
			t.Errorf("whoami missing %q:\n%s", want, out)
		}
	}

	out, _, err = e.run(t, "", "nav")
	if err != nil {
		t.Fatalf("nav: %v", err)
	}
	if !strings.Contains(out, "/users") || !strings.Contains(out, "/customers") {
		t.Errorf("nav output:\n%s", out)
	}
	if strings.Contains(out, "/pickup-list") {
		t.Errorf("nav shows an unauthorized link:\n%s", out)
	}
}

func TestLogoutCommand(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	out, _, err := e.run(t, "", "logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out, "Signed out") {
		t.Errorf("unexpected output: %s", out)
	}
	if e.api.logouts != 1 {
		t.Errorf("remote logouts = %d, want 1", e.api.logouts)
	}
	out, _, _ = e.run(t, "", "whoami")
	if !strings.Contains(out, "Not signed in.") {
		t.Errorf("whoami after logout: %s", out)
	}
}

func TestCustomersList(t *testing.T) {
	e := newEnv(t)

	if _, _, err := e.run(t, "", "customers", "list"); err == nil || !strings.Contains(err.Error(), "not signed in") {
		t.Errorf("expected not-signed-in error, got %v", err)
	}

	e.login(t)
	out, _, err := e.run(t, "", "customers", "list", "--per-page", "1")
	if err != nil {
		t.Fatalf("customers list: %v", err)
	}
	if !strings.Contains(out, "Acme Logistics") || !strings.Contains(out, "C003") {
		t.Errorf("missing row:\n%s", out)
	}
	if !strings.Contains(out, "1 of 41 shown") {
		t.Errorf("missing footer:\n%s", out)
	}
}

func TestDeliveriesImport(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	path := filepath.Join(t.TempDir(), "destinations.csv")
	if err := os.WriteFile(path, []byte("name,address\nA,Tokyo\nB,Osaka\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, stderr, err := e.run(t, "", "deliveries", "import", path)
	if err != nil {
		t.Fatalf("import: %v\n%s", err, stderr)
	}
	if !strings.Contains(out, "Imported destinations.csv: 2 rows") {
		t.Errorf("unexpected output: %s", out)
	}
	if len(e.api.uploads) != 1 {
		t.Errorf("uploads = %v", e.api.uploads)
	}

	out, _, err = e.run(t, "", "imports")
	if err != nil {
		t.Fatalf("imports: %v", err)
	}
	if !strings.Contains(out, "destinations.csv") || !strings.Contains(out, "2 rows imported") {
		t.Errorf("import log:\n%s", out)
	}
}

func TestPickupsImport_Forbidden(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	path := filepath.Join(t.TempDir(), "pickups.csv")
	os.WriteFile(path, []byte("name\nA\n"), 0o600)

	_, _, err := e.run(t, "", "pickups", "import", path)
	if err == nil || !strings.Contains(err.Error(), "pickups.import") {
		t.Errorf("err = %v", err)
	}
}

func TestDeliveriesImport_NotCSV(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	path := filepath.Join(t.TempDir(), "destinations.txt")
	os.WriteFile(path, []byte("hello"), 0o600)

	_, _, err := e.run(t, "", "deliveries", "import", path)
	if err == nil || err.Error() != "File must be a CSV" {
		t.Errorf("err = %v", err)
	}
	if len(e.api.uploads) != 0 {
		t.Error("file must not be uploaded")
	}
}

func TestScanCommand(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	out, stderr, err := e.run(t, "", "scan", "collection", "dn-0001")
	if err != nil {
		t.Fatalf("scan: %v\n%s", err, stderr)
	}
	if !strings.Contains(out, "DN-0001 status updated") {
		t.Errorf("unexpected output: %s", out)
	}
	if len(e.api.statuses) != 1 || e.api.statuses[0].DocumentNumber != "DN-0001" {
		t.Errorf("statuses = %+v", e.api.statuses)
	}

	out, _, err = e.run(t, "", "scan", "--recent", "5", "collection")
	if err != nil {
		t.Fatalf("scan --recent: %v", err)
	}
	if !strings.Contains(out, "DN-0001") {
		t.Errorf("recent scans:\n%s", out)
	}

	if _, _, err := e.run(t, "", "scan", "loading", "DN-0002"); err == nil {
		t.Error("expected permission error for loading")
	}
	if _, _, err := e.run(t, "", "scan", "collection", "??"); err == nil {
		t.Error("expected invalid code error")
	}
}

func TestStatusCommand(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SessionBackend = config.SessionBackendMemory
	cfg.APIBaseURL = "http://api.invalid/v1"
	a, err := app.OpenAt(context.Background(), cfg, t.TempDir(), ":memory:", logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	ts := httptest.NewServer(server.New(a, logging.Discard()).Handler())
	defer ts.Close()

	e := newEnv(t)
	out, _, err := e.run(t, "", "status", "--server", ts.URL)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"healthy", "http://api.invalid/v1", "memory backend", "not signed in"} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}
}
