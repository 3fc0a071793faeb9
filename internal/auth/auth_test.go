package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/me/shipdesk/internal/api"
	"github.com/me/shipdesk/internal/forms"
	"github.com/me/shipdesk/internal/logging"
	"github.com/me/shipdesk/internal/notify"
	"github.com/me/shipdesk/internal/session"
	"github.com/me/shipdesk/pkg/model"
)

type fixture struct {
	svc      *Service
	sessions *session.Manager
	rec      *notify.Recorder
	logouts  *atomic.Int32
}

func newFixture(t *testing.T, logoutStatus int) *fixture {
	t.Helper()
	var logouts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			var c api.Credentials
			json.NewDecoder(r.Body).Decode(&c)
			if c.Username != "A00001" || c.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				io.WriteString(w, `{"message":"Invalid credentials"}`)
				return
			}
			io.WriteString(w, `{"message":"ok","token":"tok-1","user":{"id":1,"username":"A00001","user_name":"Taro","role":"admin","permissions":["users.view","customers.view"]}}`)
		case "/logout":
			logouts.Add(1)
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				t.Errorf("logout Authorization = %q", r.Header.Get("Authorization"))
			}
			w.WriteHeader(logoutStatus)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	sessions := session.NewManager(nil, logging.Discard())
	client := api.NewClient(srv.URL, sessions, logging.Discard())
	rec := &notify.Recorder{}
	return &fixture{
		svc:      NewService(api.NewServices(client).Auth, sessions, rec, logging.Discard()),
		sessions: sessions,
		rec:      rec,
		logouts:  &logouts,
	}
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, http.StatusOK)
	sess, err := f.svc.Login(context.Background(), forms.LoginForm{Username: " A00001 ", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	stored, ok := f.sessions.Get()
	if !ok || !stored.Equal(sess) {
		t.Fatalf("stored = %+v", stored)
	}
	if stored.Token != "tok-1" || !stored.User.Can(model.PermCustomersView) {
		t.Errorf("session = %+v", stored)
	}
	last, _ := f.rec.Last()
	if last.Level != notify.LevelSuccess {
		t.Errorf("notification = %+v", last)
	}
}

func TestLogin_InvalidLeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t, http.StatusOK)
	ctx := context.Background()

	prev := &model.Session{Token: "keep", User: model.User{ID: 9, Username: "B00001"}}
	if err := f.sessions.Set(ctx, prev); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.Login(ctx, forms.LoginForm{Username: "A00001", Password: "wrong"})
	if !model.IsUnauthorized(err) {
		t.Fatalf("err = %v, want 401", err)
	}
	if got, _ := f.sessions.Get(); !got.Equal(prev) {
		t.Errorf("store changed to %+v", got)
	}
	last, _ := f.rec.Last()
	if last.Level != notify.LevelError || last.Description != "Invalid credentials" {
		t.Errorf("notification = %+v", last)
	}
}

func TestLogin_ValidationSkipsNetwork(t *testing.T) {
	f := newFixture(t, http.StatusOK)
	_, err := f.svc.Login(context.Background(), forms.LoginForm{Username: "  "})
	fe, ok := forms.AsFieldErrors(err)
	if !ok || fe.Get("username") == "" || fe.Get("password") == "" {
		t.Fatalf("err = %v", err)
	}
	if len(f.rec.Messages) != 0 {
		t.Errorf("notifications sent for invalid form: %+v", f.rec.Messages)
	}
}

func TestLogout(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusInternalServerError} {
		f := newFixture(t, status)
		ctx := context.Background()
		if _, err := f.svc.Login(ctx, forms.LoginForm{Username: "A00001", Password: "secret"}); err != nil {
			t.Fatal(err)
		}

		var cleared bool
		f.sessions.Subscribe(func(s *model.Session) {
			// the store is cleared before the remote call goes out
			cleared = s == nil && f.logouts.Load() == 0
		})

		if err := f.svc.Logout(ctx); err != nil {
			t.Errorf("status %d: Logout = %v", status, err)
		}
		if !cleared {
			t.Errorf("status %d: session not cleared before remote logout", status)
		}
		if _, ok := f.sessions.Get(); ok {
			t.Errorf("status %d: session restored after logout", status)
		}
		if f.logouts.Load() != 1 {
			t.Errorf("status %d: logout calls = %d", status, f.logouts.Load())
		}
	}
}

func TestLogout_WithoutSession(t *testing.T) {
	f := newFixture(t, http.StatusOK)
	if err := f.svc.Logout(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.logouts.Load() != 0 {
		t.Error("remote logout called without a session")
	}
}

func TestLogin_PersistFailure(t *testing.T) {
	f := newFixture(t, http.StatusOK)
	f.svc.sessions = session.NewManager(failingPersister{}, logging.Discard())
	if _, err := f.svc.Login(context.Background(), forms.LoginForm{Username: "A00001", Password: "secret"}); err == nil {
		t.Fatal("expected error")
	}
}

type failingPersister struct{}

func (failingPersister) LoadSession(context.Context) (*model.Session, error) { return nil, nil }
func (failingPersister) SaveSession(context.Context, *model.Session) error {
	return errors.New("read-only")
}
func (failingPersister) DeleteSession(context.Context) error { return nil }

// stickyPersister saves fine but cannot delete.
type stickyPersister struct{}

func (stickyPersister) LoadSession(context.Context) (*model.Session, error) { return nil, nil }
func (stickyPersister) SaveSession(context.Context, *model.Session) error  { return nil }
func (stickyPersister) DeleteSession(context.Context) error {
	return errors.New("disk full")
}

func TestLogout_PurgeFailureStillRevokes(t *testing.T) {
	f := newFixture(t, http.StatusOK)
	sessions := session.NewManager(stickyPersister{}, logging.Discard())
	f.svc.sessions = sessions
	ctx := context.Background()
	if _, err := f.svc.Login(ctx, forms.LoginForm{Username: "A00001", Password: "secret"}); err != nil {
		t.Fatal(err)
	}

	err := f.svc.Logout(ctx)
	if err == nil {
		t.Fatal("expected purge error")
	}
	if f.logouts.Load() != 1 {
		t.Errorf("logout calls = %d, want 1", f.logouts.Load())
	}
	if _, ok := sessions.Get(); ok {
		t.Error("in-memory session should be gone")
	}
}
