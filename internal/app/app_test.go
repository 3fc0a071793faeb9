package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/me/shipdesk/internal/config"
	"github.com/me/shipdesk/internal/logging"
	"github.com/me/shipdesk/internal/session"
	"github.com/me/shipdesk/pkg/model"
)

func testConfig(backend string) config.Config {
	cfg := config.DefaultConfig()
	cfg.SessionBackend = backend
	return cfg
}

func TestAPIHost(t *testing.T) {
	cfg := config.DefaultConfig()
	if got := APIHost(cfg); got != "127.0.0.1" {
		t.Errorf("APIHost(default) = %q", got)
	}
	cfg.Addr = ":8080"
	if got := APIHost(cfg); got != "localhost" {
		t.Errorf("APIHost(:8080) = %q", got)
	}
	cfg.Host = "kouraku-test.userside.co.jp"
	if got := APIHost(cfg); got != cfg.Host {
		t.Errorf("APIHost(host) = %q", got)
	}
}

func TestOpen_SessionSurvivesReopen(t *testing.T) {
	for _, backend := range []string{config.SessionBackendFile, config.SessionBackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			dbPath := filepath.Join(dir, DBFile)

			a, err := OpenAt(ctx, testConfig(backend), dir, dbPath, logging.Discard())
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			sess := &model.Session{Token: "tok", User: model.User{ID: 7, Username: "A00007", Role: model.RoleAdmin,
				Permissions: model.NewPermissionSet(model.PermUsersView)}}
			if err := a.Sessions.Set(ctx, sess); err != nil {
				t.Fatal(err)
			}
			a.Close()

			b, err := OpenAt(ctx, testConfig(backend), dir, dbPath, logging.Discard())
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer b.Close()
			got, ok := b.Sessions.Get()
			if !ok || !got.Equal(sess) {
				t.Errorf("restored = %+v, %v", got, ok)
			}
		})
	}
}

func TestOpen_CorruptSessionIgnored(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, session.FileName), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	a, err := OpenAt(ctx, testConfig(config.SessionBackendFile), dir, ":memory:", logging.Discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()
	if _, ok := a.Sessions.Get(); ok {
		t.Error("corrupt session should be ignored")
	}
}

func TestOpen_APIBaseURLOverride(t *testing.T) {
	cfg := testConfig(config.SessionBackendMemory)
	cfg.APIBaseURL = "http://api.test/v1"
	a, err := OpenAt(context.Background(), cfg, t.TempDir(), ":memory:", logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if a.APIBaseURL != cfg.APIBaseURL {
		t.Errorf("APIBaseURL = %q", a.APIBaseURL)
	}
	if a.Archiver != nil {
		t.Error("archiver should be disabled without a bucket")
	}
}
