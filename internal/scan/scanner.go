// Package scan records QR-code scans at the delivery checkpoints.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/me/shipdesk/internal/api"
	"github.com/me/shipdesk/internal/notify"
	"github.com/me/shipdesk/internal/session"
	"github.com/me/shipdesk/pkg/model"
)

var (
	ErrEmptyCode     = errors.New("scan: empty code")
	ErrInvalidCode   = errors.New("scan: not a document number")
	ErrDuplicateScan = errors.New("scan: same code scanned again")
	ErrForbidden     = errors.New("scan: permission denied")
)

// DuplicateWindow is how long a repeated code at the same checkpoint is ignored.
const DuplicateWindow = 5 * time.Second

var documentNumberPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{3,39}$`)

// StatusAPI is the part of the REST API the scanner calls.
type StatusAPI interface {
	UpdateStatus(ctx context.Context, in api.StatusUpdate) (*api.StatusResult, error)
	SortingCheck(ctx context.Context, documentNumber string) (*api.StatusResult, error)
}

// EventLog stores scan events locally.
type EventLog interface {
	RecordScan(ctx context.Context, ev *model.ScanEvent) error
	ListScans(ctx context.Context, checkpoint model.Checkpoint, limit int) ([]*model.ScanEvent, error)
}

// Scanner turns scanned codes into status updates.
type Scanner struct {
	api      StatusAPI
	sessions *session.Manager
	log      EventLog
	notifier notify.Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu   sync.Mutex
	last map[model.Checkpoint]lastScan
}

type lastScan struct {
	code string
	at   time.Time
}

// NewScanner creates a scanner. A nil notifier discards notifications.
func NewScanner(a StatusAPI, sessions *session.Manager, log EventLog, n notify.Notifier, logger *slog.Logger) *Scanner {
	if n == nil {
		n = notify.Discard
	}
	return &Scanner{
		api:      a,
		sessions: sessions,
		log:      log,
		notifier: n,
		logger:   logger.With("component", "scan"),
		now:      time.Now,
		last:     make(map[model.Checkpoint]lastScan),
	}
}

// ParseCode extracts the document number from a QR payload. The payload is
// either the number itself or a URL carrying it in a document_number query
// parameter.
func ParseCode(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return "", ErrEmptyCode
	}
	if u, err := url.Parse(code); err == nil && u.Scheme != "" && u.Host != "" {
		code = strings.TrimSpace(u.Query().Get("document_number"))
	}
	if !documentNumberPattern.MatchString(code) {
		return "", ErrInvalidCode
	}
	return strings.ToUpper(code), nil
}

// Scan moves the parcel identified by raw to the checkpoint's status.
// API failures are recorded as failed events and returned.
func (s *Scanner) Scan(ctx context.Context, cp model.Checkpoint, raw string) (*model.ScanEvent, error) {
	def, err := Lookup(cp)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, def.Checkpoint, def.Permission, def.Title, raw, func(code string) (*api.StatusResult, error) {
		return s.api.UpdateStatus(ctx, api.StatusUpdate{DocumentNumber: code, Status: def.Status})
	})
}

// Check verifies a parcel passed sorting without changing its status.
func (s *Scanner) Check(ctx context.Context, raw string) (*model.ScanEvent, error) {
	return s.run(ctx, model.CheckpointSorting, model.PermSortingCheck, "Sorting check", raw, func(code string) (*api.StatusResult, error) {
		return s.api.SortingCheck(ctx, code)
	})
}

func (s *Scanner) run(ctx context.Context, cp model.Checkpoint, perm model.Permission, title, raw string, call func(string) (*api.StatusResult, error)) (*model.ScanEvent, error) {
	sess, ok := s.sessions.Get()
	if !ok || !sess.Can(perm) {
		return nil, ErrForbidden
	}
	code, err := ParseCode(raw)
	if err != nil {
		return nil, err
	}
	slot := scanSlot(cp, perm)
	if s.isDuplicate(slot, code) {
		return nil, ErrDuplicateScan
	}

	pending := s.notifier.Loading(title + ": " + code)
	ev := &model.ScanEvent{
		ID:             "scan_" + uuid.New().String()[:8],
		Checkpoint:     cp,
		DocumentNumber: code,
		Username:       sess.User.Username,
		ScannedAt:      s.now().UTC(),
	}

	res, callErr := call(code)
	if callErr != nil {
		ev.Message = model.ErrorMessage(callErr)
		pending.Error(title+" failed", ev.Message)
	} else {
		ev.OK = true
		ev.Message = res.Message
		s.remember(slot, code)
		pending.Success(title+" recorded", code)
	}

	if s.log != nil {
		if err := s.log.RecordScan(ctx, ev); err != nil {
			s.logger.Warn("record scan failed", "id", ev.ID, "error", err)
		}
	}
	s.logger.Info("scan", "checkpoint", cp, "document_number", code, "ok", ev.OK)

	if callErr != nil {
		return ev, fmt.Errorf("scan %s: %w", code, callErr)
	}
	return ev, nil
}

// scanSlot keys the duplicate check. The sorting check has its own slot so
// it does not collide with sorting scans.
func scanSlot(cp model.Checkpoint, perm model.Permission) model.Checkpoint {
	if perm == model.PermSortingCheck {
		return model.Checkpoint(perm)
	}
	return cp
}

// isDuplicate reports whether code repeats the last successful scan in slot
// within DuplicateWindow.
func (s *Scanner) isDuplicate(slot model.Checkpoint, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.last[slot]
	return ok && prev.code == code && s.now().Sub(prev.at) < DuplicateWindow
}

// remember marks code as the last successful scan in slot. Failed scans are
// not remembered so the operator can retry at once.
func (s *Scanner) remember(slot model.Checkpoint, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[slot] = lastScan{code: code, at: s.now()}
}

// Recent returns the latest events for cp, newest first.
func (s *Scanner) Recent(ctx context.Context, cp model.Checkpoint, limit int) ([]*model.ScanEvent, error) {
	if s.log == nil {
		return nil, nil
	}
	return s.log.ListScans(ctx, cp, limit)
}
