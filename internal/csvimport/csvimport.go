// Package csvimport checks and uploads pickup and delivery CSV files.
package csvimport

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/me/shipdesk/internal/api"
	"github.com/me/shipdesk/internal/archive"
	"github.com/me/shipdesk/internal/forms"
	"github.com/me/shipdesk/internal/notify"
	"github.com/me/shipdesk/internal/session"
	"github.com/me/shipdesk/pkg/model"
)

// ErrForbidden is returned when the session lacks the import permission.
var ErrForbidden = errors.New("csvimport: permission denied")

// Validate checks the file's name, type and size. maxSize <= 0 disables the
// size limit.
func Validate(filename, contentType string, size, maxSize int64) error {
	up := forms.CSVUpload{Filename: filename, ContentType: contentType, Size: size, MaxSize: maxSize}
	if fe := forms.Validate(&up); fe != nil {
		return fe
	}
	return nil
}

// Summary describes a CSV file for the confirmation view.
type Summary struct {
	Header []string
	Rows   int
}

// Inspect reads the header and counts data rows. Rows may be ragged; the API
// judges their content.
func Inspect(r io.Reader) (*Summary, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	s := &Summary{Header: make([]string, len(header))}
	for i, h := range header {
		s.Header[i] = strings.TrimSpace(h)
	}
	if len(s.Header) > 0 {
		s.Header[0] = strings.TrimPrefix(s.Header[0], "\uFEFF")
	}

	for {
		_, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		s.Rows++
	}
	return s, nil
}

// Uploader sends a CSV file to an import endpoint.
type Uploader interface {
	Import(ctx context.Context, filename string, r io.Reader) (*api.ImportResult, error)
}

// Log records import outcomes locally.
type Log interface {
	RecordImport(ctx context.Context, rec *model.ImportRecord) error
}

// File is an uploaded file.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Importer runs CSV imports.
type Importer struct {
	uploaders map[model.ImportKind]Uploader
	sessions  *session.Manager
	archiver  archive.Archiver
	log       Log
	notifier  notify.Notifier
	maxBytes  int64
	logger    *slog.Logger
}

// Options holds the optional collaborators of an Importer.
type Options struct {
	Archiver archive.Archiver // nil disables archiving
	Log      Log              // nil disables the local log
	Notifier notify.Notifier
	MaxBytes int64
}

// NewImporter creates an importer uploading through svc.
func NewImporter(svc *api.Services, sessions *session.Manager, opts Options, logger *slog.Logger) *Importer {
	return newImporter(map[model.ImportKind]Uploader{
		model.ImportPickups:    svc.Pickups,
		model.ImportDeliveries: svc.Deliveries,
	}, sessions, opts, logger)
}

func newImporter(uploaders map[model.ImportKind]Uploader, sessions *session.Manager, opts Options, logger *slog.Logger) *Importer {
	n := opts.Notifier
	if n == nil {
		n = notify.Discard
	}
	return &Importer{
		uploaders: uploaders,
		sessions:  sessions,
		archiver:  opts.Archiver,
		log:       opts.Log,
		notifier:  n,
		maxBytes:  opts.MaxBytes,
		logger:    logger.With("component", "csvimport"),
	}
}

// Permission returns the permission needed to import kind.
func Permission(kind model.ImportKind) model.Permission {
	if kind == model.ImportPickups {
		return model.PermPickupsImport
	}
	return model.PermDeliveriesImport
}

// Import validates f, archives a copy when configured, uploads it and
// records the outcome. An archive failure is logged and does not stop the
// upload.
func (im *Importer) Import(ctx context.Context, kind model.ImportKind, f File) (*model.ImportRecord, error) {
	up, ok := im.uploaders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown import kind %q", kind)
	}
	sess, ok := im.sessions.Get()
	if !ok || !sess.Can(Permission(kind)) {
		return nil, ErrForbidden
	}
	if err := Validate(f.Name, f.ContentType, f.Size, im.maxBytes); err != nil {
		return nil, err
	}

	data, err := im.readAll(f.Body)
	if err != nil {
		return nil, err
	}
	summary, err := Inspect(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	rec := &model.ImportRecord{
		ID:        "imp_" + uuid.New().String()[:8],
		Kind:      kind,
		Filename:  f.Name,
		Rows:      summary.Rows,
		Size:      int64(len(data)),
		Username:  sess.User.Username,
		CreatedAt: time.Now().UTC(),
	}

	pending := im.notifier.Loading("Importing " + f.Name)

	if im.archiver != nil {
		uri, err := im.archiver.Archive(ctx, kind, f.Name, bytes.NewReader(data))
		if err != nil {
			im.logger.Warn("archive failed", "file", f.Name, "error", err)
		}
		rec.ArchiveURI = uri
	}

	res, upErr := up.Import(ctx, f.Name, bytes.NewReader(data))
	if upErr != nil {
		rec.Message = model.ErrorMessage(upErr)
		pending.Error("Import failed", rec.Message)
	} else {
		rec.OK = true
		rec.Message = res.Message
		if rec.Message == "" {
			rec.Message = fmt.Sprintf("%d rows imported", summary.Rows)
		}
		pending.Success("Import complete", rec.Message)
	}

	if im.log != nil {
		if err := im.log.RecordImport(ctx, rec); err != nil {
			im.logger.Warn("record import failed", "id", rec.ID, "error", err)
		}
	}
	im.logger.Info("import finished", "kind", kind, "file", f.Name, "rows", rec.Rows, "ok", rec.OK)

	if upErr != nil {
		return rec, fmt.Errorf("import %s: %w", f.Name, upErr)
	}
	return rec, nil
}

func (im *Importer) readAll(r io.Reader) ([]byte, error) {
	if im.maxBytes > 0 {
		r = io.LimitReader(r, im.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if im.maxBytes > 0 && int64(len(data)) > im.maxBytes {
		return nil, forms.FieldErrors{"size": "File is too large"}
	}
	return data, nil
}
