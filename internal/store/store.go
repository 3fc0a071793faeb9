package store

import (
	"context"

	"github.com/me/shipdesk/pkg/model"
)

// Store is the local persistence layer: the persisted session plus the
// operator's scan and import history. Entity data lives behind the REST API.
type Store interface {
	// Session persistence (one row under the "auth" key)
	LoadSession(ctx context.Context) (*model.Session, error)
	SaveSession(ctx context.Context, sess *model.Session) error
	DeleteSession(ctx context.Context) error

	// Scan log
	RecordScan(ctx context.Context, ev *model.ScanEvent) error
	ListScans(ctx context.Context, checkpoint model.Checkpoint, limit int) ([]*model.ScanEvent, error)

	// Import log
	RecordImport(ctx context.Context, rec *model.ImportRecord) error
	ListImports(ctx context.Context, opts model.ListOptions) ([]*model.ImportRecord, int, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
