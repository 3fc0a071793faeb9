// Package archive keeps a copy of imported CSV files in S3-compatible
// object storage.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/me/shipdesk/internal/config"
	"github.com/me/shipdesk/pkg/model"
)

// Archiver stores an uploaded file and returns its location.
type Archiver interface {
	Archive(ctx context.Context, kind model.ImportKind, filename string, body io.Reader) (uri string, err error)
}

// uploadAPI is the part of manager.Uploader used here.
type uploadAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Archiver uploads files with the S3 transfer manager.
type S3Archiver struct {
	bucket   string
	prefix   string
	uploader uploadAPI
	now      func() time.Time
	logger   *slog.Logger
}

// New builds an S3Archiver from cfg. Static credentials are used when both
// keys are set, otherwise the default AWS credential chain. A custom endpoint
// switches to path-style addressing for S3-compatible stores.
func New(ctx context.Context, cfg config.ArchiveConfig, logger *slog.Logger) (*S3Archiver, error) {
	if !cfg.Enabled() {
		return nil, errors.New("archive bucket not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	sdkCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Archiver(cfg.Bucket, cfg.Prefix, manager.NewUploader(client), logger), nil
}

func newS3Archiver(bucket, prefix string, up uploadAPI, logger *slog.Logger) *S3Archiver {
	return &S3Archiver{
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		uploader: up,
		now:      time.Now,
		logger:   logger.With("component", "archive"),
	}
}

// Archive uploads body under <prefix>/<kind>/<yyyy>/<mm>/<dd>/<id>-<file>.
func (a *S3Archiver) Archive(ctx context.Context, kind model.ImportKind, filename string, body io.Reader) (string, error) {
	key := a.key(kind, filename)
	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("text/csv"),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	uri := "s3://" + a.bucket + "/" + key
	a.logger.Info("archived import", "kind", kind, "uri", uri)
	return uri, nil
}

func (a *S3Archiver) key(kind model.ImportKind, filename string) string {
	base := sanitize(filepath.Base(filename))
	day := a.now().UTC().Format("2006/01/02")
	name := uuid.New().String()[:8] + "-" + base
	return path.Join(a.prefix, string(kind), day, name)
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "import.csv"
	}
	return b.String()
}
