package archive

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/me/shipdesk/internal/config"
	"github.com/me/shipdesk/internal/logging"
	"github.com/me/shipdesk/pkg/model"
)

type fakeUploader struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.input = in
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	if f.err != nil {
		return nil, f.err
	}
	return &manager.UploadOutput{Key: in.Key}, nil
}

func TestArchive_Key(t *testing.T) {
	up := &fakeUploader{}
	a := newS3Archiver("csv-archive", "/imports/", up, logging.Discard())
	a.now = func() time.Time { return time.Date(2026, 4, 2, 23, 0, 0, 0, time.UTC) }

	uri, err := a.Archive(context.Background(), model.ImportDeliveries, "/tmp/配送 list.csv", strings.NewReader("a,b\n"))
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	key := aws.ToString(up.input.Key)
	if !regexp.MustCompile(`^imports/deliveries/2026/04/02/[0-9a-f]{8}-___list\.csv$`).MatchString(key) {
		t.Errorf("key = %q", key)
	}
	if uri != "s3://csv-archive/"+key {
		t.Errorf("uri = %q", uri)
	}
	if aws.ToString(up.input.Bucket) != "csv-archive" || up.body != "a,b\n" {
		t.Errorf("input = %+v body %q", up.input, up.body)
	}
}

func TestArchive_Error(t *testing.T) {
	a := newS3Archiver("b", "", &fakeUploader{err: errors.New("denied")}, logging.Discard())
	if _, err := a.Archive(context.Background(), model.ImportPickups, "p.csv", strings.NewReader("x")); err == nil {
		t.Fatal("expected error")
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), config.ArchiveConfig{}, logging.Discard()); err == nil {
		t.Fatal("expected error without bucket")
	}
}

func TestNew_StaticCredentials(t *testing.T) {
	cfg := config.ArchiveConfig{
		Bucket:          "b",
		Region:          "ap-northeast-1",
		Endpoint:        "http://127.0.0.1:9000",
		AccessKeyID:     "AK",
		SecretAccessKey: "SK",
	}
	a, err := New(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.bucket != "b" {
		t.Errorf("bucket = %q", a.bucket)
	}
}
