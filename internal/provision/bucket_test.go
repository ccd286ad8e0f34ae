package provision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Shivanand-hulikatti/booking-admin/internal/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// memoryStore is an in-memory BucketStore.
type memoryStore struct {
	buckets   []model.Bucket
	created   []model.BucketSpec
	listErr   error
	createErr error
	signErr   error
	signed    []string
}

func (m *memoryStore) ListBuckets(ctx context.Context) ([]model.Bucket, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.buckets, nil
}

func (m *memoryStore) CreateBucket(ctx context.Context, spec model.BucketSpec) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, spec)
	m.buckets = append(m.buckets, model.Bucket{ID: spec.Name, Name: spec.Name, Public: spec.Public})
	return nil
}

func (m *memoryStore) CreateSignedUploadURL(ctx context.Context, bucket, path string) error {
	m.signed = append(m.signed, bucket+"/"+path)
	return m.signErr
}

var photosSpec = model.BucketSpec{
	Name:             "progress-photos",
	Public:           true,
	FileSizeLimit:    10485760,
	AllowedMimeTypes: []string{"image/png", "image/jpeg", "image/jpg", "image/webp"},
}

func TestEnsure_Idempotent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	store := &memoryStore{buckets: []model.Bucket{{Name: "avatars"}}}
	p := NewProvisioner(store, photosSpec, zap.New(core))
	ctx := context.Background()

	created, err := p.Ensure(ctx)
	if err != nil || !created {
		t.Fatalf("first Ensure: created = %v, err = %v", created, err)
	}
	created, err = p.Ensure(ctx)
	if err != nil || created {
		t.Fatalf("second Ensure: created = %v, err = %v", created, err)
	}

	if len(store.created) != 1 {
		t.Errorf("CreateBucket calls = %d, want 1", len(store.created))
	}
	if got := store.created[0]; got.FileSizeLimit != 10485760 || !got.Public || len(got.AllowedMimeTypes) != 4 {
		t.Errorf("created spec = %+v", got)
	}
	if logs.FilterMessage("bucket created").Len() != 1 {
		t.Error("missing 'bucket created' log")
	}
	if logs.FilterMessage("bucket already exists").Len() != 1 {
		t.Error("missing 'bucket already exists' log on second call")
	}
	if len(store.signed) != 1 || store.signed[0] != "progress-photos/test-policy" {
		t.Errorf("policy probes = %v", store.signed)
	}
}

func TestEnsure_PolicyProbeFailureIsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := &memoryStore{signErr: errors.New("forbidden")}
	p := NewProvisioner(store, photosSpec, zap.New(core))

	created, err := p.Ensure(context.Background())
	if err != nil || !created {
		t.Fatalf("created = %v, err = %v", created, err)
	}
	if logs.FilterMessage("could not verify bucket upload policy").Len() != 1 {
		t.Error("expected policy warning")
	}
}

func TestEnsure_Errors(t *testing.T) {
	tests := []struct {
		name  string
		store *memoryStore
		want  string
	}{
		{name: "list", store: &memoryStore{listErr: errors.New("unauthorized")}, want: "list buckets: unauthorized"},
		{name: "create", store: &memoryStore{createErr: errors.New("quota")}, want: "create bucket: quota"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvisioner(tt.store, photosSpec, zap.NewNop())
			_, err := p.Ensure(context.Background())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
