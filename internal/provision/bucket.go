// Package provision guarantees the storage bucket used for uploads exists.
package provision

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/booking-admin/internal/model"
	"go.uber.org/zap"
)

// policyProbePath is the object path used to exercise the upload policy of a
// freshly created bucket.
const policyProbePath = "test-policy"

// BucketStore is the storage-service surface the provisioner needs.
type BucketStore interface {
	ListBuckets(ctx context.Context) ([]model.Bucket, error)
	CreateBucket(ctx context.Context, spec model.BucketSpec) error
	CreateSignedUploadURL(ctx context.Context, bucket, path string) error
}

// Provisioner creates a bucket when it is missing. It is safe to call any
// number of times.
type Provisioner struct {
	store BucketStore
	spec  model.BucketSpec
	log   *zap.Logger
}

// NewProvisioner constructs a Provisioner for spec.
func NewProvisioner(store BucketStore, spec model.BucketSpec, log *zap.Logger) *Provisioner {
	return &Provisioner{store: store, spec: spec, log: log}
}

// BucketName is the name of the bucket this provisioner guarantees.
func (p *Provisioner) BucketName() string { return p.spec.Name }

// Ensure creates the bucket if it does not exist. created reports whether a
// bucket was created by this call.
func (p *Provisioner) Ensure(ctx context.Context) (created bool, err error) {
	buckets, err := p.store.ListBuckets(ctx)
	if err != nil {
		return false, fmt.Errorf("list buckets: %w", err)
	}
	p.log.Debug("available buckets", zap.Int("count", len(buckets)))

	for _, b := range buckets {
		if b.Name == p.spec.Name {
			p.log.Info("bucket already exists", zap.String("bucket", p.spec.Name))
			return false, nil
		}
	}

	p.log.Info("creating bucket",
		zap.String("bucket", p.spec.Name),
		zap.Bool("public", p.spec.Public),
		zap.Int64("file_size_limit", p.spec.FileSizeLimit),
		zap.Strings("allowed_mime_types", p.spec.AllowedMimeTypes),
	)
	if err := p.store.CreateBucket(ctx, p.spec); err != nil {
		return false, fmt.Errorf("create bucket: %w", err)
	}

	if err := p.store.CreateSignedUploadURL(ctx, p.spec.Name, policyProbePath); err != nil {
		p.log.Warn("could not verify bucket upload policy",
			zap.String("bucket", p.spec.Name),
			zap.Error(err),
		)
	}

	p.log.Info("bucket created", zap.String("bucket", p.spec.Name))
	return true, nil
}
