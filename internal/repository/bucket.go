package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Shivanand-hulikatti/booking-admin/internal/model"
	storage "github.com/supabase-community/storage-go"
	supa "github.com/supabase-community/supabase-go"
)

// BucketRepository manages storage buckets.
type BucketRepository struct {
	client *supa.Client
}

// NewBucketRepository constructs a BucketRepository.
func NewBucketRepository(client *supa.Client) *BucketRepository {
	return &BucketRepository{client: client}
}

// ListBuckets returns every bucket in the project.
func (r *BucketRepository) ListBuckets(ctx context.Context) ([]model.Bucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buckets, err := r.client.Storage.ListBuckets()
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	out := make([]model.Bucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, model.Bucket{ID: b.Id, Name: b.Name, Public: b.Public})
	}
	return out, nil
}

// CreateBucket creates a bucket with the given access and upload policy.
func (r *BucketRepository) CreateBucket(ctx context.Context, spec model.BucketSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts := storage.BucketOptions{
		Public:           spec.Public,
		AllowedMimeTypes: spec.AllowedMimeTypes,
	}
	if spec.FileSizeLimit > 0 {
		opts.FileSizeLimit = strconv.FormatInt(spec.FileSizeLimit, 10)
	}
	if _, err := r.client.Storage.CreateBucket(spec.Name, opts); err != nil {
		return fmt.Errorf("create bucket %s: %w", spec.Name, err)
	}
	return nil
}

// CreateSignedUploadURL requests a signed upload URL for path in bucket.
func (r *BucketRepository) CreateSignedUploadURL(ctx context.Context, bucket, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := r.client.Storage.CreateSignedUploadUrl(bucket, path); err != nil {
		return fmt.Errorf("sign upload url %s/%s: %w", bucket, path, err)
	}
	return nil
}
