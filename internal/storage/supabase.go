// Package storage uploads proof images to Supabase Storage buckets
// and hands back public URLs for persistence alongside bookings and
// reports.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	storage_go "github.com/supabase-community/storage-go"
)

// Bucket names, one per proof kind.
const (
	BucketKTM           = "ktm-images"
	BucketCheckoutProof = "checkout-proofs"
	BucketReportProof   = "report-proofs"
)

// Uploader stores a file and returns its public URL.  The engine and
// handlers depend on this interface so tests can swap in a fake.
type Uploader interface {
	Upload(ctx context.Context, bucket, filename, contentType string, data []byte) (string, error)
}

// Client wraps the Supabase storage API.
type Client struct {
	api *storage_go.Client
}

// NewClient builds a storage client for the given Supabase project.
// Returns nil when the project URL or key is empty, in which case
// upload endpoints are disabled.
func NewClient(projectURL, serviceKey string) *Client {
	if projectURL == "" || serviceKey == "" {
		return nil
	}
	base := strings.TrimSuffix(projectURL, "/") + "/storage/v1"
	return &Client{api: storage_go.NewClient(base, serviceKey, nil)}
}

// Upload stores data under a random object key that keeps the
// original extension, and returns the public URL.  Buckets are
// expected to exist and be public.
func (c *Client) Upload(ctx context.Context, bucket, filename, contentType string, data []byte) (string, error) {
	key := uuid.NewString()
	if ext := path.Ext(filename); ext != "" {
		key += ext
	}
	_, err := c.api.UploadFile(bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, key, err)
	}
	return c.api.GetPublicUrl(bucket, key).SignedURL, nil
}
