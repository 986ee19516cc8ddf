package storage

import (
	"context"
	"time"
)

// ObjectInfo describes a stored export object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// UploadOptions conveys the destination for a note export.
type UploadOptions struct {
	Bucket    string
	KeyPrefix string
}

// Service persists note exports in remote object storage.
type Service interface {
	// UploadNote stores content under a fresh key below prefix and
	// returns the object's key.
	UploadNote(ctx context.Context, content []byte, opts UploadOptions) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	DeletePrefix(ctx context.Context, bucket, prefix string) error
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
