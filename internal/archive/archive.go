// Package archive keeps a copy of every raw upload in object storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/coursegrid/coursegrid/internal/config"
)

// Store saves raw uploads and returns the object key.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// Nop discards uploads.
type Nop struct{}

func (Nop) Put(context.Context, string, []byte) (string, error) { return "", nil }

// Minio stores uploads in a MinIO or S3 bucket.
type Minio struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

// NewMinio creates the client and makes sure the bucket exists.
func NewMinio(ctx context.Context, cfg config.ArchiveConfig) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %s: %w", cfg.Bucket, err)
		}
	}
	return &Minio{client: client, bucket: cfg.Bucket, now: time.Now}, nil
}

func (m *Minio) Put(ctx context.Context, name string, data []byte) (string, error) {
	key := ObjectKey(m.now(), uuid.New(), name)
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType(name),
	})
	if err != nil {
		return "", fmt.Errorf("storing %s in %s: %w", key, m.bucket, err)
	}
	return key, nil
}

// ObjectKey builds "uploads/<yyyy-mm-dd>/<uuid>-<base name>".
func ObjectKey(at time.Time, id uuid.UUID, name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return path.Join("uploads", at.UTC().Format(time.DateOnly), id.String()+"-"+base)
}

func contentType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Open returns a Minio store when enabled and a Nop otherwise.
func Open(ctx context.Context, cfg config.ArchiveConfig) (Store, error) {
	if !cfg.Enabled {
		return Nop{}, nil
	}
	return NewMinio(ctx, cfg)
}
