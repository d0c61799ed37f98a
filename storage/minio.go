package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"discogsapi/config"
	"discogsapi/logger"
	"discogsapi/model"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Snapshot is the JSON document written by an export.
type Snapshot struct {
	ExportedAt time.Time      `json:"exportedAt"`
	Count      int            `json:"count"`
	Tracks     []*model.Track `json:"tracks"`
}

// Exporter writes track snapshots to an S3-compatible bucket.
type Exporter struct {
	client *minio.Client
	bucket string
	region string
}

// NewExporter creates a MinIO client for the configured endpoint.
func NewExporter(cfg *config.Config) (*Exporter, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return &Exporter{client: client, bucket: cfg.MinioBucket, region: cfg.MinioRegion}, nil
}

// EnsureBucket creates the export bucket if it does not exist yet.
func (e *Exporter) EnsureBucket(ctx context.Context) error {
	exists, err := e.client.BucketExists(ctx, e.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", e.bucket, err)
	}
	if exists {
		return nil
	}
	if err := e.client.MakeBucket(ctx, e.bucket, minio.MakeBucketOptions{Region: e.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", e.bucket, err)
	}
	logger.Info("created export bucket", logger.String("bucket", e.bucket))
	return nil
}

// ObjectName returns the key a snapshot taken at t is stored under.
func ObjectName(prefix string, t time.Time) string {
	name := "tracks-" + t.UTC().Format("20060102T150405Z") + ".json"
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// EncodeSnapshot renders tracks as an indented snapshot document.
func EncodeSnapshot(tracks []*model.Track, at time.Time) ([]byte, error) {
	if tracks == nil {
		tracks = []*model.Track{}
	}
	return json.MarshalIndent(Snapshot{ExportedAt: at.UTC(), Count: len(tracks), Tracks: tracks}, "", "  ")
}

// Export uploads a snapshot of tracks and returns the object key.
func (e *Exporter) Export(ctx context.Context, prefix string, tracks []*model.Track) (string, error) {
	now := time.Now()
	body, err := EncodeSnapshot(tracks, now)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := ObjectName(prefix, now)
	info, err := e.client.PutObject(ctx, e.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}

	logger.Info("snapshot uploaded",
		logger.String("bucket", e.bucket),
		logger.String("key", key),
		logger.Int("tracks", len(tracks)),
		logger.Int64("size", info.Size),
	)
	return key, nil
}
