package broadcast

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"dispatch-core/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archive is a Sink that writes every published event to object storage as
// events/<day>/<event>-<uuid>.json. Writes are best-effort: a failure is
// logged and the event is gone, matching the hub's delivery semantics.
type Archive struct {
	client  storage.Client
	bucket  string
	logger  *zap.Logger
	timeout time.Duration
}

// NewArchive creates an archive sink writing to the given bucket.
func NewArchive(client storage.Client, bucket string, logger *zap.Logger) *Archive {
	return &Archive{
		client:  client,
		bucket:  bucket,
		logger:  logger,
		timeout: 30 * time.Second,
	}
}

// EnsureBucket creates the archive bucket if it does not exist yet.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create archive bucket: %w", err)
	}
	return nil
}

// Record writes one encoded event to the archive.
func (a *Archive) Record(event string, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	objectName := a.objectName(event, time.Now().UTC())
	_, err := a.client.PutObject(ctx, a.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		a.logger.Warn("Failed to archive broadcast event",
			zap.String("event", event),
			zap.String("object", objectName),
			zap.Error(err))
	}
}

// objectName builds the day-partitioned object key for an event.
func (a *Archive) objectName(event string, now time.Time) string {
	return fmt.Sprintf("events/%s/%s-%s.json", now.Format("2006-01-02"), event, uuid.NewString())
}
