// path: media/hoster.go
package media

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Hoster stores report photos in object storage and hands back a URL for
// the report's image_url field. Used for originals above the inline cap;
// optional, the service runs without it.
type Hoster struct {
	client *minio.Client
	bucket string
}

// NewHosterFromEnv builds a Hoster from MINIO_HOST / MINIO_ACCESS_KEY /
// MINIO_SECRET_KEY / MINIO_BUCKET. Returns (nil, nil) when MINIO_HOST is
// unset.
func NewHosterFromEnv(ctx context.Context) (*Hoster, error) {
	endpoint := strings.TrimSpace(os.Getenv("MINIO_HOST"))
	if endpoint == "" {
		return nil, nil
	}
	access := getenv("MINIO_ACCESS_KEY", "minioadmin")
	secret := getenv("MINIO_SECRET_KEY", "minioadmin")
	bucket := getenv("MINIO_BUCKET", "report-images")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
		log.Printf("minio: created bucket %s", bucket)
	}

	log.Printf("minio: image hosting enabled at %s bucket=%s", endpoint, bucket)
	return &Hoster{client: client, bucket: bucket}, nil
}

// Host stores the image bytes and returns a presigned URL valid for seven
// days. The image/* type check still applies; the inline size cap does
// not.
func (h *Hoster) Host(ctx context.Context, objectName, mimeType string, data []byte) (string, error) {
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w (got %q)", ErrUnsupportedType, mimeType)
	}
	_, err := h.client.PutObject(ctx, h.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: mimeType})
	if err != nil {
		return "", fmt.Errorf("minio put: %w", err)
	}
	u, err := h.client.PresignedGetObject(ctx, h.bucket, objectName, 7*24*time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("minio presign: %w", err)
	}
	return u.String(), nil
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
