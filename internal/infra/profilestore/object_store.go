package profilestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
)

// ObjectStore keeps the profile document in an S3-compatible bucket (R2, MinIO, S3).
type ObjectStore struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// NewObjectStore constructs the storage adapter. An explicit endpoint scheme
// overrides useSSL.
func NewObjectStore(endpoint, accessKey, secretKey, bucket, region, prefix string, useSSL bool, logger *slog.Logger) (*ObjectStore, error) {
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       secureEndpoint(endpoint, useSSL),
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object client: %w", err)
	}
	return &ObjectStore{
		client: client,
		bucket: bucket,
		key:    path.Join(prefix, dashboard.ProfileKey+".json"),
		logger: logger.With("component", "profilestore.object", "bucket", bucket),
	}, nil
}

func secureEndpoint(endpoint string, useSSL bool) bool {
	lower := strings.ToLower(strings.TrimSpace(endpoint))
	switch {
	case strings.HasPrefix(lower, "http://"):
		return false
	case strings.HasPrefix(lower, "https://"):
		return true
	default:
		return useSSL
	}
}

func (s *ObjectStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

// Load implements dashboard.ProfileStore.
func (s *ObjectStore) Load(ctx context.Context) (dashboard.UserProfile, bool, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return dashboard.UserProfile{}, false, err
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		if isMissingObject(err) {
			return dashboard.UserProfile{}, false, nil
		}
		return dashboard.UserProfile{}, false, err
	}
	profile, ok := decodeProfile(data, s.logger)
	return profile, ok, nil
}

// Save implements dashboard.ProfileStore.
func (s *ObjectStore) Save(ctx context.Context, profile dashboard.UserProfile) error {
	payload, err := encodeProfile(profile)
	if err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType:      "application/json",
		DisableMultipart: true,
	})
	return err
}

func isMissingObject(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == http.StatusNotFound
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}

var _ dashboard.ProfileStore = (*ObjectStore)(nil)
