package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"inkwell/api/internal/config"
)

// ContentType is the fixed format of every derived rendition.
const ContentType = "image/webp"

// SizeClasses are the three renditions kept per image id.
var SizeClasses = []string{"s", "m", "l"}

// ObjectStore holds image renditions in a minio bucket, keyed
// <size>/<id>.webp.
type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	bucket := s.cfg.BucketImages
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return nil
}

// ObjectKey is the conventional path for one rendition of an image.
func ObjectKey(size, imageID string) string {
	return fmt.Sprintf("%s/%s.webp", size, imageID)
}

// PutRendition writes one rendition of an image.
func (s *ObjectStore) PutRendition(ctx context.Context, size, imageID string, data []byte) error {
	key := ObjectKey(size, imageID)
	_, err := s.client.PutObject(ctx, s.cfg.BucketImages, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: ContentType})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// GetRendition reads one rendition of an image.
func (s *ObjectStore) GetRendition(ctx context.Context, size, imageID string) ([]byte, error) {
	key := ObjectKey(size, imageID)
	obj, err := s.client.GetObject(ctx, s.cfg.BucketImages, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return buf.Bytes(), nil
}

// DeleteRenditions removes all three renditions for an image id.
// Already-missing objects are tolerated so a partial delete can be rerun.
func (s *ObjectStore) DeleteRenditions(ctx context.Context, imageID string) error {
	for _, size := range SizeClasses {
		key := ObjectKey(size, imageID)
		err := s.client.RemoveObject(ctx, s.cfg.BucketImages, key, minio.RemoveObjectOptions{})
		if err != nil {
			resp := minio.ToErrorResponse(err)
			if resp.Code == "NoSuchKey" {
				continue
			}
			return fmt.Errorf("remove object %s: %w", key, err)
		}
	}
	return nil
}

// ListIDs walks the medium-size prefix and returns the image ids present
// in the store.
func (s *ObjectStore) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	opts := minio.ListObjectsOptions{Prefix: "m/", Recursive: true}
	for obj := range s.client.ListObjects(ctx, s.cfg.BucketImages, opts) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := strings.TrimPrefix(obj.Key, "m/")
		ids = append(ids, strings.TrimSuffix(name, ".webp"))
	}
	return ids, nil
}

func (s *ObjectStore) Client() *minio.Client {
	return s.client
}
