package util

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ariebrainware/cloudvault/config"
	"github.com/minio/minio-go/v7"
)

// ObjectStore is the surface of the external object storage the file
// endpoints need: stream a local file in, mint a time-limited read-only
// download URL, and remove an object.
type ObjectStore interface {
	PutFile(ctx context.Context, key, localPath, contentType string) error
	PresignedGetURL(ctx context.Context, key, fileName string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
}

type minioStore struct {
	client *minio.Client
	bucket string
}

func (s *minioStore) PutFile(ctx context.Context, key, localPath, contentType string) error {
	_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *minioStore) PresignedGetURL(ctx context.Context, key, fileName string, expiry time.Duration) (string, error) {
	// Force a sensible filename on download instead of the opaque key.
	params := make(url.Values)
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, params)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *minioStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

var objectStore ObjectStore

// InitObjectStore wires the ObjectStore to the MinIO client initialized by
// config.ConnectMinio. Call during startup after the connection succeeds.
func InitObjectStore() error {
	client := config.GetMinioClient()
	if client == nil {
		return fmt.Errorf("minio client not initialized")
	}
	objectStore = &minioStore{client: client, bucket: config.GetMinioBucket()}
	return nil
}

// GetObjectStore returns the configured ObjectStore (may be nil if
// InitObjectStore was not called or failed).
func GetObjectStore() ObjectStore {
	return objectStore
}

// SetObjectStoreForTesting allows tests to inject a fake object store.
// This should only be used in tests.
func SetObjectStoreForTesting(store ObjectStore) {
	objectStore = store
}
