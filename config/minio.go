package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	minioClient *minio.Client
	minioBucket string
	minioOnce   sync.Once
)

// ConnectMinio initializes a singleton MinIO client from environment variables
// and makes sure the configured bucket exists. Returns the client (or nil) and
// an error if the connection or bucket check failed.
func ConnectMinio() (*minio.Client, error) {
	var err error
	minioOnce.Do(func() {
		cfg := LoadConfig()
		if cfg != nil && cfg.AppEnv == "test" {
			// Skip connecting object storage in test environment.
			return
		}

		endpoint := os.Getenv("MINIO_ENDPOINT")
		if endpoint == "" {
			endpoint = "localhost:9000"
		}
		accessKey := os.Getenv("MINIO_ACCESS_KEY")
		secretKey := os.Getenv("MINIO_SECRET_KEY")
		useSSL := os.Getenv("MINIO_USE_SSL") == "true"

		minioBucket = os.Getenv("MINIO_BUCKET")
		if minioBucket == "" {
			minioBucket = "cloudvault"
		}

		var client *minio.Client
		client, err = minio.New(endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
			Secure: useSSL,
		})
		if err != nil {
			err = fmt.Errorf("minio client init failed: %w", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		exists, bErr := client.BucketExists(ctx, minioBucket)
		if bErr != nil {
			err = fmt.Errorf("minio bucket check failed: %w", bErr)
			return
		}
		if !exists {
			if mErr := client.MakeBucket(ctx, minioBucket, minio.MakeBucketOptions{}); mErr != nil {
				err = fmt.Errorf("minio bucket create failed: %w", mErr)
				return
			}
		}

		minioClient = client
		log.Printf("Connected to MinIO at %s (bucket %s)", endpoint, minioBucket)
	})
	return minioClient, err
}

// GetMinioClient returns the initialized MinIO client (may be nil if ConnectMinio failed or not called).
func GetMinioClient() *minio.Client {
	return minioClient
}

// GetMinioBucket returns the bucket name resolved during ConnectMinio.
func GetMinioBucket() string {
	return minioBucket
}
