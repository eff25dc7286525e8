package objstorage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/logger"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/metrics"
	"go.uber.org/zap"
)

// imageExtensions limits gallery listings to renderable assets
var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".avif": true,
}

// StorageClient talks to the Supabase Storage gallery bucket over its
// S3-compatible endpoint
type StorageClient struct {
	s3Client      *s3.Client
	bucketName    string
	publicBaseURL string
}

// NewStorageClient creates a Supabase Storage client using the S3 SDK.
// endpoint is the project's S3 endpoint (…/storage/v1/s3); publicBaseURL is
// the public object prefix (…/storage/v1/object/public) used to build the
// URLs the gallery page renders.
func NewStorageClient(accessKeyID, secretAccessKey, bucketName, endpoint, publicBaseURL, region string) (*StorageClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("storage endpoint is required")
	}
	if region == "" {
		// Supabase accepts any region for its S3 gateway; us-east-1 is the
		// documented default
		region = "us-east-1"
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
		Credentials: credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"",
		),
	})

	logger.Info("Supabase Storage client initialized",
		zap.String("bucket", bucketName),
		zap.String("endpoint", endpoint),
	)

	return &StorageClient{
		s3Client:      s3Client,
		bucketName:    bucketName,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// ListGalleryImages returns public URLs for every image under the given
// prefix, sorted as the bucket lists them (lexicographic by key)
func (s *StorageClient) ListGalleryImages(ctx context.Context, prefix string) ([]string, error) {
	start := time.Now()
	operation := "listGalleryImages"

	urls := make([]string, 0, 32)
	paginator := s3.NewListObjectsV2Paginator(s.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			duration := metrics.MeasureDuration(start)
			metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
			metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
			logger.LogAPICall("supabase_storage", operation, "error", duration, zap.Error(err))
			return nil, fmt.Errorf("failed to list gallery bucket: %w", err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !isImageKey(key) {
				continue
			}
			urls = append(urls, fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucketName, key))
		}
	}

	duration := metrics.MeasureDuration(start)
	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall("supabase_storage", operation, "success", duration,
		zap.Int("count", len(urls)))

	return urls, nil
}

func isImageKey(key string) bool {
	if key == "" || strings.HasSuffix(key, "/") {
		return false
	}
	idx := strings.LastIndex(key, ".")
	if idx < 0 {
		return false
	}
	return imageExtensions[strings.ToLower(key[idx:])]
}
