package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// Archiver uploads batch artifacts to S3 for long-term storage.
type Archiver struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewArchiver creates an S3 archiver using the default AWS config chain.
func NewArchiver(ctx context.Context, bucket, prefix string) (*Archiver, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	cli := s3.NewFromConfig(cfg)
	return &Archiver{
		uploader: manager.NewUploader(cli),
		bucket:   bucket,
		prefix:   prefix,
	}, nil
}

// UploadResults uploads the results JSON under a date-partitioned key and
// returns the s3:// URL of the stored object.
func (a *Archiver) UploadResults(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()

	key := path.Join(a.prefix, time.Now().UTC().Format("2006/01/02"), filepath.Base(localPath))
	_, err = a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload results to s3: %w", err)
	}

	url := fmt.Sprintf("s3://%s/%s", a.bucket, key)
	log.Info().Str("bucket", a.bucket).Str("key", key).Msg("archived results to s3")
	return url, nil
}
