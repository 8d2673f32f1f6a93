package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"poolhall_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchiveExportService mirrors completed-match archives to S3 as JSON
// snapshots, so history survives independently of the store. Export is
// best-effort and never blocks archival.
type ArchiveExportService struct {
	Client *s3.Client
	Bucket string
}

// NewArchiveExportService wires the exporter from the environment. Returns
// nil (exports disabled) when no bucket is configured.
func NewArchiveExportService() *ArchiveExportService {
	bucket := os.Getenv("ARCHIVE_EXPORT_BUCKET")
	if bucket == "" {
		return nil
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Printf("⚠️ Archive export disabled, failed to load AWS config: %v", err)
		return nil
	}
	return &ArchiveExportService{Client: s3.NewFromConfig(cfg), Bucket: bucket}
}

// ExportArchive uploads the archive snapshot and returns its object key
func (es *ArchiveExportService) ExportArchive(ctx context.Context, archive models.MatchArchive) (string, error) {
	body, err := json.Marshal(archive)
	if err != nil {
		return "", fmt.Errorf("failed to marshal archive %s: %w", archive.ID, err)
	}

	key := "match-archives/" + archive.ID + ".json"
	_, err = es.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(es.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload archive %s: %w", archive.ID, err)
	}
	return key, nil
}

// GenerateReadURL generates a presigned URL for downloading an exported archive
func (es *ArchiveExportService) GenerateReadURL(ctx context.Context, key string) (string, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(es.Bucket),
		Key:    aws.String(key),
	}
	presigner := s3.NewPresignClient(es.Client)
	presignedURL, err := presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", err
	}
	return presignedURL.URL, nil
}
