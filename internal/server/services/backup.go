package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/wardminutes/internal/netx"
	sc "github.com/dmitrijs2005/wardminutes/internal/server/config"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// BackupService hands out presigned PUT URLs for export files.
type BackupService struct {
	config *sc.Config
	now    func() time.Time
}

func NewBackupService(cfg *sc.Config) *BackupService {
	return &BackupService{config: cfg, now: time.Now}
}

// BackupKey is backups/YYYY/MM/DD/<uuid>.json for the UTC day of t.
func BackupKey(t time.Time) string {
	d := t.UTC()
	return fmt.Sprintf("backups/%04d/%02d/%02d/%s.json", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *BackupService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignBackup returns a fresh object key and a URL that accepts one PUT
// of the backup body.
func (s *BackupService) PresignBackup(ctx context.Context) (string, string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("s3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := BackupKey(s.now())

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(netx.JSONContentType),
	}, s3.WithPresignExpires(s.config.BackupURLValidityDuration))
	if err != nil {
		return "", "", fmt.Errorf("presign: %w", err)
	}

	return key, req.URL, nil
}
