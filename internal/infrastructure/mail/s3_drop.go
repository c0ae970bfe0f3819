package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ever-co/invoicing/internal/infrastructure/config"
	"go.uber.org/zap"
)

// S3MailDrop writes each message as a JSON object into an S3-compatible
// bucket where the mail relay picks it up
type S3MailDrop struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// S3MailDropOption configures an S3MailDrop
type S3MailDropOption func(*S3MailDrop)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) S3MailDropOption {
	return func(d *S3MailDrop) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewS3MailDrop creates the S3 client. Static credentials are used when
// configured; otherwise the default AWS credential chain applies.
func NewS3MailDrop(ctx context.Context, cfg *config.MailConfig, opts ...S3MailDropOption) (*S3MailDrop, error) {
	if cfg == nil {
		return nil, errors.New("mail configuration is required")
	}
	if cfg.S3Bucket == "" {
		return nil, errors.New("mail drop bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" || cfg.S3SecretKey != "" {
		if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
			return nil, errors.New("mail drop needs both access key and secret key")
		}
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
		// S3-compatible stores reject the default trailing checksums
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	drop := &S3MailDrop{
		client: client,
		bucket: cfg.S3Bucket,
		prefix: strings.Trim(cfg.S3Prefix, "/"),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(drop)
	}
	return drop, nil
}

// Name returns the transport name
func (d *S3MailDrop) Name() string { return "s3" }

// Send uploads msg to <prefix>/<yyyy>/<mm>/<dd>/<message id>.json
func (d *S3MailDrop) Send(ctx context.Context, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode mail message: %w", err)
	}

	key := d.objectKey(msg)
	_, err = d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload mail message: %w", err)
	}

	d.logger.Info("Mail dropped",
		zap.String("bucket", d.bucket),
		zap.String("key", key),
		zap.String("template", msg.Template),
	)
	return nil
}

func (d *S3MailDrop) objectKey(msg *Message) string {
	created := msg.CreatedAt.UTC()
	return path.Join(d.prefix, created.Format("2006/01/02"), msg.ID.String()+".json")
}
