package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"xcmScope/internal/model"
	"xcmScope/internal/storage"
)

const contentType = "application/x-ndjson"

// Config holds the connection settings of an S3 or S3-compatible store.
type Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store writes one JSONL object per transfer batch.
type Store struct {
	client objectPutter
	bucket string
	prefix string
}

func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("s3 access key id and secret access key are required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &Store{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// ObjectKey returns the key of the object holding kind records for a block range.
func ObjectKey(prefix, kind string, fromHeight, toHeight uint64) string {
	return path.Join(prefix, kind, fmt.Sprintf("%010d-%010d.jsonl", fromHeight, toHeight))
}

// PutTransferBatch uploads the accounts and transfers of a batch as two
// objects. Keys depend only on the block range, so a replayed batch
// overwrites its previous upload.
func (s *Store) PutTransferBatch(ctx context.Context, batch model.TransferBatch) error {
	if len(batch.Transfers) == 0 {
		return nil
	}
	if err := putJSONL(ctx, s, ObjectKey(s.prefix, "accounts", batch.FromHeight, batch.ToHeight), batch.Accounts); err != nil {
		return err
	}
	return putJSONL(ctx, s, ObjectKey(s.prefix, "transfers", batch.FromHeight, batch.ToHeight), batch.Transfers)
}

func putJSONL[T any](ctx context.Context, s *Store, key string, records []T) error {
	body, err := storage.EncodeJSONL(records)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}
