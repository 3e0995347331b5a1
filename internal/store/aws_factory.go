// Where: cli/internal/store/aws_factory.go
// What: AWS client factory for the credential store backends.
// Why: Encapsulate SDK configuration, including local endpoint overrides.
package store

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultAWSRegion = "us-east-1"

// Config selects the store backends.
type Config struct {
	Table    string
	Bucket   string
	Endpoint string // optional local endpoint override
}

// ClientFactory builds the index and blob backends.
type ClientFactory interface {
	Index(ctx context.Context, cfg Config) (IndexAPI, error)
	Blobs(ctx context.Context, cfg Config) (BlobAPI, error)
}

// NewClientFactory returns the AWS-backed factory.
func NewClientFactory() ClientFactory {
	return awsClientFactory{}
}

type awsClientFactory struct{}

func (awsClientFactory) Index(ctx context.Context, cfg Config) (IndexAPI, error) {
	if cfg.Table == "" {
		return nil, fmt.Errorf("credential store table is required")
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	client := dynamodb.NewFromConfig(awsCfg, func(options *dynamodb.Options) {
		if cfg.Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return awsDynamoClient{client: client, table: cfg.Table}, nil
}

func (awsClientFactory) Blobs(ctx context.Context, cfg Config) (BlobAPI, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("credential store bucket is required")
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.Endpoint)
			options.UsePathStyle = true
		}
	})
	return awsS3Client{client: client, bucket: cfg.Bucket}, nil
}

func loadAWSConfig(ctx context.Context, endpoint string) (aws.Config, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = defaultAWSRegion
	}

	options := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	// Local endpoints (minio/dynamodb-local) accept static dummy keys.
	if endpoint != "" {
		creds := credentials.NewStaticCredentialsProvider(localAccessKey(), localSecretKey(), "")
		options = append(options, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return aws.Config{}, err
	}
	return cfg, nil
}

func localAccessKey() string {
	if value := os.Getenv("MSB_STORE_ACCESS_KEY"); value != "" {
		return value
	}
	return "dummy"
}

func localSecretKey() string {
	if value := os.Getenv("MSB_STORE_SECRET_KEY"); value != "" {
		return value
	}
	return "dummy"
}
