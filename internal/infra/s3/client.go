package s3

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"watermark-service/internal/config"
)

// Client wraps the S3 service for one bucket behind one canonical host.
type Client struct {
	bucketName string
	storeHost  string
	svc        *s3.S3
}

// NewClient creates a new S3 client instance
func NewClient(cfg *config.Config) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})

	if err != nil {
		return nil, err
	}

	return &Client{
		bucketName: cfg.Watermark.BucketName,
		storeHost:  cfg.Watermark.StoreHost,
		svc:        s3.New(sess),
	}, nil
}
