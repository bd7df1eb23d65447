// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var r2Client *s3.Client
var r2Bucket string

// InitR2 sets up the R2 client used to archive settlement receipts.
// Archiving is optional: if R2_BUCKET_NAME is unset the archive is disabled
// and settlements proceed without it.
func InitR2() error {
	r2Bucket = os.Getenv("R2_BUCKET_NAME")
	if r2Bucket == "" {
		log.Println("⚠️  R2_BUCKET_NAME not set — receipt archive disabled")
		return nil
	}

	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load R2 config: %w", err)
	}

	r2Client = s3.NewFromConfig(cfg)
	return nil
}

// ReceiptArchiveEnabled reports whether InitR2 configured a client.
func ReceiptArchiveEnabled() bool {
	return r2Client != nil
}

// UploadReceipt stores a marshaled settlement receipt under the given key.
// key is the R2 object key (e.g., "receipts/abc123.json").
func UploadReceipt(ctx context.Context, key string, body []byte) error {
	if r2Client == nil {
		return fmt.Errorf("receipt archive not configured")
	}

	_, err := r2Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r2Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload receipt to R2: %w", err)
	}
	return nil
}
