// Package storagecheck verifies that the console can reach a backup storage
// with the credentials a user supplied before the BackupStorage is saved.
package storagecheck

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/everest-platform/console/models"
)

const (
	defaultS3Region = "us-east-1"
	checkTimeout    = 30 * time.Second
)

var (
	// ErrUnsupportedType is returned for a storage type without a checker.
	ErrUnsupportedType = errors.New("unsupported backup storage type")
	// ErrAccess is returned when the storage rejects the credentials or the bucket is missing.
	ErrAccess = errors.New("could not access backup storage")
)

// Params describe the storage to check.
type Params struct {
	Type      models.BackupStorageType
	Bucket    string
	Region    string
	URL       string
	AccessKey string
	SecretKey string
	// ForcePathStyle selects path style S3 addressing.
	ForcePathStyle bool
	// VerifyTLS false disables certificate verification.
	VerifyTLS bool
}

// Checker verifies storage access.
type Checker interface {
	Check(ctx context.Context, p Params) error
}

// Default checks S3 and Azure storages with the vendor SDKs.
type Default struct{}

var _ Checker = Default{}

// Check implements Checker.
func (Default) Check(ctx context.Context, p Params) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var err error
	switch p.Type {
	case models.BackupStorageTypeS3:
		err = checkS3(ctx, p)
	case models.BackupStorageTypeAzure:
		err = checkAzure(ctx, p)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, p.Type)
	}
	if err != nil {
		return errors.Join(ErrAccess, err)
	}
	return nil
}

// Noop accepts every storage. It backs --skip-storage-check.
type Noop struct{}

// Check implements Checker.
func (Noop) Check(context.Context, Params) error { return nil }

func httpClient(verifyTLS bool) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if !verifyTLS {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return &http.Client{Transport: tr}
}

// s3HTTPClient returns a client the AWS config loader can still customise,
// for example with the AWS_CA_BUNDLE root CAs.
func s3HTTPClient(verifyTLS bool) *awshttp.BuildableClient {
	c := awshttp.NewBuildableClient()
	if verifyTLS {
		return c
	}
	return c.WithTransportOptions(func(tr *http.Transport) {
		if tr.TLSClientConfig == nil {
			tr.TLSClientConfig = &tls.Config{} //nolint:gosec
		}
		tr.TLSClientConfig.InsecureSkipVerify = true
	})
}

func checkS3(ctx context.Context, p Params) error {
	region := strings.TrimSpace(p.Region)
	if region == "" {
		region = defaultS3Region
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(p.AccessKey, p.SecretKey, "")),
		config.WithHTTPClient(s3HTTPClient(p.VerifyTLS)),
	)
	if err != nil {
		return fmt.Errorf("failed to load s3 config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := strings.TrimSpace(p.URL); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = p.ForcePathStyle
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(p.Bucket)}); err != nil {
		return fmt.Errorf("bucket %s: %w", p.Bucket, err)
	}
	if _, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(p.Bucket),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("list bucket %s: %w", p.Bucket, err)
	}
	return nil
}

// azureContainerURL builds the container URL. The access key is the storage account name.
func azureContainerURL(p Params) string {
	serviceURL := strings.TrimRight(strings.TrimSpace(p.URL), "/")
	if serviceURL == "" {
		serviceURL = fmt.Sprintf("https://%s.blob.core.windows.net", p.AccessKey)
	}
	return fmt.Sprintf("%s/%s", serviceURL, p.Bucket)
}

func checkAzure(ctx context.Context, p Params) error {
	cred, err := azblob.NewSharedKeyCredential(p.AccessKey, p.SecretKey)
	if err != nil {
		return fmt.Errorf("invalid azure credentials: %w", err)
	}
	client, err := container.NewClientWithSharedKeyCredential(azureContainerURL(p), cred, &container.ClientOptions{
		ClientOptions: azcore.ClientOptions{Transport: httpClient(p.VerifyTLS)},
	})
	if err != nil {
		return err
	}
	if _, err := client.GetProperties(ctx, nil); err != nil {
		return fmt.Errorf("container %s: %w", p.Bucket, err)
	}
	return nil
}
