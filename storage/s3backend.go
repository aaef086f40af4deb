package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spagettikod/vsixinstaller/vscode"
)

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	CredentialsFile string
	Profile         string
	useSSL          bool
}

// NewS3Config parses the endpoint URL, for example http://localhost:9000.
// Static keys take precedence over the credentials file.
func NewS3Config(urlStr, region, accessKeyID, secretAccessKey, credentialsFile, profile string) (S3Config, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return S3Config{}, err
	}
	if u.Host == "" {
		return S3Config{}, fmt.Errorf("%w: S3 endpoint %q must be a URL", ErrUnsupportedLocation, urlStr)
	}
	return S3Config{
		Endpoint:        u.Host,
		Region:          region,
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		CredentialsFile: credentialsFile,
		Profile:         profile,
		useSSL:          u.Scheme == "https",
	}, nil
}

func (cfg S3Config) credentials() *credentials.Credentials {
	if cfg.AccessKeyID != "" {
		return credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	return credentials.NewFileAWSCredentials(cfg.CredentialsFile, cfg.Profile)
}

type S3Backend struct {
	c   *minio.Client
	bkt string
	cfg S3Config
}

func NewS3Backend(cfg S3Config) (*S3Backend, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: S3 endpoint is not configured", ErrUnsupportedLocation)
	}
	c, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  cfg.credentials(),
		Secure: cfg.useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	return &S3Backend{
		c:   c,
		bkt: cfg.Bucket,
		cfg: cfg,
	}, nil
}

func (s3 *S3Backend) key(uid vscode.UniqueID) string {
	return path.Join(s3.cfg.Prefix, PackagePath(uid))
}

func (s3 *S3Backend) SavePackage(ctx context.Context, uid vscode.UniqueID, r io.Reader, size int64) (string, error) {
	objectName := s3.key(uid)
	_, err := s3.c.PutObject(ctx, s3.bkt, objectName, r, size, minio.PutObjectOptions{
		ContentType: packageContentType,
	})
	if err != nil {
		return "", fmt.Errorf("error putting object %v: %w", objectName, err)
	}
	return fmt.Sprintf("s3://%s/%s", s3.bkt, objectName), nil
}
