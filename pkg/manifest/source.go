package manifest

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tata1mg/catalyst-go/internal/errors"
)

// Source supplies raw manifest bytes. Implementations exist for the local
// filesystem and S3-compatible object stores; deployments choose per
// environment.
type Source interface {
	// Fetch returns the current bytes of the file.
	Fetch(ctx context.Context) ([]byte, error)

	// Name identifies the source in logs and error messages.
	Name() string
}

// FileSource reads a manifest file from the local filesystem.
type FileSource struct {
	Path string
}

// NewFileSource creates a Source backed by a local file.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Fetch reads the file.
func (f *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.New("E101").Wrap(err)
	}
	return data, nil
}

// Name returns the file path.
func (f *FileSource) Name() string { return f.Path }

// S3Source reads a manifest object from S3. Production deployments that
// build on one machine and serve on another publish the manifest to an
// object store and point the server here.
type S3Source struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Source creates a Source backed by an S3 object.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	src := manifest.NewS3Source(s3.NewFromConfig(cfg), "builds", "web/manifest.json")
func NewS3Source(client *s3.Client, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// Fetch downloads the object.
func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, errors.New("E101").Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E101").Wrap(err)
	}
	return data, nil
}

// Name returns the s3:// URL of the object.
func (s *S3Source) Name() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

// BytesSource serves fixed bytes. Primarily useful in tests.
type BytesSource struct {
	Label string
	Data  []byte
}

// Fetch returns the fixed bytes.
func (b *BytesSource) Fetch(ctx context.Context) ([]byte, error) {
	return b.Data, nil
}

// Name returns the label.
func (b *BytesSource) Name() string { return b.Label }
