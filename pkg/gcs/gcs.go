package gcs

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// Uploader writes history exports to a Google cloud storage bucket.
type Uploader struct {
	bucketName string
	bucket     *storage.BucketHandle
}

func NewUploader(ctx context.Context, credentialFile, bucketName string) (*Uploader, error) {
	opts := []option.ClientOption{}
	if credentialFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "error creating gcs client")
	}

	return &Uploader{
		bucketName: bucketName,
		bucket:     client.Bucket(bucketName),
	}, nil
}

func (u *Uploader) Upload(ctx context.Context, key string, contents io.Reader) (string, error) {
	w := u.bucket.Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, contents); err != nil {
		_ = w.Close()
		return "", errors.Wrapf(err, "error writing %s to bucket %s", key, u.bucketName)
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrapf(err, "error finalizing %s in bucket %s", key, u.bucketName)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucketName, key), nil
}
