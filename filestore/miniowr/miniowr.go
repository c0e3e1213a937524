// Package miniowr stores files as objects of a MinIO or other S3 compatible bucket.
// An object key is the configured prefix followed by the store path.
package miniowr

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/code19m/errx"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rise-and-shine/eventhub/filestore"
)

const codeNoSuchKey = "NoSuchKey"

// Client is a filestore.FileStore backed by one bucket.
type Client struct {
	api    *minio.Client
	bucket string
	region string
	prefix string
}

var _ filestore.FileStore = (*Client)(nil)

// New connects lazily; no request is made until the first operation.
func New(cfg Config) (*Client, error) {
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"endpoint": cfg.Endpoint}))
	}

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &Client{api: api, bucket: cfg.Bucket, region: cfg.Region, prefix: prefix}, nil
}

// EnsureBucket creates the bucket if it is missing.
func (c *Client) EnsureBucket(ctx context.Context) error {
	ok, err := c.api.BucketExists(ctx, c.bucket)
	if err == nil && !ok {
		err = c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region})
	}
	return errx.Wrap(err, errx.WithDetails(errx.D{"bucket": c.bucket}))
}

// Upload buffers the content to learn its size and content type, then puts the object.
func (c *Client) Upload(ctx context.Context, path string, r io.Reader) (*filestore.FileInfo, error) {
	key, err := c.key(path)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	ct := http.DetectContentType(data)
	if filestore.IsGeneric(ct) {
		ct = filestore.ContentTypeByExtension(path)
	}

	up, err := c.api.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: ct})
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"bucket": c.bucket, "key": key}))
	}

	return &filestore.FileInfo{
		Path:         path,
		Size:         up.Size,
		ContentType:  ct,
		ETag:         up.ETag,
		LastModified: up.LastModified,
	}, nil
}

// Get stats the object first so that a missing key fails before any body is streamed.
func (c *Client) Get(ctx context.Context, path string) (*filestore.File, error) {
	key, err := c.key(path)
	if err != nil {
		return nil, err
	}
	stat, err := c.stat(ctx, path, key)
	if err != nil {
		return nil, err
	}

	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.mapErr(err, path)
	}

	return &filestore.File{
		Content: obj,
		Info: filestore.FileInfo{
			Path:         path,
			Size:         stat.Size,
			ContentType:  stat.ContentType,
			ETag:         stat.ETag,
			LastModified: stat.LastModified,
		},
	}, nil
}

// Delete reports FILE_NOT_FOUND for missing objects even though S3 deletes are idempotent.
func (c *Client) Delete(ctx context.Context, path string) error {
	key, err := c.key(path)
	if err != nil {
		return err
	}
	if _, err = c.stat(ctx, path, key); err != nil {
		return err
	}
	if err = c.api.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return c.mapErr(err, path)
	}
	return nil
}

func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	key, err := c.key(path)
	if err != nil {
		return false, err
	}
	_, err = c.stat(ctx, path, key)
	switch {
	case err == nil:
		return true, nil
	case filestore.IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

func (c *Client) key(path string) (string, error) {
	clean, err := filestore.CleanPath(path)
	if err != nil {
		return "", err
	}
	return c.prefix + clean, nil
}

func (c *Client) stat(ctx context.Context, path, key string) (minio.ObjectInfo, error) {
	info, err := c.api.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return info, c.mapErr(err, path)
	}
	return info, nil
}

func (c *Client) mapErr(err error, path string) error {
	if minio.ToErrorResponse(err).Code == codeNoSuchKey {
		return filestore.ErrNotFound(path)
	}
	return errx.Wrap(err, errx.WithDetails(errx.D{"bucket": c.bucket, "path": path}))
}
