package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSClient struct {
	client    *storage.Client
	bucket    string
	uploadTTL time.Duration
}

func NewGCSClient(bucket, credentialsFile string, uploadTTL time.Duration) (*GCSClient, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}

	return &GCSClient{
		client:    client,
		bucket:    bucket,
		uploadTTL: uploadTTL,
	}, nil
}

func (c *GCSClient) UploadFile(file *multipart.FileHeader, key string) (string, error) {
	ctx := context.Background()
	obj := c.client.Bucket(c.bucket).Object(key)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	writer := obj.NewWriter(ctx)
	writer.ContentType = file.Header.Get("Content-Type")
	if _, err = io.Copy(writer, src); err != nil {
		writer.Close()
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	return key, nil
}

func (c *GCSClient) DeleteFile(key string) error {
	ctx := context.Background()
	err := c.client.Bucket(c.bucket).Object(key).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	return err
}

func (c *GCSClient) PresignUpload(key, contentType string) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		Expires:     time.Now().Add(c.uploadTTL),
		ContentType: contentType,
	}
	return c.client.Bucket(c.bucket).SignedURL(key, opts)
}

func (c *GCSClient) FileURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucket, key)
}
