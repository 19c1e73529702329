package storage

import (
	"fmt"
	"mime/multipart"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type S3Client struct {
	s3        *s3.S3
	bucket    string
	uploadTTL time.Duration
}

func NewS3Client(region, bucket string, uploadTTL time.Duration) (*S3Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &S3Client{
		s3:        s3.New(sess),
		bucket:    bucket,
		uploadTTL: uploadTTL,
	}, nil
}

func (c *S3Client) UploadFile(file *multipart.FileHeader, key string) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	_, err = c.s3.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", err
	}

	return key, nil
}

func (c *S3Client) DeleteFile(key string) error {
	_, err := c.s3.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	return err
}

// PresignUpload returns a time-limited PUT URL the client uploads to before
// referencing the key in a create-post call.
func (c *S3Client) PresignUpload(key, contentType string) (string, error) {
	req, _ := c.s3.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	return req.Presign(c.uploadTTL)
}

func (c *S3Client) FileURL(key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucket, key)
}
