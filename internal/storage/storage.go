// Package storage persists rendered output files behind a pluggable
// provider: a local directory by default, or any S3-compatible bucket.
package storage

import (
	"io"
	"log"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/fabiofranco85/escala/internal/config"
)

type Client struct {
	backend Provider
}

func New(cfg *config.Config) *Client {
	var backend Provider

	// 1. Internal Selection Logic
	if cfg.Storage.Backend == "s3" {
		s3Config := &aws.Config{
			Credentials:      credentials.NewStaticCredentials(cfg.Storage.KeyID, cfg.Storage.AppKey, ""),
			Endpoint:         aws.String(cfg.Storage.Endpoint),
			Region:           aws.String(cfg.Storage.Region),
			S3ForcePathStyle: aws.Bool(true),
		}
		sess := session.Must(session.NewSession(s3Config))
		backend = NewS3Provider(sess, cfg.Storage.Bucket)
		log.Printf("✅ Output storage: s3 bucket %q", cfg.Storage.Bucket)
	} else {
		backend = NewLocalProvider(cfg.Storage.OutputDir)
		log.Printf("✅ Output storage: local directory %q", cfg.Storage.OutputDir)
	}

	return &Client{backend: backend}
}

// NewWithProvider wires a specific backend; tests use it to stay off
// the network.
func NewWithProvider(p Provider) *Client {
	return &Client{backend: p}
}

func (c *Client) List(prefix string) ([]string, error) {
	return c.backend.List(prefix)
}

func (c *Client) Get(key string) (*FileObject, error) {
	return c.backend.Get(key)
}

func (c *Client) Put(key string, body io.ReadSeeker, contentType string) error {
	return c.backend.Put(key, body, contentType)
}

func (c *Client) Delete(key string) error {
	return c.backend.Delete(key)
}

func (c *Client) Exists(key string) (bool, error) {
	return c.backend.Exists(key)
}

func (c *Client) Location(key string) string {
	return c.backend.Location(key)
}
