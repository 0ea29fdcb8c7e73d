package repository

import (
	"strings"

	"github.com/fabiofranco85/escala/internal/storage"
)

// MarkdownOutput stores rendered setlists as <id>.md through the
// configured storage backend (local directory or S3-compatible bucket).
type MarkdownOutput struct {
	client *storage.Client
}

func NewMarkdownOutput(client *storage.Client) *MarkdownOutput {
	return &MarkdownOutput{client: client}
}

func markdownKey(id string) string {
	return id + ".md"
}

func (r *MarkdownOutput) SaveMarkdown(id, content string) (string, error) {
	key := markdownKey(id)
	if err := r.client.Put(key, strings.NewReader(content), "text/markdown"); err != nil {
		return "", err
	}
	return r.client.Location(key), nil
}

func (r *MarkdownOutput) MarkdownPath(id string) string {
	return r.client.Location(markdownKey(id))
}

func (r *MarkdownOutput) DeleteOutputs(id string) ([]string, error) {
	var deleted []string
	key := markdownKey(id)
	ok, err := r.client.Exists(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if err := r.client.Delete(key); err != nil {
		return nil, err
	}
	deleted = append(deleted, r.client.Location(key))
	return deleted, nil
}
