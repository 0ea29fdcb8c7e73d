package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider keeps output files in a plain directory.
type LocalProvider struct {
	// RootPath is the directory holding the rendered files.
	RootPath string
}

func NewLocalProvider(root string) *LocalProvider {
	// Ensure the root directory exists
	_ = os.MkdirAll(root, 0755)
	return &LocalProvider{RootPath: root}
}

func (l *LocalProvider) List(prefix string) ([]string, error) {
	var keys []string

	err := filepath.Walk(l.RootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		// Convert OS path back to a flat key (forward slashes)
		rel, _ := filepath.Rel(l.RootPath, path)
		key := filepath.ToSlash(rel)

		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}

	return keys, err
}

func (l *LocalProvider) Get(key string) (*FileObject, error) {
	path := filepath.Join(l.RootPath, key)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &FileObject{
		Body:          f,
		ContentLength: stat.Size(),
		ContentType:   "application/octet-stream", // Local files don't store this
		LastModified:  stat.ModTime(),
	}, nil
}

func (l *LocalProvider) Put(key string, body io.ReadSeeker, contentType string) error {
	path := filepath.Join(l.RootPath, key)

	// Ensure sub-directories exist (e.g. root/folder/file.md)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, body)
	return err
}

func (l *LocalProvider) Delete(key string) error {
	return os.Remove(filepath.Join(l.RootPath, key))
}

func (l *LocalProvider) Exists(key string) (bool, error) {
	_, err := os.Stat(filepath.Join(l.RootPath, key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *LocalProvider) Location(key string) string {
	return filepath.Join(l.RootPath, key)
}
