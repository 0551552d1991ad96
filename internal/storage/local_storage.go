package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage keeps uploaded artifacts on disk, keyed by their stored
// filename. Files are fanned out into subdirectories by the first two
// characters of the key so no single directory grows unbounded.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (ls *LocalStorage) pathForKey(key string) string {
	prefix := key
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return filepath.Join(ls.basePath, prefix, key)
}

func (ls *LocalStorage) Save(key string, data io.Reader) (int64, error) {
	filePath := ls.pathForKey(key)

	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return 0, err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return io.Copy(file, data)
}

func (ls *LocalStorage) Get(key string) (io.ReadCloser, error) {
	file, err := os.Open(ls.pathForKey(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact %s not found: %w", key, err)
		}
		return nil, err
	}
	return file, nil
}

// Delete removes the artifact. A missing artifact is not an error; the
// cascade delete retries keys whose rows may already outlive their artifacts.
func (ls *LocalStorage) Delete(key string) error {
	err := os.Remove(ls.pathForKey(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
