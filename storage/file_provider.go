package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileProvider stores each key as a JSON file under a data directory. Writes
// land in a temp file first and are renamed into place, so an interrupted
// write never corrupts the previous snapshot.
type FileProvider struct {
	dir string
}

func NewFileProvider(dir string) (*FileProvider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileProvider{dir: dir}, nil
}

func (p *FileProvider) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(p.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

func (p *FileProvider) Set(ctx context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(p.dir, key+"-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p.path(key))
}

func (p *FileProvider) Close() error {
	return nil
}

func (p *FileProvider) path(key string) string {
	return filepath.Join(p.dir, key+".json")
}
