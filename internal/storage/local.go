package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Local stores each blob as a file at <root>/<namespace>/<key>.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Local{root: root}, nil
}

// Put writes to a temp file in the namespace directory and renames it over
// the key, so readers never see a partial blob.
func (l *Local) Put(_ context.Context, namespace, key string, data []byte) error {
	if err := checkPath(namespace, key); err != nil {
		return err
	}
	dir := filepath.Join(l.root, namespace)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, key))
}

func (l *Local) Get(_ context.Context, namespace, key string) ([]byte, error) {
	if err := checkPath(namespace, key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(l.root, namespace, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (l *Local) Delete(_ context.Context, namespace, key string) error {
	if err := checkPath(namespace, key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(l.root, namespace, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) List(_ context.Context, namespace string) ([]string, error) {
	if err := checkKey(namespace); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(l.root, namespace))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".upload-") {
			continue
		}
		keys = append(keys, e.Name())
	}
	return keys, nil
}

func (l *Local) Close() error { return nil }
