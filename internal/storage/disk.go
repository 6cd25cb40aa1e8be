package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrInvalidName = errors.New("invalid photo name")

// DiskStore writes photos into a local directory that is also served over HTTP
// under urlPrefix.
type DiskStore struct {
	dir       string
	urlPrefix string
}

// NewDiskStore creates dir if it does not exist yet.
func NewDiskStore(dir, urlPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &DiskStore{dir: dir, urlPrefix: urlPrefix}, nil
}

// Dir returns the upload directory.
func (s *DiskStore) Dir() string { return s.dir }

// Save writes body into dir and publishes it as name, or as a suffixed
// variant when name is already taken. Existing photos are never replaced. It
// returns the name the photo was stored under.
func (s *DiskStore) Save(_ context.Context, name string, body io.Reader) (string, error) {
	if _, err := s.path(name); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod %s: %w", name, err)
	}

	// os.Link fails when the target exists, so publishing never overwrites.
	for _, candidate := range candidateNames(name) {
		err := os.Link(tmp.Name(), filepath.Join(s.dir, candidate))
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("publish %s: %w", candidate, err)
		}
	}
	return "", ErrNameTaken
}

// Delete removes dir/name. A missing file is not an error.
func (s *DiskStore) Delete(_ context.Context, name string) error {
	full, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// URL is the public path of a stored photo.
func (s *DiskStore) URL(name string) string {
	return path.Join(s.urlPrefix, url.PathEscape(name))
}

func (s *DiskStore) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}
