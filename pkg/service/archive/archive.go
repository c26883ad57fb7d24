// Package archive stores report bundles outside the data store
package archive

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Service uploads one named file and returns where it was stored
type Service interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

func validateName(name string) error {
	if name == "" || strings.Contains(name, "..") || filepath.IsAbs(name) {
		return goerr.New("invalid archive object name", goerr.V("name", name))
	}
	return nil
}

// Directory writes files under a local directory
type Directory struct {
	baseDir string
}

var _ Service = &Directory{}

func NewDirectory(baseDir string) (*Directory, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, goerr.Wrap(err, "failed to create archive directory", goerr.V("dir", baseDir))
	}
	return &Directory{baseDir: baseDir}, nil
}

func (d *Directory) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	path := filepath.Join(d.baseDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", goerr.Wrap(err, "failed to create archive directory", goerr.V("path", path))
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return "", goerr.Wrap(err, "failed to write archive file", goerr.V("path", tmp))
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", goerr.Wrap(err, "failed to commit archive file", goerr.V("path", path))
	}
	return path, nil
}
