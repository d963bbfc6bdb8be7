// Package tempfile hands out uniquely named scratch files below the elan
// temp directory.
package tempfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Factory creates temp files in Dir.
type Factory struct {
	Dir string
}

// New returns a factory rooted at dir.
func New(dir string) *Factory {
	return &Factory{Dir: dir}
}

// NewFileWithExt reserves an empty file named <prefix>-<uuid><ext> and
// returns its path with a cleanup func that removes it.
func (f *Factory) NewFileWithExt(prefix, ext string) (string, func(), error) {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	path := filepath.Join(f.Dir, prefix+"-"+uuid.New().String()+ext)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	return path, func() { _ = os.Remove(path) }, nil
}
