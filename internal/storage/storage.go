package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrObjectNotFound is returned when the requested import file does not exist.
var ErrObjectNotFound = errors.New("object not found in storage")

// Source hands out import files by key.
type Source interface {
	// Open returns a reader for the object. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// FileSource reads import files from a local directory. Keys are paths
// relative to Root; an empty Root uses keys as given.
type FileSource struct {
	Root string
}

func (s FileSource) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path := key
	if s.Root != "" {
		path = filepath.Join(s.Root, filepath.Clean("/"+key))
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
