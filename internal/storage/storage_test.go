package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"alcyxob/workout-tracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "export.csv"), []byte("title\n"), 0o600))
	src := FileSource{Root: dir}

	rc, err := src.Open(context.Background(), "export.csv")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "title\n", string(body))

	_, err = src.Open(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	outside := filepath.Join(filepath.Dir(dir), "outside.csv")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))
	t.Cleanup(func() { os.Remove(outside) })
	_, err = src.Open(context.Background(), "../outside.csv")
	assert.ErrorIs(t, err, ErrObjectNotFound, "keys cannot climb out of the root")
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		endpoint string
		useSSL   bool
		want     string
	}{
		{"", true, ""},
		{"localhost:9000", false, "http://localhost:9000"},
		{"s3.example.com/", true, "https://s3.example.com"},
		{"http://minio:9000", true, "http://minio:9000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EndpointURL(tt.endpoint, tt.useSSL), tt.endpoint)
	}
}

func TestNewS3SourceRequiresBucket(t *testing.T) {
	_, err := NewS3Source(context.Background(), config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}
