package seed

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/garyellow/merit-linebot-go/internal/errors"
	"github.com/garyellow/merit-linebot-go/internal/r2client"
	"github.com/garyellow/merit-linebot-go/internal/storage"
)

const sampleCSV = "University,Campus,Department,Program,Year,Minimum Merit,Maximum Merit\n" +
	"Alpha U,Main,Computing,BS,2023,450,600\n"

type fakeDownloader struct {
	objects map[string][]byte
	closed  bool
}

func (f *fakeDownloader) Get(_ context.Context, key string) (io.ReadCloser, r2client.Object, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, r2client.Object{}, r2client.ErrNotFound
	}
	obj := r2client.Object{Key: key, ETag: "etag", Size: int64(len(data))}
	return &trackingCloser{Reader: bytes.NewReader(data), onClose: func() { f.closed = true }}, obj, nil
}

type trackingCloser struct {
	io.Reader
	onClose func()
}

func (c *trackingCloser) Close() error {
	c.onClose()
	return nil
}

func compressed(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Compress(&buf, strings.NewReader(s)))
	return buf.Bytes()
}

func TestFileSource(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	plain := filepath.Join(dir, "merit_list.csv")
	require.NoError(t, os.WriteFile(plain, []byte(sampleCSV), 0o600))
	zst := filepath.Join(dir, "merit_list.csv.zst")
	require.NoError(t, os.WriteFile(zst, compressed(t, sampleCSV), 0o600))

	for _, path := range []string{plain, zst} {
		records, err := storage.ReadSeed(context.Background(), FileSource{Path: path})
		require.NoError(t, err, path)
		require.Len(t, records, 1)
		assert.Equal(t, "Alpha U", records[0].University)
	}
}

func TestFileSourceMissing(t *testing.T) {
	t.Parallel()

	src := FileSource{Path: filepath.Join(t.TempDir(), "absent.csv")}
	_, err := src.Open(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domerrors.ErrNotFound))

	_, err = storage.ReadSeed(context.Background(), src)
	assert.True(t, domerrors.IsSeedMissing(err))
}

func TestR2Source(t *testing.T) {
	t.Parallel()
	dl := &fakeDownloader{objects: map[string][]byte{
		"seed/merit_list.csv.zst": compressed(t, sampleCSV),
	}}

	src := R2Source{Client: dl, Key: "seed/merit_list.csv.zst"}
	assert.Equal(t, "r2", src.Name())

	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, sampleCSV, string(data))
	assert.True(t, dl.closed, "closing the decoder must close the body")

	_, err = R2Source{Client: dl, Key: "missing.csv"}.Open(context.Background())
	assert.True(t, errors.Is(err, domerrors.ErrNotFound))
}
