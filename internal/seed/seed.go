// Package seed opens the delimited merit seed file from the local disk or
// from an R2 bucket. Names ending in ".zst" are decompressed transparently.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	domerrors "github.com/garyellow/merit-linebot-go/internal/errors"
	"github.com/garyellow/merit-linebot-go/internal/r2client"
)

// CompressedSuffix marks zstd-compressed seed files and object keys.
const CompressedSuffix = ".zst"

// FileSource reads the seed from a local path.
type FileSource struct {
	Path string
}

// Open opens the file. A missing file yields an error wrapping errors.ErrNotFound.
func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("seed file %s: %w", s.Path, domerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	return maybeDecompress(s.Path, f)
}

// Name implements storage.SeedSource.
func (FileSource) Name() string { return "file" }

// ObjectGetter is the subset of *r2client.Client used by R2Source.
type ObjectGetter interface {
	Get(ctx context.Context, key string) (io.ReadCloser, r2client.Object, error)
}

// R2Source reads the seed from an object in an R2 bucket.
type R2Source struct {
	Client ObjectGetter
	Key    string
}

// Open downloads the object. r2client.ErrNotFound already wraps errors.ErrNotFound.
func (s R2Source) Open(ctx context.Context) (io.ReadCloser, error) {
	body, obj, err := s.Client.Get(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("seed object %s: %w", s.Key, err)
	}
	slog.DebugContext(ctx, "seed object opened", "key", obj.Key, "etag", obj.ETag, "size", obj.Size)
	return maybeDecompress(s.Key, body)
}

// Name implements storage.SeedSource.
func (R2Source) Name() string { return "r2" }

type zstdReadCloser struct {
	*zstd.Decoder
	src io.Closer
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.src.Close()
}

func maybeDecompress(name string, rc io.ReadCloser) (io.ReadCloser, error) {
	if !strings.HasSuffix(name, CompressedSuffix) {
		return rc, nil
	}
	dec, err := zstd.NewReader(rc)
	if err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return zstdReadCloser{Decoder: dec, src: rc}, nil
}

// Compress writes src to dst as a zstd stream.
func Compress(dst io.Writer, src io.Reader) error {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("compress: create encoder: %w", err)
	}
	if _, err := io.Copy(enc, src); err != nil {
		_ = enc.Close()
		return fmt.Errorf("compress: copy: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("compress: close encoder: %w", err)
	}
	return nil
}
