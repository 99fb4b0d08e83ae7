// Package r2client reads and writes merit seed objects in a Cloudflare R2
// bucket through the S3-compatible API.
package r2client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	domerrors "github.com/garyellow/merit-linebot-go/internal/errors"
)

// ErrNotFound is returned when an object does not exist. It wraps the
// shared errors.ErrNotFound so the seed loader can map it to a missing seed.
var ErrNotFound = fmt.Errorf("r2client: object not found: %w", domerrors.ErrNotFound)

// MetaRows is the user metadata key carrying the row count of a published seed.
const MetaRows = "merit-rows"

// Config holds R2 client configuration.
type Config struct {
	Endpoint    string // https://<account>.r2.cloudflarestorage.com
	AccessKeyID string
	SecretKey   string
	BucketName  string
}

func (c Config) missing() []string {
	var names []string
	for _, f := range []struct{ name, v string }{
		{"endpoint", c.Endpoint},
		{"access key id", c.AccessKeyID},
		{"secret key", c.SecretKey},
		{"bucket", c.BucketName},
	} {
		if f.v == "" {
			names = append(names, f.name)
		}
	}
	return names
}

// EndpointForAccount returns the S3-compatible endpoint of a Cloudflare account.
func EndpointForAccount(accountID string) string {
	if accountID == "" {
		return ""
	}
	return "https://" + accountID + ".r2.cloudflarestorage.com"
}

// Object describes a stored seed object.
type Object struct {
	Key      string
	ETag     string
	Size     int64
	Metadata map[string]string
}

// Client is bound to one bucket.
type Client struct {
	s3     *s3.Client
	bucket string
}

// New creates a client. Every Config field is required.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if missing := cfg.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("r2client: missing %s", strings.Join(missing, ", "))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2client: load aws config: %w", err)
	}

	return &Client{
		s3: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}),
		bucket: cfg.BucketName,
	}, nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string { return c.bucket }

// Put stores body under key with the given user metadata.
func (c *Client) Put(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) (Object, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		Metadata:      metadata,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	out, err := c.s3.PutObject(ctx, input)
	if err != nil {
		return Object{}, fmt.Errorf("r2client: put %q: %w", key, err)
	}
	return Object{Key: key, ETag: unquote(out.ETag), Size: int64(len(body)), Metadata: metadata}, nil
}

// Get opens key for reading. The caller closes the body.
func (c *Client) Get(ctx context.Context, key string) (io.ReadCloser, Object, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, Object{}, classify("get", key, err)
	}
	return out.Body, Object{
		Key:      key,
		ETag:     unquote(out.ETag),
		Size:     aws.ToInt64(out.ContentLength),
		Metadata: out.Metadata,
	}, nil
}

// Stat returns the object's attributes without its body.
func (c *Client) Stat(ctx context.Context, key string) (Object, error) {
	out, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Object{}, classify("stat", key, err)
	}
	return Object{
		Key:      key,
		ETag:     unquote(out.ETag),
		Size:     aws.ToInt64(out.ContentLength),
		Metadata: out.Metadata,
	}, nil
}

func classify(op, key string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return fmt.Errorf("r2client: %s %q: %w", op, key, err)
}

func unquote(etag *string) string {
	return strings.Trim(aws.ToString(etag), `"`)
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noKey) || errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "404":
			return true
		}
	}
	var respErr *smithyhttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
