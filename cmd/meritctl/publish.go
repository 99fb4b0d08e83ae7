package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/garyellow/merit-linebot-go/internal/app"
	"github.com/garyellow/merit-linebot-go/internal/config"
	"github.com/garyellow/merit-linebot-go/internal/r2client"
	"github.com/garyellow/merit-linebot-go/internal/seed"
	"github.com/garyellow/merit-linebot-go/internal/storage"
)

func newPublishCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "publish <seed.csv>",
		Short: "Validate a seed file and upload it to R2",
		Long: "Parse the file with the same rules as startup, then upload it to the configured bucket.\n" +
			"Keys ending in " + seed.CompressedSuffix + " are zstd-compressed before upload.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if key == "" {
				key = cfg.SeedR2Key
			}
			if key == "" {
				key = filepath.Base(args[0])
			}

			payload, err := preparePublish(args[0], key)
			if err != nil {
				return err
			}

			client, err := app.NewR2Client(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if prev, err := client.Stat(cmd.Context(), key); err == nil {
				_, _ = fmt.Fprintf(out, "replacing %s (etag %s, %s rows)\n", key, prev.ETag, prev.Metadata[r2client.MetaRows])
			} else if !errors.Is(err, r2client.ErrNotFound) {
				return err
			}

			obj, err := client.Put(cmd.Context(), key, payload.Body, payload.ContentType, map[string]string{
				r2client.MetaRows: strconv.Itoa(payload.Rows),
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "uploaded %s to %s/%s (%d rows, %d bytes, etag %s)\n",
				args[0], client.Bucket(), obj.Key, payload.Rows, obj.Size, obj.ETag)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "object key (default MERIT_SEED_R2_KEY or the file name)")
	return cmd
}

type publishPayload struct {
	Body        []byte
	ContentType string
	Rows        int
}

// preparePublish validates the seed file at path and encodes it for key.
func preparePublish(path, key string) (publishPayload, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return publishPayload{}, err
	}
	records, err := storage.ParseCSV(bytes.NewReader(raw))
	if err != nil {
		return publishPayload{}, fmt.Errorf("validate %s: %w", path, err)
	}
	if len(records) == 0 {
		return publishPayload{}, errors.New("seed file has no rows")
	}

	if !strings.HasSuffix(key, seed.CompressedSuffix) {
		return publishPayload{Body: raw, ContentType: "text/csv", Rows: len(records)}, nil
	}
	var buf bytes.Buffer
	if err := seed.Compress(&buf, bytes.NewReader(raw)); err != nil {
		return publishPayload{}, fmt.Errorf("compress: %w", err)
	}
	return publishPayload{Body: buf.Bytes(), ContentType: "application/zstd", Rows: len(records)}, nil
}
