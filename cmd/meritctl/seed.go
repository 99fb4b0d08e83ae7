package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garyellow/merit-linebot-go/internal/app"
	"github.com/garyellow/merit-linebot-go/internal/seed"
	"github.com/garyellow/merit-linebot-go/internal/storage"
)

func newSeedCmd() *cobra.Command {
	var (
		replace bool
		file    string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import the seed file into the database",
		Long: "Import the configured seed file (MERIT_SEED_PATH or MERIT_SEED_R2_KEY) into merit_data.\n" +
			"Without --replace an already populated table is left untouched.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = e.db.Close() }()

			ctx := cmd.Context()
			var src storage.SeedSource = seed.FileSource{Path: file}
			if file == "" {
				if src, err = app.SeedSource(ctx, e.cfg); err != nil {
					return err
				}
			}

			if !replace {
				n, err := e.db.SeedIfEmpty(ctx, src)
				if err != nil {
					return err
				}
				if n == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "merit_data already populated; use --replace to reload")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows from %s\n", n, src.Name())
				return nil
			}

			records, err := storage.ReadSeed(ctx, src)
			if err != nil {
				return err
			}
			if err := e.db.ReplaceRecords(ctx, records); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "replaced merit_data with %d rows from %s\n", len(records), src.Name())
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "delete existing rows before importing")
	cmd.Flags().StringVar(&file, "file", "", "read this local file instead of the configured seed")
	return cmd
}
