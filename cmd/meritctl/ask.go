package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/garyellow/merit-linebot-go/internal/app"
	"github.com/garyellow/merit-linebot-go/internal/bot"
	"github.com/garyellow/merit-linebot-go/internal/ctxutil"
)

func newAskCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "ask <utterance>",
		Short: "Answer one question against the stored dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = e.db.Close() }()

			engine, extractor, err := app.BuildEngine(cmd.Context(), e.cfg, e.db, nil)
			if err != nil {
				return err
			}
			if extractor != nil {
				defer func() { _ = extractor.Close() }()
			}

			text := bot.Sanitize(strings.Join(args, " "))
			if text == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), bot.EmptyMessageReply)
				return nil
			}

			ctx := ctxutil.WithTransport(cmd.Context(), "cli")
			ans := engine.Answer(ctx, text)

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, ans.Text)
			if verbose {
				_, _ = fmt.Fprintf(out, "\noutcome: %s\nsource:  %s\nquery:   %+v\n", ans.Outcome, ans.Source, ans.Query)
				for _, r := range ans.Rows {
					_, _ = fmt.Fprintf(out, "  %s | %s | %s | %s | %d | %g-%g\n",
						r.University, r.Campus, r.Department, r.Program, r.Year, r.MinimumMerit, r.MaximumMerit)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the resolved query and matching rows")
	return cmd
}
