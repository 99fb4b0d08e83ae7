package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUniversitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "universities [term]",
		Short: "List stored universities, optionally filtered by a substring",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = e.db.Close() }()

			var term string
			if len(args) == 1 {
				term = args[0]
			}
			names, err := e.db.SearchUniversities(cmd.Context(), term)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no universities found")
				return nil
			}
			for _, n := range names {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}
