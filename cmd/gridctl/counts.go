package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCountsCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Print the number of records of every collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, c := range s.engine.Counts(ctx) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", headerColor.Sprintf("%-10s", c.Name), c.Count)
			}
			return nil
		},
	}
}
