package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCommand(open opener) *cobra.Command {

	q := &query{}
	output := ""

	cmd := &cobra.Command{
		Use:   "export <collection>",
		Short: "Print the filtered rows of a collection as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			err = q.apply(ctx, s.engine, args[0])
			if err != nil {
				return err
			}

			result, err := s.engine.ExportCSV()
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.Content)
				return nil
			}
			if output == "." {
				output = result.Filename
			}
			err = os.WriteFile(output, []byte(result.Content+"\n"), 0666)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), infoColor.Sprintf("%d rows written to %s", result.Rows, output))
			return nil
		},
	}

	q.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout, '.' uses <collection>.csv")

	return cmd
}
