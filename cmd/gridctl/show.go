package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fulldump/gridadmin/grid"
	"github.com/fulldump/gridadmin/pagination"
)

func newShowCommand(open opener) *cobra.Command {

	q := &query{}
	page := 1
	pageSize := 0

	cmd := &cobra.Command{
		Use:   "show <collection>",
		Short: "Print one page of a collection",
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
			if pageSize != 0 {
				s.engine.SetPageSize(pageSize)
			}
			s.engine.SetPage(page)

			printView(cmd.OutOrStdout(), s.engine.View(ctx))
			for _, n := range s.engine.Notices() {
				fmt.Fprintln(cmd.ErrOrStderr(), warnColor.Sprint(n.Message))
			}
			return nil
		},
	}

	q.bind(cmd)
	cmd.Flags().IntVar(&page, "page", page, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", pageSize, "rows per page")

	return cmd
}

func printView(w io.Writer, v grid.View) {

	fmt.Fprintln(w, headerColor.Sprint(v.Title))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerColor.Sprint(strings.Join(v.Visible, "\t")))
	for _, row := range v.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.Display
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()

	fmt.Fprintln(w, infoColor.Sprint(v.Page.Info)+"  "+formatWindow(v.Page.Window))
}

func formatWindow(buttons []pagination.Button) string {
	parts := make([]string, len(buttons))
	for i, b := range buttons {
		switch {
		case b.Ellipsis:
			parts[i] = "…"
		case b.Current:
			parts[i] = "[" + strconv.Itoa(b.Page) + "]"
		default:
			parts[i] = strconv.Itoa(b.Page)
		}
	}
	return strings.Join(parts, " ")
}
