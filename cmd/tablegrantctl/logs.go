package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/client"
	"github.com/doodlesbykumbi/tablegrant/pkg/console"
)

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the audit trail through the console API",
	Long: `Show one page of persisted audit records, newest first.

The server must run with audit persistence enabled. --keyword matches the
record message; --user-id narrows the page to what one account did.

Example:
  tablegrantctl logs --keyword login --user-id 3`,
	Run: func(cmd *cobra.Command, args []string) {
		keyword, _ := cmd.Flags().GetString("keyword")
		userID, _ := cmd.Flags().GetInt64("user-id")
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		if page < 1 {
			page = 1
		}
		if size < 1 {
			size = console.DefaultPageSize
		}

		c, err := newAPIClient(cmd)
		if err != nil {
			fail("Failed to list audit records", err)
		}
		result, err := c.Logs(context.Background(), client.LogQuery{Page: page, Size: size, Keyword: keyword, UserID: userID})
		if err != nil {
			fail("Failed to list audit records", err)
		}
		_ = writeLogs(cmd.OutOrStdout(), result)
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().StringP("keyword", "k", "", "Match the record message")
	logsCmd.Flags().Int64("user-id", 0, "Only records of this account id")
	logsCmd.Flags().Int("page", 1, "Page number, starting at 1")
	logsCmd.Flags().Int("size", console.DefaultPageSize, "Records per page")
}

func logStatusLabel(status string) string {
	if status == api.LogStatusFailure {
		return "failed"
	}
	return "ok"
}

func writeLogs(w io.Writer, page *api.LogPage) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tTITLE\tACCOUNT\tIP\tSTATUS\tMESSAGE")
	for _, l := range page.List {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.OperID, l.OperTime.Local().Format(time.DateTime), l.Title, l.OperAccount, l.OperIP, logStatusLabel(l.Status), l.Message)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	pages := page.Pages
	if pages < 1 {
		pages = 1
	}
	_, err := fmt.Fprintf(w, "\nPage %d of %d, %d records\n", page.Page, pages, page.Total)
	return err
}
