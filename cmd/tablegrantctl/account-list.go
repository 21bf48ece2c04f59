package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/client"
	"github.com/doodlesbykumbi/tablegrant/pkg/console"
)

// accountListCmd represents the account list command
var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts through the console API",
	Long: `List one page of accounts, optionally filtered by a keyword matched
against name and email, and by role.

A page past the end shows the last page instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		keyword, _ := cmd.Flags().GetString("keyword")
		roleID, _ := cmd.Flags().GetInt64("role")
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")

		c, err := newAPIClient(cmd)
		if err != nil {
			fail("Failed to list accounts", err)
		}

		q := client.AccountQuery{Page: page, Size: size, Keyword: keyword, RoleID: roleID}
		result, err := listAccounts(context.Background(), c, q)
		if err != nil {
			fail("Failed to list accounts", err)
		}
		_ = writeAccounts(cmd.OutOrStdout(), result)
	},
}

func init() {
	accountCmd.AddCommand(accountListCmd)
	accountListCmd.Flags().StringP("keyword", "k", "", "Match account name or email")
	accountListCmd.Flags().Int64("role", console.AllRoles, "Only accounts holding this role id")
	accountListCmd.Flags().Int("page", 1, "Page number, starting at 1")
	accountListCmd.Flags().Int("size", console.DefaultPageSize, "Accounts per page")
}

type accountLister interface {
	Accounts(ctx context.Context, q client.AccountQuery) (*api.AccountPage, error)
}

// listAccounts fetches q and refetches the last page once when q.Page is
// past the end of a non-empty result
func listAccounts(ctx context.Context, c accountLister, q client.AccountQuery) (*api.AccountPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = console.DefaultPageSize
	}

	page, err := c.Accounts(ctx, q)
	if err != nil {
		return nil, err
	}
	if clamped := console.ClampPage(q.Page-1, page.Pages) + 1; clamped != q.Page {
		q.Page = clamped
		return c.Accounts(ctx, q)
	}
	return page, nil
}

func statusLabel(status string) string {
	switch status {
	case api.StatusActive:
		return "active"
	case api.StatusInactive:
		return "inactive"
	default:
		return status
	}
}

func writeAccounts(w io.Writer, page *api.AccountPage) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSTATUS\tROLES")
	for _, a := range page.List {
		names := make([]string, 0, len(a.Roles))
		for _, r := range a.Roles {
			names = append(names, r.RoleName)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", a.AccountID, a.AccountName, a.AccountEmail, statusLabel(a.Status), strings.Join(names, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	pages := page.Pages
	if pages < 1 {
		pages = 1
	}
	_, err := fmt.Fprintf(w, "\nPage %d of %d, %d accounts\n", page.Page, pages, page.Total)
	return err
}
