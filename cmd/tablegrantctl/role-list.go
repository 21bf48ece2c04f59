package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// roleListCmd represents the role list command
var roleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roles with their member counts",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := newAPIClient(cmd)
		if err != nil {
			fail("Failed to list roles", err)
		}
		ctx := context.Background()

		roles, err := c.Roles(ctx)
		if err != nil {
			fail("Failed to list roles", err)
		}
		stats, err := c.RoleStats(ctx)
		if err != nil {
			fail("Failed to list roles", err)
		}
		members := make(map[int64]int, len(stats))
		for _, st := range stats {
			members[st.RoleID] = st.TotalUsers
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tMEMBERS\tREMARK")
		for _, r := range roles {
			remark := ""
			if r.Remark != nil {
				remark = *r.Remark
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", r.RoleID, r.RoleName, statusLabel(r.Status), members[r.RoleID], remark)
		}
		_ = tw.Flush()
	},
}

func init() {
	roleCmd.AddCommand(roleListCmd)
}
