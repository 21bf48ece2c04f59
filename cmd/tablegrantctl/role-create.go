package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// roleCreateCmd represents the role create command
var roleCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a role",
	Long: `Create a role with permissions on the current table catalog.

Every table starts with no capability. --all and --none apply a capability
to every table, then each --grant sets the exact capabilities of one table.

Example:
  tablegrantctl role create Auditor --all read
  tablegrantctl role create Billing --grant invoices=read,update --grant orders=read`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		all, _ := cmd.Flags().GetStringSlice("all")
		none, _ := cmd.Flags().GetStringSlice("none")
		grants, _ := cmd.Flags().GetStringArray("grant")
		ctx := context.Background()

		editor, err := openEditor(ctx, cmd, 0)
		if err != nil {
			fail("Failed to create role", err)
		}
		defer editor.Close()

		editor.SetName(args[0])
		if err := editPermissions(editor, all, none, grants); err != nil {
			fail("Failed to create role", err)
		}
		if err := editor.Submit(ctx); err != nil {
			fail("Failed to create role", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Created role '%s'\n", args[0])
	},
}

func init() {
	roleCmd.AddCommand(roleCreateCmd)
	addPermissionFlags(roleCreateCmd)
}

func addPermissionFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("all", nil, "Capability to grant on every table (read, create, update, delete)")
	cmd.Flags().StringSlice("none", nil, "Capability to revoke on every table")
	cmd.Flags().StringArray("grant", nil, "Exact capabilities of one table, TABLE=CAP[,CAP...] (repeatable)")
}
