package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// roleGrantCmd represents the role grant command
var roleGrantCmd = &cobra.Command{
	Use:   "grant <role-id>",
	Short: "Change the permissions of a role",
	Long: `Change the permissions of a role and save its full permission set.

The persisted permissions are merged into the current catalog first, then
--all, --none and --grant are applied as for 'role create'. Grants on
tables that left the catalog are dropped on save.

Example:
  tablegrantctl role grant 3 --grant orders=all
  tablegrantctl role grant 3 --none delete --name "Support (read only)"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseRoleID(args[0])
		if err != nil {
			fail("Failed to update role", err)
		}
		all, _ := cmd.Flags().GetStringSlice("all")
		none, _ := cmd.Flags().GetStringSlice("none")
		grants, _ := cmd.Flags().GetStringArray("grant")
		name, _ := cmd.Flags().GetString("name")
		ctx := context.Background()

		editor, err := openEditor(ctx, cmd, id)
		if err != nil {
			fail("Failed to update role", err)
		}
		defer editor.Close()

		if name != "" {
			editor.SetName(name)
		}
		if err := editPermissions(editor, all, none, grants); err != nil {
			fail("Failed to update role", err)
		}
		entries, columns := editor.Entries(), editor.Columns()
		if err := editor.Submit(ctx); err != nil {
			fail("Failed to update role", err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Updated role %d\n", id)
		_ = writeMatrix(cmd.OutOrStdout(), entries, columns)
	},
}

func init() {
	roleCmd.AddCommand(roleGrantCmd)
	addPermissionFlags(roleGrantCmd)
	roleGrantCmd.Flags().String("name", "", "New role name")
}
