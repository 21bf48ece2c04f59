package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// roleShowCmd represents the role show command
var roleShowCmd = &cobra.Command{
	Use:   "show <role-id>",
	Short: "Show the permissions of a role over the current catalog",
	Long: `Show the permissions of a role over the current table catalog.

Tables added to the catalog since the role was saved show no capability;
grants on tables removed from the catalog are reported as warnings.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseRoleID(args[0])
		if err != nil {
			fail("Failed to show role", err)
		}

		editor, err := openEditor(context.Background(), cmd, id)
		if err != nil {
			fail("Failed to show role", err)
		}
		defer editor.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Role %d: %s\n\n", editor.RoleID(), editor.Name())
		_ = writeMatrix(cmd.OutOrStdout(), editor.Entries(), editor.Columns())
	},
}

func init() {
	roleCmd.AddCommand(roleShowCmd)
}
