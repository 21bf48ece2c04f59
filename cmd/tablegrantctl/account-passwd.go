package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// accountPasswdCmd represents the account passwd command
var accountPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the logged in account's password",
	Long: `Change the password of the account the session token belongs to.

The current password is read from --current or TABLEGRANT_PASSWORD, the new
one from --new or TABLEGRANT_NEW_PASSWORD. The session stays valid.`,
	Run: func(cmd *cobra.Command, args []string) {
		current, _ := cmd.Flags().GetString("current")
		next, _ := cmd.Flags().GetString("new")
		if current == "" {
			current = os.Getenv("TABLEGRANT_PASSWORD")
		}
		if next == "" {
			next = os.Getenv("TABLEGRANT_NEW_PASSWORD")
		}

		c, err := newAPIClient(cmd)
		if err != nil {
			fail("Failed to change password", err)
		}
		if err := c.ChangePassword(context.Background(), current, next, next); err != nil {
			fail("Failed to change password", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Password changed")
	},
}

func init() {
	accountCmd.AddCommand(accountPasswdCmd)
	accountPasswdCmd.Flags().String("current", "", "Current password (default $TABLEGRANT_PASSWORD)")
	accountPasswdCmd.Flags().String("new", "", "New password (default $TABLEGRANT_NEW_PASSWORD)")
}
