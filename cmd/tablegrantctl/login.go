package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print a session token",
	Long: `Log in to a running server and print the session token.

The password is read from --password or TABLEGRANT_PASSWORD. Export the
token as TABLEGRANT_TOKEN for the other console commands:

  export TABLEGRANT_TOKEN=$(tablegrantctl login --email admin@example.com)`,
	Run: func(cmd *cobra.Command, args []string) {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("TABLEGRANT_PASSWORD")
		}

		c, err := newAPIClient(cmd)
		if err != nil {
			fail("Login failed", err)
		}
		if err := c.Login(context.Background(), email, password); err != nil {
			fail("Login failed", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), c.Session().Token())
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringP("email", "e", "", "Account email")
	loginCmd.Flags().StringP("password", "p", "", "Account password (default $TABLEGRANT_PASSWORD)")
	_ = loginCmd.MarkFlagRequired("email")
}
