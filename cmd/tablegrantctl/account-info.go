package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
)

// accountInfoCmd represents the account info command
var accountInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the logged in account",
	Long: `Show the account the session token belongs to. With --name or --sex
the profile is updated first.`,
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		sex, _ := cmd.Flags().GetString("sex")
		ctx := context.Background()

		c, err := newAPIClient(cmd)
		if err != nil {
			fail("Failed to load profile", err)
		}
		account, err := c.Profile(ctx)
		if err != nil {
			fail("Failed to load profile", err)
		}

		if cmd.Flags().Changed("name") || cmd.Flags().Changed("sex") {
			req := api.UpdateProfileRequest{AccountName: account.AccountName, Sex: account.Sex}
			if cmd.Flags().Changed("name") {
				req.AccountName = name
			}
			if cmd.Flags().Changed("sex") {
				req.Sex = sex
			}
			if err := c.UpdateProfile(ctx, req); err != nil {
				fail("Failed to update profile", err)
			}
			account.AccountName, account.Sex = req.AccountName, req.Sex
			fmt.Fprintln(cmd.ErrOrStderr(), "Profile updated")
		}
		_ = writeProfile(cmd.OutOrStdout(), account)
	},
}

func init() {
	accountCmd.AddCommand(accountInfoCmd)
	accountInfoCmd.Flags().String("name", "", "New account name")
	accountInfoCmd.Flags().String("sex", "", "New sex code: 0 male, 1 female, 2 unknown")
}

func sexLabel(sex string) string {
	switch sex {
	case api.SexMale:
		return "male"
	case api.SexFemale:
		return "female"
	default:
		return "unknown"
	}
}

func writeProfile(w io.Writer, a *api.Account) error {
	names := make([]string, 0, len(a.Roles))
	for _, r := range a.Roles {
		names = append(names, r.RoleName)
	}
	_, err := fmt.Fprintf(w, "ID:     %d\nName:   %s\nEmail:  %s\nSex:    %s\nStatus: %s\nRoles:  %s\n",
		a.AccountID, a.AccountName, a.AccountEmail, sexLabel(a.Sex), statusLabel(a.Status), strings.Join(names, ", "))
	return err
}
