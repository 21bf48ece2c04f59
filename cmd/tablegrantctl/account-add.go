package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/console"
)

// accountAddCmd represents the account add command
var accountAddCmd = &cobra.Command{
	Use:   "add <name> <email>",
	Short: "Create an account through the console API",
	Long: `Create an account through a running server.

Unlike 'account create', this goes through the API and is recorded in the
audit trail under the logged in account. The initial password is shown
once.

Example:
  tablegrantctl account add "Ada Lovelace" ada@example.com --role 2 --role 5`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		roles, _ := cmd.Flags().GetInt64Slice("role")
		phone, _ := cmd.Flags().GetString("phone")
		sex, _ := cmd.Flags().GetString("sex")
		remark, _ := cmd.Flags().GetString("remark")
		inactive, _ := cmd.Flags().GetBool("inactive")
		ctx := context.Background()

		c, err := newAPIClient(cmd)
		if err != nil {
			fail("Failed to create account", err)
		}

		form := console.NewAccountForm().
			WithName(args[0]).
			WithEmail(args[1]).
			WithPhone(phone).
			WithSex(sex).
			WithRemark(remark).
			WithRoles(roles...)
		if inactive {
			form = form.WithStatus(api.StatusInactive)
		}

		list := console.NewAccountList(ctx, c)
		defer list.Close()
		resp, err := list.Create(ctx, form)
		if resp == nil {
			fail("Failed to create account", err)
		}
		if err != nil {
			log.WithError(err).Debug("refreshing account list")
		}

		password, account := list.InitialPassword()
		fmt.Fprintf(cmd.ErrOrStderr(), "Created account %d '%s'\n", account.AccountID, account.AccountEmail)
		fmt.Fprintf(cmd.OutOrStdout(), "Initial password: %s\n", password)
		list.DismissPassword()
	},
}

func init() {
	accountCmd.AddCommand(accountAddCmd)
	accountAddCmd.Flags().Int64Slice("role", nil, "Role id to grant (repeatable)")
	accountAddCmd.Flags().String("phone", "", "Phone number")
	accountAddCmd.Flags().String("sex", "", "Sex code: 0 male, 1 female, 2 unknown")
	accountAddCmd.Flags().String("remark", "", "Remark")
	accountAddCmd.Flags().Bool("inactive", false, "Create the account disabled")
}
