package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/config"
	"github.com/doodlesbykumbi/tablegrant/pkg/db"
	"github.com/doodlesbykumbi/tablegrant/pkg/model"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/tablegrant/pkg/server/store/gorm"
)

// accountCreateCmd represents the account create command
var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a console account directly in the database",
	Long: `Create a console account directly in the database.

Use this to bootstrap the first account before any token exists; once a
server runs, accounts are normally created through the console API.

A random initial password is generated; only its hash is stored. The
password is written to STDOUT and cannot be retrieved again.

Example:
  tablegrantctl account create --name Admin --email admin@example.com
  tablegrantctl account create --name Ada --email ada@example.com --role 1 --role 2`,
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		roles, _ := cmd.Flags().GetInt64Slice("role")

		password, err := bootstrapAccount(context.Background(), name, email, roles)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create account: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Created account '%s'\n", email)
		fmt.Printf("Initial password: %s\n", password)
	},
}

func init() {
	accountCmd.AddCommand(accountCreateCmd)
	accountCreateCmd.Flags().StringP("name", "n", "", "Account display name")
	accountCreateCmd.Flags().StringP("email", "e", "", "Account email, used to log in")
	accountCreateCmd.Flags().Int64Slice("role", nil, "Role id to assign (repeatable)")
	_ = accountCreateCmd.MarkFlagRequired("email")
}

func bootstrapAccount(ctx context.Context, name, email string, roles []int64) (string, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return "", fmt.Errorf("invalid email %q", email)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return "", err
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return "", err
	}
	accounts := gormstore.NewAccountsStore(database)

	if len(roles) > 0 {
		missing, err := gormstore.NewRolesStore(database).MissingRoles(ctx, roles)
		if err != nil {
			return "", err
		}
		if len(missing) > 0 {
			return "", fmt.Errorf("unknown roles: %v", missing)
		}
	}

	password, err := model.GenerateInitialPassword(cfg.InitialPasswordLength)
	if err != nil {
		return "", err
	}
	hash, err := model.HashPassword(password)
	if err != nil {
		return "", err
	}

	_, err = accounts.CreateAccount(ctx, store.NewAccount{
		Name:         name,
		Email:        email,
		Sex:          api.SexUnknown,
		Status:       api.StatusActive,
		PasswordHash: hash,
		Roles:        roles,
	})
	if errors.Is(err, store.ErrEmailTaken) {
		return "", fmt.Errorf("account '%s' already exists", email)
	}
	if err != nil {
		return "", err
	}
	return password, nil
}
