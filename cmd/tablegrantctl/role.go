package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tablegrant/pkg/console"
	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
)

// roleCmd represents the role command
var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage roles through the console API",
	Long: `Manage roles and their table permissions through a running server.

Console commands need a token, see 'tablegrantctl login'.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'role' requires a subcommand (list, show, create, grant)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(roleCmd)
}

func parseRoleID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid role id %q", s)
	}
	return id, nil
}

// openEditor opens a role editor, for a new role when roleID is 0
func openEditor(ctx context.Context, cmd *cobra.Command, roleID int64) (*console.RoleEditor, error) {
	c, err := newAPIClient(cmd)
	if err != nil {
		return nil, err
	}
	editor := console.NewRoleEditor(c)
	if roleID == 0 {
		err = editor.OpenCreate(ctx)
	} else {
		err = editor.OpenEdit(ctx, roleID)
	}
	if err != nil {
		return nil, err
	}
	for _, w := range editor.Warnings() {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	return editor, nil
}

func mark(b bool) string {
	if b {
		return "x"
	}
	return "-"
}

// writeMatrix prints one row per table and a footer with the select-all
// state of every column
func writeMatrix(w io.Writer, entries []permission.Entry, columns []permission.Column) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tREAD\tCREATE\tUPDATE\tDELETE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.TableName, mark(e.CanRead), mark(e.CanCreate), mark(e.CanUpdate), mark(e.CanDelete))
	}
	if len(columns) > 0 {
		fmt.Fprint(tw, "(all)")
		for _, col := range columns {
			fmt.Fprintf(tw, "\t%s", col.State)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
