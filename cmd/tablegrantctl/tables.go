package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tablegrant/pkg/db"
	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/tablegrant/pkg/server/store/gorm"
)

// tablesCmd represents the tables command
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Manage the table catalog",
	Long: `Manage the catalog of tables that roles can be granted capabilities on.

The catalog is read from the database directly. Removing a table keeps the
grants roles hold on it until each role is next saved.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := withTablesStore(func(ctx context.Context, tables store.TablesStore) error {
			return listTables(ctx, cmd.OutOrStdout(), tables)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list tables: %v\n", err)
			os.Exit(1)
		}
	},
}

var tablesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a table to the catalog or update its comment",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		comment, _ := cmd.Flags().GetString("comment")
		name := strings.TrimSpace(args[0])
		if name == "" {
			fmt.Fprintln(os.Stderr, "Table name must not be blank")
			os.Exit(1)
		}

		if err := withTablesStore(func(ctx context.Context, tables store.TablesStore) error {
			return tables.UpsertTable(ctx, permission.Table{Name: name, Description: comment})
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to add table: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Table '%s' is in the catalog\n", name)
	},
}

var tablesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a table from the catalog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := withTablesStore(func(ctx context.Context, tables store.TablesStore) error {
			return tables.DeleteTable(ctx, args[0])
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to remove table: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Table '%s' removed from the catalog\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.AddCommand(tablesAddCmd)
	tablesCmd.AddCommand(tablesRemoveCmd)
	tablesAddCmd.Flags().StringP("comment", "c", "", "Table description shown in the role editor")
}

func withTablesStore(fn func(ctx context.Context, tables store.TablesStore) error) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}
	return fn(context.Background(), gormstore.NewTablesStore(database))
}

func listTables(ctx context.Context, w io.Writer, tables store.TablesStore) error {
	catalog, err := tables.ListTables(ctx)
	if err != nil {
		return err
	}
	return writeTables(w, catalog)
}

func writeTables(w io.Writer, catalog []permission.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tCOMMENT")
	for _, t := range catalog {
		fmt.Fprintf(tw, "%s\t%s\n", t.Name, t.Description)
	}
	return tw.Flush()
}
