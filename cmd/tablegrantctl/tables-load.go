package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

// catalogFile is the YAML form of the table catalog:
//
//	tables:
//	  - name: orders
//	    comment: Customer orders
type catalogFile struct {
	Tables []struct {
		Name    string `yaml:"name"`
		Comment string `yaml:"comment"`
	} `yaml:"tables"`
}

// loadResult reports what a catalog load changed
type loadResult struct {
	Loaded  []string `json:"loaded"`
	Removed []string `json:"removed,omitempty"`
}

// tablesLoadCmd represents the tables load command
var tablesLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load the table catalog from a YAML file",
	Long: `Load the table catalog from a YAML file.

Tables are added in file order, existing tables get the file's comment.
With --replace, catalog tables missing from the file are removed.

Example file:
  tables:
    - name: orders
      comment: Customer orders
    - name: invoices

Example:
  tablegrantctl tables load catalog.yml --replace`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		replace, _ := cmd.Flags().GetBool("replace")

		file, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open catalog file: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = file.Close() }()

		catalog, err := parseCatalog(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load tables: %v\n", err)
			os.Exit(1)
		}

		var result *loadResult
		if err := withTablesStore(func(ctx context.Context, tables store.TablesStore) error {
			result, err = loadCatalog(ctx, tables, catalog, replace)
			return err
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load tables: %v\n", err)
			os.Exit(1)
		}

		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
	},
}

func init() {
	tablesCmd.AddCommand(tablesLoadCmd)
	tablesLoadCmd.Flags().Bool("replace", false, "Remove catalog tables that are not in the file")
}

func parseCatalog(r io.Reader) ([]permission.Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f catalogFile
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	seen := make(map[string]bool, len(f.Tables))
	catalog := make([]permission.Table, 0, len(f.Tables))
	for i, t := range f.Tables {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, fmt.Errorf("table %d has no name", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("table %q appears more than once", name)
		}
		seen[name] = true
		catalog = append(catalog, permission.Table{Name: name, Description: t.Comment})
	}
	return catalog, nil
}

// catalogWriter is the part of the tables store a catalog load uses
type catalogWriter interface {
	ListTables(ctx context.Context) ([]permission.Table, error)
	UpsertTable(ctx context.Context, table permission.Table) error
	DeleteTable(ctx context.Context, name string) error
}

func loadCatalog(ctx context.Context, tables catalogWriter, catalog []permission.Table, replace bool) (*loadResult, error) {
	result := &loadResult{Loaded: []string{}}
	for _, t := range catalog {
		if err := tables.UpsertTable(ctx, t); err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Name, err)
		}
		result.Loaded = append(result.Loaded, t.Name)
	}
	if !replace {
		return result, nil
	}

	current, err := tables.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]bool, len(catalog))
	for _, t := range catalog {
		keep[t.Name] = true
	}
	for _, t := range current {
		if keep[t.Name] {
			continue
		}
		if err := tables.DeleteTable(ctx, t.Name); err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Name, err)
		}
		result.Removed = append(result.Removed, t.Name)
	}
	return result, nil
}
