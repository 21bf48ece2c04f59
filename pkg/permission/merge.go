package permission

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTable   = errors.New("table is not in the catalog")
	ErrDuplicateTable = errors.New("table appears more than once")
)

// MergeResult is the outcome of merging persisted entries into the catalog
type MergeResult struct {
	// Entries has exactly one entry per catalog table, in catalog order
	Entries []Entry
	// Dropped names persisted entries whose table is no longer in the catalog
	Dropped []string
}

// Merge left-joins the catalog against persisted entries. Tables without a
// persisted entry get an all-false default. Persisted entries are matched by
// exact table name; when a name repeats the first occurrence wins.
func Merge(catalog []Table, persisted []Entry) MergeResult {
	byName := make(map[string]Entry, len(persisted))
	for _, e := range persisted {
		if _, seen := byName[e.TableName]; !seen {
			byName[e.TableName] = e
		}
	}

	inCatalog := make(map[string]struct{}, len(catalog))
	entries := make([]Entry, len(catalog))
	for i, table := range catalog {
		inCatalog[table.Name] = struct{}{}
		e, ok := byName[table.Name]
		if !ok {
			entries[i] = DefaultEntry(table.Name)
			continue
		}
		entries[i] = e
	}

	var dropped []string
	for _, e := range persisted {
		if _, ok := inCatalog[e.TableName]; ok {
			continue
		}
		if _, ok := byName[e.TableName]; ok {
			dropped = append(dropped, e.TableName)
			delete(byName, e.TableName)
		}
	}

	return MergeResult{Entries: entries, Dropped: dropped}
}

// Validate checks that entries reference only catalog tables and that no
// table appears twice. Missing tables are allowed; Merge fills them.
func Validate(catalog []Table, entries []Entry) error {
	known := make(map[string]struct{}, len(catalog))
	for _, table := range catalog {
		known[table.Name] = struct{}{}
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := known[e.TableName]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTable, e.TableName)
		}
		if _, ok := seen[e.TableName]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateTable, e.TableName)
		}
		seen[e.TableName] = struct{}{}
	}
	return nil
}
