package main

import (
	"fmt"
	"strings"

	"github.com/doodlesbykumbi/tablegrant/pkg/console"
	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
)

// grant is the parsed form of --grant TABLE=CAP[,CAP...]
type grant struct {
	table        string
	capabilities []permission.Capability
}

// parseGrant parses "orders=read,update". "all" grants every capability,
// "none" or an empty list revokes everything.
func parseGrant(s string) (grant, error) {
	table, caps, ok := strings.Cut(s, "=")
	table = strings.TrimSpace(table)
	if !ok || table == "" {
		return grant{}, fmt.Errorf("invalid grant %q: want TABLE=CAP[,CAP...]", s)
	}

	g := grant{table: table}
	for _, raw := range strings.Split(caps, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "", "none":
			continue
		case "all":
			g.capabilities = append([]permission.Capability(nil), permission.CapabilityValues()...)
			continue
		}
		c, err := permission.CapabilityString(name)
		if err != nil {
			return grant{}, fmt.Errorf("invalid grant %q: unknown capability %q", s, name)
		}
		g.capabilities = append(g.capabilities, c)
	}
	return g, nil
}

func parseGrants(values []string) ([]grant, error) {
	grants := make([]grant, 0, len(values))
	for _, v := range values {
		g, err := parseGrant(v)
		if err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, nil
}

func parseCapabilities(values []string) ([]permission.Capability, error) {
	caps := make([]permission.Capability, 0, len(values))
	for _, v := range values {
		c, err := permission.CapabilityString(strings.ToLower(strings.TrimSpace(v)))
		if err != nil {
			return nil, fmt.Errorf("unknown capability %q", v)
		}
		caps = append(caps, c)
	}
	return caps, nil
}

func (g grant) has(c permission.Capability) bool {
	for _, granted := range g.capabilities {
		if granted == c {
			return true
		}
	}
	return false
}

// permissionEditor is the part of the role editor the CLI drives
type permissionEditor interface {
	Entries() []permission.Entry
	Toggle(index int, c permission.Capability) error
	ToggleColumn(c permission.Capability) (bool, error)
}

var _ permissionEditor = (*console.RoleEditor)(nil)

// applyGrant sets exactly the capabilities of g on its table
func applyGrant(e permissionEditor, g grant) error {
	for i, entry := range e.Entries() {
		if entry.TableName != g.table {
			continue
		}
		for _, c := range permission.CapabilityValues() {
			if entry.Has(c) == g.has(c) {
				continue
			}
			if err := e.Toggle(i, c); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("table %q is not in the catalog", g.table)
}

// setColumn sets or clears one capability on every table through the
// select-all toggle. An empty matrix has no column to set.
func setColumn(e permissionEditor, c permission.Capability, value bool) error {
	if len(e.Entries()) == 0 {
		return nil
	}
	for i := 0; i < 2; i++ {
		set, err := e.ToggleColumn(c)
		if err != nil {
			return err
		}
		if set == value {
			return nil
		}
	}
	return nil
}

// editPermissions applies column flags first, then per-table grants
func editPermissions(e permissionEditor, all, none []string, grants []string) error {
	allCaps, err := parseCapabilities(all)
	if err != nil {
		return err
	}
	noneCaps, err := parseCapabilities(none)
	if err != nil {
		return err
	}
	parsed, err := parseGrants(grants)
	if err != nil {
		return err
	}

	for _, c := range allCaps {
		if err := setColumn(e, c, true); err != nil {
			return err
		}
	}
	for _, c := range noneCaps {
		if err := setColumn(e, c, false); err != nil {
			return err
		}
	}
	for _, g := range parsed {
		if err := applyGrant(e, g); err != nil {
			return err
		}
	}
	return nil
}
