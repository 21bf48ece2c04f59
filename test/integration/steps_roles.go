package integration

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/tablegrant/pkg/console"
	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
)

func (s *StepsContext) registerRoleSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I create the role "([^"]*)" granting "([^"]*)"$`, s.iCreateTheRoleGranting)
	sc.Step(`^I create the role "([^"]*)" granting "([^"]*)" on every table$`, s.iCreateTheRoleGrantingOnEveryTable)
	sc.Step(`^I grant "([^"]*)" to the role "([^"]*)"$`, s.iGrantToTheRole)
	sc.Step(`^the role "([^"]*)" should grant "([^"]*)" on "([^"]*)"$`, s.theRoleShouldGrantOn)
	sc.Step(`^the role "([^"]*)" should store (\d+) permission entries$`, s.theRoleShouldStoreEntries)
	sc.Step(`^the table "([^"]*)" is added to the catalog$`, s.theTableIsAddedToTheCatalog)
	sc.Step(`^the table "([^"]*)" is removed from the catalog$`, s.theTableIsRemovedFromTheCatalog)
	sc.Step(`^editing the role "([^"]*)" should warn about "([^"]*)"$`, s.editingTheRoleShouldWarnAbout)
	sc.Step(`^editing the role "([^"]*)" should show "([^"]*)" column as "([^"]*)"$`, s.editingTheRoleShouldShowColumnAs)
	sc.Step(`^the role "([^"]*)" should have (\d+) members?$`, s.theRoleShouldHaveMembers)
}

// parseGrants parses "orders:read|update, invoices:delete"
func parseGrants(list string) (map[string][]permission.Capability, error) {
	grants := make(map[string][]permission.Capability)
	for _, item := range splitList(list) {
		table, caps, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("invalid grant %q", item)
		}
		for _, name := range strings.Split(caps, "|") {
			c, err := permission.CapabilityString(strings.TrimSpace(name))
			if err != nil {
				return nil, err
			}
			grants[table] = append(grants[table], c)
		}
	}
	return grants, nil
}

func toggleGrants(editor *console.RoleEditor, list string) error {
	grants, err := parseGrants(list)
	if err != nil {
		return err
	}
	for i, entry := range editor.Entries() {
		for _, c := range grants[entry.TableName] {
			if entry.Has(c) {
				continue
			}
			if err := editor.Toggle(i, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *StepsContext) roleID(name string) (int64, error) {
	roles, err := s.client.Roles(context.Background())
	if err != nil {
		return 0, err
	}
	for _, r := range roles {
		if r.RoleName == name {
			return r.RoleID, nil
		}
	}
	return 0, fmt.Errorf("role %q not found", name)
}

func (s *StepsContext) iCreateTheRoleGranting(name, list string) error {
	ctx := context.Background()
	editor := console.NewRoleEditor(s.client)
	if err := editor.OpenCreate(ctx); err != nil {
		s.lastErr = err
		return nil
	}
	editor.SetName(name)
	if err := toggleGrants(editor, list); err != nil {
		return err
	}
	s.lastErr = editor.Submit(ctx)
	return nil
}

func (s *StepsContext) iCreateTheRoleGrantingOnEveryTable(name, capability string) error {
	ctx := context.Background()
	c, err := permission.CapabilityString(capability)
	if err != nil {
		return err
	}

	editor := console.NewRoleEditor(s.client)
	if err := editor.OpenCreate(ctx); err != nil {
		return err
	}
	editor.SetName(name)
	if set, err := editor.ToggleColumn(c); err != nil || !set {
		return fmt.Errorf("select-all %s did not set the column: %v", capability, err)
	}
	s.lastErr = editor.Submit(ctx)
	return s.lastErr
}

func (s *StepsContext) iGrantToTheRole(list, name string) error {
	ctx := context.Background()
	id, err := s.roleID(name)
	if err != nil {
		return err
	}

	editor := console.NewRoleEditor(s.client)
	if err := editor.OpenEdit(ctx, id); err != nil {
		return err
	}
	if err := toggleGrants(editor, list); err != nil {
		return err
	}
	s.lastErr = editor.Submit(ctx)
	return s.lastErr
}

func (s *StepsContext) theRoleShouldGrantOn(name, caps, table string) error {
	id, err := s.roleID(name)
	if err != nil {
		return err
	}
	detail, err := s.client.RoleDetail(context.Background(), id)
	if err != nil {
		return err
	}

	want := splitList(strings.ReplaceAll(caps, "|", ","))
	sort.Strings(want)
	for _, entry := range detail.Permissions {
		if entry.TableName != table {
			continue
		}
		var got []string
		for _, c := range entry.Granted() {
			got = append(got, c.String())
		}
		sort.Strings(got)
		if strings.Join(got, ",") != strings.Join(want, ",") {
			return fmt.Errorf("role %q grants %v on %q, want %v", name, got, table, want)
		}
		return nil
	}
	if len(want) == 0 {
		return nil
	}
	return fmt.Errorf("role %q has no entry for %q", name, table)
}

func (s *StepsContext) theRoleShouldStoreEntries(name string, n int) error {
	id, err := s.roleID(name)
	if err != nil {
		return err
	}
	var count int64
	if err := s.tc.DB.Raw(`SELECT COUNT(*) FROM role_permissions WHERE role_id = ?`, id).Scan(&count).Error; err != nil {
		return err
	}
	if count != int64(n) {
		return fmt.Errorf("role %q stores %d entries, want %d", name, count, n)
	}
	return nil
}

func (s *StepsContext) theTableIsAddedToTheCatalog(name string) error {
	return s.tc.Server.TablesStore.UpsertTable(context.Background(), permission.Table{Name: name})
}

func (s *StepsContext) theTableIsRemovedFromTheCatalog(name string) error {
	return s.tc.Server.TablesStore.DeleteTable(context.Background(), name)
}

func (s *StepsContext) openEdit(name string) (*console.RoleEditor, error) {
	id, err := s.roleID(name)
	if err != nil {
		return nil, err
	}
	editor := console.NewRoleEditor(s.client)
	if err := editor.OpenEdit(context.Background(), id); err != nil {
		return nil, err
	}
	return editor, nil
}

func (s *StepsContext) editingTheRoleShouldWarnAbout(name, table string) error {
	editor, err := s.openEdit(name)
	if err != nil {
		return err
	}
	defer editor.Close()

	for _, w := range editor.Warnings() {
		if strings.Contains(w, fmt.Sprintf("%q", table)) {
			for _, e := range editor.Entries() {
				if e.TableName == table {
					return fmt.Errorf("dropped table %q is still editable", table)
				}
			}
			return nil
		}
	}
	return fmt.Errorf("no warning about %q in %v", table, editor.Warnings())
}

func (s *StepsContext) editingTheRoleShouldShowColumnAs(name, capability, state string) error {
	editor, err := s.openEdit(name)
	if err != nil {
		return err
	}
	defer editor.Close()

	for _, col := range editor.Columns() {
		if col.Capability.String() == capability {
			if col.State.String() != state {
				return fmt.Errorf("column %s is %s, want %s", capability, col.State, state)
			}
			return nil
		}
	}
	return fmt.Errorf("no column %q", capability)
}

func (s *StepsContext) theRoleShouldHaveMembers(name string, n int) error {
	stats, err := s.client.RoleStats(context.Background())
	if err != nil {
		return err
	}
	for _, st := range stats {
		if st.RoleName == name {
			if st.TotalUsers != n {
				return fmt.Errorf("role %q has %d members, want %d", name, st.TotalUsers, n)
			}
			return nil
		}
	}
	return fmt.Errorf("role %q not in stats", name)
}
