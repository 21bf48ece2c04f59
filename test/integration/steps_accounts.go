package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/tablegrant/pkg/console"
)

func (s *StepsContext) registerAccountSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I create the account "([^"]*)" named "([^"]*)" with roles "([^"]*)"$`, s.iCreateTheAccountWithRoles)
	sc.Step(`^I should be shown an initial password$`, s.iShouldBeShownAnInitialPassword)
	sc.Step(`^I can log in with the initial password of "([^"]*)"$`, s.iCanLogInWithTheInitialPassword)
	sc.Step(`^searching accounts for "([^"]*)" should list "([^"]*)"$`, s.searchingAccountsShouldList)
	sc.Step(`^page (\d+) of accounts with size (\d+) should show page (\d+) of (\d+)$`, s.pageOfAccountsShouldShow)
}

func (s *StepsContext) iCreateTheAccountWithRoles(email, name, roles string) error {
	form := console.NewAccountForm().WithName(name).WithEmail(email)
	for _, roleName := range splitList(roles) {
		id, err := s.roleID(roleName)
		if err != nil {
			return err
		}
		form = form.ToggleRole(id)
	}

	ctx := context.Background()
	list := console.NewAccountList(ctx, s.client)
	defer list.Close()

	resp, err := list.Create(ctx, form)
	s.lastErr = err
	if resp != nil {
		s.password, _ = list.InitialPassword()
	}
	return nil
}

func (s *StepsContext) iShouldBeShownAnInitialPassword() error {
	if s.lastErr != nil {
		return fmt.Errorf("account creation failed: %w", s.lastErr)
	}
	if len(s.password) < 12 {
		return fmt.Errorf("initial password %q is too short", s.password)
	}
	return nil
}

func (s *StepsContext) iCanLogInWithTheInitialPassword(email string) error {
	if s.password == "" {
		return errors.New("no initial password was shown")
	}
	return s.client.Login(context.Background(), email, s.password)
}

func (s *StepsContext) searchingAccountsForList(keyword string) ([]string, error) {
	ctx := context.Background()
	updates := make(chan console.AccountListState, 4)
	list := console.NewAccountList(ctx, s.client,
		console.WithDebounce(0),
		console.WithUpdateHandler(func(st console.AccountListState) { updates <- st }),
	)
	defer list.Close()

	list.SetKeyword(keyword)
	var st console.AccountListState
	select {
	case st = <-updates:
	case <-time.After(10 * time.Second):
		return nil, fmt.Errorf("no fetch after searching for %q", keyword)
	}
	if st.Err != nil {
		return nil, st.Err
	}
	emails := make([]string, 0, len(st.Accounts))
	for _, a := range st.Accounts {
		emails = append(emails, a.AccountEmail)
	}
	return emails, nil
}

func (s *StepsContext) searchingAccountsShouldList(keyword, want string) error {
	emails, err := s.searchingAccountsForList(keyword)
	if err != nil {
		return err
	}
	if got := strings.Join(emails, ","); got != strings.Join(splitList(want), ",") {
		return fmt.Errorf("search %q listed %q, want %q", keyword, got, want)
	}
	return nil
}

func (s *StepsContext) pageOfAccountsShouldShow(page, size, wantPage, wantPages int) error {
	ctx := context.Background()
	list := console.NewAccountList(ctx, s.client, console.WithPageSize(size))
	defer list.Close()

	if err := list.SetPage(ctx, page-1); err != nil {
		return err
	}
	st := list.State()
	if st.Page+1 != wantPage || st.Pages != wantPages {
		return fmt.Errorf("showing page %d of %d, want %d of %d", st.Page+1, st.Pages, wantPage, wantPages)
	}
	return nil
}
