package integration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/client"
	"github.com/doodlesbykumbi/tablegrant/pkg/model"
	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc       *TestContext
	client   *client.Client
	lastErr  error
	expired  bool
	password string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.reset()
	})

	// Background steps
	sc.Step(`^the table catalog contains "([^"]*)"$`, s.theTableCatalogContains)
	sc.Step(`^an account "([^"]*)" with password "([^"]*)" exists$`, s.anAccountWithPasswordExists)
	sc.Step(`^an inactive account "([^"]*)" with password "([^"]*)" exists$`, s.anInactiveAccountWithPasswordExists)
	sc.Step(`^I am logged in as "([^"]*)" with password "([^"]*)"$`, s.iAmLoggedInAs)

	// Login steps
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogInAs)
	sc.Step(`^the login should succeed$`, s.theLoginShouldSucceed)
	sc.Step(`^the request should succeed$`, s.theRequestShouldSucceed)
	sc.Step(`^the request should fail with "([^"]*)"$`, s.theRequestShouldFailWith)
	sc.Step(`^the session should be cleared$`, s.theSessionShouldBeCleared)
	sc.Step(`^my session token is replaced by "([^"]*)"$`, s.mySessionTokenIsReplacedBy)

	// Role and account steps are registered in steps_roles.go and steps_accounts.go
	s.registerRoleSteps(sc)
	s.registerAccountSteps(sc)
}

func (s *StepsContext) reset() error {
	s.lastErr = nil
	s.expired = false
	s.password = ""

	c, err := client.New(s.tc.ServerURL, client.NewSession(""),
		client.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
		client.WithUnauthorizedHandler(func() { s.expired = true }),
	)
	if err != nil {
		return err
	}
	s.client = c
	return s.tc.Reset()
}

// Background steps

func (s *StepsContext) theTableCatalogContains(names string) error {
	tables := s.tc.Server.TablesStore
	for _, name := range splitList(names) {
		if err := tables.UpsertTable(context.Background(), permission.Table{Name: name, Description: name + " table"}); err != nil {
			return err
		}
	}
	return nil
}

func (s *StepsContext) createAccount(email, password, status string) error {
	hash, err := model.HashPassword(password)
	if err != nil {
		return err
	}
	name, _, _ := strings.Cut(email, "@")
	_, err = s.tc.Server.AccountsStore.CreateAccount(context.Background(), store.NewAccount{
		Name:         name,
		Email:        email,
		Sex:          api.SexUnknown,
		Status:       status,
		PasswordHash: hash,
	})
	return err
}

func (s *StepsContext) anAccountWithPasswordExists(email, password string) error {
	return s.createAccount(email, password, api.StatusActive)
}

func (s *StepsContext) anInactiveAccountWithPasswordExists(email, password string) error {
	return s.createAccount(email, password, api.StatusInactive)
}

func (s *StepsContext) iAmLoggedInAs(email, password string) error {
	if err := s.anAccountWithPasswordExists(email, password); err != nil {
		return err
	}
	if err := s.client.Login(context.Background(), email, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

// Login steps

func (s *StepsContext) iLogInAs(email, password string) error {
	s.lastErr = s.client.Login(context.Background(), email, password)
	return nil
}

func (s *StepsContext) theLoginShouldSucceed() error {
	if s.lastErr != nil {
		return fmt.Errorf("expected login to succeed, got %v", s.lastErr)
	}
	token := s.client.Session().Token()
	if token == "" {
		return errors.New("expected a session token")
	}
	claims, err := s.tc.Server.Tokens.Verify(token)
	if err != nil {
		return fmt.Errorf("server rejected its own token: %w", err)
	}
	if claims.Subject == "" {
		return errors.New("token has no subject")
	}
	return nil
}

func (s *StepsContext) theRequestShouldSucceed() error {
	if s.lastErr != nil {
		return fmt.Errorf("expected the request to succeed, got %q", client.Message(s.lastErr))
	}
	return nil
}

func (s *StepsContext) theRequestShouldFailWith(msg string) error {
	if s.lastErr == nil {
		return fmt.Errorf("expected the request to fail with %q", msg)
	}
	if got := client.Message(s.lastErr); got != msg {
		return fmt.Errorf("expected message %q, got %q", msg, got)
	}
	return nil
}

func (s *StepsContext) theSessionShouldBeCleared() error {
	if token := s.client.Session().Token(); token != "" {
		return fmt.Errorf("expected no session token, got %q", token)
	}
	if !s.expired {
		return errors.New("expected the unauthorized handler to run")
	}
	return nil
}

func (s *StepsContext) mySessionTokenIsReplacedBy(token string) error {
	s.client.Session().Set(token)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
