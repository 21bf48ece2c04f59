package console

import (
	"context"
	"sync"
	"time"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/client"
)

const (
	// DefaultDebounce is the quiet period after the last keystroke before
	// the keyword is applied
	DefaultDebounce = 500 * time.Millisecond

	// DefaultPageSize is the initial page size of the account list
	DefaultPageSize = 10

	// AllRoles is the role filter value that disables filtering
	AllRoles int64 = 0
)

// AccountListState is a snapshot of the account list. Page is 0-indexed.
type AccountListState struct {
	Keyword  string
	RoleID   int64
	Page     int
	Size     int
	Accounts []api.Account
	Total    int64
	Pages    int
	Loading  bool
	Err      error
}

// AccountList is the state of the account table
type AccountList struct {
	gw       AccountGateway
	ctx      context.Context
	debounce time.Duration
	onUpdate func(AccountListState)

	mu          sync.Mutex
	generation  uint64
	timer       *time.Timer
	pendingWord string
	keyword     string
	roleID      int64
	page        int
	size        int
	accounts    []api.Account
	total       int64
	pages       int
	loading     bool
	err         error
	password    string
	created     *api.Account
}

// AccountListOption configures an AccountList
type AccountListOption func(*AccountList)

// WithDebounce changes the keyword quiet period
func WithDebounce(d time.Duration) AccountListOption {
	return func(l *AccountList) {
		l.debounce = d
	}
}

// WithPageSize changes the initial page size
func WithPageSize(size int) AccountListOption {
	return func(l *AccountList) {
		if size > 0 {
			l.size = size
		}
	}
}

// WithUpdateHandler registers a hook called with a snapshot after every
// applied fetch
func WithUpdateHandler(fn func(AccountListState)) AccountListOption {
	return func(l *AccountList) {
		l.onUpdate = fn
	}
}

// NewAccountList creates a list. ctx bounds the fetches that the list
// starts on its own after a debounced keyword change.
func NewAccountList(ctx context.Context, gw AccountGateway, opts ...AccountListOption) *AccountList {
	l := &AccountList{
		gw:       gw,
		ctx:      ctx,
		debounce: DefaultDebounce,
		size:     DefaultPageSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ClampPage returns the page to show when the current page may be past
// the end of the result set
func ClampPage(current, totalPages int) int {
	if current < totalPages {
		return current
	}
	if totalPages < 1 {
		return 0
	}
	return totalPages - 1
}

// State returns a snapshot
func (l *AccountList) State() AccountListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *AccountList) snapshot() AccountListState {
	accounts := make([]api.Account, len(l.accounts))
	copy(accounts, l.accounts)
	return AccountListState{
		Keyword:  l.keyword,
		RoleID:   l.roleID,
		Page:     l.page,
		Size:     l.size,
		Accounts: accounts,
		Total:    l.total,
		Pages:    l.pages,
		Loading:  l.loading,
		Err:      l.err,
	}
}

// Refresh fetches the current page with the current filters
func (l *AccountList) Refresh(ctx context.Context) error {
	return l.fetch(ctx)
}

// SetKeyword records a keystroke. The keyword is applied and fetched once
// no further keystroke arrived for the debounce period.
func (l *AccountList) SetKeyword(keyword string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pendingWord = keyword
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.debounce, l.applyKeyword)
}

func (l *AccountList) applyKeyword() {
	l.mu.Lock()
	if l.pendingWord == l.keyword {
		l.mu.Unlock()
		return
	}
	l.keyword = l.pendingWord
	l.page = 0
	l.mu.Unlock()

	_ = l.fetch(l.ctx)
}

// SetRoleFilter filters by role; AllRoles clears the filter
func (l *AccountList) SetRoleFilter(ctx context.Context, roleID int64) error {
	l.mu.Lock()
	l.roleID = roleID
	l.page = 0
	l.mu.Unlock()
	return l.fetch(ctx)
}

// SetPage moves to a 0-indexed page
func (l *AccountList) SetPage(ctx context.Context, page int) error {
	if page < 0 {
		page = 0
	}
	l.mu.Lock()
	l.page = page
	l.mu.Unlock()
	return l.fetch(ctx)
}

// SetPageSize changes the page size and returns to the first page
func (l *AccountList) SetPageSize(ctx context.Context, size int) error {
	if size < 1 {
		size = DefaultPageSize
	}
	l.mu.Lock()
	l.size = size
	l.page = 0
	l.mu.Unlock()
	return l.fetch(ctx)
}

func (l *AccountList) fetch(ctx context.Context) error {
	for {
		l.mu.Lock()
		l.generation++
		generation := l.generation
		q := client.AccountQuery{
			Page:    l.page + 1,
			Size:    l.size,
			Keyword: l.keyword,
			RoleID:  l.roleID,
		}
		l.loading = true
		l.mu.Unlock()

		page, err := l.gw.Accounts(ctx, q)

		l.mu.Lock()
		if generation != l.generation {
			l.mu.Unlock()
			return nil
		}
		l.loading = false
		if err != nil {
			l.accounts = nil
			l.total = 0
			l.pages = 0
			l.err = err
			l.notify()
			return err
		}

		l.err = nil
		l.accounts = page.List
		l.total = page.Total
		l.pages = page.Pages
		if clamped := ClampPage(l.page, l.pages); clamped != l.page {
			l.page = clamped
			l.mu.Unlock()
			continue
		}
		l.notify()
		return nil
	}
}

// notify must be called with mu held; the hook runs after unlocking
func (l *AccountList) notify() {
	state := l.snapshot()
	fn := l.onUpdate
	l.mu.Unlock()
	if fn != nil {
		fn(state)
	}
}

// Create creates an account from the form. On success the initial
// password is held until DismissPassword and the list is refetched.
func (l *AccountList) Create(ctx context.Context, form AccountForm) (*api.CreateAccountResponse, error) {
	resp, err := l.gw.CreateAccount(ctx, form.Request())
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.password = resp.InitialPassword
	account := resp.Account
	l.created = &account
	l.mu.Unlock()

	if err := l.fetch(ctx); err != nil {
		return resp, err
	}
	return resp, nil
}

// InitialPassword returns the password of the last created account and
// the account itself, until dismissed
func (l *AccountList) InitialPassword() (string, *api.Account) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.password, l.created
}

// DismissPassword forgets the initial password
func (l *AccountList) DismissPassword() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.password = ""
	l.created = nil
}

// Close stops a pending keyword fetch
func (l *AccountList) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}
