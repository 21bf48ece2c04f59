package console

import (
	"sort"
	"strings"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
)

// AccountForm is the state of the create-account dialog. It is a value:
// every With method returns an updated copy.
type AccountForm struct {
	Name   string
	Email  string
	Phone  string
	Sex    string
	Status string
	Remark string
	Roles  []int64
}

// NewAccountForm returns an empty form for an active account of unknown sex
func NewAccountForm() AccountForm {
	return AccountForm{Sex: api.SexUnknown, Status: api.StatusActive}
}

func (f AccountForm) WithName(name string) AccountForm {
	f.Name = name
	return f
}

func (f AccountForm) WithEmail(email string) AccountForm {
	f.Email = email
	return f
}

func (f AccountForm) WithPhone(phone string) AccountForm {
	f.Phone = phone
	return f
}

func (f AccountForm) WithSex(sex string) AccountForm {
	f.Sex = sex
	return f
}

func (f AccountForm) WithStatus(status string) AccountForm {
	f.Status = status
	return f
}

func (f AccountForm) WithRemark(remark string) AccountForm {
	f.Remark = remark
	return f
}

// WithRoles replaces the whole role selection
func (f AccountForm) WithRoles(roles ...int64) AccountForm {
	f.Roles = dedupeRoles(roles)
	return f
}

// ToggleRole adds or removes one role from the selection
func (f AccountForm) ToggleRole(roleID int64) AccountForm {
	roles := make([]int64, 0, len(f.Roles)+1)
	found := false
	for _, id := range f.Roles {
		if id == roleID {
			found = true
			continue
		}
		roles = append(roles, id)
	}
	if !found {
		roles = append(roles, roleID)
	}
	f.Roles = dedupeRoles(roles)
	return f
}

// Request builds the create-account body
func (f AccountForm) Request() api.CreateAccountRequest {
	roles := make([]int64, len(f.Roles))
	copy(roles, f.Roles)
	return api.CreateAccountRequest{
		AccountName:  strings.TrimSpace(f.Name),
		AccountEmail: strings.TrimSpace(f.Email),
		PhoneNumber:  strings.TrimSpace(f.Phone),
		Sex:          f.Sex,
		Status:       f.Status,
		Remark:       f.Remark,
		Roles:        roles,
	}
}

func dedupeRoles(roles []int64) []int64 {
	seen := make(map[int64]struct{}, len(roles))
	out := make([]int64, 0, len(roles))
	for _, id := range roles {
		if _, ok := seen[id]; ok || id <= 0 {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
