package audit

import (
	"fmt"
	"strconv"
	"strings"
)

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func severity(success bool) Severity {
	if success {
		return SeverityInfo
	}
	return SeverityWarning
}

func withError(msg, errMsg string) string {
	if errMsg != "" {
		return msg + ": " + errMsg
	}
	return msg
}

// LoginEvent records a login attempt
type LoginEvent struct {
	Email        string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e LoginEvent) MessageID() string { return "login" }

func (e LoginEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully logged in", e.Email)
	}
	return withError(fmt.Sprintf("%s failed to log in", e.Email), e.ErrorMessage)
}

func (e LoginEvent) Severity() Severity { return severity(e.Success) }

func (e LoginEvent) Facility() int { return FacilityAuth }

func (e LoginEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:   {"user": e.Email},
		SDIDClient: {"ip": e.ClientIP},
		SDIDAction: {"operation": "login", "result": result(e.Success)},
	}
}

// RoleEvent records the creation or update of a role's permission set
type RoleEvent struct {
	User         string
	ClientIP     string
	RoleID       int64
	RoleName     string
	Operation    string // "create" or "update"
	Granted      []string
	Success      bool
	ErrorMessage string
}

func (e RoleEvent) MessageID() string { return "role" }

func (e RoleEvent) Message() string {
	verb := "created"
	if e.Operation == "update" {
		verb = "updated"
	}
	if e.Success {
		return fmt.Sprintf("%s %s role %s", e.User, verb, e.RoleName)
	}
	return withError(fmt.Sprintf("%s failed to %s role %s", e.User, e.Operation, e.RoleName), e.ErrorMessage)
}

func (e RoleEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e RoleEvent) Facility() int { return FacilityAuthPriv }

func (e RoleEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth:    {"user": e.User},
		SDIDSubject: {"role": e.RoleName},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction:  {"operation": e.Operation, "result": result(e.Success)},
	}
	if e.RoleID != 0 {
		sd[SDIDSubject]["role_id"] = strconv.FormatInt(e.RoleID, 10)
	}
	if len(e.Granted) > 0 {
		sd[SDIDSubject]["granted"] = strings.Join(e.Granted, ",")
	}
	return sd
}

// AccountCreateEvent records the creation of an account
type AccountCreateEvent struct {
	User         string
	ClientIP     string
	AccountEmail string
	Roles        []int64
	Success      bool
	ErrorMessage string
}

func (e AccountCreateEvent) MessageID() string { return "account" }

func (e AccountCreateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s created account %s", e.User, e.AccountEmail)
	}
	return withError(fmt.Sprintf("%s failed to create account %s", e.User, e.AccountEmail), e.ErrorMessage)
}

func (e AccountCreateEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e AccountCreateEvent) Facility() int { return FacilityAuthPriv }

func (e AccountCreateEvent) StructuredData() map[string]map[string]string {
	roles := make([]string, len(e.Roles))
	for i, id := range e.Roles {
		roles[i] = strconv.FormatInt(id, 10)
	}
	return map[string]map[string]string{
		SDIDAuth:    {"user": e.User},
		SDIDSubject: {"account": e.AccountEmail, "roles": strings.Join(roles, ",")},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction:  {"operation": "create", "result": result(e.Success)},
	}
}

// AccountUpdateEvent records an edit of an account by an operator, or of
// an account's own profile when Operation is "profile"
type AccountUpdateEvent struct {
	User         string
	ClientIP     string
	AccountID    int64
	AccountEmail string
	Operation    string // "update" or "profile"
	Success      bool
	ErrorMessage string
}

func (e AccountUpdateEvent) MessageID() string { return "account" }

func (e AccountUpdateEvent) Message() string {
	target := e.AccountEmail
	if target == "" {
		target = "#" + strconv.FormatInt(e.AccountID, 10)
	}
	if e.Success {
		return fmt.Sprintf("%s updated account %s", e.User, target)
	}
	return withError(fmt.Sprintf("%s failed to update account %s", e.User, target), e.ErrorMessage)
}

func (e AccountUpdateEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e AccountUpdateEvent) Facility() int { return FacilityAuthPriv }

func (e AccountUpdateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"user": e.User},
		SDIDSubject: {"account_id": strconv.FormatInt(e.AccountID, 10), "account": e.AccountEmail},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction:  {"operation": e.Operation, "result": result(e.Success)},
	}
}

// PasswordChangeEvent records an account replacing its own password
type PasswordChangeEvent struct {
	User         string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e PasswordChangeEvent) MessageID() string { return "password" }

func (e PasswordChangeEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s changed their password", e.User)
	}
	return withError(fmt.Sprintf("%s failed to change their password", e.User), e.ErrorMessage)
}

func (e PasswordChangeEvent) Severity() Severity { return severity(e.Success) }

func (e PasswordChangeEvent) Facility() int { return FacilityAuth }

func (e PasswordChangeEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:   {"user": e.User},
		SDIDClient: {"ip": e.ClientIP},
		SDIDAction: {"operation": "change-password", "result": result(e.Success)},
	}
}

// TableEvent records a change to a catalog table or to the roles granted
// on it
type TableEvent struct {
	User         string
	ClientIP     string
	Table        string
	Operation    string // "grant", "describe" or "delete"
	Roles        []string
	Granted      []string
	Success      bool
	ErrorMessage string
}

func (e TableEvent) MessageID() string { return "table" }

func (e TableEvent) Message() string {
	done, verb := e.Operation+" table", e.Operation+" table"
	switch e.Operation {
	case "grant":
		done, verb = "set grants on table", "set grants on table"
	case "describe":
		done, verb = "described table", "describe table"
	case "delete":
		done, verb = "deleted table", "delete table"
	}
	if e.Success {
		return fmt.Sprintf("%s %s %s", e.User, done, e.Table)
	}
	return withError(fmt.Sprintf("%s failed to %s %s", e.User, verb, e.Table), e.ErrorMessage)
}

func (e TableEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e TableEvent) Facility() int { return FacilityAuthPriv }

func (e TableEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth:    {"user": e.User},
		SDIDSubject: {"table": e.Table},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction:  {"operation": e.Operation, "result": result(e.Success)},
	}
	if e.Operation == "grant" {
		sd[SDIDSubject]["roles"] = strings.Join(e.Roles, ",")
		sd[SDIDSubject]["granted"] = strings.Join(e.Granted, ",")
	}
	return sd
}
