package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/config"
	"github.com/doodlesbykumbi/tablegrant/pkg/server"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

// RegisterLogsEndpoint registers the audit log endpoint
func RegisterLogsEndpoint(s *server.Server) {
	r := protectedRouter(s)

	// GET /account/logs/?page=&size=&keyword=&user=&userId= - Audit records, newest first
	r.HandleFunc("/logs/", handleListLogs(s.LogsStore, s.AccountsStore, s.Config, s.Logger)).Methods("GET")
}

func toOperationLog(e store.LogEntry) api.OperationLog {
	status := api.LogStatusFailure
	if e.Result == "success" {
		status = api.LogStatusSuccess
	}
	return api.OperationLog{
		OperID:       e.ID,
		Title:        e.MessageID,
		BusinessType: e.Operation,
		OperAccount:  e.User,
		OperIP:       e.ClientIP,
		Status:       status,
		Severity:     e.Severity,
		Message:      e.Message,
		OperTime:     e.Timestamp,
	}
}

func handleListLogs(
	logs store.LogsStore,
	accounts store.AccountsStore,
	cfg func() *config.TablegrantConfig,
	logger *logrus.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if logs == nil {
			respondWithError(w, api.CodeServiceUnavailable, "Audit log is not enabled")
			return
		}

		q := r.URL.Query()
		p, err := parsePaging(q, cfg())
		if err != nil {
			respondWithError(w, api.CodeBadRequest, err.Error())
			return
		}

		filter := store.LogFilter{
			Keyword: strings.TrimSpace(q.Get("keyword")),
			User:    strings.TrimSpace(q.Get("user")),
			Limit:   p.size,
			Offset:  p.offset(),
		}

		// userId is the console's name for the parameter
		param := "user_id"
		if q.Get(param) == "" {
			param = "userId"
		}
		userID, err := queryInt(q, param, 0)
		if err != nil {
			respondWithError(w, api.CodeBadRequest, err.Error())
			return
		}
		if userID > 0 {
			account, err := accounts.FindByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, store.ErrAccountNotFound) {
					respondWithError(w, api.CodeNotFound, "Account not found")
					return
				}
				logger.WithError(err).Error("failed to look up account")
				respondWithError(w, api.CodeServerError, "Failed to load logs")
				return
			}
			filter.User = account.Email
		}

		list, total, err := logs.ListLogs(r.Context(), filter)
		if err != nil {
			logger.WithError(err).Error("failed to list audit logs")
			respondWithError(w, api.CodeServerError, "Failed to load logs")
			return
		}

		out := api.LogPage{
			List:  make([]api.OperationLog, 0, len(list)),
			Total: total,
			Page:  p.page,
			Size:  p.size,
			Pages: p.pages(total),
		}
		for _, e := range list {
			out.List = append(out.List, toOperationLog(e))
		}
		respondSuccess(w, out)
	}
}
