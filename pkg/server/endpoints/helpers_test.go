package endpoints

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/audit"
	"github.com/doodlesbykumbi/tablegrant/pkg/config"
	"github.com/doodlesbykumbi/tablegrant/pkg/server"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/middleware"
)

type testServer struct {
	*server.Server
	tables   *MockTablesStore
	roles    *MockRolesStore
	accounts *MockAccountsStore
	health   *MockHealthStore
	logs     *MockLogsStore
	auditLog *bytes.Buffer
	token    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), config.ConfigFileName))
	require.NoError(t, err)

	tokens, err := middleware.NewTokens([]byte(strings.Repeat("k", 32)), time.Hour)
	require.NoError(t, err)

	s := server.NewServer(nil, tokens, cfg, "127.0.0.1", "0")
	ts := &testServer{
		Server:   s,
		tables:   &MockTablesStore{},
		roles:    &MockRolesStore{},
		accounts: &MockAccountsStore{},
		health:   &MockHealthStore{},
		logs:     &MockLogsStore{},
		auditLog: &bytes.Buffer{},
	}
	s.TablesStore = ts.tables
	s.RolesStore = ts.roles
	s.AccountsStore = ts.accounts
	s.HealthStore = ts.health
	s.LogsStore = ts.logs

	auditLogger := audit.NewLogger()
	auditLogger.SetWriter(ts.auditLog)
	s.Audit = &audit.Trail{Logger: auditLogger}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s.Logger = logger

	RegisterAll(s)

	ts.token, err = tokens.Issue(1, "admin@example.com", "Admin")
	require.NoError(t, err)
	return ts
}

// do sends a request through the router with the admin token
func (ts *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	return ts.doWithToken(method, path, body, ts.token)
}

func (ts *testServer) doWithToken(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

// envelope decodes a response, and its data into out when out is not nil
func envelope(t *testing.T, w *httptest.ResponseRecorder, out interface{}) api.RawResponse {
	t.Helper()

	var resp api.RawResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.NotNil(t, resp.Code)
	require.Equal(t, w.Code, *resp.Code, "HTTP status must mirror the envelope code")
	if out != nil {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return resp
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()

	resp := envelope(t, w, nil)
	require.Equal(t, code, *resp.Code, w.Body.String())
	if msg != "" {
		require.Equal(t, msg, resp.Msg)
	}
}

func assertSuccess(t *testing.T, w *httptest.ResponseRecorder) api.RawResponse {
	t.Helper()

	resp := envelope(t, w, nil)
	require.Equal(t, api.CodeSuccess, *resp.Code, w.Body.String())
	require.Equal(t, api.MsgSuccess, resp.Msg)
	return resp
}
