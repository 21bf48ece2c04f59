package integration

import (
	"io"
	"net/http/httptest"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tablegrant/pkg/config"
	"github.com/doodlesbykumbi/tablegrant/pkg/server"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/endpoints"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/middleware"
)

// tokenKey signs the tokens of the inline server
var tokenKey = []byte(strings.Repeat("integration-", 4))

// startInlineServer starts the server in-process on a random port
func startInlineServer(db *gorm.DB) (*server.Server, *httptest.Server, error) {
	cfg, err := config.LoadFile("/nonexistent/" + config.ConfigFileName)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := middleware.NewTokens(tokenKey, cfg.TokenLifetime())
	if err != nil {
		return nil, nil, err
	}

	s := server.NewServer(db, tokens, cfg, "127.0.0.1", "0")
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s.Logger = logger
	endpoints.RegisterAll(s)

	return s, httptest.NewServer(s.Router), nil
}
