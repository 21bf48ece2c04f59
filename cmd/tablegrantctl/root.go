package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "tablegrantctl",
	Short: "Manage table permission roles and console accounts",
	Long: `Run and administer the tablegrant server.

Server-side commands (server, db, configuration, tables, account create)
talk to the database directly. Console commands (login, logs, role,
account list, account add, account info, account passwd) go through the
REST API of a running server.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging()
	},
}

func configureLogging() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv("TABLEGRANT_LOG_LEVEL")))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
