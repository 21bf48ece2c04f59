package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tablegrant/pkg/client"
)

func defaultServerURL() string {
	if u := os.Getenv("TABLEGRANT_URL"); u != "" {
		return u
	}
	return fmt.Sprintf("http://127.0.0.1:%d", defaultPortInt())
}

func init() {
	rootCmd.PersistentFlags().String("url", defaultServerURL(), "tablegrant server URL for console commands")
	rootCmd.PersistentFlags().String("token", os.Getenv("TABLEGRANT_TOKEN"), "bearer token for console commands")
	rootCmd.PersistentFlags().Duration("timeout", client.DefaultTimeout, "request timeout for console commands")
}

// newAPIClient builds a client from the persistent flags. A 401 prints a
// hint to log in again.
func newAPIClient(cmd *cobra.Command) (*client.Client, error) {
	baseURL, _ := cmd.Flags().GetString("url")
	token, _ := cmd.Flags().GetString("token")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = client.DefaultTimeout
	}

	return client.New(baseURL, client.NewSession(token),
		client.WithHTTPClient(&http.Client{Timeout: timeout}),
		client.WithUnauthorizedHandler(func() {
			fmt.Fprintln(os.Stderr, "Session is no longer valid; run 'tablegrantctl login' and set TABLEGRANT_TOKEN")
		}),
	)
}

// fail prints the user-facing message of a console error and exits
func fail(action string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", action, client.Message(err))
	log.WithError(err).Debug(action)
	os.Exit(1)
}
