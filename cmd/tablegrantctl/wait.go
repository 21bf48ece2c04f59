package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the server to report a healthy status",
	Long: `Poll the status endpoint until the server and its database are up.

Useful in scripts and containers before running console commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		baseURL, _ := cmd.Flags().GetString("url")
		timeout, _ := cmd.Flags().GetDuration("wait-timeout")

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := waitForServer(ctx, baseURL, time.Second); err != nil {
			fmt.Fprintf(os.Stderr, "Server did not become ready: %s\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Server is ready")
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().Duration("wait-timeout", 90*time.Second, "How long to wait")
}

func waitForServer(ctx context.Context, baseURL string, interval time.Duration) error {
	statusURL := strings.TrimRight(baseURL, "/") + "/status"
	hc := &http.Client{Timeout: interval * 5}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
		if err != nil {
			return err
		}
		resp, err := hc.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			log.Debugf("status returned %d", resp.StatusCode)
		} else {
			log.WithError(err).Debug("status unreachable")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
