package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// defaultServer returns the dashboard URL, checking SHIPDESK_SERVER first.
func defaultServer() string {
	if s := os.Getenv("SHIPDESK_SERVER"); s != "" {
		return s
	}
	return "http://127.0.0.1:8080"
}

func newStatusCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check a running dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewClient(serverURL, logger)

			health, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Dashboard: %s\n", client.BaseURL)
			fmt.Fprintf(out, "  Status:  %s (v%s, up %s)\n", health.Status, health.Version, health.Uptime)
			fmt.Fprintf(out, "  API:     %s\n", health.APIBaseURL)
			fmt.Fprintf(out, "  Session: %s backend\n", health.SessionBackend)
			fmt.Fprintf(out, "  Store:   %s\n", health.Store)
			fmt.Fprintf(out, "  Archive: %s\n", health.Archive)

			sess, err := client.Session(cmd.Context())
			if err != nil {
				return err
			}
			if sess.Authenticated && sess.User != nil {
				fmt.Fprintf(out, "  User:    %s (%s)\n", sess.User.DisplayName(), sess.User.Username)
			} else {
				fmt.Fprintln(out, "  User:    not signed in")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", defaultServer(), "Dashboard URL (or SHIPDESK_SERVER env)")
	return cmd
}
