package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/shipdesk/internal/app"
	"github.com/me/shipdesk/internal/nav"
	"github.com/me/shipdesk/internal/session"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				sess, ok := a.Sessions.Get()
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
					return nil
				}
				out := cmd.OutOrStdout()
				u := sess.User
				fmt.Fprintf(out, "User:        %s (%s)\n", u.DisplayName(), u.Username)
				fmt.Fprintf(out, "Role:        %s\n", u.Role)
				if u.CustomerID != nil {
					fmt.Fprintf(out, "Customer:    %d\n", *u.CustomerID)
				}
				fmt.Fprintf(out, "API:         %s\n", a.APIBaseURL)
				if exp, ok := session.TokenExpiry(sess.Token); ok {
					fmt.Fprintf(out, "Token:       expires %s\n", humanize.Time(exp))
				}
				perms := u.Permissions.List()
				names := make([]string, len(perms))
				for i, p := range perms {
					names[i] = string(p)
				}
				fmt.Fprintf(out, "Permissions: %s\n", strings.Join(names, ", "))
				return nil
			})
		},
	}
}

func newNavCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Show the menu visible to the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				sess, ok := a.Sessions.Get()
				if !ok {
					return requireSession(a)
				}
				visible := nav.Visible(a.Manifest, &sess.User)
				out := cmd.OutOrStdout()

				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(visible)
				}
				if visible.Empty() {
					fmt.Fprintln(out, "No menu entries.")
					return nil
				}
				for _, e := range visible.Entries {
					if e.Link != nil {
						fmt.Fprintf(out, "%-28s  %s\n", e.Link.Label, e.Link.Path)
						continue
					}
					fmt.Fprintln(out, e.Group.Label)
					for _, l := range e.Group.Links {
						fmt.Fprintf(out, "  %-26s  %s\n", l.Label, l.Path)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
