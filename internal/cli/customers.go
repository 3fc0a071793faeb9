package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/shipdesk/internal/api"
	"github.com/me/shipdesk/internal/app"
	"github.com/me/shipdesk/pkg/model"
)

func newCustomersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Customer master data",
	}
	cmd.AddCommand(newCustomersListCmd())
	return cmd
}

func newCustomersListCmd() *cobra.Command {
	var (
		filter api.CustomerFilter
		opts   = model.DefaultListOptions()
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				sess, ok := a.Sessions.Get()
				if !ok {
					return requireSession(a)
				}
				if !sess.Can(model.PermCustomersView) {
					return fmt.Errorf("missing permission %s", model.PermCustomersView)
				}
				if sess.User.IsCustomer() && sess.User.CustomerID != nil {
					filter.CustomerID = *sess.User.CustomerID
				}
				opts.Clamp()

				page, err := a.Services.Customers.List(cmd.Context(), filter, opts)
				if err != nil {
					return fmt.Errorf("list customers: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(page.Items) == 0 {
					fmt.Fprintln(out, "No customers found.")
					return nil
				}

				fmt.Fprintf(out, "%-6s  %-10s  %-30s  %-16s  %s\n", "ID", "CODE", "NAME", "PHONE", "ADDRESS")
				fmt.Fprintf(out, "%-6s  %-10s  %-30s  %-16s  %s\n", "--", "----", "----", "-----", "-------")
				for _, c := range page.Items {
					fmt.Fprintf(out, "%-6d  %-10s  %-30s  %-16s  %s %s\n",
						c.ID, c.Code, truncate(c.Name, 30), c.PhoneNumber, c.Prefecture, c.Address1)
				}

				if page.HasMore() {
					fmt.Fprintf(out, "\n(page %d, %d of %s shown)\n", page.Page, len(page.Items), humanize.Comma(int64(page.Total)))
				}
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&filter.CustomerName, "name", "", "Filter by customer name")
	f.StringVar(&filter.CustomerCode, "code", "", "Filter by customer code")
	f.IntVar(&opts.Page, "page", opts.Page, "Page number")
	f.IntVar(&opts.PerPage, "per-page", opts.PerPage, "Rows per page (max 100)")
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
