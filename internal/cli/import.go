package cli

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/shipdesk/internal/app"
	"github.com/me/shipdesk/internal/csvimport"
	"github.com/me/shipdesk/internal/forms"
	"github.com/me/shipdesk/pkg/model"
)

// newImportCmd builds "<resource> import <file>" for deliveries or pickups.
func newImportCmd(resource, what string) *cobra.Command {
	kind := model.ImportDeliveries
	if resource == "pickups" {
		kind = model.ImportPickups
	}

	parent := &cobra.Command{
		Use:   resource,
		Short: "Bulk operations on " + what,
	}
	parent.AddCommand(&cobra.Command{
		Use:   "import <file.csv>",
		Short: "Upload a CSV of " + what,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}

			return withApp(cmd, func(a *app.App) error {
				if err := requireSession(a); err != nil {
					return err
				}
				rec, err := a.Importer(printer(cmd)).Import(cmd.Context(), kind, csvimport.File{
					Name:        filepath.Base(path),
					ContentType: mime.TypeByExtension(filepath.Ext(path)),
					Size:        info.Size(),
					Body:        f,
				})
				if errors.Is(err, csvimport.ErrForbidden) {
					return fmt.Errorf("missing permission %s", csvimport.Permission(kind))
				}
				if fe, ok := forms.AsFieldErrors(err); ok {
					return errors.New(firstFieldMessage(fe))
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %s rows, %s\n",
					rec.Filename, humanize.Comma(int64(rec.Rows)), humanize.Bytes(uint64(rec.Size)))
				if rec.ArchiveURI != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Archived to %s\n", rec.ArchiveURI)
				}
				return nil
			})
		},
	})
	return parent
}

func newImportsCmd() *cobra.Command {
	opts := model.DefaultListOptions()

	cmd := &cobra.Command{
		Use:   "imports",
		Short: "Show the local CSV import log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				opts.Clamp()
				records, total, err := a.Store.ListImports(cmd.Context(), opts)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No imports recorded.")
					return nil
				}
				fmt.Fprintf(out, "%-16s  %-10s  %-28s  %6s  %8s  %-6s  %s\n", "WHEN", "KIND", "FILE", "ROWS", "SIZE", "RESULT", "MESSAGE")
				for _, r := range records {
					result := "ok"
					if !r.OK {
						result = "failed"
					}
					fmt.Fprintf(out, "%-16s  %-10s  %-28s  %6s  %8s  %-6s  %s\n",
						humanize.Time(r.CreatedAt), r.Kind, truncate(r.Filename, 28),
						humanize.Comma(int64(r.Rows)), humanize.Bytes(uint64(r.Size)), result, r.Message)
				}
				if opts.Page*opts.PerPage < total {
					fmt.Fprintf(out, "\n(%d of %s shown)\n", len(records), humanize.Comma(int64(total)))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", opts.Page, "Page number")
	cmd.Flags().IntVar(&opts.PerPage, "per-page", opts.PerPage, "Rows per page (max 100)")
	return cmd
}

// firstFieldMessage picks the message to show for an upload rejection.
func firstFieldMessage(fe forms.FieldErrors) string {
	for _, f := range []string{"file", "size"} {
		if m := fe.Get(f); m != "" {
			return m
		}
	}
	if fields := fe.Fields(); len(fields) > 0 {
		return fe.Get(fields[0])
	}
	return "invalid file"
}
