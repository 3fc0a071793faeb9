package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/shipdesk/internal/app"
	"github.com/me/shipdesk/internal/scan"
	"github.com/me/shipdesk/pkg/model"
)

func newScanCmd() *cobra.Command {
	var (
		check  bool
		recent int
	)

	cmd := &cobra.Command{
		Use:   "scan <checkpoint> <code>",
		Short: "Record a parcel scan at a checkpoint",
		Long: "Record a parcel scan at a checkpoint, e.g. 'shipdesk scan collection DN-0001'.\n" +
			"With --check, verify sorting without changing the status: 'shipdesk scan --check DN-0001'.\n" +
			"With --recent N, list the last N scans at the checkpoint instead.\n\n" +
			"Checkpoints: " + checkpointNames(),
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case check:
				return cobra.ExactArgs(1)(cmd, args)
			case recent > 0:
				return cobra.ExactArgs(1)(cmd, args)
			default:
				return cobra.ExactArgs(2)(cmd, args)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				if err := requireSession(a); err != nil {
					return err
				}
				scanner := a.Scanner(printer(cmd))
				out := cmd.OutOrStdout()

				if recent > 0 {
					events, err := scanner.Recent(cmd.Context(), model.Checkpoint(args[0]), recent)
					if err != nil {
						return err
					}
					for _, ev := range events {
						result := "ok"
						if !ev.OK {
							result = "failed"
						}
						fmt.Fprintf(out, "%-16s  %-14s  %-6s  %s\n", humanize.Time(ev.ScannedAt), ev.DocumentNumber, result, ev.Message)
					}
					return nil
				}

				var (
					ev  *model.ScanEvent
					err error
				)
				if check {
					ev, err = scanner.Check(cmd.Context(), args[0])
				} else {
					ev, err = scanner.Scan(cmd.Context(), model.Checkpoint(args[0]), args[1])
				}
				switch {
				case errors.Is(err, scan.ErrForbidden):
					return errors.New("missing permission for this checkpoint")
				case errors.Is(err, scan.ErrEmptyCode), errors.Is(err, scan.ErrInvalidCode):
					return fmt.Errorf("not a document number: %q", strings.TrimSpace(args[len(args)-1]))
				case errors.Is(err, scan.ErrDuplicateScan):
					return errors.New("already scanned a moment ago")
				case err != nil:
					return err
				}
				fmt.Fprintf(out, "%s %s\n", ev.DocumentNumber, ev.Message)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Verify sorting without updating the status")
	cmd.Flags().IntVar(&recent, "recent", 0, "List the last N scans at the checkpoint")
	return cmd
}

func checkpointNames() string {
	defs := scan.Definitions()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = string(d.Checkpoint)
	}
	return strings.Join(names, ", ")
}
