package ui

import (
	"errors"
	"net/http"

	"github.com/me/shipdesk/internal/scan"
	"github.com/me/shipdesk/pkg/model"
)

const recentScanLimit = 20

// scanPage is what the checkpoint template shows.
type scanPage struct {
	Title  string
	Action string
	Check  bool
}

// HandleScanPage renders the scan form of a checkpoint.
func (ui *UI) HandleScanPage(def scan.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ui.renderScan(w, r, http.StatusOK, def.Checkpoint, scanPage{Title: def.Title, Action: def.Path}, nil, "")
	}
}

// HandleScan records a scanned code at a checkpoint.
func (ui *UI) HandleScan(def scan.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := scanPage{Title: def.Title, Action: def.Path}
		ev, err := ui.scanner.Scan(r.Context(), def.Checkpoint, r.PostFormValue("code"))
		ui.scanResult(w, r, def.Checkpoint, page, ev, err)
	}
}

// HandleSortingCheckPage renders the sorting verification form.
func (ui *UI) HandleSortingCheckPage(w http.ResponseWriter, r *http.Request) {
	ui.renderScan(w, r, http.StatusOK, model.CheckpointSorting, sortingCheckPage(), nil, "")
}

// HandleSortingCheck verifies a scanned parcel passed sorting.
func (ui *UI) HandleSortingCheck(w http.ResponseWriter, r *http.Request) {
	ev, err := ui.scanner.Check(r.Context(), r.PostFormValue("code"))
	ui.scanResult(w, r, model.CheckpointSorting, sortingCheckPage(), ev, err)
}

func sortingCheckPage() scanPage {
	return scanPage{Title: "Sorting check", Action: scan.SortingCheckPath, Check: true}
}

func (ui *UI) scanResult(w http.ResponseWriter, r *http.Request, cp model.Checkpoint, page scanPage, ev *model.ScanEvent, err error) {
	switch {
	case err == nil:
		ui.renderScan(w, r, http.StatusOK, cp, page, ev, "")
	case errors.Is(err, scan.ErrForbidden):
		ui.renderForbidden(w, r)
	case errors.Is(err, scan.ErrEmptyCode), errors.Is(err, scan.ErrInvalidCode):
		ui.renderScan(w, r, http.StatusUnprocessableEntity, cp, page, nil, "Not a valid document number.")
	case errors.Is(err, scan.ErrDuplicateScan):
		ui.renderScan(w, r, http.StatusConflict, cp, page, nil, "This parcel was just scanned.")
	case model.IsUnauthorized(err):
		ui.renderAPIError(w, r, "Scan failed", err)
	default:
		// Failed API calls were recorded and reported by the scanner.
		ui.renderScan(w, r, http.StatusOK, cp, page, ev, "")
	}
}

func (ui *UI) renderScan(w http.ResponseWriter, r *http.Request, status int, cp model.Checkpoint, page scanPage, last *model.ScanEvent, msg string) {
	recent, err := ui.scanner.Recent(r.Context(), cp, recentScanLimit)
	if err != nil {
		ui.logger.Warn("list scans failed", "checkpoint", cp, "error", err)
	}
	ui.render(w, r, status, "scan", map[string]any{
		"Title":  page.Title + " - shipdesk",
		"Page":   page,
		"Last":   last,
		"Error":  msg,
		"Recent": recent,
	})
}
