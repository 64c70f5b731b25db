package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/scanner"

	"github.com/gorilla/mux"
)

// ErrScanInProgress is returned when a scan is requested while another runs.
var ErrScanInProgress = errors.New("a scan is already in progress")

// scanGuard allows a single scan at a time. Two concurrent scans would
// race on the catalog.
type scanGuard struct {
	running atomic.Bool
}

func (g *scanGuard) run(fn func() error) error {
	if !g.running.CompareAndSwap(false, true) {
		return ErrScanInProgress
	}
	defer g.running.Store(false)
	return fn()
}

// ScanResponse is returned by the scan endpoints.
type ScanResponse struct {
	Count      int                  `json:"count"`
	Wallpapers []database.Wallpaper `json:"wallpapers"`
}

// RunScanAll rebuilds the catalog under the scan guard. Used for the
// startup scan.
func (h *Handlers) RunScanAll(ctx context.Context) ([]database.Wallpaper, error) {
	var entries []database.Wallpaper
	err := h.guard.run(func() error {
		var err error
		entries, err = h.scanner.ScanAll(ctx)
		return err
	})
	return entries, err
}

// IsScanning reports whether a scan is currently running.
func (h *Handlers) IsScanning() bool {
	return h.guard.running.Load()
}

// ScanSource scans one registered source.
func (h *Handlers) ScanSource(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	// A client hanging up must not abort a scan half way through.
	ctx := context.WithoutCancel(r.Context())

	src, err := h.db.GetSource(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Source not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to load source", http.StatusInternalServerError)
		return
	}

	var entries []database.Wallpaper
	err = h.guard.run(func() error {
		var err error
		entries, err = h.scanner.Scan(ctx, src.ID, src.Path)
		return err
	})
	h.writeScanResult(w, entries, err)
}

// ScanAll clears the catalog and rescans every registered source.
func (h *Handlers) ScanAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.RunScanAll(context.WithoutCancel(r.Context()))
	h.writeScanResult(w, entries, err)
}

func (h *Handlers) writeScanResult(w http.ResponseWriter, entries []database.Wallpaper, err error) {
	if err != nil {
		status, message := scanErrorStatus(err)
		writeJSONError(w, message, status)
		return
	}
	if entries == nil {
		entries = []database.Wallpaper{}
	}
	writeJSONStatus(w, http.StatusOK, ScanResponse{Count: len(entries), Wallpapers: entries})
}

// scanErrorStatus maps a scan failure onto one user-facing message.
func scanErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrScanInProgress):
		return http.StatusConflict, "A scan is already in progress"
	case errors.Is(err, scanner.ErrSourceUnreadable):
		return http.StatusUnprocessableEntity, "Source directory could not be read"
	case errors.Is(err, scanner.ErrCatalogWrite):
		return http.StatusInternalServerError, "Failed to write to the catalog"
	default:
		return http.StatusInternalServerError, "Scan failed"
	}
}
