package handlers

import (
	"errors"
	"net/http"
	"path/filepath"

	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/filesystem"
	"wallpaper-catalog/internal/logging"

	"github.com/gorilla/mux"
)

// AddSourceRequest is the body of POST /api/sources.
type AddSourceRequest struct {
	Path string `json:"path"`
}

// SetActiveRequest is the body of PUT /api/sources/{id}/active.
type SetActiveRequest struct {
	Active *bool `json:"active"`
}

// ListSources returns every registered source.
func (h *Handlers) ListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.db.ListSources(r.Context())
	if err != nil {
		logging.Error("Failed to list sources: %v", err)
		writeJSONError(w, "Failed to list sources", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, http.StatusOK, sources)
}

// AddSource registers a directory. The path must exist and be a directory;
// it is stored in absolute, cleaned form. Registering does not scan.
func (h *Handlers) AddSource(w http.ResponseWriter, r *http.Request) {
	var req AddSourceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	path, err := filepath.Abs(req.Path)
	if err != nil {
		writeJSONError(w, "Invalid path", http.StatusBadRequest)
		return
	}

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil || !info.IsDir() {
		writeJSONError(w, "Path is not a readable directory", http.StatusUnprocessableEntity)
		return
	}

	src, err := h.db.AddSource(r.Context(), path)
	if err != nil {
		logging.Error("Failed to add source %s: %v", path, err)
		writeJSONError(w, "Failed to add source", http.StatusInternalServerError)
		return
	}

	logging.Info("Registered source %s (%s)", src.Path, src.ID)
	writeJSONStatus(w, http.StatusCreated, src)
}

// SetSourceActive toggles whether a source's wallpapers are listed.
func (h *Handlers) SetSourceActive(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req SetActiveRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Active == nil {
		writeJSONError(w, "Body must be {\"active\": true|false}", http.StatusBadRequest)
		return
	}

	src, err := h.db.SetSourceActive(r.Context(), id, *req.Active)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Source not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("Failed to update source %s: %v", id, err)
		writeJSONError(w, "Failed to update source", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, http.StatusOK, src)
}

// RemoveSource unregisters a source and drops its wallpapers. Cached
// thumbnails are left on disk; another source may share them.
func (h *Handlers) RemoveSource(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := h.db.RemoveSource(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Source not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("Failed to remove source %s: %v", id, err)
		writeJSONError(w, "Failed to remove source", http.StatusInternalServerError)
		return
	}

	logging.Info("Removed source %s", id)
	w.WriteHeader(http.StatusNoContent)
}
