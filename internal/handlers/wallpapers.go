package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/logging"
	"wallpaper-catalog/internal/thumbnail"

	"github.com/gorilla/mux"
)

// FavoriteRequest is the body of PUT /api/wallpapers/{id}/favorite.
type FavoriteRequest struct {
	Favorite *bool `json:"favorite"`
}

// ListWallpapers returns catalog entries. By default only wallpapers of
// active sources are listed; ?all=true includes inactive ones. ?q= filters
// by keywords and path, ?favorites=true keeps favorites only.
func (h *Handlers) ListWallpapers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	all, _ := strconv.ParseBool(query.Get("all"))
	favorites, _ := strconv.ParseBool(query.Get("favorites"))

	wallpapers, err := h.db.ListWallpapers(r.Context(), database.ListOptions{
		ActiveOnly:    !all,
		Query:         query.Get("q"),
		FavoritesOnly: favorites,
	})
	if err != nil {
		logging.Error("Failed to list wallpapers: %v", err)
		writeJSONError(w, "Failed to list wallpapers", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, http.StatusOK, wallpapers)
}

// SetFavorite flags or unflags a wallpaper.
func (h *Handlers) SetFavorite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req FavoriteRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Favorite == nil {
		writeJSONError(w, "Body must be {\"favorite\": true|false}", http.StatusBadRequest)
		return
	}

	err := h.db.SetFavorite(r.Context(), id, *req.Favorite)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Wallpaper not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("Failed to update favorite %s: %v", id, err)
		writeJSONError(w, "Failed to update favorite", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, http.StatusOK, map[string]interface{}{"id": id, "isFavorite": *req.Favorite})
}

// GetThumbnail serves a cached thumbnail by file name.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name != filepath.Base(name) || !strings.HasSuffix(name, thumbnail.Extension) || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	http.ServeFile(w, r, filepath.Join(h.thumbnailDir, name))
}
