package handlers

import (
	"net/http"
	"runtime"
	"time"

	"wallpaper-catalog/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Scanning bool   `json:"scanning"`
	Database string `json:"database"`

	Wallpapers      int `json:"wallpapers"`
	Favorites       int `json:"favorites"`
	ActiveSources   int `json:"activeSources"`
	InactiveSources int `json:"inactiveSources"`

	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports service status. It returns 503 when the catalog is
// unreachable.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Scanning:     h.IsScanning(),
		Database:     "ok",
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	status := http.StatusOK
	stats, err := h.db.CatalogStats(r.Context())
	if err != nil {
		response.Status = statusDegraded
		response.Database = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		response.Wallpapers = stats.Wallpapers
		response.Favorites = stats.Favorites
		response.ActiveSources = stats.ActiveSources
		response.InactiveSources = stats.InactiveSources
	}

	writeJSONStatus(w, status, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// GetVersion returns the application version and build information
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeJSONStatus(w, http.StatusOK, startup.GetBuildInfo())
}
