package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/filesystem"
	"wallpaper-catalog/internal/handlers"
	"wallpaper-catalog/internal/logging"
	"wallpaper-catalog/internal/memory"
	"wallpaper-catalog/internal/metrics"
	"wallpaper-catalog/internal/middleware"
	"wallpaper-catalog/internal/scanner"
	"wallpaper-catalog/internal/startup"
	"wallpaper-catalog/internal/thumbnail"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Set GOMEMLIMIT before anything large is allocated.
	memory.Configure(os.Getenv)

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
	metrics.InitializeMetrics()
	filesystem.SetObserver(metrics.NewFilesystemObserver())

	dbStart := time.Now()
	db, err := database.New(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer db.Close()
	startup.LogDatabaseInit(time.Since(dbStart))

	converter, err := thumbnail.Open(config.ThumbnailBackend)
	if err != nil {
		startup.LogFatal("Failed to initialize thumbnails: %v", err)
	}
	defer thumbnail.ShutdownVips()
	scheduler := thumbnail.NewScheduler(converter, config.ThumbnailWorkers)
	memMonitor := memory.NewMonitor(memory.DefaultConfig())
	memMonitor.Start()
	if memMonitor.Enabled() {
		scheduler.SetThrottle(memMonitor)
	}
	startup.LogThumbnailInit(converter.Name(), scheduler.Workers())

	sc := scanner.New(db, scheduler, config.ThumbnailDir)
	h := handlers.New(db, sc, config)

	var collector *metrics.Collector
	if config.MetricsEnabled {
		collector = metrics.NewCollector(db, time.Minute)
		collector.Start()
	}

	router := setupRouter(h, config.MetricsEnabled)
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Scans run inside the request and may take minutes.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	if config.ScanOnStart {
		go func() {
			entries, err := h.RunScanAll(context.Background())
			if err != nil {
				logging.Error("Startup scan failed: %v", err)
				return
			}
			logging.Info("Startup scan cataloged %d wallpapers", len(entries))
			if collector != nil {
				collector.Collect()
			}
		}()
	}

	go handleShutdown(srv, collector, memMonitor)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, metricsEnabled bool) *mux.Router {
	r := mux.NewRouter()

	if metricsEnabled {
		r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
		r.Handle("/metrics", h.MetricsHandler()).Methods("GET")
	}

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")
	r.HandleFunc("/thumbnails/{name}", h.GetThumbnail).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sources", h.ListSources).Methods("GET")
	api.HandleFunc("/sources", h.AddSource).Methods("POST")
	api.HandleFunc("/sources/{id}", h.RemoveSource).Methods("DELETE")
	api.HandleFunc("/sources/{id}/active", h.SetSourceActive).Methods("PUT")
	api.HandleFunc("/sources/{id}/scan", h.ScanSource).Methods("POST")
	api.HandleFunc("/scan", h.ScanAll).Methods("POST")
	api.HandleFunc("/wallpapers", h.ListWallpapers).Methods("GET")
	api.HandleFunc("/wallpapers/{id}/favorite", h.SetFavorite).Methods("PUT")

	return r
}

func handleShutdown(srv *http.Server, collector *metrics.Collector, memMonitor *memory.Monitor) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	startup.LogShutdownStep("Stopping memory monitor")
	memMonitor.Stop()
	startup.LogShutdownStepComplete("Memory monitor stopped")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
