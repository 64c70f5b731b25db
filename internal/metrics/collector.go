package metrics

import (
	"context"
	"time"

	"wallpaper-catalog/internal/logging"
)

// StatsProvider supplies catalog totals for the gauges.
type StatsProvider interface {
	CatalogStats(ctx context.Context) (Stats, error)
}

// Stats holds the current catalog totals
type Stats struct {
	Wallpapers      int
	Favorites       int
	ActiveSources   int
	InactiveSources int
}

// Collector periodically refreshes catalog gauges
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

// Collect refreshes the gauges once.
func (c *Collector) Collect() {
	c.collect()
}

func (c *Collector) collectLoop() {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := c.statsProvider.CatalogStats(ctx)
	if err != nil {
		logging.Warn("Metrics collection failed: %v", err)
		return
	}

	CatalogWallpapers.Set(float64(stats.Wallpapers))
	CatalogFavorites.Set(float64(stats.Favorites))
	CatalogSources.WithLabelValues("active").Set(float64(stats.ActiveSources))
	CatalogSources.WithLabelValues("inactive").Set(float64(stats.InactiveSources))

	logging.Debug("Metrics collected: wallpapers=%d, favorites=%d, sources=%d/%d",
		stats.Wallpapers, stats.Favorites, stats.ActiveSources, stats.InactiveSources)
}
