package thumbnail

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"wallpaper-catalog/internal/filesystem"
	"wallpaper-catalog/internal/logging"
	"wallpaper-catalog/internal/metrics"
	"wallpaper-catalog/internal/workers"
)

// Task asks for the thumbnail of Source to be written at Destination.
type Task struct {
	Source      string
	Destination string
}

// Summary counts task outcomes of one Run.
type Summary struct {
	Generated int
	Skipped   int
	Failed    int
}

// Total returns the number of tasks accounted for.
func (s Summary) Total() int {
	return s.Generated + s.Skipped + s.Failed
}

type outcome int

const (
	outcomeGenerated outcome = iota
	outcomeSkipped
	outcomeFailed
)

// Throttle holds back conversions under memory pressure. Wait returns an
// error only when ctx ends first.
type Throttle interface {
	Wait(ctx context.Context) error
}

// Scheduler renders thumbnails with a bounded pool of workers.
type Scheduler struct {
	converter Converter
	throttle  Throttle
	workers   int
	width     int
	height    int
}

// NewScheduler returns a scheduler using converter. A workers value below 1
// sizes the pool from the available CPUs.
func NewScheduler(converter Converter, workerCount int) *Scheduler {
	if workerCount < 1 {
		workerCount = workers.ForCPU(0)
	}
	return &Scheduler{
		converter: converter,
		workers:   workerCount,
		width:     Width,
		height:    Height,
	}
}

// SetThrottle makes every worker wait on t before decoding an image.
func (s *Scheduler) SetThrottle(t Throttle) {
	s.throttle = t
}

// Workers returns the pool size.
func (s *Scheduler) Workers() int {
	return s.workers
}

// Run processes tasks and blocks until every task has finished. Tasks whose
// destination already exists are skipped. Per-task failures are logged and
// counted; they never stop the remaining tasks. Tasks not yet started when
// ctx is cancelled count as failed.
func (s *Scheduler) Run(ctx context.Context, tasks []Task) Summary {
	var summary Summary
	if len(tasks) == 0 {
		return summary
	}

	available := s.converter != nil && s.converter.IsAvailable()
	backend := "none"
	if s.converter != nil {
		backend = s.converter.Name()
	}
	if !available {
		logging.Warn("No thumbnail backend available (%s); %d thumbnails will not be generated", backend, len(tasks))
	}

	s.ensureDirs(tasks)

	numWorkers := s.workers
	if numWorkers > len(tasks) {
		numWorkers = len(tasks)
	}

	start := time.Now()
	logging.Debug("Generating thumbnails for %d images with %d workers (%s)", len(tasks), numWorkers, backend)

	metrics.ThumbnailWorkers.Set(float64(numWorkers))
	metrics.ThumbnailQueueDepth.Set(float64(len(tasks)))
	defer func() {
		metrics.ThumbnailWorkers.Set(0)
		metrics.ThumbnailQueueDepth.Set(0)
	}()

	// One shared channel: idle workers pick up the next task, so a slow
	// image never holds up a batch assigned to a single worker.
	queue := make(chan Task)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				metrics.ThumbnailQueueDepth.Dec()
				results <- s.process(ctx, task, available, backend)
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, task := range tasks {
			queue <- task
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for o := range results {
		switch o {
		case outcomeGenerated:
			summary.Generated++
		case outcomeSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	logging.Info("Thumbnails: %d generated, %d skipped, %d failed in %v",
		summary.Generated, summary.Skipped, summary.Failed, time.Since(start).Round(time.Millisecond))

	return summary
}

func (s *Scheduler) process(ctx context.Context, task Task, available bool, backend string) outcome {
	if filesystem.Exists(task.Destination) {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(backend, "skipped").Inc()
		return outcomeSkipped
	}

	if ctx.Err() != nil || !available {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(backend, "failed").Inc()
		return outcomeFailed
	}

	if s.throttle != nil {
		if err := s.throttle.Wait(ctx); err != nil {
			metrics.ThumbnailGenerationsTotal.WithLabelValues(backend, "failed").Inc()
			return outcomeFailed
		}
	}

	start := time.Now()
	if err := s.converter.Convert(task.Source, task.Destination, s.width, s.height); err != nil {
		logging.Warn("Failed to generate thumbnail for %s: %v", task.Source, err)
		metrics.ThumbnailGenerationsTotal.WithLabelValues(backend, "failed").Inc()
		return outcomeFailed
	}

	metrics.ThumbnailGenerationsTotal.WithLabelValues(backend, "generated").Inc()
	metrics.ThumbnailGenerationDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
	logging.Debug("Thumbnail generated: %s", task.Destination)
	return outcomeGenerated
}

// ensureDirs creates every destination directory once up front.
func (s *Scheduler) ensureDirs(tasks []Task) {
	seen := make(map[string]bool)
	for _, task := range tasks {
		dir := filepath.Dir(task.Destination)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Warn("Failed to create thumbnail directory %s: %v", dir, err)
		}
	}
}
