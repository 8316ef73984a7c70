package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/meridianlab/sasgrid/internal/export"
	"github.com/meridianlab/sasgrid/internal/grid"
	"github.com/meridianlab/sasgrid/internal/metrics"
	"github.com/meridianlab/sasgrid/internal/repository"
)

// Exporter serializes a grid table to a destination path.
type Exporter interface {
	Export(table grid.Table, path string) error
}

// previewRows is how many leading rows are logged per generated table.
const previewRows = 5

// GridService drives grid generation for a set of labelled step sizes,
// exporting each resulting table and optionally persisting it.
type GridService struct {
	log       *slog.Logger         // Logger for logging service activities
	exporter  Exporter             // Exporter that writes the CSV files
	repo      repository.Interface // Optional Postgres sink, nil when disabled
	metrics   *metrics.Metrics     // Metrics for tracking service performance
	steps     map[string]float64   // Step label -> step size in degrees
	bounds    grid.Bounds          // Bounding box grids are generated over
	outputDir string               // Directory the CSV files are written into
	workers   int                  // Number of concurrent workers, one step size each
}

// job is one unit of work: a labelled step size.
type job struct {
	label string
	step  float64
}

// NewGridService creates a new instance of GridService. The repository may
// be nil, in which case tables are only written to CSV files. Step sizes,
// bounds and the output directory come in as explicit parameters rather
// than package state, so every invocation is self-contained.
func NewGridService(
	log *slog.Logger,
	exporter Exporter,
	repo repository.Interface,
	metrics *metrics.Metrics,
	steps map[string]float64,
	bounds grid.Bounds,
	outputDir string,
	workers int,
) *GridService {
	return &GridService{
		log:       log,
		exporter:  exporter,
		repo:      repo,
		metrics:   metrics,
		steps:     steps,
		bounds:    bounds,
		outputDir: outputDir,
		workers:   workers,
	}
}

// Run generates and exports one grid table per configured step size. Step
// sizes are handed to a small worker pool in sorted label order; each grid
// is an independent, stateless computation, so jobs never share state. Run
// waits for the pool to drain and returns the combined error of all failed
// jobs, having attempted every job regardless of earlier failures.
func (gs *GridService) Run(ctx context.Context) error {
	if err := os.MkdirAll(gs.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	labels := make([]string, 0, len(gs.steps))
	for label := range gs.steps {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	gs.log.InfoContext(ctx, "Starting grid generation",
		"jobs", len(labels), "num_workers", gs.workers, "output_dir", gs.outputDir)

	jobs := make(chan job, len(labels))
	errs := make(chan error, len(labels))
	var wgr sync.WaitGroup

	for i := 1; i <= gs.workers; i++ {
		wgr.Add(1)
		go gs.worker(ctx, i, &wgr, jobs, errs)
	}

	for _, label := range labels {
		jobs <- job{label: label, step: gs.steps[label]}
	}
	close(jobs)

	wgr.Wait()
	close(errs)

	var failures []error
	for err := range errs {
		failures = append(failures, err)
	}

	gs.log.InfoContext(ctx, "Grid generation finished",
		"jobs", len(labels), "failed", len(failures))

	return errors.Join(failures...)
}

// worker consumes labelled step sizes from the jobs channel and processes
// them one at a time, reporting failures on the errs channel.
func (gs *GridService) worker(
	ctx context.Context,
	idx int,
	wg *sync.WaitGroup,
	jobs <-chan job,
	errs chan<- error,
) {
	defer wg.Done()
	for jb := range jobs {
		gs.metrics.ActiveWorkers.Inc()
		gs.log.DebugContext(ctx, "Processing step size", "worker", idx, "label", jb.label, "step", jb.step)

		startTime := time.Now()
		if err := gs.process(ctx, jb); err != nil {
			gs.log.ErrorContext(ctx, "Failed to process step size",
				"worker", idx, "label", jb.label, "error", err)
			gs.metrics.Exports.WithLabelValues("failure").Inc()
			errs <- fmt.Errorf("step %s: %w", jb.label, err)
		} else {
			gs.metrics.Exports.WithLabelValues("success").Inc()
			gs.log.DebugContext(ctx, "Worker successfully processed the step size",
				"worker", idx, "label", jb.label)
		}
		gs.metrics.GridSeconds.WithLabelValues(jb.label).Observe(time.Since(startTime).Seconds())

		gs.metrics.ActiveWorkers.Dec()
	}
}

// process generates the table for one step size, exports it and, when a
// repository is configured, persists it under the step label.
func (gs *GridService) process(ctx context.Context, jb job) error {
	table := grid.Generate(jb.step, gs.bounds)
	gs.metrics.CellsGenerated.WithLabelValues(jb.label).Add(float64(len(table)))

	gs.log.DebugContext(ctx, "Generated grid table",
		"label", jb.label, "cells", len(table), "head", export.Preview(table, previewRows))

	path := filepath.Join(gs.outputDir, export.Filename(jb.label, jb.step))
	if err := gs.exporter.Export(table, path); err != nil {
		return fmt.Errorf("failed to export table: %w", err)
	}

	if gs.repo != nil {
		if err := gs.repo.SaveTable(ctx, jb.label, table); err != nil {
			return fmt.Errorf("failed to persist table: %w", err)
		}
	}

	return nil
}
