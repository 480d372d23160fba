package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/dottify/internal/formatter"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10
	manifestName   = "export_manifest.json"
)

// BulkExportOpts contains configuration for bulk listing exports.
type BulkExportOpts struct {
	Kind       formatter.Kind // album or playlist
	Format     string         // Export format: csv, markdown, txt
	OutputDir  string         // Base output directory (default: dottify_export_{epoch})
	NumWorkers int            // Concurrent workers (default: 4, at most 10)
	RateLimit  float64        // Listings loaded per second; 0 means unlimited
}

// ListingExportJob is one loaded listing waiting to be written.
type ListingExportJob struct {
	ID      string
	Listing *formatter.Listing
}

// ListingExportResult records the outcome of exporting one listing.
type ListingExportResult struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Success bool     `json:"success"`
	Files   []string `json:"files,omitempty"`
	Error   error    `json:"-"`
	Message string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export run.
type BulkExportResult struct {
	Kind              formatter.Kind        `json:"kind"`
	Format            string                `json:"format"`
	ExportedAt        time.Time             `json:"exported_at"`
	Total             int                   `json:"total"`
	SuccessfulExports int                   `json:"successful"`
	FailedExports     int                   `json:"failed"`
	OutputDirectory   string                `json:"output_directory"`
	ManifestPath      string                `json:"-"`
	Results           []ListingExportResult `json:"results"`
}

// BulkExport exports the listings with the given IDs concurrently with rate limiting and progress tracking.
//
// Loading happens on a single producer goroutine; writing happens on the worker pool.
// Cancelling ctx stops queuing new listings. Listings already queued are still reported.
func (e *ExportEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("export engine has no listing source")
	}

	if opts.Kind == "" {
		opts.Kind = formatter.KindAlbum
	}
	if opts.Format == "" {
		opts.Format = "csv"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("dottify_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		Kind:            opts.Kind,
		Format:          opts.Format,
		ExportedAt:      time.Now(),
		Total:           len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ListingExportResult, 0, len(ids)),
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	jobs := make(chan ListingExportJob, len(ids))
	results := make(chan ListingExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			e.sendProgress(prog, loadingUpdate(i+1, len(ids), id))

			listing, err := e.load(opts.Kind, id)
			if err != nil {
				results <- ListingExportResult{
					ID:    id,
					Title: fmt.Sprintf("Unknown (%s)", id),
					Error: fmt.Errorf("failed to load %s: %w", opts.Kind, err),
				}
				continue
			}

			jobs <- ListingExportJob{ID: id, Listing: listing}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Error != nil {
			res.Message = res.Error.Error()
		}
		result.Results = append(result.Results, res)
		recordExport(opts, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.Title, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.Title, res.Error))
			if e.logger != nil {
				e.logger.Warn("export failed", "id", res.ID, "error", res.Error)
			}
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestName)
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))

	if e.logger != nil {
		e.logger.Info("bulk export finished", "kind", opts.Kind, "ok", result.SuccessfulExports, "failed", result.FailedExports)
	}
	return result, nil
}

// exportWorker is a worker goroutine that writes listings from the jobs channel.
//
// The results channel is buffered for every ID, so workers never block on it.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan ListingExportJob,
	results chan<- ListingExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			results <- ListingExportResult{ID: job.ID, Title: job.Listing.Title, Error: ctx.Err()}
			continue
		}
		results <- e.exportSingle(job, opts)
	}
}

// exportSingle writes one listing to the appropriate format.
func (e *ExportEngine) exportSingle(j ListingExportJob, opts BulkExportOpts) ListingExportResult {
	result := ListingExportResult{
		ID:    j.ID,
		Title: j.Listing.Title,
	}

	timer := prometheus.NewTimer(listingExportDuration.WithLabelValues(string(opts.Kind), opts.Format))
	defer timer.ObserveDuration()

	base := filepath.Join(opts.OutputDir, j.ID)
	if opts.Format == "txt" || opts.Format == "text" {
		base += "_tracks.txt"
	}

	files, err := formatter.Write(j.Listing, opts.Format, base, nil)
	if err != nil {
		result.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		return result
	}

	result.Files = files
	result.Success = true
	return result
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
