package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"hrpulse/internal/analysis"
	"hrpulse/internal/infrastructure"
)

// loadConcurrency caps the number of files decoded in parallel.
// Workbook decoding is memory-heavy; a small bound keeps peak usage
// predictable for large uploads.
const loadConcurrency = 4

// LoadFile decodes one file by extension. Only .xlsx and .csv are
// supported; anything else is rejected before decoding.
func LoadFile(filePath, displayName string) (*analysis.Source, error) {
	switch strings.ToLower(filepath.Ext(displayName)) {
	case ".xlsx":
		return LoadExcel(filePath, displayName)
	case ".csv":
		return LoadCSV(filePath, displayName)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", displayName)
	}
}

// LoadSources decodes many files concurrently. A file that fails to
// decode is skipped with a warning rather than failing the batch; the
// engine later reports no-usable-data if nothing survives. Source
// order follows the input order regardless of completion order.
func LoadSources(ctx context.Context, paths map[string]string) []analysis.Source {
	logger := infrastructure.LoggerWithContext(ctx).With("component", "ingest")

	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]*analysis.Source, len(names))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)

	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			source, err := LoadFile(paths[name], name)
			if err != nil {
				logger.Warn("skipping file", "file", name, "error", err)
				return nil
			}

			mu.Lock()
			results[i] = source
			mu.Unlock()
			return nil
		})
	}

	// Per-file errors are absorbed above; only context cancellation
	// propagates, and then partial results are still returned.
	_ = g.Wait()

	sources := make([]analysis.Source, 0, len(results))
	for _, s := range results {
		if s != nil {
			sources = append(sources, *s)
		}
	}
	return sources
}
