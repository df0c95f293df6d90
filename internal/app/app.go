// Package app wires the loader, extractor, resolver, oracle, checker and
// reporter into one validation run.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/usestring/harcheck/internal/cache"
	"github.com/usestring/harcheck/internal/check"
	"github.com/usestring/harcheck/internal/config"
	"github.com/usestring/harcheck/internal/extract"
	"github.com/usestring/harcheck/internal/loader"
	"github.com/usestring/harcheck/internal/oracle"
	"github.com/usestring/harcheck/internal/report"
	"github.com/usestring/harcheck/internal/resolver"
)

// App holds the components shared by every run. Compiled schemas are kept
// across runs, so a long-lived App (the MCP server) reuses them.
type App struct {
	cfg       *config.Config
	extractor *extract.Extractor
	oracle    oracle.Oracle
}

// New builds the shared components from configuration.
func New(cfg *config.Config) (*App, error) {
	x, err := extract.New()
	if err != nil {
		return nil, fmt.Errorf("creating extractor: %w", err)
	}

	schemas, err := cache.NewSchemaCache(cfg.SchemaCacheMaxItems)
	if err != nil {
		return nil, fmt.Errorf("creating schema cache: %w", err)
	}

	return &App{
		cfg:       cfg,
		extractor: x,
		oracle:    oracle.New(schemas, oracle.Options{IgnoreHeaderValues: cfg.IgnoreHeaderValues}),
	}, nil
}

// Validate loads both files and checks every log entry. A returned error is
// a *loader.StartupError, an extraction failure, or ctx ending; verdicts
// (including per-entry oracle failures) are in the results.
func (a *App) Validate(ctx context.Context, descriptionPath, logPath string) ([]check.EntryResult, error) {
	start := time.Now()

	desc, err := loader.LoadDescription(descriptionPath)
	if err != nil {
		return nil, err
	}
	doc, err := loader.LoadLog(logPath)
	if err != nil {
		return nil, err
	}

	entries, err := a.extractor.Entries(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extracting entries from %s: %w", logPath, err)
	}
	if len(entries) == 0 {
		slog.Info("log has no entries", slog.String("log", logPath))
		return []check.EntryResult{}, nil
	}

	checker := check.New(resolver.New(desc), a.oracle, a.cfg.ValidateWorkers)
	results, err := checker.Run(ctx, entries)
	if err != nil {
		return nil, err
	}

	slog.Info("validation completed",
		slog.String("description", descriptionPath),
		slog.String("log", logPath),
		slog.Int("endpoints", len(desc.Endpoints)),
		slog.Int("entries", len(entries)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return results, nil
}

// Run validates the configured files and writes the TAP report to w.
func (a *App) Run(ctx context.Context, w io.Writer) (report.Summary, error) {
	results, err := a.Validate(ctx, a.cfg.APIDescriptionPath, a.cfg.LogPath)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Write(w, results)
}
