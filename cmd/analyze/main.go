// Command analyze runs the spreadsheet analysis pipeline over local
// files and prints the results, without starting the web server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"hrpulse/internal/analysis"
	"hrpulse/internal/config"
	"hrpulse/internal/exporter"
	"hrpulse/internal/infrastructure"
	"hrpulse/internal/ingest"
)

func main() {
	format := flag.String("format", "insights", "output format: insights | json")
	out := flag.String("out", "", "also write CSV and JSON reports into this directory")
	title := flag.String("title", "", "report title (used with -out)")
	company := flag.String("company", "", "company name (used with -out)")
	logLevel := flag.String("log-level", "warn", "log level: debug | info | warn | error")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: analyze [flags] file.xlsx [file.csv ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	logger, err := infrastructure.InitializeLogger(config.LoggingConfig{
		Level:  *logLevel,
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := context.Background()

	paths := make(map[string]string, flag.NArg())
	for _, arg := range flag.Args() {
		paths[filepath.Base(arg)] = arg
	}

	sources := ingest.LoadSources(ctx, paths)

	result, err := analysis.NewAnalyzer(logger).Analyze(ctx, sources)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
			os.Exit(1)
		}
	case "insights":
		for _, insight := range result.Insights {
			fmt.Println(insight)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown format: %s\n", *format)
		os.Exit(2)
	}

	if *out != "" {
		writer := exporter.NewReportWriter(config.PathsConfig{ReportsDir: *out}, logger)

		meta := exporter.Metadata{Title: *title, Company: *company}
		csvPath, err := writer.WriteCSV(ctx, "local", result, meta)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to write CSV report: %v\n", err)
			os.Exit(1)
		}
		jsonPath, err := writer.WriteJSON(ctx, "local", result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to write JSON report: %v\n", err)
			os.Exit(1)
		}

		logger.Info("Reports written",
			slog.String("csv", csvPath),
			slog.String("json", jsonPath))
	}
}
