package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"hrpulse/internal/config"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     config.PathsConfig
	analysis  *AnalysisService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Runtime   map[string]any `json:"runtime,omitempty"`
	Services  map[string]any `json:"services,omitempty"`
}

// NewHealthService creates a health service
func NewHealthService(version string, paths config.PathsConfig, analysisService *AnalysisService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		paths:     paths,
		analysis:  analysisService,
		startTime: time.Now(),
		logger:    logger.With("service", "health"),
	}
}

// Check reports the current health status. Status degrades when the
// reports directory is not writable, since report generation would
// fail.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Runtime: map[string]any{
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
		Services: map[string]any{
			"sessions": s.analysis.SessionCount(),
		},
	}

	if err := checkWritable(s.paths.ReportsDir); err != nil {
		status.Status = "degraded"
		status.Services["reports_dir"] = err.Error()
		s.logger.WarnContext(ctx, "reports directory not writable", "error", err)
	}

	return status
}

func checkWritable(dir string) error {
	if dir == "" {
		return nil
	}
	f, err := os.CreateTemp(dir, ".healthcheck-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
