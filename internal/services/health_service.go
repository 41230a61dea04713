package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"campuscli/internal/config"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	data      config.DataConfig
	analytics *AnalyticsService
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

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service with injected dependencies
func NewHealthService(version string, data config.DataConfig, analytics *AnalyticsService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		data:      data,
		analytics: analytics,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "performing health check",
		slog.String("version", hs.version),
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck returns readiness status
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]any),
	}

	status.Services["dataset"] = hs.checkDatasetHealth()
	status.Services["analytics"] = hs.checkAnalyticsHealth()

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]any{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]any {
	return map[string]any{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

// checkDatasetHealth verifies the workbook is where the config says it is
func (hs *HealthService) checkDatasetHealth() ServiceHealth {
	if _, err := os.Stat(hs.data.DatasetPath); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("dataset not found: %s", hs.data.DatasetPath),
		}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: "dataset file present",
	}
}

// checkAnalyticsHealth checks the analytics service is wired
func (hs *HealthService) checkAnalyticsHealth() ServiceHealth {
	if hs.analytics == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "analytics service not initialized",
		}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: "analytics service is healthy",
	}
}
