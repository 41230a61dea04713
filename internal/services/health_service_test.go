package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscli/internal/config"
)

func TestHealthService_HealthCheck(t *testing.T) {
	svc := NewHealthService("1.2.3", config.DataConfig{}, nil, quietLogger())

	status := svc.HealthCheck(context.Background())

	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthService_ReadinessReflectsDataset(t *testing.T) {
	path := writeTestWorkbook(t)
	analytics := NewAnalyticsService(testConfig(path), quietLogger())

	ready := NewHealthService("1.0.0", config.DataConfig{DatasetPath: path}, analytics, quietLogger())
	status := ready.ReadinessCheck(context.Background())
	assert.Equal(t, "ready", status.Status)

	missing := config.DataConfig{DatasetPath: filepath.Join(t.TempDir(), "absent.xlsx")}
	notReady := NewHealthService("1.0.0", missing, analytics, quietLogger())
	status = notReady.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)

	dataset, ok := status.Services["dataset"].(ServiceHealth)
	require.True(t, ok)
	assert.Equal(t, "not_ready", dataset.Status)
}

func TestHealthService_Version(t *testing.T) {
	svc := NewHealthService("2.0.0", config.DataConfig{}, nil, quietLogger())

	info := svc.Version()

	assert.Equal(t, "2.0.0", info["version"])
	assert.Contains(t, info, "go_version")
	assert.Contains(t, info, "start_time")
}
