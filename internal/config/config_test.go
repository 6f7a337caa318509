package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hilsim/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "act", cfg.ActHost)
	assert.Equal(t, 5001, cfg.ActPort)
	assert.Equal(t, 10*time.Millisecond, cfg.StepPeriod)
	assert.Equal(t, 2*time.Millisecond, cfg.ReplyTimeout)
	assert.Equal(t, int64(1000), cfg.TotalSteps)
	assert.Equal(t, 1024, cfg.RxQueueCapacity)
	assert.Equal(t, "", cfg.MonitorAddr)
	assert.Equal(t, "", cfg.AnalysisDB)
	assert.Equal(t, 0.0, cfg.HwDropRate)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACT_HOST", "10.0.0.5")
	t.Setenv("ACT_PORT", "6000")
	t.Setenv("STEP_MS", "20")
	t.Setenv("HW_DROP_RATE", "0.25")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.ActHost)
	assert.Equal(t, 6000, cfg.ActPort)
	assert.Equal(t, 20*time.Millisecond, cfg.StepPeriod)
	assert.Equal(t, 0.25, cfg.HwDropRate)
}

func TestLoadRejectsMalformedPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACT_PORT", "not-a-number")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadRejectsOutOfRangeDropRate(t *testing.T) {
	clearEnv(t)
	t.Setenv("HW_DROP_RATE", "1.5")

	_, err := config.Load()
	require.Error(t, err)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ACT_HOST", "ACT_PORT", "STEP_MS", "REPLY_TIMEOUT_MS", "TOTAL_STEPS",
		"LOG_DIR", "RX_QUEUE_CAPACITY", "MONITOR_ADDR", "ANALYSIS_DB", "HW_DROP_RATE",
	} {
		t.Setenv(key, "")
	}
}
