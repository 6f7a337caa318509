// Package config reads the runtime's environment into a single immutable
// record, optionally pre-populated from a local .env file via
// github.com/joho/godotenv, matching the corpus's own pattern of loading
// developer-local overrides before falling back to process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"hilsim/internal/hilerr"
)

// Config is the fully resolved set of runtime parameters for one
// Simulator or Hardware process.
type Config struct {
	ActHost         string
	ActPort         int
	StepPeriod      time.Duration
	ReplyTimeout    time.Duration
	TotalSteps      int64
	LogDir          string
	RxQueueCapacity int
	MonitorAddr     string
	AnalysisDB      string
	HwDropRate      float64
}

// defaultActHost is the Simulator-side default; the Hardware side
// overrides it to "0.0.0.0" when binding, per §6.
const defaultActHost = "act"

// Load reads process environment variables, loading a .env file from the
// working directory first if one exists. Malformed values fail fast with
// hilerr.ErrConfig; missing keys take the defaults in §6.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ActHost:         getString("ACT_HOST", defaultActHost),
		LogDir:          getString("LOG_DIR", "/app/logs"),
		MonitorAddr:     getString("MONITOR_ADDR", ""),
		AnalysisDB:      getString("ANALYSIS_DB", ""),
		RxQueueCapacity: 1024,
	}

	port, err := getInt("ACT_PORT", 5001)
	if err != nil {
		return Config{}, err
	}
	cfg.ActPort = port

	stepMs, err := getInt("STEP_MS", 10)
	if err != nil {
		return Config{}, err
	}
	cfg.StepPeriod = time.Duration(stepMs) * time.Millisecond

	timeoutMs, err := getInt("REPLY_TIMEOUT_MS", 2)
	if err != nil {
		return Config{}, err
	}
	cfg.ReplyTimeout = time.Duration(timeoutMs) * time.Millisecond

	totalSteps, err := getInt64("TOTAL_STEPS", 1000)
	if err != nil {
		return Config{}, err
	}
	cfg.TotalSteps = totalSteps

	if raw := os.Getenv("RX_QUEUE_CAPACITY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("RX_QUEUE_CAPACITY=%q: %w", raw, hilerr.ErrConfig)
		}
		cfg.RxQueueCapacity = n
	}

	dropRate, err := getFloat("HW_DROP_RATE", 0)
	if err != nil {
		return Config{}, err
	}
	if dropRate < 0 || dropRate >= 1 {
		return Config{}, fmt.Errorf("HW_DROP_RATE=%v must be in [0,1): %w", dropRate, hilerr.ErrConfig)
	}
	cfg.HwDropRate = dropRate

	return cfg, nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", key, raw, hilerr.ErrConfig)
	}
	return n, nil
}

func getInt64(key string, def int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", key, raw, hilerr.ErrConfig)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", key, raw, hilerr.ErrConfig)
	}
	return f, nil
}
