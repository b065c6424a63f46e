package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"FLEETSHIFT_PORT", "FLEETSHIFT_METRICS_PORT", "FLEETSHIFT_ADMIN_TOKEN",
		"FLEETSHIFT_DATASET_SOURCE", "FLEETSHIFT_DATASET_DIR", "FLEETSHIFT_DATABASE_URL",
		"FLEETSHIFT_S3_ENDPOINT", "FLEETSHIFT_S3_BUCKET", "FLEETSHIFT_S3_ACCESS_KEY",
		"FLEETSHIFT_S3_SECRET_KEY", "FLEETSHIFT_HERMES_URL", "FLEETSHIFT_DISCOUNT_RATE",
		"FLEETSHIFT_HORIZON_YEARS", "FLEETSHIFT_FX_RATE", "FLEETSHIFT_LOG_LEVEL",
		"FLEETSHIFT_MAX_HORIZON_YEARS", "FLEETSHIFT_HERMES_STREAM",
	}
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Dataset.Source != "file" {
		t.Errorf("expected file dataset source, got %s", cfg.Dataset.Source)
	}
	if cfg.Dataset.Dir != "dashboard_data" {
		t.Errorf("expected dashboard_data dir, got %s", cfg.Dataset.Dir)
	}
	if cfg.Hermes.URL != "" {
		t.Errorf("expected hermes disabled by default, got %s", cfg.Hermes.URL)
	}

	// Engine defaults
	if cfg.Engine.TripsPerUserPerDay != 3 || cfg.Engine.DaysPerYear != 365 {
		t.Errorf("unexpected demand constants: %+v", cfg.Engine)
	}
	if cfg.Engine.ComfortLimitPct != 70.0 {
		t.Errorf("expected comfort limit 70, got %f", cfg.Engine.ComfortLimitPct)
	}
	if cfg.Engine.SafeLimitPct != 78.0 {
		t.Errorf("expected safe limit 78, got %f", cfg.Engine.SafeLimitPct)
	}

	// Simulator defaults
	if math.Abs(cfg.Simulator.DiscountRate-0.08) > 1e-12 {
		t.Errorf("expected discount rate 0.08, got %f", cfg.Simulator.DiscountRate)
	}
	if cfg.Simulator.HorizonYears != 15 {
		t.Errorf("expected horizon 15, got %d", cfg.Simulator.HorizonYears)
	}
	if cfg.Simulator.MaxHorizonYears != 50 {
		t.Errorf("expected max horizon 50, got %d", cfg.Simulator.MaxHorizonYears)
	}
	if cfg.Hermes.Stream != "FLEETSHIFT_EVENTS" || cfg.Hermes.ConnectionName != "fleetshift" {
		t.Errorf("unexpected hermes defaults: %+v", cfg.Hermes)
	}
	if cfg.Hermes.StreamMaxAge != 7*24*time.Hour {
		t.Errorf("expected 7 day stream retention, got %s", cfg.Hermes.StreamMaxAge)
	}
	if cfg.Simulator.FXRateBRLPerUSD != 5.0 {
		t.Errorf("expected fx 5.0, got %f", cfg.Simulator.FXRateBRLPerUSD)
	}

	if len(cfg.Ranking.ExcludedLines) != 2 {
		t.Errorf("expected 2 default exclusions, got %d", len(cfg.Ranking.ExcludedLines))
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "fleetshift.yaml")
	body := []byte(`
server:
  port: 9100
dataset:
  source: postgres
  database_url: postgres://localhost/fleet
engine:
  safe_limit_pct: 80
simulator:
  discount_rate: 0.1
ranking:
  excluded_lines: []
hermes:
  stream_max_age: 24h
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Server.Port)
	}
	// untouched keys keep their defaults
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Dataset.Source != "postgres" {
		t.Errorf("expected postgres source, got %s", cfg.Dataset.Source)
	}
	if cfg.Engine.SafeLimitPct != 80 {
		t.Errorf("expected safe limit 80, got %f", cfg.Engine.SafeLimitPct)
	}
	if cfg.Engine.ComfortLimitPct != 70 {
		t.Errorf("expected comfort limit 70, got %f", cfg.Engine.ComfortLimitPct)
	}
	if cfg.Hermes.StreamMaxAge != 24*time.Hour {
		t.Errorf("expected 24h stream retention, got %s", cfg.Hermes.StreamMaxAge)
	}
	if cfg.Simulator.DiscountRate != 0.1 {
		t.Errorf("expected discount rate 0.1, got %f", cfg.Simulator.DiscountRate)
	}
	if len(cfg.Ranking.ExcludedLines) != 0 {
		t.Errorf("expected exclusions cleared, got %d", len(cfg.Ranking.ExcludedLines))
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLEETSHIFT_PORT", "9000")
	t.Setenv("FLEETSHIFT_METRICS_PORT", "9001")
	t.Setenv("FLEETSHIFT_ADMIN_TOKEN", "secret-token")
	t.Setenv("FLEETSHIFT_DATASET_SOURCE", "s3")
	t.Setenv("FLEETSHIFT_S3_BUCKET", "fleet-data")
	t.Setenv("FLEETSHIFT_DATABASE_URL", "postgres://localhost/fleet_test")
	t.Setenv("FLEETSHIFT_HERMES_URL", "nats://nats:4222")
	t.Setenv("FLEETSHIFT_DISCOUNT_RATE", "0.12")
	t.Setenv("FLEETSHIFT_HORIZON_YEARS", "20")
	t.Setenv("FLEETSHIFT_FX_RATE", "5.4")
	t.Setenv("FLEETSHIFT_MAX_HORIZON_YEARS", "40")
	t.Setenv("FLEETSHIFT_HERMES_STREAM", "FLEETSHIFT_STAGING")
	t.Setenv("FLEETSHIFT_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9001 {
		t.Errorf("expected metrics port 9001, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.AdminToken != "secret-token" {
		t.Errorf("expected admin token 'secret-token', got '%s'", cfg.Server.AdminToken)
	}
	if cfg.Dataset.Source != "s3" {
		t.Errorf("expected s3 source, got '%s'", cfg.Dataset.Source)
	}
	if cfg.Dataset.S3.Bucket != "fleet-data" {
		t.Errorf("expected bucket, got '%s'", cfg.Dataset.S3.Bucket)
	}
	if cfg.Dataset.DatabaseURL != "postgres://localhost/fleet_test" {
		t.Errorf("expected database URL, got '%s'", cfg.Dataset.DatabaseURL)
	}
	if cfg.Hermes.URL != "nats://nats:4222" {
		t.Errorf("expected hermes URL, got '%s'", cfg.Hermes.URL)
	}
	if cfg.Simulator.DiscountRate != 0.12 {
		t.Errorf("expected discount rate 0.12, got %f", cfg.Simulator.DiscountRate)
	}
	if cfg.Simulator.HorizonYears != 20 {
		t.Errorf("expected horizon 20, got %d", cfg.Simulator.HorizonYears)
	}
	if cfg.Simulator.MaxHorizonYears != 40 {
		t.Errorf("expected max horizon 40, got %d", cfg.Simulator.MaxHorizonYears)
	}
	if cfg.Hermes.Stream != "FLEETSHIFT_STAGING" {
		t.Errorf("expected hermes stream override, got '%s'", cfg.Hermes.Stream)
	}
	if cfg.Simulator.FXRateBRLPerUSD != 5.4 {
		t.Errorf("expected fx 5.4, got %f", cfg.Simulator.FXRateBRLPerUSD)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got '%s'", cfg.Logging.Level)
	}
}

func TestLoadFromEnvIgnoresMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLEETSHIFT_PORT", "not-a-port")
	t.Setenv("FLEETSHIFT_DISCOUNT_RATE", "eight percent")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8700 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
	if cfg.Simulator.DiscountRate != 0.08 {
		t.Errorf("expected default discount rate, got %f", cfg.Simulator.DiscountRate)
	}
}
