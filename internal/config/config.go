package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Hermes    HermesConfig    `yaml:"hermes"`
	Engine    EngineConfig    `yaml:"engine"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port         int    `yaml:"port"`
	MetricsPort  int    `yaml:"metrics_port"`
	AdminToken   string `yaml:"admin_token"`
	RateLimitRPM int    `yaml:"rate_limit_rpm"`
}

// DatasetConfig selects where the base snapshot is read from.
// Source is one of "file", "s3" or "postgres".
type DatasetConfig struct {
	Source      string   `yaml:"source"`
	Dir         string   `yaml:"dir"`
	DatabaseURL string   `yaml:"database_url"`
	S3          S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// HermesConfig points at the NATS event bus. An empty URL disables events.
type HermesConfig struct {
	URL            string        `yaml:"url"`
	ConnectionName string        `yaml:"connection_name"`
	Stream         string        `yaml:"stream"`
	StreamMaxAge   time.Duration `yaml:"stream_max_age"`
	MaxReconnects  int           `yaml:"max_reconnects"`
}

type EngineConfig struct {
	TripsPerUserPerDay float64 `yaml:"trips_per_user_per_day"`
	DaysPerYear        float64 `yaml:"days_per_year"`
	ComfortLimitPct    float64 `yaml:"comfort_limit_pct"`
	SafeLimitPct       float64 `yaml:"safe_limit_pct"`
}

type SimulatorConfig struct {
	DieselLitersPerKm        float64 `yaml:"diesel_liters_per_km"`
	DieselMaintenancePerKm   float64 `yaml:"diesel_maintenance_per_km"`
	ElectricKWhPerKm         float64 `yaml:"electric_kwh_per_km"`
	ElectricMaintenancePerKm float64 `yaml:"electric_maintenance_per_km"`
	FXRateBRLPerUSD          float64 `yaml:"fx_rate_brl_per_usd"`
	DiscountRate             float64 `yaml:"discount_rate"`
	HorizonYears             int     `yaml:"horizon_years"`
	MaxHorizonYears          int     `yaml:"max_horizon_years"`
	DefaultDieselPrice       float64 `yaml:"default_diesel_price"`
	DefaultEnergyPrice       float64 `yaml:"default_energy_price"`
	DefaultCarbonPriceUSD    float64 `yaml:"default_carbon_price_usd"`
}

type RankingConfig struct {
	DefaultLimit  int             `yaml:"default_limit"`
	MaxLimit      int             `yaml:"max_limit"`
	ExcludedLines []LineExclusion `yaml:"excluded_lines"`
}

// LineExclusion removes one (line, operator) pair from a ranking.
// Ranking is "length", "demand" or empty for both.
type LineExclusion struct {
	Line     string `yaml:"line"`
	Operator string `yaml:"operator"`
	Ranking  string `yaml:"ranking"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         8700,
			MetricsPort:  8701,
			RateLimitRPM: 240,
		},
		Dataset: DatasetConfig{
			Source: "file",
			Dir:    "dashboard_data",
			S3: S3Config{
				Region: "auto",
			},
		},
		Hermes: HermesConfig{
			ConnectionName: "fleetshift",
			Stream:         "FLEETSHIFT_EVENTS",
			StreamMaxAge:   7 * 24 * time.Hour,
			MaxReconnects:  60,
		},
		Engine: EngineConfig{
			TripsPerUserPerDay: 3,
			DaysPerYear:        365,
			ComfortLimitPct:    70.0,
			SafeLimitPct:       78.0,
		},
		Simulator: SimulatorConfig{
			DieselLitersPerKm:        0.45,
			DieselMaintenancePerKm:   1.20,
			ElectricKWhPerKm:         1.30,
			ElectricMaintenancePerKm: 0.60,
			FXRateBRLPerUSD:          5.0,
			DiscountRate:             0.08,
			HorizonYears:             15,
			MaxHorizonYears:          50,
			DefaultDieselPrice:       6.00,
			DefaultEnergyPrice:       0.85,
			DefaultCarbonPriceUSD:    0,
		},
		Ranking: RankingConfig{
			DefaultLimit: 10,
			MaxLimit:     50,
			ExcludedLines: []LineExclusion{
				{Line: "206.1", Operator: "MARECHAL", Ranking: "length"},
				{Line: "0.808", Operator: "URBI", Ranking: "demand"},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FLEETSHIFT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("FLEETSHIFT_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("FLEETSHIFT_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("FLEETSHIFT_DATASET_SOURCE"); v != "" {
		cfg.Dataset.Source = v
	}
	if v := os.Getenv("FLEETSHIFT_DATASET_DIR"); v != "" {
		cfg.Dataset.Dir = v
	}
	if v := os.Getenv("FLEETSHIFT_DATABASE_URL"); v != "" {
		cfg.Dataset.DatabaseURL = v
	}
	if v := os.Getenv("FLEETSHIFT_S3_ENDPOINT"); v != "" {
		cfg.Dataset.S3.Endpoint = v
	}
	if v := os.Getenv("FLEETSHIFT_S3_BUCKET"); v != "" {
		cfg.Dataset.S3.Bucket = v
	}
	if v := os.Getenv("FLEETSHIFT_S3_ACCESS_KEY"); v != "" {
		cfg.Dataset.S3.AccessKey = v
	}
	if v := os.Getenv("FLEETSHIFT_S3_SECRET_KEY"); v != "" {
		cfg.Dataset.S3.SecretKey = v
	}
	if v := os.Getenv("FLEETSHIFT_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("FLEETSHIFT_HERMES_STREAM"); v != "" {
		cfg.Hermes.Stream = v
	}
	if v := os.Getenv("FLEETSHIFT_DISCOUNT_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Simulator.DiscountRate = f
		}
	}
	if v := os.Getenv("FLEETSHIFT_HORIZON_YEARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Simulator.HorizonYears = n
		}
	}
	if v := os.Getenv("FLEETSHIFT_MAX_HORIZON_YEARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Simulator.MaxHorizonYears = n
		}
	}
	if v := os.Getenv("FLEETSHIFT_FX_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Simulator.FXRateBRLPerUSD = f
		}
	}
	if v := os.Getenv("FLEETSHIFT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
