package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "taskwell.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "TASKWELL_PORT")
	setString(&cfg.Server.CORSOrigin, "TASKWELL_CORS_ORIGIN")
	setString(&cfg.Storage.Backend, "TASKWELL_STORAGE_BACKEND")
	setString(&cfg.Storage.DataDir, "TASKWELL_DATA_DIR")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "TASKWELL_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "TASKWELL_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "TASKWELL_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "TASKWELL_PG_MAX_CONN_IDLE_TIME")
	setString(&cfg.NATS.URL, "NATS_URL")
	setBool(&cfg.Cache.Enabled, "TASKWELL_CACHE_ENABLED")
	setInt64(&cfg.Cache.MaxSizeMB, "TASKWELL_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.TTL, "TASKWELL_CACHE_TTL")
	setDuration(&cfg.Deadlines.WarningThreshold, "TASKWELL_DEADLINE_THRESHOLD")
	setString(&cfg.Logging.Level, "TASKWELL_LOG_LEVEL")
	setString(&cfg.Logging.Service, "TASKWELL_LOG_SERVICE")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	switch cfg.Storage.Backend {
	case "memory", "file", "postgres":
	default:
		return fmt.Errorf("storage.backend must be memory, file, or postgres (got %q)", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend == "file" && cfg.Storage.DataDir == "" {
		return errors.New("storage.data_dir is required for the file backend")
	}
	if cfg.Storage.Backend == "postgres" {
		if cfg.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required")
		}
		if cfg.Postgres.MaxConns < 1 {
			return errors.New("postgres.max_conns must be >= 1")
		}
	}
	if cfg.Cache.Enabled && cfg.Cache.MaxSizeMB < 1 {
		return errors.New("cache.max_size_mb must be >= 1")
	}
	if cfg.Deadlines.WarningThreshold <= 0 {
		return errors.New("deadlines.warning_threshold must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
