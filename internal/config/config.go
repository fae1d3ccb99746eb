package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Solver   SolverConfig   `yaml:"solver"`
	Sampler  SamplerConfig  `yaml:"sampler"`
	Ranking  RankingConfig  `yaml:"ranking"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

// DatabaseConfig selects problem storage. An empty URL keeps problems in memory.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type SolverConfig struct {
	Backend              string  `yaml:"backend"`
	Workers              int     `yaml:"workers"`
	BigM                 float64 `yaml:"big_m"`
	RepresentativeWeight float64 `yaml:"representative_weight"`
	Tolerance            float64 `yaml:"tolerance"`
	SolveTimeoutMs       int     `yaml:"solve_timeout_ms"`
	FastPathEnabled      bool    `yaml:"fast_path_enabled"`
}

type SamplerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Java    string `yaml:"java"`
	Jar     string `yaml:"jar"`
	Samples int    `yaml:"samples"`
}

type RankingConfig struct {
	Precision int `yaml:"precision"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) SolveTimeout() time.Duration {
	return time.Duration(c.Solver.SolveTimeoutMs) * time.Millisecond
}

// SlogLevel maps the configured level name, defaulting to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8610,
			MetricsPort: 8611,
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Solver: SolverConfig{
			Backend:              "simplex",
			Workers:              4,
			BigM:                 100,
			RepresentativeWeight: 1000,
			Tolerance:            1e-9,
			SolveTimeoutMs:       30000,
			FastPathEnabled:      true,
		},
		Sampler: SamplerConfig{
			Enabled: false,
			Java:    "java",
			Jar:     "files/polyrun-1.1.0-jar-with-dependencies.jar",
			Samples: 1000,
		},
		Ranking: RankingConfig{
			Precision: 4,
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
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Solver.Backend {
	case "simplex", "highs":
	default:
		return fmt.Errorf("config: solver.backend must be simplex or highs, got %q", c.Solver.Backend)
	}
	if c.Solver.Workers < 1 {
		return fmt.Errorf("config: solver.workers must be at least 1, got %d", c.Solver.Workers)
	}
	if c.Solver.BigM <= 1 {
		return fmt.Errorf("config: solver.big_m must exceed 1, got %v", c.Solver.BigM)
	}
	if c.Solver.RepresentativeWeight <= 0 {
		return fmt.Errorf("config: solver.representative_weight must be positive, got %v", c.Solver.RepresentativeWeight)
	}
	if c.Solver.Tolerance < 0 {
		return fmt.Errorf("config: solver.tolerance must not be negative, got %v", c.Solver.Tolerance)
	}
	if c.Ranking.Precision < 0 || c.Ranking.Precision > 15 {
		return fmt.Errorf("config: ranking.precision must be within [0,15], got %d", c.Ranking.Precision)
	}
	if c.Sampler.Enabled && (c.Sampler.Jar == "" || c.Sampler.Samples < 1) {
		return fmt.Errorf("config: sampler needs a jar and a positive sample count")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("UTAGMS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("UTAGMS_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("UTAGMS_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("UTAGMS_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("UTAGMS_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("UTAGMS_SOLVER_BACKEND"); v != "" {
		cfg.Solver.Backend = v
	}
	if v := os.Getenv("UTAGMS_SOLVER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Solver.Workers = n
		}
	}
	if v := os.Getenv("UTAGMS_BIG_M"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Solver.BigM = f
		}
	}
	if v := os.Getenv("UTAGMS_SOLVE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Solver.SolveTimeoutMs = n
		}
	}
	if v := os.Getenv("UTAGMS_FAST_PATH_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Solver.FastPathEnabled = b
		}
	}
	if v := os.Getenv("UTAGMS_SAMPLER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Sampler.Enabled = b
		}
	}
	if v := os.Getenv("UTAGMS_SAMPLER_JAR"); v != "" {
		cfg.Sampler.Jar = v
	}
	if v := os.Getenv("UTAGMS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
