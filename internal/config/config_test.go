package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envVars = []string{
	"UTAGMS_PORT", "UTAGMS_METRICS_PORT", "UTAGMS_ADMIN_TOKEN",
	"UTAGMS_DATABASE_URL", "UTAGMS_HERMES_URL", "UTAGMS_SOLVER_BACKEND",
	"UTAGMS_SOLVER_WORKERS", "UTAGMS_BIG_M", "UTAGMS_SOLVE_TIMEOUT_MS",
	"UTAGMS_FAST_PATH_ENABLED", "UTAGMS_SAMPLER_ENABLED", "UTAGMS_SAMPLER_JAR",
	"UTAGMS_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
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

	if cfg.Server.Port != 8610 {
		t.Errorf("expected port 8610, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8611 {
		t.Errorf("expected metrics port 8611, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Hermes.URL != "nats://localhost:4222" {
		t.Errorf("expected nats URL, got %s", cfg.Hermes.URL)
	}
	if cfg.Database.URL != "" {
		t.Errorf("expected in-memory store by default, got %s", cfg.Database.URL)
	}
	if cfg.Solver.Backend != "simplex" {
		t.Errorf("expected simplex backend, got %s", cfg.Solver.Backend)
	}
	if cfg.Solver.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Solver.Workers)
	}
	if cfg.Solver.BigM != 100 {
		t.Errorf("expected big M 100, got %v", cfg.Solver.BigM)
	}
	if cfg.Solver.RepresentativeWeight != 1000 {
		t.Errorf("expected representative weight 1000, got %v", cfg.Solver.RepresentativeWeight)
	}
	if !cfg.Solver.FastPathEnabled {
		t.Error("expected fast_path_enabled=true by default")
	}
	if cfg.Sampler.Enabled {
		t.Error("expected sampler disabled by default")
	}
	if cfg.Ranking.Precision != 4 {
		t.Errorf("expected precision 4, got %d", cfg.Ranking.Precision)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.SolveTimeout() != 30*time.Second {
		t.Errorf("expected SolveTimeout 30s, got %v", cfg.SolveTimeout())
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("UTAGMS_PORT", "9000")
	t.Setenv("UTAGMS_METRICS_PORT", "9001")
	t.Setenv("UTAGMS_ADMIN_TOKEN", "secret-token")
	t.Setenv("UTAGMS_DATABASE_URL", "postgres://localhost/utagms_test")
	t.Setenv("UTAGMS_HERMES_URL", "nats://nats:4222")
	t.Setenv("UTAGMS_SOLVER_BACKEND", "highs")
	t.Setenv("UTAGMS_SOLVER_WORKERS", "8")
	t.Setenv("UTAGMS_BIG_M", "50")
	t.Setenv("UTAGMS_SOLVE_TIMEOUT_MS", "1500")
	t.Setenv("UTAGMS_FAST_PATH_ENABLED", "false")
	t.Setenv("UTAGMS_SAMPLER_ENABLED", "true")
	t.Setenv("UTAGMS_SAMPLER_JAR", "/opt/polyrun.jar")
	t.Setenv("UTAGMS_LOG_LEVEL", "debug")

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
	if cfg.Database.URL != "postgres://localhost/utagms_test" {
		t.Errorf("expected database URL, got '%s'", cfg.Database.URL)
	}
	if cfg.Hermes.URL != "nats://nats:4222" {
		t.Errorf("expected hermes URL, got '%s'", cfg.Hermes.URL)
	}
	if cfg.Solver.Backend != "highs" {
		t.Errorf("expected highs backend, got '%s'", cfg.Solver.Backend)
	}
	if cfg.Solver.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Solver.Workers)
	}
	if cfg.Solver.BigM != 50 {
		t.Errorf("expected big M 50, got %v", cfg.Solver.BigM)
	}
	if cfg.SolveTimeout() != 1500*time.Millisecond {
		t.Errorf("expected timeout 1.5s, got %v", cfg.SolveTimeout())
	}
	if cfg.Solver.FastPathEnabled {
		t.Error("expected fast path disabled")
	}
	if !cfg.Sampler.Enabled || cfg.Sampler.Jar != "/opt/polyrun.jar" {
		t.Errorf("expected sampler enabled with jar, got %+v", cfg.Sampler)
	}
	if cfg.Logging.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.Logging.SlogLevel())
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "utagms.yaml")
	body := `
server:
  port: 7000
solver:
  backend: simplex
  workers: 2
  big_m: 10
ranking:
  precision: 6
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected port 7000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8611 {
		t.Errorf("expected default metrics port kept, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Solver.Workers != 2 || cfg.Solver.BigM != 10 {
		t.Errorf("unexpected solver config %+v", cfg.Solver)
	}
	if cfg.Ranking.Precision != 6 {
		t.Errorf("expected precision 6, got %d", cfg.Ranking.Precision)
	}
	if cfg.Logging.SlogLevel() != slog.LevelWarn {
		t.Errorf("expected warn level, got %v", cfg.Logging.SlogLevel())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Errorf("expected read config error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"backend", func(c *Config) { c.Solver.Backend = "cplex" }, "solver.backend"},
		{"workers", func(c *Config) { c.Solver.Workers = 0 }, "solver.workers"},
		{"big m", func(c *Config) { c.Solver.BigM = 1 }, "solver.big_m"},
		{"weight", func(c *Config) { c.Solver.RepresentativeWeight = 0 }, "representative_weight"},
		{"tolerance", func(c *Config) { c.Solver.Tolerance = -1 }, "tolerance"},
		{"precision", func(c *Config) { c.Ranking.Precision = 20 }, "precision"},
		{"sampler", func(c *Config) { c.Sampler.Enabled = true; c.Sampler.Samples = 0 }, "sampler"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
