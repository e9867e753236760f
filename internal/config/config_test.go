package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func loadFromDir(t *testing.T, dir string) *Config {
	t.Helper()
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	cfg, err := load(v)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	return cfg
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg := loadFromDir(t, t.TempDir())
	if cfg.Server.Port != "8080" || cfg.Server.Mode != "debug" || cfg.Server.Environment != "development" {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Redis.Enabled || cfg.Queue.Enabled {
		t.Fatalf("redis and queue should be off by default")
	}
	if cfg.Workspace.MaxOrders != 500 || cfg.Workspace.SweepSchedule != "*/10 * * * *" {
		t.Fatalf("unexpected workspace defaults: %+v", cfg.Workspace)
	}
	if cfg.Queue.Queues["default"] != 10 {
		t.Fatalf("default queue weight missing: %v", cfg.Queue.Queues)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yml := `
server:
  port: "9090"
workspace:
  max_orders: 3
  sweep_schedule: "@every 1m"
security:
  analyze_rate_limit:
    max_requests: 5
`
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	t.Setenv("WORKSPACE_MAX_WORKSPACES", "7")

	cfg := loadFromDir(t, dir)
	if cfg.Server.Port != "9090" {
		t.Fatalf("file value not applied: %s", cfg.Server.Port)
	}
	if cfg.Workspace.MaxOrders != 3 || cfg.Security.AnalyzeRateLimit.MaxRequests != 5 {
		t.Fatalf("nested file values not applied: %+v %+v", cfg.Workspace, cfg.Security)
	}
	if cfg.Workspace.MaxWorkspaces != 7 {
		t.Fatalf("env override not applied: %d", cfg.Workspace.MaxWorkspaces)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080", Mode: "debug", Environment: "development"},
			Workspace: WorkspaceConfig{MaxWorkspaces: 1, MaxOrders: 1, IdleTTLMinutes: 5, SweepSchedule: "*/5 * * * *"},
		}
	}
	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = "http" }, wantErr: "server.port"},
		{name: "port range", mutate: func(c *Config) { c.Server.Port = "70000" }, wantErr: "server.port"},
		{name: "release needs production", mutate: func(c *Config) { c.Server.Mode = "release" }, wantErr: "server.mode"},
		{name: "release production", mutate: func(c *Config) { c.Server.Mode = "release"; c.Server.Environment = "production" }},
		{name: "zero orders", mutate: func(c *Config) { c.Workspace.MaxOrders = 0 }, wantErr: "max_orders"},
		{name: "bad schedule", mutate: func(c *Config) { c.Workspace.SweepSchedule = "every minute" }, wantErr: "sweep_schedule"},
		{name: "schedule that never fires", mutate: func(c *Config) { c.Workspace.SweepSchedule = "0 0 30 2 *" }, wantErr: "never fires"},
		{name: "schedule ignored without ttl", mutate: func(c *Config) { c.Workspace.IdleTTLMinutes = 0; c.Workspace.SweepSchedule = "x" }},
		{name: "negative limit", mutate: func(c *Config) { c.Security.AnalyzeRateLimit.MaxRequests = -1 }, wantErr: "analyze_rate_limit"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(c)
			err := c.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("want error containing %q got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParseSchedule(t *testing.T) {
	sched, err := ParseSchedule(" 0 * * * * ")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	from := time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC)
	if next := sched.Next(from); !next.Equal(time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected next run: %s", next)
	}
	if _, err := ParseSchedule("0 0 * * * *"); err == nil {
		t.Fatalf("six fields should be rejected")
	}
	for _, spec := range []string{"0 0 30 2 *", "0 0 31 4 *"} {
		if _, err := ParseSchedule(spec); !errors.Is(err, ErrScheduleNeverFires) {
			t.Fatalf("%q want ErrScheduleNeverFires got %v", spec, err)
		}
	}
}
