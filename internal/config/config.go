package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mlops-microproject/review-workspace/internal/constants"
	"github.com/mlops-microproject/review-workspace/internal/logger"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Security  SecurityConfig  `mapstructure:"security"`
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Analyze   AnalyzeConfig   `mapstructure:"analyze"`
	Model     ModelConfig     `mapstructure:"model"`
}

// ServerConfig HTTP server
type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        string `mapstructure:"port"`
	Mode        string `mapstructure:"mode"` // debug / release
	Environment string `mapstructure:"environment"`
}

// LogConfig log output
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions converts to logger options
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// RedisConfig Redis
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig async queue
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig cross-origin
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig request limits
type SecurityConfig struct {
	AnalyzeRateLimit RateLimitConfig `mapstructure:"analyze_rate_limit"`
}

// RateLimitConfig fixed window limit
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// WorkspaceConfig server-side workspaces
type WorkspaceConfig struct {
	MaxWorkspaces  int    `mapstructure:"max_workspaces"`
	MaxOrders      int    `mapstructure:"max_orders"`
	IdleTTLMinutes int    `mapstructure:"idle_ttl_minutes"`
	SweepSchedule  string `mapstructure:"sweep_schedule"`
}

// AnalyzeConfig async analyze jobs
type AnalyzeConfig struct {
	JobTTLMinutes int `mapstructure:"job_ttl_minutes"`
}

// ModelConfig reported by /model/info
type ModelConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ErrScheduleNeverFires the expression parses but matches no date, e.g. 30 February
var ErrScheduleNeverFires = errors.New("schedule never fires")

// ParseSchedule parses a 5-field cron expression or a descriptor such as @every 5m.
// An expression with no upcoming run is rejected: cron reports that case as a
// zero Next time, which a timer loop would treat as due immediately.
func ParseSchedule(spec string) (cron.Schedule, error) {
	spec = strings.TrimSpace(spec)
	sched, err := scheduleParser.Parse(spec)
	if err != nil {
		return nil, err
	}
	if sched.Next(time.Now()).IsZero() {
		return nil, fmt.Errorf("%w: %q", ErrScheduleNeverFires, spec)
	}
	return sched, nil
}

// Load reads config.yml, a .env file and environment overrides
func Load() *Config {
	// .env is optional
	_ = godotenv.Load()

	v := viper.GetViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./")
	v.AddConfigPath("../") // when run from cmd/server
	v.AddConfigPath("./etc")

	cfg, err := load(v)
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("config parse failed: %w", err))
	}
	return cfg
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // server.port -> SERVER_PORT

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.environment", constants.EnvDevelopment)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "rw")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.queues", map[string]int{
		constants.QueueDefault: 10,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.analyze_rate_limit.window_seconds", 60)
	v.SetDefault("security.analyze_rate_limit.max_requests", 120)
	v.SetDefault("workspace.max_workspaces", 1000)
	v.SetDefault("workspace.max_orders", 500)
	v.SetDefault("workspace.idle_ttl_minutes", 120)
	v.SetDefault("workspace.sweep_schedule", "*/10 * * * *")
	v.SetDefault("analyze.job_ttl_minutes", 60)
	v.SetDefault("model.name", constants.ModelName)
	v.SetDefault("model.version", "0.1.0")
}

// Validate checks values that would make the process misbehave at runtime.
func (c *Config) Validate() error {
	var errs []error
	if port, err := strconv.Atoi(strings.TrimSpace(c.Server.Port)); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %q is not a valid port", c.Server.Port))
	}
	if c.Server.Mode == "release" && c.Server.Environment != constants.EnvProduction {
		errs = append(errs, fmt.Errorf("server.mode release requires server.environment %q, got %q", constants.EnvProduction, c.Server.Environment))
	}
	if c.Workspace.MaxWorkspaces <= 0 {
		errs = append(errs, errors.New("workspace.max_workspaces must be positive"))
	}
	if c.Workspace.MaxOrders <= 0 {
		errs = append(errs, errors.New("workspace.max_orders must be positive"))
	}
	if c.Workspace.IdleTTLMinutes > 0 {
		if _, err := ParseSchedule(c.Workspace.SweepSchedule); err != nil {
			errs = append(errs, fmt.Errorf("workspace.sweep_schedule: %w", err))
		}
	}
	if c.Security.AnalyzeRateLimit.WindowSeconds < 0 || c.Security.AnalyzeRateLimit.MaxRequests < 0 {
		errs = append(errs, errors.New("security.analyze_rate_limit values must not be negative"))
	}
	return errors.Join(errs...)
}
