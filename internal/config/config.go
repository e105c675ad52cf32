package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL           string `yaml:"url"`
	MaxConns      int    `yaml:"max_conns"`
	MigrationsDir string `yaml:"migrations_dir"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	CookieName  string        `yaml:"cookie_name"`
	SecureCooky bool          `yaml:"secure_cookie"`
}

type AIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"` // OpenAI-compatible endpoint (Groq by default)
	Model   string `yaml:"model"`
}

// QueueConfig holds one queue instance's policy knobs.
type QueueConfig struct {
	Concurrency   int           `yaml:"concurrency"`
	Attempts      int           `yaml:"attempts"`
	Backoff       string        `yaml:"backoff"` // exponential | fixed
	BackoffDelay  time.Duration `yaml:"backoff_delay"`
	Timeout       time.Duration `yaml:"timeout"`
	KeepCompleted int           `yaml:"keep_completed"`
	KeepFailed    int           `yaml:"keep_failed"`
}

type QueuesConfig struct {
	Generation QueueConfig `yaml:"generation"`
	Export     QueueConfig `yaml:"export"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	From string `yaml:"from"`
}

type RateLimitConfig struct {
	GenerationPerHour int `yaml:"generation_per_hour"`
	OTPPerQuarterHour int `yaml:"otp_per_quarter_hour"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	AI        AIConfig        `yaml:"ai"`
	Queues    QueuesConfig    `yaml:"queues"`
	Cache     CacheConfig     `yaml:"cache"`
	Export    ExportConfig    `yaml:"export"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.Addr == "" {
		return nil, errors.New("redis.addr is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.MigrationsDir == "" {
		cfg.Database.MigrationsDir = "migrations"
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "token"
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "llama-3.1-8b-instant"
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = time.Hour
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "exports"
	}
	if cfg.RateLimit.GenerationPerHour <= 0 {
		cfg.RateLimit.GenerationPerHour = 10
	}
	if cfg.RateLimit.OTPPerQuarterHour <= 0 {
		cfg.RateLimit.OTPPerQuarterHour = 5
	}

	cfg.Queues.Generation = normalizeQueue(cfg.Queues.Generation, QueueConfig{
		Concurrency:   5,
		Attempts:      3,
		Backoff:       "exponential",
		BackoffDelay:  2 * time.Second,
		Timeout:       2 * time.Minute,
		KeepCompleted: 100,
		KeepFailed:    50,
	})
	cfg.Queues.Export = normalizeQueue(cfg.Queues.Export, QueueConfig{
		Concurrency:   3,
		Attempts:      2,
		Backoff:       "fixed",
		BackoffDelay:  3 * time.Second,
		Timeout:       time.Minute,
		KeepCompleted: 50,
		KeepFailed:    25,
	})
}

func normalizeQueue(q, def QueueConfig) QueueConfig {
	if q.Concurrency <= 0 {
		q.Concurrency = def.Concurrency
	}
	if q.Attempts <= 0 {
		q.Attempts = def.Attempts
	}
	if q.Backoff != "exponential" && q.Backoff != "fixed" {
		q.Backoff = def.Backoff
	}
	if q.BackoffDelay <= 0 {
		q.BackoffDelay = def.BackoffDelay
	}
	if q.Timeout <= 0 {
		q.Timeout = def.Timeout
	}
	if q.KeepCompleted <= 0 {
		q.KeepCompleted = def.KeepCompleted
	}
	if q.KeepFailed <= 0 {
		q.KeepFailed = def.KeepFailed
	}
	return q
}
