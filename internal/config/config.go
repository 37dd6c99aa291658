// Package config loads application configuration from a YAML file with
// environment-variable overrides. Secrets live in the environment (or a
// local .env file); the YAML file carries structure and defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Cache    CacheConfig    `yaml:"cache"`
	Workflow WorkflowConfig `yaml:"workflow"`
	Notify   NotifyConfig   `yaml:"notify"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Social   SocialConfig   `yaml:"social"`
	Seed     SeedConfig     `yaml:"seed"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// GetHost returns the bind host, defaulting to all interfaces.
func (s ServerConfig) GetHost() string {
	if s.Host == "" {
		return "0.0.0.0"
	}
	return s.Host
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string `yaml:"url"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime_minutes"`
}

// RedisConfig holds the optional Redis cache backend settings. When URL is
// empty the in-process memory cache is used.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// CacheConfig holds TTLs for the query cache.
type CacheConfig struct {
	LeadTTLSeconds     int `yaml:"lead_ttl_seconds"`
	WorkflowTTLSeconds int `yaml:"workflow_ttl_seconds"`
	SocialTTLSeconds   int `yaml:"social_ttl_seconds"`
}

// LeadTTL returns the TTL for lead list/detail cache entries.
func (c CacheConfig) LeadTTL() time.Duration {
	return time.Duration(c.LeadTTLSeconds) * time.Second
}

// WorkflowTTL returns the TTL for the workflow vocabulary cache.
func (c CacheConfig) WorkflowTTL() time.Duration {
	return time.Duration(c.WorkflowTTLSeconds) * time.Second
}

// SocialTTL returns the TTL for cached social counter lookups.
func (c CacheConfig) SocialTTL() time.Duration {
	return time.Duration(c.SocialTTLSeconds) * time.Second
}

// WorkflowConfig controls status validation behavior.
type WorkflowConfig struct {
	// Permissive logs-and-allows statuses outside the workflow vocabulary
	// instead of rejecting them. Supports workflow evolution without a
	// deploy; set to false to hard-reject unknown statuses.
	Permissive bool `yaml:"permissive"`
}

// NotifyConfig holds outbound email notification settings.
type NotifyConfig struct {
	// Provider selects the sender implementation: "ses", "smtp", or ""
	// to disable notifications entirely.
	Provider   string     `yaml:"provider"`
	FromEmail  string     `yaml:"from_email"`
	FromName   string     `yaml:"from_name"`
	StaffEmail string     `yaml:"staff_email"`
	SES        SESConfig  `yaml:"ses"`
	SMTP       SMTPConfig `yaml:"smtp"`
}

// SESConfig holds AWS SES credentials.
type SESConfig struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
}

// SMTPConfig holds SMTP relay credentials.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// OpenAIConfig holds settings for the AI chat/transcription proxy.
type OpenAIConfig struct {
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	ChatModel       string `yaml:"chat_model"`
	TranscribeModel string `yaml:"transcribe_model"`
}

// SocialConfig holds settings for the social-media counter lookup.
type SocialConfig struct {
	BaseURL string            `yaml:"base_url"`
	APIKey  string            `yaml:"api_key"`
	Handles map[string]string `yaml:"handles"` // platform -> handle
}

// SeedConfig bounds the demo data generator.
type SeedConfig struct {
	MaxCount int `yaml:"max_count"`
	MaxHops  int `yaml:"max_hops"`
}

// Load reads configuration from the given YAML file and applies defaults.
// A missing file is not an error; defaults and env overrides still apply.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file first (if present) so secrets can live in .env
// locally and in real env vars in production.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("NOTIFY_PROVIDER"); v != "" {
		cfg.Notify.Provider = v
	}
	if v := os.Getenv("NOTIFY_FROM_EMAIL"); v != "" {
		cfg.Notify.FromEmail = v
	}
	if v := os.Getenv("NOTIFY_STAFF_EMAIL"); v != "" {
		cfg.Notify.StaffEmail = v
	}
	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.Notify.SES.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.Notify.SES.SecretKey = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.Notify.SES.Region = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Notify.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.Notify.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Notify.SMTP.Password = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("SOCIAL_API_KEY"); v != "" {
		cfg.Social.APIKey = v
	}
	if v := os.Getenv("WORKFLOW_PERMISSIVE"); v != "" {
		cfg.Workflow.Permissive = v == "true"
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 5
	}
	if cfg.Cache.LeadTTLSeconds == 0 {
		cfg.Cache.LeadTTLSeconds = 60
	}
	if cfg.Cache.WorkflowTTLSeconds == 0 {
		cfg.Cache.WorkflowTTLSeconds = 3600
	}
	if cfg.Cache.SocialTTLSeconds == 0 {
		cfg.Cache.SocialTTLSeconds = 3600
	}
	if cfg.Notify.SES.Region == "" {
		cfg.Notify.SES.Region = "eu-west-2"
	}
	if cfg.Notify.SMTP.Port == 0 {
		cfg.Notify.SMTP.Port = 587
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.ChatModel == "" {
		cfg.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if cfg.OpenAI.TranscribeModel == "" {
		cfg.OpenAI.TranscribeModel = "whisper-1"
	}
	if cfg.Seed.MaxCount == 0 {
		cfg.Seed.MaxCount = 200
	}
	if cfg.Seed.MaxHops == 0 {
		cfg.Seed.MaxHops = 25
	}
}
