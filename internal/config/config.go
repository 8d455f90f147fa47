// File: internal/config/config.go
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type AIConfig struct {
	OpenAIKey       string        `yaml:"openai_key"`
	OpenAIBaseURL   string        `yaml:"openai_base_url"`
	GeminiKey       string        `yaml:"gemini_key"`
	GeminiURL       string        `yaml:"gemini_url"`
	Model           string        `yaml:"model"`
	EmbeddingModel  string        `yaml:"embedding_model"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	ConcurrentLimit int           `yaml:"concurrent_limit"` // max concurrent AI calls
	GenerateTimeout time.Duration `yaml:"generate_timeout"`
}

type ChatConfig struct {
	MoodWindow      int           `yaml:"mood_window"`       // moods per dominant-mood vote
	ContextK        int           `yaml:"context_k"`         // retrieved snippets per turn
	HistoryDepth    int           `yaml:"history_depth"`     // recent messages in the prompt
	RateLimitPerMin int           `yaml:"rate_limit_per_min"`
	TurnLockTTL     time.Duration `yaml:"turn_lock_ttl"`
}

type SessionConfig struct {
	TTL          time.Duration `yaml:"ttl"`
	MaxSessions  int           `yaml:"max_sessions"`
	MaxExchanges int           `yaml:"max_exchanges"`
	SweepEvery   time.Duration `yaml:"sweep_every"`
}

type SecurityConfig struct {
	EncryptionKey string `yaml:"encryption_key"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	AI       AIConfig       `yaml:"ai"`
	Chat     ChatConfig     `yaml:"chat"`
	Session  SessionConfig  `yaml:"session"`
	Security SecurityConfig `yaml:"security"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig() (*Config, error) {
	var configPath string
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()

	b, err := os.ReadFile(configPath)
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
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.JWTSecret == "" && !dev {
		return nil, errors.New("auth.jwt_secret is required outside dev mode")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
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
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 512
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.GenerateTimeout <= 0 {
		cfg.AI.GenerateTimeout = 30 * time.Second
	}
	if cfg.Chat.MoodWindow <= 0 {
		cfg.Chat.MoodWindow = 5
	}
	if cfg.Chat.ContextK <= 0 {
		cfg.Chat.ContextK = 3
	}
	if cfg.Chat.HistoryDepth <= 0 {
		cfg.Chat.HistoryDepth = 5
	}
	if cfg.Chat.RateLimitPerMin <= 0 {
		cfg.Chat.RateLimitPerMin = 30
	}
	if cfg.Chat.TurnLockTTL <= 0 {
		cfg.Chat.TurnLockTTL = 30 * time.Second
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 30 * time.Minute
	}
	if cfg.Session.MaxSessions <= 0 {
		cfg.Session.MaxSessions = 1024
	}
	if cfg.Session.MaxExchanges <= 0 {
		cfg.Session.MaxExchanges = 10
	}
	if cfg.Session.SweepEvery <= 0 {
		cfg.Session.SweepEvery = time.Minute
	}
}
