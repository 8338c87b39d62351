package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Cookie           string `env:"QQ_COOKIE"`
	LegacyCookie     string `env:"QZONE_COOKIE"`
	TargetUIN        string `env:"TARGET_UIN"`
	UIN              string `env:"QQ_UIN"`
	DingTalkWebhook  string `env:"DINGTALK_WEBHOOK"`
	DingTalkKeywords string `env:"DINGTALK_KEYWORDS" envDefault:"QQ空间通知"`
	CheckOnly        string `env:"CHECK_ONLY"`
	Offline          string `env:"OFFLINE"`
	ContentDir       string `env:"CONTENT_DIR" envDefault:"content"`
	ProxyURL         string `env:"PROXY_URL"`
	LogFile          string `env:"LOG_FILE"`
}

// loadDotEnv applies filename over the process environment; file values win.
// A missing file is not an error.
func loadDotEnv(filename string) error {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Overload(filename); err != nil {
		return fmt.Errorf("load %s: %w", filename, err)
	}
	return nil
}

// LoadConfig parses the environment into a Config.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Cookie = strings.TrimSpace(cfg.Cookie)
	if cfg.Cookie == "" {
		cfg.Cookie = strings.TrimSpace(cfg.LegacyCookie)
	}
	cfg.TargetUIN = strings.TrimSpace(cfg.TargetUIN)
	cfg.UIN = strings.TrimSpace(cfg.UIN)
	if cfg.DingTalkKeywords == "" {
		cfg.DingTalkKeywords = defaultNotifyKeywords
	}
	if cfg.ContentDir == "" {
		cfg.ContentDir = "content"
	}
	return &cfg, nil
}

// CheckOnlyMode is on when CHECK_ONLY is set to anything.
func (c *Config) CheckOnlyMode() bool {
	return c.CheckOnly != ""
}

// OfflineMode is on when OFFLINE is set to anything.
func (c *Config) OfflineMode() bool {
	return c.Offline != ""
}

// Validate checks the preconditions that must hold before any network call.
func (c *Config) Validate() error {
	if c.Cookie == "" {
		return NewConfigError(ErrMissingCookie)
	}
	if c.TargetUIN == "" {
		return NewConfigError(ErrMissingTarget)
	}
	return nil
}
