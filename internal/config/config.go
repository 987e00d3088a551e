package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	EnvBaseURL  = "FOODGRAM_BASE_URL"
	EnvToken    = "FOODGRAM_TOKEN"
	EnvTopicArn = "FOODGRAM_TOPIC_ARN"
	EnvTimeout  = "FOODGRAM_TIMEOUT"
)

type NotificationConfig struct {
	TopicArn        string `toml:"topic_arn"`
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	AccessKeyId     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

type Config struct {
	BaseURL        string             `toml:"base_url"`
	Token          string             `toml:"token"`
	PageSize       int                `toml:"page_size"`
	TimeoutSeconds int                `toml:"timeout_seconds"`
	LogLevel       string             `toml:"log_level"`
	Notifications  NotificationConfig `toml:"notifications"`
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads the TOML file at path, when given, then applies environment
// overrides and defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		cfg.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTopicArn)); v != "" {
		cfg.Notifications.TopicArn = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s is not a number: %w", EnvTimeout, err)
		}
		cfg.TimeoutSeconds = seconds
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 6
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 10
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Notifications.Region == "" {
		cfg.Notifications.Region = "us-east-1"
	}
}

func Validate(cfg Config) error {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url invalid: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base_url must be http or https, got %q", cfg.BaseURL)
	}
	if cfg.PageSize > 100 {
		return fmt.Errorf("page_size must be at most 100")
	}
	if (cfg.Notifications.AccessKeyId == "") != (cfg.Notifications.SecretAccessKey == "") {
		return fmt.Errorf("notifications access_key_id and secret_access_key go together")
	}
	return nil
}
