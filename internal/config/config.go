package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName            string        `mapstructure:"app_name"`
	Env                string        `mapstructure:"app_env"`
	LogLevel           string        `mapstructure:"log_level"`
	TokenEnv           string        `mapstructure:"token_env"`
	BaseURL            string        `mapstructure:"base_url"`
	Transport          string        `mapstructure:"transport"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	PollIntervalRaw string        `mapstructure:"poll_interval"`
	PollInterval    time.Duration `mapstructure:"-"`
	PublishersFile  string        `mapstructure:"publishers_file"`
	MetricsAddr     string        `mapstructure:"metrics_addr"`
	WatchRegionsRaw string        `mapstructure:"watch_regions"`
	WatchRegions    []string      `mapstructure:"-"`
}

// Load reads configuration from configs/.env, defaults and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "sepush")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("token_env", "ESKOMSEPUSH_API_KEY")
	v.SetDefault("base_url", "https://developer.sepush.co.za/business/2.0")
	v.SetDefault("transport", "resty")
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("poll_interval", "30m")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("watch_regions", "eskom,capetown")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize validates the settings every binary needs.
func (cfg *Config) normalize() error {
	if strings.TrimSpace(cfg.TokenEnv) == "" {
		return fmt.Errorf("invalid token_env (must not be empty)")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	cfg.WatchRegions = splitList(cfg.WatchRegionsRaw)
	return nil
}

// ValidateNotifier checks and resolves the settings only the notifier uses,
// so a bad poll interval does not break one-shot commands.
func (cfg *Config) ValidateNotifier() error {
	interval, err := str2duration.ParseDuration(strings.TrimSpace(cfg.PollIntervalRaw))
	if err != nil {
		return fmt.Errorf("invalid poll_interval %q: %w", cfg.PollIntervalRaw, err)
	}
	if interval <= 0 {
		return fmt.Errorf("invalid poll_interval (must be positive)")
	}
	cfg.PollInterval = interval

	if strings.TrimSpace(cfg.PublishersFile) == "" {
		return fmt.Errorf("invalid publishers_file (must not be empty)")
	}
	return nil
}

// splitList lower-cases and trims a comma separated list, dropping empties.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
