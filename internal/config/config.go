package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	APIBaseURL   string        `mapstructure:"api_base_url"`
	APITimeoutMs int64         `mapstructure:"api_timeout_ms"`
	APITimeout   time.Duration `mapstructure:"-"`

	TokenStoreType string `mapstructure:"token_store_type"`
	TokenStorePath string `mapstructure:"token_store_path"`

	BannersFile            string        `mapstructure:"banners_file"`
	RefreshIntervalSeconds int64         `mapstructure:"refresh_interval"`
	RefreshInterval        time.Duration `mapstructure:"-"`

	MockAddr          string `mapstructure:"mock_addr"`
	MockFixtureFile   string `mapstructure:"mock_fixture_file"`
	MockRequiredToken string `mapstructure:"mock_required_token" json:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "madang-menu")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("api_base_url", "http://192.168.0.12:8069")
	v.SetDefault("api_timeout_ms", 10000)
	v.SetDefault("token_store_type", "bbolt")
	v.SetDefault("token_store_path", "./data/session.db")
	v.SetDefault("banners_file", "")
	v.SetDefault("refresh_interval", 0) // seconds, 0 disables
	v.SetDefault("mock_addr", ":8069")
	v.SetDefault("mock_fixture_file", "./configs/menu.yaml")
	v.SetDefault("mock_required_token", "")
}

func (c *Config) normalize() error {
	c.APIBaseURL = strings.TrimSpace(c.APIBaseURL)
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	if c.APITimeoutMs <= 0 {
		return fmt.Errorf("invalid api_timeout_ms (must be positive milliseconds)")
	}
	c.APITimeout = time.Duration(c.APITimeoutMs) * time.Millisecond

	if c.RefreshIntervalSeconds < 0 {
		return fmt.Errorf("invalid refresh_interval (must be zero or positive seconds)")
	}
	c.RefreshInterval = time.Duration(c.RefreshIntervalSeconds) * time.Second

	c.TokenStoreType = strings.ToLower(strings.TrimSpace(c.TokenStoreType))
	c.TokenStorePath = strings.TrimSpace(c.TokenStorePath)
	c.BannersFile = strings.TrimSpace(c.BannersFile)
	return nil
}
