package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files, environment
// variables and command-line flags.
type Config struct {
	AppName     string `mapstructure:"app_name"`
	Env         string `mapstructure:"app_env"`
	LogLevel    string `mapstructure:"log_level"`
	CatalogFile string `mapstructure:"catalog_file"`
	SinksFile   string `mapstructure:"sinks_file"`
	Debug       bool   `mapstructure:"debug"`
	Strict      bool   `mapstructure:"strict"`

	HTTPTimeoutSeconds    int64         `mapstructure:"http_timeout_seconds"`
	CompletionWaitSeconds int64         `mapstructure:"completion_wait_seconds"`
	CallbackQueueSize     int           `mapstructure:"callback_queue_size"`
	HTTPTimeout           time.Duration `mapstructure:"-"`
	CompletionWait        time.Duration `mapstructure:"-"`
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"catalog":   "catalog_file",
	"sinks":     "sinks_file",
	"debug":     "debug",
	"strict":    "strict",
	"log-level": "log_level",
}

// Load reads configuration from .env, environment variables and, when fs is
// non-nil, any flags explicitly set on it.
func Load(fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "wiredispatch")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("catalog_file", "./configs/requests.yaml")
	v.SetDefault("sinks_file", "")
	v.SetDefault("debug", false)
	v.SetDefault("strict", false)
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("completion_wait_seconds", 45)
	v.SetDefault("callback_queue_size", 64)

	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	if cfg.CompletionWaitSeconds <= 0 {
		return nil, fmt.Errorf("invalid completion_wait_seconds (must be positive seconds)")
	}
	if cfg.CallbackQueueSize <= 0 {
		return nil, fmt.Errorf("invalid callback_queue_size (must be positive)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	cfg.CompletionWait = time.Duration(cfg.CompletionWaitSeconds) * time.Second

	return &cfg, nil
}
