// Package config loads client settings from defaults, an optional config
// file and NIGHTFALL_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is everything the client reads at startup.
type Config struct {
	// ServerURL is the websocket endpoint.
	ServerURL string `mapstructure:"server_url"`
	// Name is the preferred display name sent after joining.
	Name string `mapstructure:"name"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// ReconnectTokenPath is where the reconnect identity is persisted.
	ReconnectTokenPath string        `mapstructure:"reconnect_token_path"`
	ReconnectTTL       time.Duration `mapstructure:"reconnect_ttl"`

	// SendRate / SendBurst cap outbound frames.
	SendRate  float64 `mapstructure:"send_rate"`
	SendBurst int     `mapstructure:"send_burst"`

	// TickInterval drives the local phase countdown.
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_url", "ws://localhost:8081/ws")
	v.SetDefault("name", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("reconnect_token_path", "")
	v.SetDefault("reconnect_ttl", time.Hour)
	v.SetDefault("send_rate", 25.0)
	v.SetDefault("send_burst", 50)
	v.SetDefault("tick_interval", 50*time.Millisecond)
}

// Load reads configuration. path names an explicit config file; empty means
// no file, just defaults and environment.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("nightfall")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("config: server_url must not be empty")
	}
	if !strings.HasPrefix(c.ServerURL, "ws://") && !strings.HasPrefix(c.ServerURL, "wss://") {
		return fmt.Errorf("config: server_url must be a ws:// or wss:// URL, got %q", c.ServerURL)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("config: log_format must be console or json, got %q", c.LogFormat)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("config: tick_interval must be positive")
	}
	return nil
}
