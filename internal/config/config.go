package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dkeye/stagecast/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string         `mapstructure:"mode"`
	Port       int            `mapstructure:"port"`
	StaticPath string         `mapstructure:"static_path"`
	Secret     string         `mapstructure:"secret"`
	Log        logging.Config `mapstructure:"log"`
	Provider   ProviderConfig `mapstructure:"provider"`
	Events     EventsConfig   `mapstructure:"events"`
}

// ProviderConfig points at the session server both sessions are opened against.
type ProviderConfig struct {
	SignalingURL   string        `mapstructure:"signaling_url"`
	ICEServers     []string      `mapstructure:"ice_servers"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	ReadLimit      int64         `mapstructure:"read_limit"`
}

// EventsConfig tunes the per-client websocket event feed.
type EventsConfig struct {
	Buffer     int           `mapstructure:"buffer"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
}

const envPrefix = "STAGECAST"

// Load reads config/config.<env>.yaml. An empty env falls back to
// CONFIG_ENV and then to "dev". STAGECAST_* variables override the file.
func Load(env string) (*Config, error) {
	if env == "" {
		env = os.Getenv("CONFIG_ENV")
	}
	if env == "" {
		env = "dev"
	}
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("config." + env)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Warn().Str("module", "config").Str("env", env).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", v.ConfigFileUsed()).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", "stagecast-dev-secret")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.service_name", "stagecast")
	v.SetDefault("provider.signaling_url", "ws://localhost:7880/session")
	v.SetDefault("provider.ice_servers", []string{"stun:stun.l.google.com:19302"})
	v.SetDefault("provider.dial_timeout", "10s")
	v.SetDefault("provider.request_timeout", "10s")
	v.SetDefault("provider.read_limit", 65536)
	v.SetDefault("events.buffer", 32)
	v.SetDefault("events.ping_period", "54s")
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Provider.SignalingURL == "" {
		return fmt.Errorf("provider.signaling_url is required")
	}
	if c.Mode == "release" && c.Secret == "stagecast-dev-secret" {
		log.Warn().Str("module", "config").Msg("release mode with the default cookie secret")
	}
	return nil
}
