package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	LogLevel   string        `mapstructure:"log_level"`
	WSPath     string        `mapstructure:"ws_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	SendBuffer int           `mapstructure:"send_buffer"`
	Secret     string        `mapstructure:"secret"`

	// AllowedOrigins drives both CORS and the websocket origin check.
	// "*" allows any origin.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// Backpressure is the slow-consumer policy: drop or kick.
	Backpressure string `mapstructure:"backpressure"`

	// ReactionLimit reactions per ReactionInterval per connection; 0 disables.
	ReactionLimit    int           `mapstructure:"reaction_limit"`
	ReactionInterval time.Duration `mapstructure:"reaction_interval"`
}

const envPrefix = "PRESENCE"

func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFrom(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFrom reads fileName if it exists, then applies PRESENCE_* env overrides.
// A missing file is not an error.
func LoadFrom(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("ws_path", "/ws")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("secret", "")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("backpressure", "drop")
	v.SetDefault("reaction_limit", 0)
	v.SetDefault("reaction_interval", "1s")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("ws_path", cfg.WSPath).Msg("config ready")
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if !strings.HasPrefix(c.WSPath, "/") {
		return fmt.Errorf("ws_path must start with /: %q", c.WSPath)
	}
	if c.PingPeriod <= 0 {
		return errors.New("ping_period must be positive")
	}
	if c.SendBuffer <= 0 {
		return errors.New("send_buffer must be positive")
	}
	if c.ReadLimit <= 0 {
		return errors.New("read_limit must be positive")
	}
	switch c.Backpressure {
	case "drop", "kick":
	default:
		return fmt.Errorf("unknown backpressure policy %q", c.Backpressure)
	}
	if c.ReactionLimit < 0 {
		return errors.New("reaction_limit must not be negative")
	}
	if c.ReactionLimit > 0 && c.ReactionInterval <= 0 {
		return errors.New("reaction_interval must be positive when reaction_limit is set")
	}
	if len(c.AllowedOrigins) == 0 {
		return errors.New("allowed_origins must not be empty")
	}
	for _, o := range c.AllowedOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("allowed origin %q must be * or an http(s) origin", o)
		}
	}
	return nil
}

// AllowsOrigin reports whether origin passes the configured policy.
// Requests without an Origin header are not cross-site and always pass.
func (c *Config) AllowsOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range c.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func (c *Config) AllowsAnyOrigin() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
