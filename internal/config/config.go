package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/pion/stun/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "LIVEROOM"

type Config struct {
	Mode         string        `mapstructure:"mode"`
	Port         int           `mapstructure:"port"`
	StaticPath   string        `mapstructure:"static_path"`
	ReadLimit    int64         `mapstructure:"read_limit"`
	PingPeriod   time.Duration `mapstructure:"ping_period"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	Secret       string        `mapstructure:"secret"`
	LogLevel     string        `mapstructure:"log_level"`

	STUNURLs       []string `mapstructure:"stun_urls"`
	TURNURLs       []string `mapstructure:"turn_urls"`
	TURNUsername   string   `mapstructure:"turn_username"`
	TURNCredential string   `mapstructure:"turn_credential"`

	// ChatRate is the sustained chat/toggle messages per second allowed per
	// connection; 0 disables limiting.
	ChatRate           float64 `mapstructure:"chat_rate"`
	ChatBurst          int     `mapstructure:"chat_burst"`
	BackpressurePolicy string  `mapstructure:"backpressure_policy"`
}

// PongWait is how long the read side waits for any frame, pongs included.
func (c *Config) PongWait() time.Duration {
	return c.PingPeriod * 10 / 9
}

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default).
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile reads fileName on top of the defaults and LIVEROOM_* env
// overrides. A missing file is not an error.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("write_timeout", "5s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("secret", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("stun_urls", []string{"stun:stun.l.google.com:19302"})
	v.SetDefault("turn_urls", []string{})
	v.SetDefault("turn_username", "")
	v.SetDefault("turn_credential", "")
	v.SetDefault("chat_rate", 5.0)
	v.SetDefault("chat_burst", 10)
	v.SetDefault("backpressure_policy", "drop")

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.ReadLimit <= 0 {
		errs = append(errs, errors.New("read_limit must be positive"))
	}
	if c.PingPeriod <= 0 {
		errs = append(errs, errors.New("ping_period must be positive"))
	}
	if c.WriteTimeout <= 0 {
		errs = append(errs, errors.New("write_timeout must be positive"))
	}
	if c.SendBuffer <= 0 {
		errs = append(errs, errors.New("send_buffer must be positive"))
	}
	if c.ChatRate < 0 {
		errs = append(errs, errors.New("chat_rate must not be negative"))
	}
	if c.ChatRate > 0 && c.ChatBurst <= 0 {
		errs = append(errs, errors.New("chat_burst must be positive when chat_rate is set"))
	}
	switch c.BackpressurePolicy {
	case "", "drop", "kick":
	default:
		errs = append(errs, fmt.Errorf("unknown backpressure_policy %q", c.BackpressurePolicy))
	}
	for _, raw := range c.STUNURLs {
		if err := checkURI(raw, stun.SchemeTypeSTUN, stun.SchemeTypeSTUNS); err != nil {
			errs = append(errs, fmt.Errorf("stun_urls: %w", err))
		}
	}
	for _, raw := range c.TURNURLs {
		if err := checkURI(raw, stun.SchemeTypeTURN, stun.SchemeTypeTURNS); err != nil {
			errs = append(errs, fmt.Errorf("turn_urls: %w", err))
		}
	}
	if len(c.TURNURLs) > 0 && (c.TURNUsername == "" || c.TURNCredential == "") {
		errs = append(errs, errors.New("turn_urls require turn_username and turn_credential"))
	}
	return errors.Join(errs...)
}

func checkURI(raw string, schemes ...stun.SchemeType) error {
	uri, err := stun.ParseURI(raw)
	if err != nil {
		return fmt.Errorf("%q: %w", raw, err)
	}
	for _, s := range schemes {
		if uri.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("%q: unexpected scheme %v", raw, uri.Scheme)
}
