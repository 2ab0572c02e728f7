// Package config loads process configuration for the topicmap command.
//
// Values come from, in increasing precedence: defaults, a YAML file, and
// environment variables. Environment variables use the TOPICMAP_ prefix with
// dots replaced by underscores (TOPICMAP_REMOTE_BUCKET), except the artifact
// directory, which is read from TOPIC_MAP_DIR.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable except TOPIC_MAP_DIR.
const EnvPrefix = "TOPICMAP"

// ErrInvalid is returned for configurations that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config stores all configuration of the command.
type Config struct {
	Dir           string        `mapstructure:"dir"`
	ManifestCheck bool          `mapstructure:"manifest_check"`
	Log           LogConfig     `mapstructure:"log"`
	Remote        RemoteConfig  `mapstructure:"remote"`
	Publish       PublishConfig `mapstructure:"publish"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RemoteConfig locates the release store.
type RemoteConfig struct {
	Kind      string `mapstructure:"kind"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	PathStyle bool   `mapstructure:"path_style"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Secure    bool   `mapstructure:"secure"`
}

// PublishConfig tunes artifact transfers.
type PublishConfig struct {
	Codec       string `mapstructure:"codec"`
	Concurrency int    `mapstructure:"concurrency"`
	RateLimit   int    `mapstructure:"rate_limit"`
	MemoryLimit int64  `mapstructure:"memory_limit"`
}

// Load reads the configuration. An empty path searches for topicmap.yaml in
// the working directory and $HOME/.config/topicmap; a missing file is not an
// error then. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/topicmap")
		v.SetConfigName("topicmap")
		v.SetConfigType("yaml")
	}

	v.SetDefault("dir", "")
	v.SetDefault("manifest_check", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("remote.kind", "s3")
	v.SetDefault("remote.bucket", "")
	v.SetDefault("remote.prefix", "")
	v.SetDefault("remote.region", "")
	v.SetDefault("remote.endpoint", "")
	v.SetDefault("remote.path_style", false)
	v.SetDefault("remote.access_key", "")
	v.SetDefault("remote.secret_key", "")
	v.SetDefault("remote.secure", true)
	v.SetDefault("publish.codec", "zstd")
	v.SetDefault("publish.concurrency", 4)
	v.SetDefault("publish.rate_limit", 0)
	v.SetDefault("publish.memory_limit", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("dir", "TOPIC_MAP_DIR"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	switch c.Remote.Kind {
	case "s3", "minio":
	default:
		return fmt.Errorf("%w: remote.kind %q", ErrInvalid, c.Remote.Kind)
	}
	if c.Publish.Concurrency < 1 {
		return fmt.Errorf("%w: publish.concurrency %d", ErrInvalid, c.Publish.Concurrency)
	}
	if c.Publish.RateLimit < 0 {
		return fmt.Errorf("%w: publish.rate_limit %d", ErrInvalid, c.Publish.RateLimit)
	}
	if c.Publish.MemoryLimit < 0 {
		return fmt.Errorf("%w: publish.memory_limit %d", ErrInvalid, c.Publish.MemoryLimit)
	}
	return nil
}

// SlogLevel parses the configured log level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, l.Level)
	}
	return level, nil
}
