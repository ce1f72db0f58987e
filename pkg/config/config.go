// Package config loads service configuration from the environment and an
// optional .env file.
//
// Nested keys map to upper-case environment variables with dots replaced by
// underscores, so server.address is read from SERVER_ADDRESS and auth.secret
// from AUTH_SECRET. Defaults come from the default struct tags.
//
// Storage settings are flat variables (CLOUDFLARE_R2_BUCKET, AWS_S3_REGION
// and so on) and are read through Config.Storage, which exposes the same
// viper instance as a storage.Source.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dmitrymomot/photostore/pkg/logger"
	"github.com/dmitrymomot/photostore/pkg/redis"
	"github.com/dmitrymomot/photostore/pkg/storage"
)

// ErrLoadFailed is returned when the env file or values cannot be read.
var ErrLoadFailed = errors.New("config: failed to load configuration")

// Config holds all configuration for the service.
type Config struct {
	// Server holds HTTP server settings.
	Server Server `mapstructure:"server"`
	// Log holds logger settings.
	Log logger.Config `mapstructure:"log"`
	// Auth holds request authentication settings.
	Auth Auth `mapstructure:"auth"`
	// Redis holds the session store connection. Empty URL keeps sessions in memory.
	Redis redis.Config `mapstructure:"redis"`

	v *viper.Viper
}

// Server configures the HTTP listener.
type Server struct {
	Address           string        `mapstructure:"address" default:":8080"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" default:"10s"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" default:"30s"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout" default:"30s"`
}

// Auth configures how presign requests are authenticated.
type Auth struct {
	// Secret verifies HS256 bearer tokens. Empty disables bearer auth.
	Secret string `mapstructure:"secret" default:""`
	// CookieName is the session cookie set by the blog's login flow.
	CookieName string `mapstructure:"cookie_name" default:"session"`
	// SessionPrefix namespaces session keys in Redis.
	SessionPrefix string `mapstructure:"session_prefix" default:"session:"`
	// SessionCacheTTL keeps Redis session lookups in memory. Zero disables it.
	SessionCacheTTL time.Duration `mapstructure:"session_cache_ttl" default:"15s"`
}

// Load reads envFile when it exists, then the process environment.
// Variables already present in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
		}
	}

	v := viper.New()
	bindValues(v, Config{}, "")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	cfg.v = v

	return &cfg, nil
}

// Storage returns the storage configuration source backed by the same
// environment as cfg.
func (c *Config) Storage() storage.Source {
	if c.v == nil {
		return storage.EnvSource{}
	}
	return viperSource{v: c.v}
}

type viperSource struct {
	v *viper.Viper
}

// Lookup implements storage.Source.
func (s viperSource) Lookup(key string) (string, bool) {
	if !s.v.IsSet(key) {
		return "", false
	}
	return s.v.GetString(key), true
}

// bindValues registers every tagged field with its default so AutomaticEnv
// picks up the matching variable on Unmarshal.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
