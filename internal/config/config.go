// Package config loads railroute settings from a TOML file, a .env file and
// RAILROUTE_* environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/matzehuels/railroute/pkg/errors"
)

const appName = "railroute"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the merged configuration.
type Config struct {
	Timetable Timetable `toml:"timetable"`
	Cache     Cache     `toml:"cache"`
	Server    Server    `toml:"server"`
	Log       Log       `toml:"log"`
}

// Timetable says where stations and trips come from.
type Timetable struct {
	Stations string `toml:"stations"`
	Trips    string `toml:"trips"`
	DSN      string `toml:"dsn"`
}

// Cache selects the precompute cache backend.
type Cache struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	TTL           time.Duration `toml:"ttl"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	Prefix        string        `toml:"prefix"`
}

// Server configures `railroute serve`.
type Server struct {
	Listen          string        `toml:"listen"`
	MetricsAddr     string        `toml:"metrics_addr"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Timetable: Timetable{
			Stations: "stations.dat",
			Trips:    "trains.dat",
		},
		Cache: Cache{
			Backend: CacheFile,
			TTL:     7 * 24 * time.Hour,
			Prefix:  appName + ":",
		},
		Server: Server{
			Listen:          ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: Log{Level: "info"},
	}
}

// Load builds the configuration. An explicit path must exist; with an empty
// path the default location is read if present. A .env file in the working
// directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
			}
			if explicit {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/railroute/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/railroute, falling back to
// ~/.cache.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func (c *Config) applyEnv() error {
	setString(&c.Timetable.Stations, "RAILROUTE_STATIONS")
	setString(&c.Timetable.Trips, "RAILROUTE_TRIPS")
	if dsn := firstNonEmpty(os.Getenv("RAILROUTE_DSN"), os.Getenv("DATABASE_URL")); dsn != "" {
		c.Timetable.DSN = dsn
	}

	setString(&c.Cache.Backend, "RAILROUTE_CACHE")
	setString(&c.Cache.Dir, "RAILROUTE_CACHE_DIR")
	setString(&c.Cache.RedisAddr, "RAILROUTE_REDIS_ADDR")
	setString(&c.Cache.RedisPassword, "RAILROUTE_REDIS_PASSWORD")
	setString(&c.Cache.Prefix, "RAILROUTE_CACHE_PREFIX")
	if v := os.Getenv("RAILROUTE_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid RAILROUTE_REDIS_DB: %q", v)
		}
		c.Cache.RedisDB = n
	}
	if err := setDuration(&c.Cache.TTL, "RAILROUTE_CACHE_TTL"); err != nil {
		return err
	}

	setString(&c.Server.Listen, "RAILROUTE_LISTEN")
	setString(&c.Server.MetricsAddr, "RAILROUTE_METRICS_ADDR")
	if err := setDuration(&c.Server.ShutdownTimeout, "RAILROUTE_SHUTDOWN_TIMEOUT"); err != nil {
		return err
	}

	setString(&c.Log.Level, "RAILROUTE_LOG_LEVEL")
	return nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "shutdown_timeout must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log level %q", c.Log.Level)
	}
	if c.Timetable.DSN == "" && (c.Timetable.Stations == "" || c.Timetable.Trips == "") {
		return errors.New(errors.ErrCodeInvalidConfig, "timetable needs stations and trips files or a dsn")
	}
	return nil
}

// LogLevel returns the parsed log level. Validate guarantees it parses.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// String renders the configuration as TOML with secrets masked.
func (c Config) String() string {
	if c.Cache.RedisPassword != "" {
		c.Cache.RedisPassword = "****"
	}
	if c.Timetable.DSN != "" {
		c.Timetable.DSN = maskDSN(c.Timetable.DSN)
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}

func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if user, _, ok := strings.Cut(creds, ":"); ok {
		return dsn[:scheme+3] + user + ":****" + dsn[at:]
	}
	return dsn
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s: %q", key, v)
	}
	*dst = d
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
