package redis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds connection options per spec §6's table. The zero value is
// not usable directly; use DefaultConfig to get the documented defaults.
type Config struct {
	// Host is either a hostname/IP for TCP, or a path beginning with "/"
	// to dial a Unix domain socket instead — folded in per SPEC_FULL §12,
	// not required by spec.md but free given Config.Host is already a
	// free-form string.
	Host string
	Port int
	// Timeout governs both the connect timeout and the socket write
	// deadline, per spec §6.
	Timeout time.Duration
	// DB is the logical database SELECTed after connect and replayed on
	// every reconnect.
	DB int
}

// DefaultConfig returns spec §6's documented defaults.
func DefaultConfig() Config {
	return Config{
		Host:    "localhost",
		Port:    6379,
		Timeout: 500 * time.Millisecond,
		DB:      0,
	}
}

func (c Config) isUnix() bool {
	return strings.HasPrefix(c.Host, "/")
}

func (c Config) network() string {
	if c.isUnix() {
		return "unix"
	}
	return "tcp"
}

func (c Config) address() string {
	if c.isUnix() {
		return c.Host
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) dbString() string {
	return strconv.Itoa(c.DB)
}

// LoadConfig binds REDIS_HOST, REDIS_PORT, REDIS_TIMEOUT, and REDIS_DB from
// v (environment variables and/or an optional config file already read into
// v by the caller) onto a Config seeded with DefaultConfig's values. It is
// additive sugar over constructing a Config literal — nothing in Client
// requires it.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("db", cfg.DB)
	v.SetEnvPrefix("redis")
	v.AutomaticEnv()

	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.Timeout = v.GetDuration("timeout")
	cfg.DB = v.GetInt("db")

	if cfg.Port < 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("redis: invalid port %d", cfg.Port)
	}
	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("redis: invalid timeout %s", cfg.Timeout)
	}
	if cfg.DB < 0 {
		return Config{}, fmt.Errorf("redis: invalid db %d", cfg.DB)
	}
	return cfg, nil
}
