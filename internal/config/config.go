package config

import "time"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Pool      PoolConfig      `yaml:"pool"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Providers ProvidersConfig `yaml:"providers"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	APIKeys          []string      `yaml:"api_keys"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// PoolConfig sizes the single HTTP connection pool shared by every provider.
// The limits are global, not per provider.
type PoolConfig struct {
	MaxConnections  int           `yaml:"max_connections"`
	MaxKeepAlive    int           `yaml:"max_keepalive"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
	DialTimeout     time.Duration `yaml:"dial_timeout"`
}

type TelemetryConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsPort int    `yaml:"metrics_port"`
}

type RateLimitConfig struct {
	Enabled           bool   `yaml:"enabled"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	RedisAddr         string `yaml:"redis_addr"`
	RedisPassword     string `yaml:"redis_password"`
	RedisDB           int    `yaml:"redis_db"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			ReadTimeout: 30 * time.Second,
			// Streams can outlive any fixed write deadline; they are bounded by
			// the per-provider timeouts instead.
			WriteTimeout:     0,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 30 * time.Second,
		},
		Pool: PoolConfig{
			MaxConnections:  200,
			MaxKeepAlive:    100,
			IdleConnTimeout: 90 * time.Second,
			DialTimeout:     10 * time.Second,
		},
		Telemetry: TelemetryConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			MetricsPort: 9090,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
	}
}
