package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN returns the driver-specific data source name.
func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == DriverSQLite {
		if d.Path == "" {
			return "file::memory:?cache=shared"
		}
		return d.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// DeliveryConfig bounds server-side fan-out and mark-read work.
type DeliveryConfig struct {
	BatchSize      int `mapstructure:"batch_size"`
	MaxMarkReadIDs int `mapstructure:"max_mark_read_ids"`

	// ProducerRateLimit caps create requests per user per minute. Needs Redis.
	ProducerRateLimit int `mapstructure:"producer_rate_limit"`
	// MaxStreamConnsPerUser bounds concurrent realtime streams per user.
	MaxStreamConnsPerUser int `mapstructure:"max_stream_conns_per_user"`
}

// PollerConfig configures the client poller used by the watch command.
type PollerConfig struct {
	ServerURL       string        `mapstructure:"server_url"`
	Interval        time.Duration `mapstructure:"interval"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	MaxAckRetries   int           `mapstructure:"max_ack_retries"`
	AckRetryBackoff time.Duration `mapstructure:"ack_retry_backoff"`
}
