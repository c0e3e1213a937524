package pg

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

// Config holds the connection settings of the PostgreSQL database.
type Config struct {
	Host     string `yaml:"host"     validate:"required"`
	Port     int    `yaml:"port"     validate:"required"                    default:"5432"`
	User     string `yaml:"user"     validate:"required"`
	Password string `yaml:"password" validate:"required"                    mask:"true"`
	Database string `yaml:"database" validate:"required"`
	SSLMode  string `yaml:"sslmode"  validate:"oneof=disable allow prefer require verify-ca verify-full" default:"disable"`

	// SearchPath is the schema the repositories write to.
	SearchPath     string        `yaml:"search_path"     default:"public"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" default:"10s"`

	Pool PoolConfig `yaml:"pool"`

	// LogQueries logs every query at debug level. Failed and slow queries are logged regardless.
	LogQueries bool `yaml:"log_queries" default:"false"`
	// SlowQueryThreshold marks queries slower than this as slow. Zero disables the check.
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold" default:"200ms"`
}

// PoolConfig sizes the pgx connection pool.
type PoolConfig struct {
	MaxConns        int32         `yaml:"max_conns"          default:"8"  validate:"gte=1"`
	MinConns        int32         `yaml:"min_conns"          default:"1"  validate:"gte=0,ltefield=MaxConns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" default:"30m"`
}

// URL returns the connection string in URL form.
func (c Config) URL() string {
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	if c.SearchPath != "" {
		q.Set("search_path", c.SearchPath)
	}
	if c.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds())))
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}
