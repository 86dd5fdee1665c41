package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr     string
	RedisDB       int
	RedisPoolSize int

	IdempTTLSecs int

	LogLevel    string
	LogFormat   string
	DBLogLevel  string
	AutoMigrate bool

	IngestWorkers int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func Load() *Config {
	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "credit"),
		MySQLUser: getenv("MYSQL_USER", "credit"),
		MySQLPass: getenv("MYSQL_PASS", "credit"),

		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:       getenvInt("REDIS_DB", 0),
		RedisPoolSize: getenvInt("REDIS_POOL_SIZE", 10),
		IdempTTLSecs:  getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "text"),
		DBLogLevel:  getenv("DB_LOG_LEVEL", "warn"),
		AutoMigrate: getenvBool("AUTO_MIGRATE", true),

		IngestWorkers: getenvInt("INGEST_WORKERS", 4),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	if c.RedisPoolSize < 1 {
		return fmt.Errorf("invalid REDIS_POOL_SIZE %d", c.RedisPoolSize)
	}
	if c.IngestWorkers < 1 {
		return fmt.Errorf("invalid INGEST_WORKERS %d", c.IngestWorkers)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q (text|json)", c.LogFormat)
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime+loc keep DATE columns as UTC midnights
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
