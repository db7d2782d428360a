// Package config reads process configuration from the environment.
//
// A .env file in the working directory is loaded first when present, so
// local runs do not need exported variables. Real environment variables win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	pstrings "hospital/pkg/platform/strings"
)

// Config is the full process configuration.
type Config struct {
	Server   Server
	Auth     AuthConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Log      LogConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	// AdminWriteRate bounds permission mutations per administrator per second.
	AdminWriteRate  float64
	AdminWriteBurst int
}

// AuthConfig configures bearer token validation.
type AuthConfig struct {
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
}

// DatabaseConfig selects the override and audit backends. An empty URL keeps
// everything in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrateOnStart  bool
}

// RedisConfig configures the shared override cache. Without a URL only the
// in-memory stores are cached, in process.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
	LocalSize    int
}

// KafkaConfig configures the audit stream. No brokers disables streaming.
type KafkaConfig struct {
	Brokers           []string
	AuditTopic        string
	Partitions        int32
	ReplicationFactor int16
	// BreakerThreshold consecutive publish failures pause streaming for
	// BreakerCooldown.
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// IsDevelopment reports whether the process runs with development defaults.
func (s Server) IsDevelopment() bool {
	return s.Environment == "" || s.Environment == "development"
}

// FromEnv builds the configuration from environment variables so main stays lean.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	p := &parser{}
	cfg := Config{
		Server: Server{
			Addr:            getenv("HOSPITAL_ADDR", ":8080"),
			Environment:     getenv("APP_ENV", "development"),
			RequestTimeout:  p.duration("HTTP_REQUEST_TIMEOUT", 15*time.Second),
			ShutdownTimeout: p.duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			AdminWriteRate:  p.float("ADMIN_WRITE_RATE", 5),
			AdminWriteBurst: p.int("ADMIN_WRITE_BURST", 10),
		},
		Auth: AuthConfig{
			JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
			JWTIssuer:     getenv("JWT_ISSUER", "hospital-auth"),
			JWTAudience:   getenv("JWT_AUDIENCE", "hospital-api"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    p.int("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    p.int("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: p.duration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			MigrateOnStart:  p.bool("DATABASE_MIGRATE", true),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     p.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.int("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     p.duration("OVERRIDE_CACHE_TTL", 5*time.Minute),
			LocalSize:    p.int("OVERRIDE_CACHE_LOCAL_SIZE", 1024),
		},
		Kafka: KafkaConfig{
			Brokers:           pstrings.SplitList(os.Getenv("KAFKA_BROKERS"), pstrings.Trim),
			AuditTopic:        getenv("KAFKA_AUDIT_TOPIC", "hospital.permission-audit"),
			Partitions:        int32(p.int("KAFKA_AUDIT_PARTITIONS", 3)),
			ReplicationFactor: int16(p.int("KAFKA_AUDIT_REPLICATION", 1)),
			BreakerThreshold:  p.int("KAFKA_AUDIT_BREAKER_THRESHOLD", 5),
			BreakerCooldown:   p.duration("KAFKA_AUDIT_BREAKER_COOLDOWN", time.Minute),
		},
		Log: LogConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "json"),
		},
	}
	if p.err != nil {
		return Config{}, p.err
	}

	if cfg.Auth.JWTSigningKey == "" {
		if !cfg.Server.IsDevelopment() {
			return Config{}, fmt.Errorf("JWT_SIGNING_KEY is required outside development")
		}
		cfg.Auth.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// parser records the first malformed variable.
type parser struct {
	err error
}

func (p *parser) fail(key, raw string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
}

func (p *parser) int(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *parser) float(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *parser) bool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}
