package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Tickets   TicketsConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	URL           string
	MaxOpenConns  int
	MaxIdleConns  int
	MaxLifetime   time.Duration
	AutoMigrate   bool
	MigrationsDir string
}

type AuthConfig struct {
	Secret    string
	Algorithm string
	CacheTTL  time.Duration
	// TokenTTL is the lifetime of tokens issued at register and login.
	TokenTTL time.Duration
}

type CORSConfig struct {
	Origins []string
}

// RedisConfig is optional; an empty Addr disables the claims cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig is optional; no brokers means domain events are only logged.
type KafkaConfig struct {
	Brokers     []string
	TopicPrefix string
}

type TicketsConfig struct {
	QRSecret string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type LogConfig struct {
	Dir   string
	Level string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", ":8000")
	v.SetDefault("DATABASE_URL", "sqlite://event_platform.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("DB_MAX_LIFETIME_MINUTES", 5)
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("MIGRATIONS_DIR", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("AUTH_CACHE_TTL_SECONDS", 300)
	v.SetDefault("JWT_EXPIRATION_MINUTES", 1440)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC_PREFIX", "eventplatform")
	v.SetDefault("QR_SECRET_KEY", "")
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads .env (when present) and the process environment once at startup.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         normalizePort(v.GetString("PORT")),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			URL:           v.GetString("DATABASE_URL"),
			MaxOpenConns:  v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:  v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxLifetime:   time.Duration(v.GetInt("DB_MAX_LIFETIME_MINUTES")) * time.Minute,
			AutoMigrate:   v.GetBool("AUTO_MIGRATE"),
			MigrationsDir: v.GetString("MIGRATIONS_DIR"),
		},
		Auth: AuthConfig{
			Secret:    v.GetString("JWT_SECRET"),
			Algorithm: strings.ToUpper(v.GetString("JWT_ALGORITHM")),
			CacheTTL:  time.Duration(v.GetInt("AUTH_CACHE_TTL_SECONDS")) * time.Second,
			TokenTTL:  time.Duration(v.GetInt("JWT_EXPIRATION_MINUTES")) * time.Minute,
		},
		CORS: CORSConfig{
			Origins: splitList(v.GetString("CORS_ORIGINS")),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			TopicPrefix: v.GetString("KAFKA_TOPIC_PREFIX"),
		},
		Tickets: TicketsConfig{
			QRSecret: v.GetString("QR_SECRET_KEY"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Log: LogConfig{
			Dir:   v.GetString("LOG_DIR"),
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	// The QR signing key falls back to the JWT secret so a single secret is enough locally.
	if cfg.Tickets.QRSecret == "" {
		cfg.Tickets.QRSecret = cfg.Auth.Secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("JWT_ALGORITHM %q is not an HMAC algorithm", c.Auth.Algorithm)
	}
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL must be set")
	}
	if c.RateLimit.RPS < 0 {
		return errors.New("RATE_LIMIT_RPS must not be negative")
	}
	return nil
}

func splitList(raw string) []string {
	raw = strings.Trim(strings.TrimSpace(raw), "[]")
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizePort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
